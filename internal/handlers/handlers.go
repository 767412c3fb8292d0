package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"bizboost/api/internal/cache"
	"bizboost/api/internal/config"
	"bizboost/api/internal/mailer"
	"bizboost/api/internal/middleware"
	"bizboost/api/internal/oauth"
	"bizboost/api/internal/repository"
	"bizboost/api/internal/service"
	"bizboost/api/internal/signup"
	"bizboost/api/internal/storage"
)

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	db          *pgxpool.Pool
	redis       *redis.Client
	authService *service.AuthService
	signups     *service.SignupService
	businesses  *service.BusinessService
	reviews     *service.ReviewService
	users       *repository.UserRepository
	favourites  *repository.FavouriteRepository
	limiter     *middleware.RateLimiter
}

func NewHandlerSet(
	log zerolog.Logger,
	db *pgxpool.Pool,
	redisClient *redis.Client,
	objectStore *storage.ObjectStore,
	mail mailer.Mailer,
	verifier oauth.Verifier,
	pending signup.PendingStore,
	cfg *config.AppConfig,
) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	favouriteRepo := repository.NewFavouriteRepository(db)

	jsonCache := cache.NewJSONCache(redisClient, "bizboost:")

	authService := service.NewAuthService(userRepo, verifier, cfg, log)
	signupService := service.NewSignupService(userRepo, pending, mail, cfg, log)
	businessService := service.NewBusinessService(businessRepo, objectStore, jsonCache, cfg, log)
	reviewService := service.NewReviewService(reviewRepo, businessRepo, businessService.InvalidateCache, log)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit.AuthLimit, cfg.RateLimit.AuthWindow, log)
	}

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		db:          db,
		redis:       redisClient,
		authService: authService,
		signups:     signupService,
		businesses:  businessService,
		reviews:     reviewService,
		users:       userRepo,
		favourites:  favouriteRepo,
		limiter:     limiter,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	authed := middleware.Auth(h.authService, h.log)
	memberOnly := middleware.RequireMember()

	auth := router.Group("/auth")
	if h.limiter != nil {
		auth.Use(h.limiter.Limit())
	}
	auth.POST("/google", h.GoogleLogin)
	auth.POST("/login", h.Login)
	auth.POST("/signup/start", h.SignupStart)
	auth.POST("/signup/verify", h.SignupVerify)

	users := router.Group("/users")
	users.POST("/generate", h.GenerateGuest)
	users.POST("/logout", authed, h.Logout)
	users.GET("/me", authed, h.Me)
	users.GET("/favourites", authed, h.MyFavourites)
	users.GET("/:id", authed, h.GetUser)

	businesses := router.Group("/businesses")
	businesses.GET("", h.ListBusinesses)
	businesses.GET("/:id", h.GetBusiness)
	businesses.POST("/:id/images", authed, memberOnly, h.UploadBusinessImage)

	router.GET("/categories", h.ListCategories)

	favourites := router.Group("/favourites", authed)
	favourites.GET("/:businessId", h.FavouriteStatus)
	favourites.POST("/:businessId", memberOnly, h.ToggleFavourite)

	reviews := router.Group("/reviews")
	reviews.GET("/:businessId", h.ListReviews)
	reviews.POST("/:businessId", authed, memberOnly, h.PostReview)
}
