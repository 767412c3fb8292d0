package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bizboost/api/internal/middleware"
	"bizboost/api/internal/service"
)

type reviewAuthor struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Role      string  `json:"role"`
}

type reviewResponse struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Body      string       `json:"body"`
	Rating    int          `json:"rating"`
	CreatedAt time.Time    `json:"createdAt"`
	User      reviewAuthor `json:"user"`
}

func (h HandlerSet) ListReviews(c *gin.Context) {
	reviews, err := h.reviews.ListByBusiness(c.Request.Context(), c.Param("businessId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]reviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		resp = append(resp, reviewResponse{
			ID:        rv.ID,
			Title:     rv.Title,
			Body:      rv.Body,
			Rating:    rv.Rating,
			CreatedAt: rv.CreatedAt,
			User: reviewAuthor{
				ID:        rv.UserID,
				Name:      rv.AuthorName,
				AvatarURL: rv.AuthorAvatarURL,
				Role:      string(rv.AuthorRole),
			},
		})
	}
	c.JSON(http.StatusOK, resp)
}

type postReviewRequest struct {
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body"`
	Rating int    `json:"rating" binding:"required"`
}

func (h HandlerSet) PostReview(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req postReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and rating are required"})
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), user, service.CreateReviewInput{
		BusinessID: c.Param("businessId"),
		Title:      req.Title,
		Body:       req.Body,
		Rating:     req.Rating,
	})
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this business"})
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reviewResponse{
		ID:        review.ID,
		Title:     review.Title,
		Body:      review.Body,
		Rating:    review.Rating,
		CreatedAt: review.CreatedAt,
		User: reviewAuthor{
			ID:        user.ID,
			Name:      user.Name,
			AvatarURL: user.AvatarURL,
			Role:      string(user.Role),
		},
	})
}
