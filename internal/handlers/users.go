package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bizboost/api/internal/middleware"
	"bizboost/api/internal/models"
	"bizboost/api/internal/repository"
)

type userResponse struct {
	ID         string   `json:"id"`
	Role       string   `json:"role"`
	Username   *string  `json:"username,omitempty"`
	Email      *string  `json:"email,omitempty"`
	Name       string   `json:"name"`
	AvatarURL  *string  `json:"avatarUrl,omitempty"`
	Favourites []string `json:"favourites"`
}

// GenerateGuest creates an anonymous time-boxed account and hands back its
// session token.
func (h HandlerSet) GenerateGuest(c *gin.Context) {
	user, err := h.authService.CreateGuest(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": *user.Token,
		"role":  user.Role,
		"id":    user.ID,
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), user); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session ended"})
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	favourites, err := h.userFavourites(c, user)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, userResponse{
		ID:         user.ID,
		Role:       string(user.Role),
		Username:   user.Username,
		Email:      user.Email,
		Name:       user.Name,
		AvatarURL:  user.AvatarURL,
		Favourites: favourites,
	})
}

// MyFavourites returns the caller's favourited business ids. Guests always
// see an empty list.
func (h HandlerSet) MyFavourites(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	favourites, err := h.userFavourites(c, user)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"favourites": favourites})
}

// GetUser returns another user's public profile. The email is only included
// when the viewer is looking at themselves.
func (h HandlerSet) GetUser(c *gin.Context) {
	viewer, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	target, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.respondError(c, err)
		return
	}

	favourites, err := h.userFavourites(c, target)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := userResponse{
		ID:         target.ID,
		Role:       string(target.Role),
		Name:       target.Name,
		AvatarURL:  target.AvatarURL,
		Favourites: favourites,
	}
	if viewer.ID == target.ID {
		resp.Email = target.Email
		resp.Username = target.Username
	}

	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) userFavourites(c *gin.Context, user models.User) ([]string, error) {
	if user.Role == models.UserRoleGuest {
		return []string{}, nil
	}
	return h.favourites.ListByUser(c.Request.Context(), user.ID)
}
