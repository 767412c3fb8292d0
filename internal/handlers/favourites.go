package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bizboost/api/internal/middleware"
	"bizboost/api/internal/models"
)

// FavouriteStatus reports whether the caller has favourited a business.
// Guests are not rejected here; they simply never have favourites.
func (h HandlerSet) FavouriteStatus(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if user.Role == models.UserRoleGuest {
		c.JSON(http.StatusOK, gin.H{"favourited": false})
		return
	}

	favourited, err := h.favourites.IsFavourite(c.Request.Context(), user.ID, c.Param("businessId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favourited": favourited})
}

// ToggleFavourite flips the favourite state and reports the new state.
func (h HandlerSet) ToggleFavourite(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	favourited, err := h.favourites.Toggle(c.Request.Context(), user.ID, c.Param("businessId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"favourited": favourited,
	})
}
