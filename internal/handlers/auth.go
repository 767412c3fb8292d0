package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type signupStartRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) SignupStart(c *gin.Context) {
	var req signupStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username, email and password are required"})
		return
	}

	if err := h.signups.Start(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

type signupVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

func (h HandlerSet) SignupVerify(c *gin.Context) {
	var req signupVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and code are required"})
		return
	}

	_, token, err := h.signups.Verify(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

type loginRequest struct {
	Identity string `json:"identity" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identity and password are required"})
		return
	}

	_, token, err := h.authService.LoginPassword(c.Request.Context(), req.Identity, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

type googleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h HandlerSet) GoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Google login failed"})
		return
	}

	_, token, err := h.authService.LoginGoogle(c.Request.Context(), req.Token)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
