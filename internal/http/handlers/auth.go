package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/keywordiq-backend/internal/http/response"
	"github.com/yungbote/keywordiq-backend/internal/modules/auth"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type AuthHandler struct {
	log         *logger.Logger
	authService auth.AuthService
}

func NewAuthHandler(log *logger.Logger, authService auth.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

// POST /api/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	u, err := ah.authService.Register(c.Request.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	response.RespondStatus(c, http.StatusCreated, gin.H{"user": u})
}

// POST /api/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tok, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"access_token": tok.AccessToken,
		"expires_in":   tok.ExpiresIn,
	})
}
