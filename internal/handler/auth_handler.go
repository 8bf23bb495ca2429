package handler

import (
	"errors"
	"net/http"

	"betaware/internal/middleware"
	"betaware/internal/model"
	"betaware/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
	log     *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{service: s, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	user, tok, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) || errors.Is(err, service.ErrDuplicateUsername) {
			respondError(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		h.log.Error("registration failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to register user", nil)
		return
	}

	respondData(c, http.StatusCreated, "User registered successfully", gin.H{
		"user":  user,
		"token": tok,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	user, tok, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, service.ErrInvalidCredentials.Error(), nil)
			return
		}
		h.log.Error("login failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to login", nil)
		return
	}

	respondData(c, http.StatusOK, "Login successful", gin.H{
		"user":  user,
		"token": tok,
	})
}

// ListUsers returns every registered account, without password hashes.
// Route is admin-guarded; the service enforces the role again.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	users, err := h.service.ListUsers(c.Request.Context(), claims)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			respondError(c, http.StatusForbidden, err.Error(), nil)
			return
		}
		h.log.Error("listing users failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to retrieve users", nil)
		return
	}

	respondList(c, users, len(users), nil)
}

// RegisterAuthRoutes registers auth and user routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	usersGroup := rg.Group("/users")
	usersGroup.Use(authMW)
	usersGroup.Use(adminMW)
	{
		usersGroup.GET("", h.ListUsers)
	}
}
