package handler

import (
	"net/http"

	"github.com/ahmedhrayyan/phonebook-backend/internal/model"
	"github.com/ahmedhrayyan/phonebook-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	responder
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{responder: responder{log: log}, service: s}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	_, token, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	_, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// RegisterAuthRoutes registers auth routes behind the given middlewares (rate limiting).
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	authGroup := rg.Group("", mw...)
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}
