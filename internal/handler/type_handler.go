package handler

import (
	"net/http"

	"github.com/ahmedhrayyan/phonebook-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TypeHandler serves the phone type reference data
type TypeHandler struct {
	responder
	service service.TypeService
}

// NewTypeHandler creates a new TypeHandler
func NewTypeHandler(s service.TypeService, log logrus.FieldLogger) *TypeHandler {
	return &TypeHandler{responder: responder{log: log}, service: s}
}

// List returns every phone type ordered by id
func (h *TypeHandler) List(c *gin.Context) {
	types, err := h.service.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": types})
}

// RegisterTypeRoutes registers the public types listing
func (h *TypeHandler) RegisterTypeRoutes(rg *gin.RouterGroup) {
	rg.GET("/types", h.List)
}
