package handler

import (
	"net/http"

	"github.com/ahmedhrayyan/phonebook-backend/internal/model"
	"github.com/ahmedhrayyan/phonebook-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ContactHandler handles contact related requests
type ContactHandler struct {
	responder
	service service.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(s service.ContactService, log logrus.FieldLogger) *ContactHandler {
	return &ContactHandler{responder: responder{log: log}, service: s}
}

func (h *ContactHandler) List(c *gin.Context, userID int) {
	contacts, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": contacts})
}

func (h *ContactHandler) Create(c *gin.Context, userID int) {
	var req model.CreateContactRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	contact, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": contact})
}

func (h *ContactHandler) Update(c *gin.Context, userID int) {
	contactID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateContactRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	changes, err := h.service.Update(c.Request.Context(), contactID, userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": changes})
}

func (h *ContactHandler) Delete(c *gin.Context, userID int) {
	contactID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), contactID, userID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted_id": contactID})
}

// RegisterContactRoutes registers contact routes
func (h *ContactHandler) RegisterContactRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	contacts := rg.Group("/contacts", authMW)
	{
		contacts.GET("", withUser(h.List))
		contacts.POST("", withUser(h.Create))
		contacts.PATCH("/:id", withUser(h.Update))
		contacts.DELETE("/:id", withUser(h.Delete))
	}
}
