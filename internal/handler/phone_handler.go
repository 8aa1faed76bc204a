package handler

import (
	"net/http"

	"github.com/ahmedhrayyan/phonebook-backend/internal/model"
	"github.com/ahmedhrayyan/phonebook-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PhoneHandler handles phone related requests
type PhoneHandler struct {
	responder
	service service.PhoneService
}

// NewPhoneHandler creates a new PhoneHandler
func NewPhoneHandler(s service.PhoneService, log logrus.FieldLogger) *PhoneHandler {
	return &PhoneHandler{responder: responder{log: log}, service: s}
}

func (h *PhoneHandler) Create(c *gin.Context, userID int) {
	var req model.CreatePhoneRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	phone, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": phone})
}

func (h *PhoneHandler) Update(c *gin.Context, userID int) {
	phoneID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req model.UpdatePhoneRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	changes, err := h.service.Update(c.Request.Context(), phoneID, userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": changes})
}

func (h *PhoneHandler) Delete(c *gin.Context, userID int) {
	phoneID, ok := pathID(c, "id")
	if !ok {
		return
	}

	contactID, err := h.service.Delete(c.Request.Context(), phoneID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted_id": phoneID, "contact_id": contactID})
}

// RegisterPhoneRoutes registers phone routes
func (h *PhoneHandler) RegisterPhoneRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	phones := rg.Group("/phones", authMW)
	{
		phones.POST("", withUser(h.Create))
		phones.PATCH("/:id", withUser(h.Update))
		phones.DELETE("/:id", withUser(h.Delete))
	}
}
