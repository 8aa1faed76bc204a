package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ahmedhrayyan/phonebook-backend/internal/middleware"
	"github.com/ahmedhrayyan/phonebook-backend/internal/service"
	"github.com/ahmedhrayyan/phonebook-backend/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"
)

const (
	msgUnexpected    = "Something went wrong."
	msgNotFound      = "The requested URL was not found on the server."
	msgNotAllowed    = "The method is not allowed for the requested URL."
	msgUnauthorized  = "Authorization header is expected."
	msgTooLarge      = "File is too large."
	msgDuplicateUsed = "Email is already in use."
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Message string            `json:"message"`
	Errors  validation.Errors `json:"errors,omitempty"`
}

type errorMapping struct {
	target  error
	status  int
	message string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{service.ErrContactNotFound, http.StatusNotFound, "Contact not found."},
	{service.ErrPhoneNotFound, http.StatusNotFound, "Phone not found."},
	{service.ErrFileNotFound, http.StatusNotFound, "File not found."},
	{service.ErrForbidden, http.StatusForbidden, "You do not have permission to access this resource."},
	{service.ErrInvalidCredentials, http.StatusUnprocessableEntity, "Email or password is not correct."},
	{service.ErrNoFile, http.StatusBadRequest, "No file found."},
	{service.ErrNoSelectedFile, http.StatusBadRequest, "No selected file."},
	{service.ErrExtensionNotAllowed, http.StatusUnprocessableEntity, "File extension is not allowed."},
	{service.ErrFakeFileContent, http.StatusUnprocessableEntity, "Fake data was uploaded."},
}

// responder writes error bodies and logs unexpected failures.
type responder struct {
	log logrus.FieldLogger
}

func (r responder) respondError(c *gin.Context, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Message: validation.Message, Errors: verr.Fields})
		return
	}

	if errors.Is(err, service.ErrDuplicateEmail) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorResponse{
			Message: validation.Message,
			Errors:  validation.Errors{"email": {msgDuplicateUsed}},
		})
		return
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorResponse{
			Message: fmt.Sprintf("%s Maximum size is %d bytes.", msgTooLarge, maxErr.Limit),
		})
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			c.AbortWithStatusJSON(m.status, errorResponse{Message: m.message})
			return
		}
	}

	r.log.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Error("unexpected error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Message: msgUnexpected})
}

// bindJSON decodes and validates the body. An empty body is validated as {}.
func bindJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err == nil {
		return nil
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return err
	}
	return validation.FromBinding(err)
}

// pathID parses a positive integer path parameter. Anything else is a 404,
// the same as a route that does not exist.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Message: msgNotFound})
		return 0, false
	}
	return id, true
}

// withUser hands the authenticated user id to fn as an argument.
func withUser(fn func(c *gin.Context, userID int)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.AuthUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: msgUnauthorized})
			return
		}
		fn(c, userID)
	}
}

// RegisterFallbacks answers unknown routes and wrong methods with JSON bodies.
func RegisterFallbacks(r *gin.Engine) {
	r.HandleMethodNotAllowed = true
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Message: msgNotFound})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errorResponse{Message: msgNotAllowed})
	})
}
