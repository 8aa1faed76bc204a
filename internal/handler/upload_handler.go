package handler

import (
	"errors"
	"net/http"

	"github.com/ahmedhrayyan/phonebook-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UploadHandler stores avatar images and serves them back
type UploadHandler struct {
	responder
	service service.UploadService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(s service.UploadService, log logrus.FieldLogger) *UploadHandler {
	return &UploadHandler{responder: responder{log: log}, service: s}
}

// Upload stores the "file" part of a multipart form for userID.
func (h *UploadHandler) Upload(c *gin.Context, userID int) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
		case emptyFilePart(c.Request):
			err = service.ErrNoSelectedFile
		default:
			err = service.ErrNoFile
		}
		h.respondError(c, err)
		return
	}
	if fileHeader.Filename == "" {
		h.respondError(c, service.ErrNoSelectedFile)
		return
	}

	name, err := h.service.Upload(c.Request.Context(), userID, fileHeader)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": name})
}

// emptyFilePart reports whether the form carried a "file" part without a
// filename. multipart parses such a part as a plain value.
func emptyFilePart(r *http.Request) bool {
	return r.MultipartForm != nil && len(r.MultipartForm.Value["file"]) > 0
}

// Serve streams a stored file. No authentication: stored uploads are public.
func (h *UploadHandler) Serve(c *gin.Context) {
	rc, contentType, err := h.service.Open(c.Request.Context(), c.Param("filename"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}

// RegisterUploadRoutes registers POST /upload on api and GET /uploads/:filename on public.
func (h *UploadHandler) RegisterUploadRoutes(api *gin.RouterGroup, public gin.IRoutes, authMW, limitMW gin.HandlerFunc) {
	api.POST("/upload", authMW, limitMW, withUser(h.Upload))
	public.GET("/uploads/:filename", h.Serve)
}
