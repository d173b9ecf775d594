package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerrors "taskbridge.backend/internal/domain/errors"
	"taskbridge.backend/internal/interfaces/http/middleware"
	"taskbridge.backend/internal/interfaces/http/response"
	"taskbridge.backend/internal/usecases"
)

// MaxUploadSize caps a single attachment at 10 MiB
const MaxUploadSize = 10 << 20

// FileHandler handles task attachment endpoints
type FileHandler struct {
	fileUsecase *usecases.FileUsecase
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileUsecase *usecases.FileUsecase) *FileHandler {
	return &FileHandler{fileUsecase: fileUsecase}
}

// Upload stores a multipart attachment against a task
// POST /api/v1/tasks/:id/files
func (h *FileHandler) Upload(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid task ID"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, domainerrors.BadRequest("File is required"))
		return
	}
	if fileHeader.Size > MaxUploadSize {
		response.Error(c, domainerrors.BadRequest("File exceeds the 10MB limit"))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(data) > MaxUploadSize {
		response.Error(c, domainerrors.BadRequest("File exceeds the 10MB limit"))
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	info, err := h.fileUsecase.Upload(c.Request.Context(), caller, taskID, fileHeader.Filename, mimeType, data)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"file": info})
}

// List returns attachment metadata for a task
// GET /api/v1/tasks/:id/files
func (h *FileHandler) List(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid task ID"))
		return
	}

	files, err := h.fileUsecase.List(c.Request.Context(), caller, taskID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"files": files})
}

// Download streams an attachment's bytes
// GET /api/v1/tasks/:id/files/:fileId/download
func (h *FileHandler) Download(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid task ID"))
		return
	}

	fileID, err := uuid.Parse(c.Param("fileId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid file ID"))
		return
	}

	file, err := h.fileUsecase.Download(c.Request.Context(), caller, taskID, fileID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			response.Error(c, domainerrors.NotFound("File not found"))
			return
		}
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Data(http.StatusOK, file.MimeType, file.Data)
}

// SignedURL returns a download link for one attachment
// GET /api/v1/tasks/:id/files/:fileId/url
func (h *FileHandler) SignedURL(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid task ID"))
		return
	}

	fileID, err := uuid.Parse(c.Param("fileId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid file ID"))
		return
	}

	url, err := h.fileUsecase.SignedURL(c.Request.Context(), caller, taskID, fileID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			response.Error(c, domainerrors.NotFound("File not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"url": url})
}
