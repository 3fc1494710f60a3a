package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawshelf/service-petphoto/internal/application"
	"github.com/pawshelf/service-petphoto/internal/response"
)

// PhotoHandler handles HTTP requests for pet photo operations.
type PhotoHandler struct {
	service *application.PhotoService
}

// NewPhotoHandler creates a new PhotoHandler.
func NewPhotoHandler(service *application.PhotoService) *PhotoHandler {
	return &PhotoHandler{service: service}
}

// RegisterRoutes registers all pet photo routes.
func (h *PhotoHandler) RegisterRoutes(r *gin.RouterGroup) {
	photos := r.Group("/api/v1/pets")
	{
		photos.POST("/:id/photo", h.UploadPetPhoto)
		photos.GET("/:id/photo", h.GetPetPhoto)
		photos.DELETE("/:id/photo", h.DeletePetPhoto)
	}
}

// UploadPetPhoto handles POST /api/v1/pets/:id/photo. The photo arrives
// as a multipart form file under the "file" field.
func (h *PhotoHandler) UploadPetPhoto(c *gin.Context) {
	petID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid pet ID")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "unable to read uploaded file")
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.service.UploadPetPhoto(c.Request.Context(), petID, application.PhotoUpload{
		Content:     file,
		Size:        fileHeader.Size,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetPetPhoto handles GET /api/v1/pets/:id/photo and streams the photo
// bytes with the inferred content type.
func (h *PhotoHandler) GetPetPhoto(c *gin.Context) {
	petID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid pet ID")
		return
	}

	download, err := h.service.GetPetPhoto(c.Request.Context(), petID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer func() { _ = download.Content.Close() }()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", download.FileName),
	}
	c.DataFromReader(http.StatusOK, download.Size, download.ContentType, download.Content, extraHeaders)
}

// DeletePetPhoto handles DELETE /api/v1/pets/:id/photo.
func (h *PhotoHandler) DeletePetPhoto(c *gin.Context) {
	petID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid pet ID")
		return
	}

	if err := h.service.DeletePetPhoto(c.Request.Context(), petID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Photo deleted successfully"})
}
