package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pawshelf/service-petphoto/internal/application"
	"github.com/pawshelf/service-petphoto/internal/response"
)

// AdminPetHandler exposes the maintenance listing of all pet records,
// including archived ones and their photo references.
type AdminPetHandler struct {
	service *application.PetService
}

// NewAdminPetHandler creates a new AdminPetHandler.
func NewAdminPetHandler(service *application.PetService) *AdminPetHandler {
	return &AdminPetHandler{service: service}
}

// RegisterRoutes registers the admin routes.
func (h *AdminPetHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/api/v1/admin")
	{
		admin.GET("/pets", h.ListPets)
	}
}

// ListPets handles GET /api/v1/admin/pets.
func (h *AdminPetHandler) ListPets(c *gin.Context) {
	result, err := h.service.GetAllPets(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
