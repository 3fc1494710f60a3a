package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawshelf/service-petphoto/internal/application"
	"github.com/pawshelf/service-petphoto/internal/response"
)

// PetHandler handles HTTP requests for pet record operations.
type PetHandler struct {
	service *application.PetService
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(service *application.PetService) *PetHandler {
	return &PetHandler{service: service}
}

// RegisterRoutes registers all pet record routes.
func (h *PetHandler) RegisterRoutes(r *gin.RouterGroup) {
	pets := r.Group("/api/v1/pets")
	{
		pets.POST("", h.CreatePet)
		pets.GET("", h.GetOwnerPets)
		pets.GET("/:id", h.GetPet)
		pets.PUT("/:id", h.UpdatePet)
		pets.DELETE("/:id", h.DeletePet)
	}
}

// CreatePet creates a new pet record.
func (h *PetHandler) CreatePet(c *gin.Context) {
	var req application.CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	result, err := h.service.CreatePet(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetOwnerPets returns all active pet records for the owner given in the
// owner_id query parameter.
func (h *PetHandler) GetOwnerPets(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Query("owner_id"))
	if err != nil {
		response.BadRequest(c, "invalid or missing owner_id")
		return
	}

	result, err := h.service.GetOwnerPets(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetPet returns a single pet record by ID.
func (h *PetHandler) GetPet(c *gin.Context) {
	petID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid pet ID")
		return
	}

	result, err := h.service.GetPet(c.Request.Context(), petID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdatePet updates a pet record.
func (h *PetHandler) UpdatePet(c *gin.Context) {
	petID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid pet ID")
		return
	}

	var req application.UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	result, err := h.service.UpdatePet(c.Request.Context(), petID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeletePet archives a pet record.
func (h *PetHandler) DeletePet(c *gin.Context) {
	petID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid pet ID")
		return
	}

	if err := h.service.DeletePet(c.Request.Context(), petID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "pet record archived"})
}
