package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	petDomain "github.com/pawshelf/service-petphoto/internal/domain/pet"
)

// CreatePetRequest is the request DTO for creating a pet record.
type CreatePetRequest struct {
	OwnerID   uuid.UUID `json:"owner_id" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	PetType   string    `json:"pet_type" binding:"required"`
	Breed     string    `json:"breed"`
	BirthDate time.Time `json:"birth_date"`
}

// UpdatePetRequest is the request DTO for updating a pet record.
type UpdatePetRequest struct {
	Name      string    `json:"name"`
	PetType   string    `json:"pet_type"`
	Breed     string    `json:"breed"`
	BirthDate time.Time `json:"birth_date"`
}

// PetDTO is the API response representation of a pet record.
type PetDTO struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	PetType   string    `json:"pet_type"`
	Breed     string    `json:"breed,omitempty"`
	BirthDate time.Time `json:"birth_date"`
	PhotoFile string    `json:"photo_file,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PetService implements use cases for pet record management.
type PetService struct {
	repo   petDomain.PetRepository
	logger *zap.Logger
}

// NewPetService creates a new PetService.
func NewPetService(repo petDomain.PetRepository, logger *zap.Logger) *PetService {
	return &PetService{repo: repo, logger: logger}
}

// CreatePet creates a new pet record.
func (s *PetService) CreatePet(ctx context.Context, req CreatePetRequest) (*PetDTO, error) {
	pet, err := petDomain.NewPet(req.OwnerID, req.Name, req.PetType, req.Breed, req.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("invalid pet data: %w", err)
	}

	if err := s.repo.Save(ctx, pet); err != nil {
		s.logger.Error("failed to create pet", zap.Error(err))
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}

	s.logger.Info("pet record created",
		zap.String("pet_id", pet.ID().String()),
		zap.String("owner_id", req.OwnerID.String()),
	)
	result := toPetDTO(pet)
	return &result, nil
}

// GetPet returns a single pet record by ID.
func (s *PetService) GetPet(ctx context.Context, petID uuid.UUID) (*PetDTO, error) {
	pet, err := s.repo.FindByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	result := toPetDTO(pet)
	return &result, nil
}

// GetOwnerPets returns all active pet records for the given owner.
func (s *PetService) GetOwnerPets(ctx context.Context, ownerID uuid.UUID) ([]PetDTO, error) {
	pets, err := s.repo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pets: %w", err)
	}
	dtos := make([]PetDTO, len(pets))
	for i, p := range pets {
		dtos[i] = toPetDTO(p)
	}
	return dtos, nil
}

// GetAllPets returns every pet record, newest first.
func (s *PetService) GetAllPets(ctx context.Context) ([]PetDTO, error) {
	pets, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	dtos := make([]PetDTO, len(pets))
	for i, p := range pets {
		dtos[i] = toPetDTO(p)
	}
	return dtos, nil
}

// UpdatePet updates a pet record.
func (s *PetService) UpdatePet(ctx context.Context, petID uuid.UUID, req UpdatePetRequest) (*PetDTO, error) {
	pet, err := s.repo.FindByID(ctx, petID)
	if err != nil {
		return nil, err
	}

	pet.Update(req.Name, req.PetType, req.Breed, req.BirthDate)

	if err := s.repo.Update(ctx, pet); err != nil {
		s.logger.Error("failed to update pet", zap.Error(err))
		return nil, err
	}

	s.logger.Info("pet record updated", zap.String("pet_id", petID.String()))
	result := toPetDTO(pet)
	return &result, nil
}

// DeletePet archives a pet record.
func (s *PetService) DeletePet(ctx context.Context, petID uuid.UUID) error {
	pet, err := s.repo.FindByID(ctx, petID)
	if err != nil {
		return err
	}

	pet.Archive()
	if err := s.repo.Update(ctx, pet); err != nil {
		s.logger.Error("failed to archive pet", zap.Error(err))
		return err
	}

	s.logger.Info("pet record archived", zap.String("pet_id", petID.String()))
	return nil
}

func toPetDTO(p *petDomain.Pet) PetDTO {
	return PetDTO{
		ID:        p.ID(),
		OwnerID:   p.OwnerID(),
		Name:      p.Name(),
		PetType:   p.PetType(),
		Breed:     p.Breed(),
		BirthDate: p.BirthDate(),
		PhotoFile: p.PhotoFile(),
		Status:    string(p.Status()),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}
