package pet

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PetStatus represents the lifecycle state of a pet record.
type PetStatus string

const (
	PetStatusActive   PetStatus = "active"
	PetStatusArchived PetStatus = "archived"
)

// Pet is the aggregate root for a clinic pet record. photoFile holds the
// generated name of the pet's stored photo; the empty string means the
// pet has no photo.
type Pet struct {
	id        uuid.UUID
	ownerID   uuid.UUID
	name      string
	petType   string
	breed     string
	birthDate time.Time
	photoFile string
	status    PetStatus
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewPet creates a new active pet record with validated fields.
func NewPet(ownerID uuid.UUID, name, petType, breed string, birthDate time.Time) (*Pet, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("owner ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("pet name is required")
	}
	if petType == "" {
		return nil, fmt.Errorf("pet type is required")
	}

	now := time.Now().UTC()
	return &Pet{
		id:        uuid.New(),
		ownerID:   ownerID,
		name:      name,
		petType:   petType,
		breed:     breed,
		birthDate: birthDate,
		status:    PetStatusActive,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Pet from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	name, petType, breed string,
	birthDate time.Time,
	photoFile string,
	status PetStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Pet {
	return &Pet{
		id:        id,
		ownerID:   ownerID,
		name:      name,
		petType:   petType,
		breed:     breed,
		birthDate: birthDate,
		photoFile: photoFile,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

func (p *Pet) ID() uuid.UUID        { return p.id }
func (p *Pet) OwnerID() uuid.UUID   { return p.ownerID }
func (p *Pet) Name() string         { return p.name }
func (p *Pet) PetType() string      { return p.petType }
func (p *Pet) Breed() string        { return p.breed }
func (p *Pet) BirthDate() time.Time { return p.birthDate }
func (p *Pet) PhotoFile() string    { return p.photoFile }
func (p *Pet) Status() PetStatus    { return p.status }
func (p *Pet) Version() int64       { return p.version }
func (p *Pet) CreatedAt() time.Time { return p.createdAt }
func (p *Pet) UpdatedAt() time.Time { return p.updatedAt }

// --- Behavior ---

// HasPhoto returns true if the pet currently references a stored photo.
func (p *Pet) HasPhoto() bool {
	return p.photoFile != ""
}

// SetPhotoFile points the record at a newly stored photo file.
func (p *Pet) SetPhotoFile(fileName string) {
	p.photoFile = fileName
	p.touch()
}

// ClearPhotoFile drops the record's photo reference.
func (p *Pet) ClearPhotoFile() {
	p.photoFile = ""
	p.touch()
}

// Update applies partial updates to the pet record.
func (p *Pet) Update(name, petType, breed string, birthDate time.Time) {
	if name != "" {
		p.name = name
	}
	if petType != "" {
		p.petType = petType
	}
	if breed != "" {
		p.breed = breed
	}
	if !birthDate.IsZero() {
		p.birthDate = birthDate
	}
	p.touch()
}

// Archive marks the pet record as archived.
func (p *Pet) Archive() {
	p.status = PetStatusArchived
	p.touch()
}

// ArchiveAndClearPhoto archives the pet and drops its photo reference
// as one change, so the version advances exactly once.
func (p *Pet) ArchiveAndClearPhoto() {
	p.photoFile = ""
	p.status = PetStatusArchived
	p.touch()
}

// IsActive returns true if the pet record is active.
func (p *Pet) IsActive() bool {
	return p.status == PetStatusActive
}

func (p *Pet) touch() {
	p.version++
	p.updatedAt = time.Now().UTC()
}
