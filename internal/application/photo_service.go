package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawshelf/service-petphoto/internal/domain"
	petDomain "github.com/pawshelf/service-petphoto/internal/domain/pet"
	"github.com/pawshelf/service-petphoto/internal/events"
	"github.com/pawshelf/service-petphoto/internal/storage"
)

const eventSource = "service-petphoto"

// PhotoUpload carries an inbound photo file. Size is the declared
// content length from the multipart header, not a value read from the
// stream.
type PhotoUpload struct {
	Content     io.Reader
	Size        int64
	FileName    string
	ContentType string
}

// PhotoUploadResult is the API payload for a successful upload.
type PhotoUploadResult struct {
	Message  string `json:"message"`
	FileName string `json:"fileName"`
}

// PhotoDownload is an opened pet photo ready for streaming. The caller
// owns Content and must close it.
type PhotoDownload struct {
	Content     io.ReadCloser
	ContentType string
	FileName    string
	Size        int64
}

// PhotoService coordinates photo storage with the pet record layer: it
// resolves pets, guards uploads, sequences replacement cleanup, and
// writes the stored file name back onto the record.
type PhotoService struct {
	pets      petDomain.PetRepository
	store     *storage.PhotoStore
	producer  events.Publisher
	maxUpload int64
	logger    *zap.Logger
}

// NewPhotoService creates a new PhotoService. maxUploadBytes caps the
// accepted photo size; zero disables the cap.
func NewPhotoService(
	pets petDomain.PetRepository,
	store *storage.PhotoStore,
	producer events.Publisher,
	maxUploadBytes int64,
	logger *zap.Logger,
) *PhotoService {
	return &PhotoService{
		pets:      pets,
		store:     store,
		producer:  producer,
		maxUpload: maxUploadBytes,
		logger:    logger,
	}
}

// UploadPetPhoto stores a new photo for the pet and updates the record's
// photo reference. Replacing an existing photo deletes the old file
// first; that cleanup is best-effort and its failure never blocks the
// new upload.
func (s *PhotoService) UploadPetPhoto(ctx context.Context, petID uuid.UUID, upload PhotoUpload) (*PhotoUploadResult, error) {
	pet, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, domain.NewValidationError("File must be an image")
	}
	if s.maxUpload > 0 && upload.Size > s.maxUpload {
		return nil, domain.NewValidationError(
			fmt.Sprintf("File exceeds the maximum allowed size of %d bytes", s.maxUpload))
	}

	if pet.HasPhoto() {
		if err := s.store.Delete(pet.PhotoFile()); err != nil {
			s.logger.Warn("failed to delete previous photo",
				zap.String("pet_id", petID.String()),
				zap.String("file", pet.PhotoFile()),
				zap.Error(err),
			)
		}
	}

	fileName, err := s.store.Store(upload.Content, upload.Size, upload.FileName)
	if err != nil {
		return nil, mapStorageError(err)
	}

	pet.SetPhotoFile(fileName)
	if err := s.pets.Update(ctx, pet); err != nil {
		s.logger.Error("failed to persist photo reference",
			zap.String("pet_id", petID.String()),
			zap.String("file", fileName),
			zap.Error(err),
		)
		return nil, err
	}

	s.publish(ctx, events.PhotoUploaded, events.PhotoUploadedEvent{
		PetID:       petID,
		OwnerID:     pet.OwnerID(),
		FileName:    fileName,
		ContentType: upload.ContentType,
		SizeBytes:   upload.Size,
		OccurredAt:  time.Now().UTC(),
	})

	s.logger.Info("photo uploaded",
		zap.String("pet_id", petID.String()),
		zap.String("file", fileName),
	)
	return &PhotoUploadResult{Message: "Photo uploaded successfully", FileName: fileName}, nil
}

// GetPetPhoto opens the pet's current photo for streaming.
func (s *PhotoService) GetPetPhoto(ctx context.Context, petID uuid.UUID) (*PhotoDownload, error) {
	pet, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if !pet.HasPhoto() {
		return nil, &domain.AppError{Kind: domain.KindNotFound, Message: "No photo available for this pet"}
	}

	photo, err := s.store.Load(pet.PhotoFile())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidFileName) {
			return nil, &domain.AppError{Kind: domain.KindNotFound, Message: "Photo not found: " + pet.PhotoFile()}
		}
		return nil, domain.NewStorageError("failed to load photo", err)
	}

	return &PhotoDownload{
		Content:     photo.Content,
		ContentType: photo.ContentType,
		FileName:    photo.Name,
		Size:        photo.Size,
	}, nil
}

// DeletePetPhoto removes the pet's photo file and clears the record's
// reference. A pet without a photo is a successful no-op.
func (s *PhotoService) DeletePetPhoto(ctx context.Context, petID uuid.UUID) error {
	pet, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		return err
	}
	if !pet.HasPhoto() {
		return nil
	}

	fileName := pet.PhotoFile()
	if err := s.store.Delete(fileName); err != nil {
		return mapStorageError(err)
	}

	pet.ClearPhotoFile()
	if err := s.pets.Update(ctx, pet); err != nil {
		return err
	}

	s.publish(ctx, events.PhotoDeleted, events.PhotoDeletedEvent{
		PetID:      petID,
		FileName:   fileName,
		OccurredAt: time.Now().UTC(),
	})

	s.logger.Info("photo deleted",
		zap.String("pet_id", petID.String()),
		zap.String("file", fileName),
	)
	return nil
}

// CleanupOwner archives all of an owner's pets and removes their stored
// photos. Invoked from the owner-deleted event consumer.
func (s *PhotoService) CleanupOwner(ctx context.Context, ownerID uuid.UUID) error {
	pets, err := s.pets.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return err
	}

	for _, p := range pets {
		if p.HasPhoto() {
			if err := s.store.Delete(p.PhotoFile()); err != nil {
				s.logger.Warn("failed to delete photo during owner cleanup",
					zap.String("pet_id", p.ID().String()),
					zap.String("file", p.PhotoFile()),
					zap.Error(err),
				)
			}
		}
		// One mutation, one version bump: the repository update matches
		// on the previous version, so the aggregate must not advance
		// twice between persists.
		p.ArchiveAndClearPhoto()
		if err := s.pets.Update(ctx, p); err != nil {
			return fmt.Errorf("archiving pet %s: %w", p.ID(), err)
		}
	}

	s.logger.Info("owner pets cleaned up",
		zap.String("owner_id", ownerID.String()),
		zap.Int("pets", len(pets)),
	)
	return nil
}

// publish sends a photo lifecycle event. Events are advisory: failures
// are logged and deliberately discarded.
func (s *PhotoService) publish(ctx context.Context, eventType string, data any) {
	if s.producer == nil {
		return
	}
	evt, err := events.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Warn("failed to build photo event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicPetPhotoEvents, evt); err != nil {
		s.logger.Warn("failed to publish photo event", zap.String("type", eventType), zap.Error(err))
	}
}

// mapStorageError translates storage failures into typed application
// errors for the HTTP layer.
func mapStorageError(err error) error {
	var storageErr *storage.StorageError
	switch {
	case errors.Is(err, storage.ErrEmptyFile):
		return domain.NewValidationError("File is empty")
	case errors.Is(err, storage.ErrInvalidFileName):
		return domain.NewValidationError("Invalid file name")
	case errors.Is(err, storage.ErrNotFound):
		return &domain.AppError{Kind: domain.KindNotFound, Message: "Photo not found"}
	case errors.As(err, &storageErr):
		return domain.NewStorageError("photo storage failure", err)
	default:
		return err
	}
}
