//go:build integration

package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawshelf/service-petphoto/internal/application"
	photoEvents "github.com/pawshelf/service-petphoto/internal/events"
	"github.com/pawshelf/service-petphoto/internal/repository"
	"github.com/pawshelf/service-petphoto/internal/storage"
)

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x01}

// TestUploadPetPhoto_EndToEnd verifies that uploading a photo stores the file,
// records the reference on the pet row, and publishes a PhotoUploadedEvent.
func TestUploadPetPhoto_EndToEnd(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupPhotoStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	petID := uuid.New()
	ownerID := uuid.New()
	seedActivePet(t, infra.DB, petID, ownerID)

	result, err := stack.Service.UploadPetPhoto(context.Background(), petID, application.PhotoUpload{
		Content:     bytes.NewReader(pngBytes),
		Size:        int64(len(pngBytes)),
		FileName:    "cat.png",
		ContentType: "image/png",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.FileName)

	// Assert: pet row references the stored file.
	var model repository.PetModel
	require.NoError(t, infra.DB.Where("id = ?", petID).First(&model).Error)
	assert.Equal(t, result.FileName, model.PhotoFile)
	assert.Greater(t, model.Version, int64(1), "version should bump on update")

	// Assert: file is readable from the store.
	photo, err := stack.Store.Load(result.FileName)
	require.NoError(t, err)
	defer photo.Content.Close()
	assert.Equal(t, "image/png", photo.ContentType)
	assert.Equal(t, int64(len(pngBytes)), photo.Size)

	// Assert: PhotoUploadedEvent on pet.photo.events.
	ce := consumeOneEvent(t, infra.KafkaBrokers, photoEvents.TopicPetPhotoEvents,
		photoEvents.PhotoUploaded, 15*time.Second)

	var uploaded photoEvents.PhotoUploadedEvent
	require.NoError(t, ce.ParseData(&uploaded))
	assert.Equal(t, petID, uploaded.PetID)
	assert.Equal(t, ownerID, uploaded.OwnerID)
	assert.Equal(t, result.FileName, uploaded.FileName)
	assert.Equal(t, "image/png", uploaded.ContentType)
}

// TestOwnerDeleted_ArchivesPetsAndRemovesPhotos verifies that when an
// OwnerDeletedEvent is published to owner.events, the consumer archives the
// owner's pets and removes their stored photos.
func TestOwnerDeleted_ArchivesPetsAndRemovesPhotos(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupPhotoStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	petID := uuid.New()
	ownerID := uuid.New()
	seedActivePet(t, infra.DB, petID, ownerID)

	// Give the pet a photo so cleanup has a file to remove.
	result, err := stack.Service.UploadPetPhoto(context.Background(), petID, application.PhotoUpload{
		Content:     bytes.NewReader(pngBytes),
		Size:        int64(len(pngBytes)),
		FileName:    "cat.png",
		ContentType: "image/png",
	})
	require.NoError(t, err)

	// Start the consumer.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	// Publish OwnerDeletedEvent.
	evt := photoEvents.OwnerDeletedEvent{
		OwnerID:    ownerID,
		OccurredAt: time.Now().UTC(),
	}
	publishTestEvent(t, infra.KafkaBrokers, photoEvents.TopicOwnerEvents,
		"service-owner", photoEvents.OwnerDeleted, evt)

	// Assert: pet transitions to "archived" with its photo reference cleared.
	model := waitForPetStatus(t, infra.DB, petID, "archived", 15*time.Second)
	assert.Empty(t, model.PhotoFile, "photo_file should be cleared")

	// Assert: the stored file is gone.
	_, err = stack.Store.Load(result.FileName)
	assert.True(t, errors.Is(err, storage.ErrNotFound), "expected stored file to be removed, got %v", err)
}
