package events

import (
	"context"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// OwnerCleanupService removes an owner's pets and their stored photos.
type OwnerCleanupService interface {
	CleanupOwner(ctx context.Context, ownerID uuid.UUID) error
}

// messageReader is the subset of kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// OwnerEventConsumer listens to owner lifecycle events and cleans up
// pet records and photo files when an owner is deleted upstream.
type OwnerEventConsumer struct {
	reader  messageReader
	cleanup OwnerCleanupService
	logger  *zap.Logger
}

// NewOwnerEventConsumer creates a consumer on the owner events topic.
func NewOwnerEventConsumer(
	brokers []string,
	groupID string,
	cleanup OwnerCleanupService,
	logger *zap.Logger,
) *OwnerEventConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    TopicOwnerEvents,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &OwnerEventConsumer{
		reader:  reader,
		cleanup: cleanup,
		logger:  logger,
	}
}

// Start consumes owner events. This blocks until the context is cancelled.
func (c *OwnerEventConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}
		if err := c.handleMessage(ctx, msg); err != nil {
			c.logger.Error("dropping owner event after handler failure",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
		// Kafka commits are cumulative: committing a later offset also
		// commits every earlier one, so a failed message cannot be held
		// back for retry. Commit it and move on.
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

// Close closes the underlying Kafka reader.
func (c *OwnerEventConsumer) Close() error {
	return c.reader.Close()
}

func (c *OwnerEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	evt, err := ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from owner topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch evt.Type {
	case OwnerDeleted:
		return c.handleOwnerDeleted(ctx, evt)
	default:
		c.logger.Debug("ignoring unhandled owner event type",
			zap.String("type", evt.Type),
		)
		return nil
	}
}

func (c *OwnerEventConsumer) handleOwnerDeleted(ctx context.Context, evt *CloudEvent) error {
	var deleted OwnerDeletedEvent
	if err := evt.ParseData(&deleted); err != nil {
		c.logger.Error("failed to parse OwnerDeletedEvent data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing owner deleted event",
		zap.String("owner_id", deleted.OwnerID.String()),
	)

	if err := c.cleanup.CleanupOwner(ctx, deleted.OwnerID); err != nil {
		c.logger.Error("failed to clean up pets after owner deletion",
			zap.String("owner_id", deleted.OwnerID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
