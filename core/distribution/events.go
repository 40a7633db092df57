package distribution

import (
	"context"
	"time"

	"distrofm/db"
	"distrofm/logger"
	"distrofm/model"
)

// EventPublisher notifies listeners of distribution status transitions.
// Publishing is best-effort: the persisted record is the source of truth.
type EventPublisher interface {
	PublishStatus(ctx context.Context, releaseID, platformID int64, status model.DistributionStatus, errDetails string)
}

// redisEventPublisher publishes transitions on the shared redis channel.
type redisEventPublisher struct{}

// NewRedisEventPublisher creates a publisher on the global redis client.
func NewRedisEventPublisher() EventPublisher {
	return &redisEventPublisher{}
}

func (p *redisEventPublisher) PublishStatus(ctx context.Context, releaseID, platformID int64, status model.DistributionStatus, errDetails string) {
	event := model.StatusEvent{
		ReleaseID:  releaseID,
		PlatformID: platformID,
		Status:     status,
		Error:      errDetails,
		At:         time.Now(),
	}
	if err := db.PublishStatusEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish distribution status event",
			logger.Int64("releaseId", releaseID),
			logger.Int64("platformId", platformID),
			logger.ErrorField(err))
	}
}

// NopEventPublisher discards events; used by the CLI and tests.
type NopEventPublisher struct{}

func (NopEventPublisher) PublishStatus(context.Context, int64, int64, model.DistributionStatus, string) {
}
