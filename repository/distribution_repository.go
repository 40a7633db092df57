package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"distrofm/db"
	"distrofm/model"

	"gorm.io/gorm"
)

// DistributionRepository manages DistributionRecord rows. Status transitions
// are conditional updates at the store level so that concurrent attempts on
// the same (release, platform) pair — possibly from different service
// instances — cannot race each other into divergent states.
type DistributionRepository interface {
	GetByID(ctx context.Context, id int64) (*model.DistributionRecord, error)
	GetByReleaseAndPlatform(ctx context.Context, releaseID, platformID int64) (*model.DistributionRecord, error)
	ListByRelease(ctx context.Context, releaseID int64) ([]*model.DistributionRecord, error)
	Create(ctx context.Context, record *model.DistributionRecord) error

	// ResetToPending moves a pending or failed record back to a clean pending
	// state, clearing the previous outcome fields. Returns false when the
	// record was in another status.
	ResetToPending(ctx context.Context, id int64) (bool, error)
	// BeginProcessing transitions pending -> processing. Returns false when
	// another attempt already claimed the record.
	BeginProcessing(ctx context.Context, id int64) (bool, error)
	// MarkDistributed transitions processing -> distributed, populating the
	// platform reference and timestamp atomically with the status change.
	MarkDistributed(ctx context.Context, id int64, referenceID string, at time.Time) (bool, error)
	// MarkFailed transitions pending or processing -> failed with error details.
	MarkFailed(ctx context.Context, id int64, details string) (bool, error)
}

// gormDistributionRepository implements DistributionRepository on GORM.
type gormDistributionRepository struct {
	DB *gorm.DB
}

// NewGormDistributionRepository creates a repository on the shared GORM connection.
func NewGormDistributionRepository() DistributionRepository {
	return &gormDistributionRepository{DB: db.GormDB}
}

// NewDistributionRepositoryWithDB creates a repository on an explicit
// connection; used by tests and migrations.
func NewDistributionRepositoryWithDB(gdb *gorm.DB) DistributionRepository {
	return &gormDistributionRepository{DB: gdb}
}

func (r *gormDistributionRepository) GetByID(ctx context.Context, id int64) (*model.DistributionRecord, error) {
	var record model.DistributionRecord
	err := r.DB.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load distribution record %d: %w", id, err)
	}
	return &record, nil
}

func (r *gormDistributionRepository) GetByReleaseAndPlatform(ctx context.Context, releaseID, platformID int64) (*model.DistributionRecord, error) {
	var record model.DistributionRecord
	err := r.DB.WithContext(ctx).
		Where("release_id = ? AND platform_id = ?", releaseID, platformID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load distribution record for release %d platform %d: %w", releaseID, platformID, err)
	}
	return &record, nil
}

func (r *gormDistributionRepository) ListByRelease(ctx context.Context, releaseID int64) ([]*model.DistributionRecord, error) {
	var records []*model.DistributionRecord
	err := r.DB.WithContext(ctx).
		Where("release_id = ?", releaseID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list distribution records for release %d: %w", releaseID, err)
	}
	return records, nil
}

func (r *gormDistributionRepository) Create(ctx context.Context, record *model.DistributionRecord) error {
	if record.Status == "" {
		record.Status = model.DistributionStatusPending
	}
	if err := r.DB.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create distribution record: %w", err)
	}
	return nil
}

func (r *gormDistributionRepository) ResetToPending(ctx context.Context, id int64) (bool, error) {
	return r.transition(ctx, id,
		[]model.DistributionStatus{model.DistributionStatusPending, model.DistributionStatusFailed},
		map[string]interface{}{
			"status":                model.DistributionStatusPending,
			"platform_reference_id": nil,
			"distributed_at":        nil,
			"error_details":         nil,
		})
}

func (r *gormDistributionRepository) BeginProcessing(ctx context.Context, id int64) (bool, error) {
	return r.transition(ctx, id,
		[]model.DistributionStatus{model.DistributionStatusPending},
		map[string]interface{}{
			"status": model.DistributionStatusProcessing,
		})
}

func (r *gormDistributionRepository) MarkDistributed(ctx context.Context, id int64, referenceID string, at time.Time) (bool, error) {
	return r.transition(ctx, id,
		[]model.DistributionStatus{model.DistributionStatusProcessing},
		map[string]interface{}{
			"status":                model.DistributionStatusDistributed,
			"platform_reference_id": referenceID,
			"distributed_at":        at,
			"error_details":         nil,
		})
}

func (r *gormDistributionRepository) MarkFailed(ctx context.Context, id int64, details string) (bool, error) {
	return r.transition(ctx, id,
		[]model.DistributionStatus{model.DistributionStatusPending, model.DistributionStatusProcessing},
		map[string]interface{}{
			"status":                model.DistributionStatusFailed,
			"platform_reference_id": nil,
			"distributed_at":        nil,
			"error_details":         details,
		})
}

// transition performs a compare-and-swap update: the row is only touched when
// its current status is one of the expected values. RowsAffected tells the
// caller whether this attempt won the transition.
func (r *gormDistributionRepository) transition(ctx context.Context, id int64, from []model.DistributionStatus, updates map[string]interface{}) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&model.DistributionRecord{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("failed to transition distribution record %d: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}
