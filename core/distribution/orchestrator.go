// Package distribution orchestrates per-platform delivery attempts for
// validated releases. Every attempt ends in a persisted DistributionRecord
// status; failures are returned as data, never as errors, so callers can
// render delivery state uniformly.
package distribution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"distrofm/logger"
	"distrofm/model"
	"distrofm/repository"
)

// Orchestrator manages DistributionRecords and drives the delivery gateway.
type Orchestrator struct {
	records   repository.DistributionRepository
	platforms repository.PlatformRepository
	releases  repository.ReleaseRepository
	tracks    repository.TrackRepository
	gateway   PlatformGateway
	events    EventPublisher
}

// NewOrchestrator wires the orchestrator. A nil events publisher disables
// status notifications.
func NewOrchestrator(records repository.DistributionRepository, platforms repository.PlatformRepository,
	releases repository.ReleaseRepository, tracks repository.TrackRepository,
	gateway PlatformGateway, events EventPublisher) *Orchestrator {
	if events == nil {
		events = NopEventPublisher{}
	}
	return &Orchestrator{
		records:   records,
		platforms: platforms,
		releases:  releases,
		tracks:    tracks,
		gateway:   gateway,
		events:    events,
	}
}

// DistributeRelease attempts delivery to every requested platform. Attempts
// are independent: one platform failing never aborts the others. Attempts run
// concurrently; results are joined in the order the platform ids were given.
func (o *Orchestrator) DistributeRelease(ctx context.Context, releaseID int64, platformIDs []int64) []model.PerPlatformResult {
	logger.Info("Distributing release",
		logger.Int64("releaseId", releaseID),
		logger.Int("platforms", len(platformIDs)))

	results := make([]model.PerPlatformResult, len(platformIDs))
	var wg sync.WaitGroup
	for i, platformID := range platformIDs {
		wg.Add(1)
		go func(i int, platformID int64) {
			defer wg.Done()
			results[i] = o.DistributeToPlatform(ctx, releaseID, platformID)
		}(i, platformID)
	}
	wg.Wait()

	return results
}

// DistributeToPlatform attempts delivery of one release to one platform.
// It always returns a result, never an error: referential problems, missing
// credentials and delivery failures all surface as a failed result, and —
// where a record exists — as a failed DistributionRecord.
func (o *Orchestrator) DistributeToPlatform(ctx context.Context, releaseID, platformID int64) model.PerPlatformResult {
	result := model.PerPlatformResult{PlatformID: platformID}

	platform, err := o.platforms.GetPlatformByID(platformID)
	if err != nil {
		result.Error = fmt.Sprintf("failed to load platform %d: %v", platformID, err)
		return result
	}
	if platform == nil {
		result.Error = fmt.Sprintf("Platform with ID %d not found", platformID)
		return result
	}

	release, err := o.releases.GetReleaseByID(releaseID)
	if err != nil {
		result.Error = fmt.Sprintf("failed to load release %d: %v", releaseID, err)
		return result
	}
	if release == nil {
		result.Error = fmt.Sprintf("Release with ID %d not found", releaseID)
		return result
	}

	tracks, err := o.tracks.GetTracksByReleaseID(releaseID)
	if err != nil {
		result.Error = fmt.Sprintf("failed to load tracks for release %d: %v", releaseID, err)
		return result
	}
	if len(tracks) == 0 {
		// Validation is the gate that blocks trackless releases; here we
		// only note it and let the delivery attempt decide.
		logger.Warn("No tracks found for release", logger.Int64("releaseId", releaseID))
	}

	record, err := o.getOrCreateRecord(ctx, releaseID, platformID)
	if err != nil {
		result.Error = fmt.Sprintf("failed to prepare distribution record: %v", err)
		return result
	}
	result.DistributionID = record.ID

	// A pair already delivered stays delivered; report the stored outcome.
	if record.Status == model.DistributionStatusDistributed {
		result.Success = true
		if record.PlatformReferenceID != nil {
			result.PlatformReferenceID = *record.PlatformReferenceID
		}
		return result
	}

	// Terminal precondition failures: platform must be active and carry
	// credentials. These are not retryable until an administrator fixes the
	// platform row.
	if !platform.IsActive {
		return o.fail(ctx, record, &result, fmt.Sprintf("Platform %s is not active", platform.Name))
	}
	if !platform.HasCredentials() {
		return o.fail(ctx, record, &result, fmt.Sprintf("Platform %s has no stored credentials", platform.Name))
	}

	// Reset a previous failed attempt back to pending. Losing this CAS (or
	// the pending -> processing one below) means another attempt holds the
	// pair; back off instead of racing it.
	ok, err := o.records.ResetToPending(ctx, record.ID)
	if err != nil {
		result.Error = fmt.Sprintf("failed to reset distribution record: %v", err)
		return result
	}
	if !ok {
		result.Error = "distribution already in progress for this platform"
		return result
	}
	o.events.PublishStatus(ctx, releaseID, platformID, model.DistributionStatusPending, "")

	ok, err = o.records.BeginProcessing(ctx, record.ID)
	if err != nil {
		result.Error = fmt.Sprintf("failed to claim distribution record: %v", err)
		return result
	}
	if !ok {
		result.Error = "distribution already in progress for this platform"
		return result
	}
	o.events.PublishStatus(ctx, releaseID, platformID, model.DistributionStatusProcessing, "")

	logger.Info("Starting distribution",
		logger.Int64("releaseId", releaseID),
		logger.String("platform", platform.Name))

	delivery, err := o.gateway.Deliver(ctx, platform, release, tracks)
	if err != nil {
		return o.fail(ctx, record, &result, fmt.Sprintf("Delivery to %s failed: %v", platform.Name, err))
	}

	now := time.Now()
	ok, err = o.records.MarkDistributed(ctx, record.ID, delivery.ReferenceID, now)
	if err != nil || !ok {
		// The record left processing underneath us; treat as failure so the
		// caller retries explicitly.
		return o.fail(ctx, record, &result, "failed to persist successful delivery")
	}
	o.events.PublishStatus(ctx, releaseID, platformID, model.DistributionStatusDistributed, "")

	logger.Info("Distribution completed",
		logger.Int64("releaseId", releaseID),
		logger.String("platform", platform.Name),
		logger.String("referenceId", delivery.ReferenceID))

	result.Success = true
	result.PlatformReferenceID = delivery.ReferenceID
	result.PlatformURL = delivery.URL
	return result
}

// GetDistributionHistory returns all distribution records of a release,
// newest first.
func (o *Orchestrator) GetDistributionHistory(ctx context.Context, releaseID int64) ([]*model.DistributionRecord, error) {
	return o.records.ListByRelease(ctx, releaseID)
}

// GetDistributionStatus returns a single record, or nil when unknown.
func (o *Orchestrator) GetDistributionStatus(ctx context.Context, distributionID int64) (*model.DistributionRecord, error) {
	return o.records.GetByID(ctx, distributionID)
}

// getOrCreateRecord returns the single record for a (release, platform) pair,
// creating it in pending state on the first attempt. A create lost to a
// concurrent attempt falls back to the winner's row.
func (o *Orchestrator) getOrCreateRecord(ctx context.Context, releaseID, platformID int64) (*model.DistributionRecord, error) {
	record, err := o.records.GetByReleaseAndPlatform(ctx, releaseID, platformID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}

	record = &model.DistributionRecord{
		ReleaseID:  releaseID,
		PlatformID: platformID,
		Status:     model.DistributionStatusPending,
	}
	if err := o.records.Create(ctx, record); err != nil {
		// Unique (release_id, platform_id) index: someone else created it first.
		existing, getErr := o.records.GetByReleaseAndPlatform(ctx, releaseID, platformID)
		if getErr != nil || existing == nil {
			return nil, err
		}
		return existing, nil
	}
	return record, nil
}

// fail persists the failure on the record (best effort) and fills the result.
func (o *Orchestrator) fail(ctx context.Context, record *model.DistributionRecord, result *model.PerPlatformResult, details string) model.PerPlatformResult {
	ok, err := o.records.MarkFailed(ctx, record.ID, details)
	if err != nil {
		logger.Error("Failed to persist distribution failure",
			logger.Int64("recordId", record.ID), logger.ErrorField(err))
	}
	if ok {
		o.events.PublishStatus(ctx, record.ReleaseID, record.PlatformID, model.DistributionStatusFailed, details)
	}

	logger.Warn("Distribution failed",
		logger.Int64("releaseId", record.ReleaseID),
		logger.Int64("platformId", record.PlatformID),
		logger.String("details", details))

	result.Success = false
	result.Error = details
	return *result
}
