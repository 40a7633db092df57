package model

import "time"

// DistributionStatus is the delivery state of a (release, platform) pair.
type DistributionStatus string

const (
	DistributionStatusPending     DistributionStatus = "pending"
	DistributionStatusProcessing  DistributionStatus = "processing"
	DistributionStatusDistributed DistributionStatus = "distributed"
	DistributionStatusFailed      DistributionStatus = "failed"
)

// DistributionRecord tracks one release's delivery state on one platform.
// There is at most one record per (release, platform) pair; a retry resets
// the existing record instead of creating a new one.
type DistributionRecord struct {
	ID                  int64              `json:"id" gorm:"primaryKey;autoIncrement"`
	ReleaseID           int64              `json:"releaseId" gorm:"not null;uniqueIndex:idx_release_platform"`
	PlatformID          int64              `json:"platformId" gorm:"not null;uniqueIndex:idx_release_platform"`
	Status              DistributionStatus `json:"status" gorm:"type:varchar(20);not null;default:pending"`
	PlatformReferenceID *string            `json:"platformReferenceId,omitempty" gorm:"type:varchar(64)"`
	DistributedAt       *time.Time         `json:"distributedAt,omitempty"`
	ErrorDetails        *string            `json:"errorDetails,omitempty" gorm:"type:text"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
}

// TableName pins the GORM table name to the schema used by the raw-SQL layer.
func (DistributionRecord) TableName() string {
	return "distribution_records"
}

// PerPlatformResult is the outcome of one delivery attempt, returned per
// platform in request order. Success and failure are per entry; a failing
// platform never aborts the others.
type PerPlatformResult struct {
	PlatformID          int64  `json:"platformId"`
	Success             bool   `json:"success"`
	DistributionID      int64  `json:"distributionId,omitempty"`
	PlatformReferenceID string `json:"platformReferenceId,omitempty"`
	PlatformURL         string `json:"platformUrl,omitempty"`
	Error               string `json:"error,omitempty"`
}

// StatusEvent is published on every distribution status transition so UI
// layers can follow delivery progress live.
type StatusEvent struct {
	ReleaseID  int64              `json:"releaseId"`
	PlatformID int64              `json:"platformId"`
	Status     DistributionStatus `json:"status"`
	Error      string             `json:"error,omitempty"`
	At         time.Time          `json:"at"`
}
