package model

import "time"

// ReleaseStatus is the lifecycle status of a release in the catalog.
type ReleaseStatus string

const (
	ReleaseStatusDraft     ReleaseStatus = "draft"
	ReleaseStatusPending   ReleaseStatus = "pending"
	ReleaseStatusPublished ReleaseStatus = "published"
	ReleaseStatusRejected  ReleaseStatus = "rejected"
)

// Release represents a music release (album, EP or single) owned by a user.
type Release struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"userId"`
	Title       string        `json:"title"`
	Artist      string        `json:"artist"`
	Genre       string        `json:"genre"`
	ReleaseDate string        `json:"releaseDate"` // YYYY-MM-DD; kept as text so malformed input can be reported
	UPC         string        `json:"upc"`
	CoverArt    string        `json:"coverArt"` // Object name under covers/ in the asset bucket
	Status      ReleaseStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// ReleaseWithTracks bundles a release with its track list for API responses.
type ReleaseWithTracks struct {
	Release Release  `json:"release"`
	Tracks  []*Track `json:"tracks"`
}
