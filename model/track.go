package model

import "time"

// Track represents a single recording belonging to a release.
type Track struct {
	ID        int64     `json:"id"`
	ReleaseID int64     `json:"releaseId"`
	Title     string    `json:"title"`
	ISRC      string    `json:"isrc"`      // CC-XXX-YY-NNNNN, stored without separators
	AudioFile string    `json:"audioFile"` // Object name under audio/ in the asset bucket
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
