package model

import (
	"database/sql"
	"time"
)

// Platform represents a downstream distribution platform. Platform rows are
// administered externally; the core only reads them.
type Platform struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	APIURL    sql.NullString `json:"-"`
	APIKey    sql.NullString `json:"-"`
	IsActive  bool           `json:"isActive"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// HasCredentials reports whether the platform carries stored credentials.
func (p *Platform) HasCredentials() bool {
	return p.APIKey.Valid && p.APIKey.String != "" || p.APIURL.Valid && p.APIURL.String != ""
}
