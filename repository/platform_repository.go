package repository

import (
	"database/sql"
	"fmt"

	"distrofm/db"
	"distrofm/model"
)

// PlatformRepository defines read-only lookups over the platform registry.
// Platform rows are administered externally.
type PlatformRepository interface {
	GetPlatformByID(id int64) (*model.Platform, error)
	GetPlatformByName(name string) (*model.Platform, error)
	GetActivePlatforms() ([]*model.Platform, error)
}

// mysqlPlatformRepository implements PlatformRepository for MySQL.
type mysqlPlatformRepository struct {
	DB *sql.DB
}

// NewMySQLPlatformRepository creates a new instance of mysqlPlatformRepository.
func NewMySQLPlatformRepository() PlatformRepository {
	return &mysqlPlatformRepository{DB: db.DB}
}

// GetPlatformByID retrieves a platform by its ID.
func (r *mysqlPlatformRepository) GetPlatformByID(id int64) (*model.Platform, error) {
	query := `SELECT id, name, api_url, api_key, is_active, created_at, updated_at
	           FROM distribution_platforms WHERE id = ?`
	return r.scanPlatform(r.DB.QueryRow(query, id))
}

// GetPlatformByName retrieves a platform by name, case-insensitively.
func (r *mysqlPlatformRepository) GetPlatformByName(name string) (*model.Platform, error) {
	query := `SELECT id, name, api_url, api_key, is_active, created_at, updated_at
	           FROM distribution_platforms WHERE LOWER(name) = LOWER(?)`
	return r.scanPlatform(r.DB.QueryRow(query, name))
}

// GetActivePlatforms retrieves all active platforms ordered by name.
func (r *mysqlPlatformRepository) GetActivePlatforms() ([]*model.Platform, error) {
	query := `SELECT id, name, api_url, api_key, is_active, created_at, updated_at
	           FROM distribution_platforms WHERE is_active = 1 ORDER BY name ASC`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active platforms: %w", err)
	}
	defer rows.Close()

	platforms := make([]*model.Platform, 0)
	for rows.Next() {
		platform := &model.Platform{}
		err := rows.Scan(&platform.ID, &platform.Name, &platform.APIURL, &platform.APIKey,
			&platform.IsActive, &platform.CreatedAt, &platform.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan platform in GetActivePlatforms: %w", err)
		}
		platforms = append(platforms, platform)
	}

	return platforms, rows.Err()
}

func (r *mysqlPlatformRepository) scanPlatform(row *sql.Row) (*model.Platform, error) {
	platform := &model.Platform{}
	err := row.Scan(&platform.ID, &platform.Name, &platform.APIURL, &platform.APIKey,
		&platform.IsActive, &platform.CreatedAt, &platform.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Platform not found
		}
		return nil, fmt.Errorf("failed to scan platform: %w", err)
	}
	return platform, nil
}
