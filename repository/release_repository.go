package repository

import (
	"database/sql"
	"fmt"
	"time"

	"distrofm/db"
	"distrofm/model"
)

// ReleaseRepository defines the interface for release data operations.
type ReleaseRepository interface {
	CreateRelease(release *model.Release) (int64, error)
	GetReleaseByID(id int64) (*model.Release, error)
	GetReleasesByUserID(userID int64) ([]*model.Release, error)
	UpdateReleaseStatus(id int64, status model.ReleaseStatus) error
}

// mysqlReleaseRepository implements ReleaseRepository for MySQL.
type mysqlReleaseRepository struct {
	DB *sql.DB
}

// NewMySQLReleaseRepository creates a new instance of mysqlReleaseRepository.
func NewMySQLReleaseRepository() ReleaseRepository {
	return &mysqlReleaseRepository{DB: db.DB}
}

// CreateRelease adds a new release to the database.
func (r *mysqlReleaseRepository) CreateRelease(release *model.Release) (int64, error) {
	query := `INSERT INTO releases (user_id, title, artist, genre, release_date, upc, cover_art, status, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	status := release.Status
	if status == "" {
		status = model.ReleaseStatusDraft
	}

	now := time.Now()
	res, err := r.DB.Exec(query, release.UserID, release.Title, release.Artist, release.Genre,
		release.ReleaseDate, release.UPC, release.CoverArt, status, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateRelease: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreateRelease: %w", err)
	}
	return id, nil
}

// GetReleaseByID retrieves a release by its ID.
func (r *mysqlReleaseRepository) GetReleaseByID(id int64) (*model.Release, error) {
	query := `SELECT id, user_id, title, artist, genre, release_date, upc, cover_art, status, created_at, updated_at
	           FROM releases WHERE id = ?`
	row := r.DB.QueryRow(query, id)

	release := &model.Release{}
	err := row.Scan(&release.ID, &release.UserID, &release.Title, &release.Artist, &release.Genre,
		&release.ReleaseDate, &release.UPC, &release.CoverArt, &release.Status, &release.CreatedAt, &release.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Release not found
		}
		return nil, fmt.Errorf("failed to scan release by ID %d: %w", id, err)
	}
	return release, nil
}

// GetReleasesByUserID retrieves all releases owned by a user.
func (r *mysqlReleaseRepository) GetReleasesByUserID(userID int64) ([]*model.Release, error) {
	query := `SELECT id, user_id, title, artist, genre, release_date, upc, cover_art, status, created_at, updated_at
	           FROM releases WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query releases for user ID %d: %w", userID, err)
	}
	defer rows.Close()

	releases := make([]*model.Release, 0)
	for rows.Next() {
		release := &model.Release{}
		err := rows.Scan(&release.ID, &release.UserID, &release.Title, &release.Artist, &release.Genre,
			&release.ReleaseDate, &release.UPC, &release.CoverArt, &release.Status, &release.CreatedAt, &release.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan release in GetReleasesByUserID: %w", err)
		}
		releases = append(releases, release)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in GetReleasesByUserID: %w", err)
	}

	return releases, nil
}

// UpdateReleaseStatus updates the lifecycle status of a release.
func (r *mysqlReleaseRepository) UpdateReleaseStatus(id int64, status model.ReleaseStatus) error {
	query := `UPDATE releases SET status = ?, updated_at = ? WHERE id = ?`
	_, err := r.DB.Exec(query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to execute UpdateReleaseStatus for release ID %d: %w", id, err)
	}
	return nil
}
