package repository

import (
	"database/sql"
	"fmt"
	"time"

	"distrofm/db"
	"distrofm/model"
)

// TrackRepository defines the interface for track data operations.
type TrackRepository interface {
	CreateTrack(track *model.Track) (int64, error)
	GetTrackByID(id int64) (*model.Track, error)
	GetTracksByReleaseID(releaseID int64) ([]*model.Track, error)
}

// mysqlTrackRepository implements TrackRepository for MySQL.
type mysqlTrackRepository struct {
	DB *sql.DB
}

// NewMySQLTrackRepository creates a new instance of mysqlTrackRepository.
func NewMySQLTrackRepository() TrackRepository {
	return &mysqlTrackRepository{DB: db.DB}
}

// CreateTrack adds a new track to the database.
func (r *mysqlTrackRepository) CreateTrack(track *model.Track) (int64, error) {
	query := `INSERT INTO tracks (release_id, title, isrc, audio_file, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?)`

	now := time.Now()
	res, err := r.DB.Exec(query, track.ReleaseID, track.Title, track.ISRC, track.AudioFile, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateTrack: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreateTrack: %w", err)
	}
	return id, nil
}

// GetTrackByID retrieves a track by its ID.
func (r *mysqlTrackRepository) GetTrackByID(id int64) (*model.Track, error) {
	query := `SELECT id, release_id, title, isrc, audio_file, created_at, updated_at
	           FROM tracks WHERE id = ?`
	row := r.DB.QueryRow(query, id)

	track := &model.Track{}
	err := row.Scan(&track.ID, &track.ReleaseID, &track.Title, &track.ISRC, &track.AudioFile, &track.CreatedAt, &track.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Track not found
		}
		return nil, fmt.Errorf("failed to scan track by ID %d: %w", id, err)
	}
	return track, nil
}

// GetTracksByReleaseID retrieves all tracks of a release.
func (r *mysqlTrackRepository) GetTracksByReleaseID(releaseID int64) ([]*model.Track, error) {
	query := `SELECT id, release_id, title, isrc, audio_file, created_at, updated_at
	           FROM tracks WHERE release_id = ? ORDER BY id ASC`
	rows, err := r.DB.Query(query, releaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks for release ID %d: %w", releaseID, err)
	}
	defer rows.Close()

	tracks := make([]*model.Track, 0)
	for rows.Next() {
		track := &model.Track{}
		err := rows.Scan(&track.ID, &track.ReleaseID, &track.Title, &track.ISRC, &track.AudioFile, &track.CreatedAt, &track.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track in GetTracksByReleaseID: %w", err)
		}
		tracks = append(tracks, track)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in GetTracksByReleaseID: %w", err)
	}

	return tracks, nil
}
