package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"distrofm/logger"
	"distrofm/model"

	"github.com/gorilla/mux"
)

// CreateReleaseRequest carries a release and its tracks in one request; the
// tracks are optional and may be added later.
type CreateReleaseRequest struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Genre       string `json:"genre"`
	ReleaseDate string `json:"releaseDate"`
	UPC         string `json:"upc"`
	CoverArt    string `json:"coverArt"`
	Tracks      []struct {
		Title     string `json:"title"`
		ISRC      string `json:"isrc"`
		AudioFile string `json:"audioFile"`
	} `json:"tracks"`
}

// CreateReleaseHandler creates a release (and any embedded tracks) for the
// authenticated user. No metadata validation happens here; drafts may be
// incomplete until distribution time.
func (h *APIHandler) CreateReleaseHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	release := &model.Release{
		UserID:      userID,
		Title:       req.Title,
		Artist:      req.Artist,
		Genre:       req.Genre,
		ReleaseDate: req.ReleaseDate,
		UPC:         req.UPC,
		CoverArt:    req.CoverArt,
		Status:      model.ReleaseStatusDraft,
	}

	releaseID, err := h.releaseRepo.CreateRelease(release)
	if err != nil {
		logger.Error("Failed to create release", logger.ErrorField(err))
		http.Error(w, "Failed to create release", http.StatusInternalServerError)
		return
	}
	release.ID = releaseID

	tracks := make([]*model.Track, 0, len(req.Tracks))
	for _, t := range req.Tracks {
		track := &model.Track{
			ReleaseID: releaseID,
			Title:     t.Title,
			ISRC:      t.ISRC,
			AudioFile: t.AudioFile,
		}
		trackID, err := h.trackRepo.CreateTrack(track)
		if err != nil {
			logger.Error("Failed to create track",
				logger.Int64("releaseId", releaseID), logger.ErrorField(err))
			http.Error(w, "Failed to create track", http.StatusInternalServerError)
			return
		}
		track.ID = trackID
		tracks = append(tracks, track)
	}

	logger.Info("Release created",
		logger.Int64("releaseId", releaseID),
		logger.Int64("userId", userID),
		logger.Int("tracks", len(tracks)))

	respondJSON(w, http.StatusCreated, model.ReleaseWithTracks{
		Release: *release,
		Tracks:  tracks,
	})
}

// GetReleasesHandler lists the authenticated user's releases.
func (h *APIHandler) GetReleasesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	releases, err := h.releaseRepo.GetReleasesByUserID(userID)
	if err != nil {
		logger.Error("Failed to list releases",
			logger.Int64("userId", userID), logger.ErrorField(err))
		http.Error(w, "Failed to list releases", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"releases": releases})
}

// GetReleaseHandler returns one release with its tracks.
func (h *APIHandler) GetReleaseHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	releaseID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid release ID", http.StatusBadRequest)
		return
	}

	release, err := h.releaseRepo.GetReleaseByID(releaseID)
	if err != nil {
		logger.Error("Failed to load release",
			logger.Int64("releaseId", releaseID), logger.ErrorField(err))
		http.Error(w, "Failed to load release", http.StatusInternalServerError)
		return
	}
	if release == nil || release.UserID != userID {
		http.Error(w, "Release not found", http.StatusNotFound)
		return
	}

	tracks, err := h.trackRepo.GetTracksByReleaseID(releaseID)
	if err != nil {
		logger.Error("Failed to load tracks",
			logger.Int64("releaseId", releaseID), logger.ErrorField(err))
		http.Error(w, "Failed to load tracks", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, model.ReleaseWithTracks{
		Release: *release,
		Tracks:  tracks,
	})
}

// GetPlatformsHandler lists the active distribution platforms.
func (h *APIHandler) GetPlatformsHandler(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.platformRepo.GetActivePlatforms()
	if err != nil {
		logger.Error("Failed to list platforms", logger.ErrorField(err))
		http.Error(w, "Failed to list platforms", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"platforms": platforms})
}
