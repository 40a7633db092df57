package server

import (
	"encoding/json"
	"net/http"

	"distrofm/config"
	"distrofm/core/distribution"
	"distrofm/core/importer"
	"distrofm/core/validator"
	"distrofm/logger"
	"distrofm/repository"
)

// APIHandler bundles the repositories and core services the HTTP handlers
// depend on.
type APIHandler struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	releaseRepo  repository.ReleaseRepository
	trackRepo    repository.TrackRepository
	platformRepo repository.PlatformRepository
	validator    *validator.Validator
	orchestrator *distribution.Orchestrator
	importer     *importer.Importer
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(cfg *config.Config, userRepo repository.UserRepository,
	releaseRepo repository.ReleaseRepository, trackRepo repository.TrackRepository,
	platformRepo repository.PlatformRepository, v *validator.Validator,
	orchestrator *distribution.Orchestrator, imp *importer.Importer) *APIHandler {
	return &APIHandler{
		cfg:          cfg,
		userRepo:     userRepo,
		releaseRepo:  releaseRepo,
		trackRepo:    trackRepo,
		platformRepo: platformRepo,
		validator:    v,
		orchestrator: orchestrator,
		importer:     imp,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", logger.ErrorField(err))
	}
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
