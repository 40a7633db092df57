package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"distrofm/logger"

	"github.com/gorilla/mux"
)

// DistributeRequest selects the target platforms for validation and delivery.
type DistributeRequest struct {
	PlatformIDs []int64 `json:"platformIds"`
	// SkipValidation delivers without the metadata gate. Operator use only;
	// the per-platform attempts still enforce their own preconditions.
	SkipValidation bool `json:"skipValidation"`
}

// ValidateReleaseHandler runs the metadata validator over one release for the
// requested platforms and returns the aggregated findings.
func (h *APIHandler) ValidateReleaseHandler(w http.ResponseWriter, r *http.Request) {
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

	var req DistributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !h.ownsRelease(w, releaseID, userID) {
		return
	}

	result := h.validator.ValidateRelease(r.Context(), releaseID, req.PlatformIDs)
	respondJSON(w, http.StatusOK, result)
}

// DistributeReleaseHandler validates a release and, when it passes, delivers
// it to every requested platform. Per-platform outcomes come back in request
// order; a failed platform never hides the others.
func (h *APIHandler) DistributeReleaseHandler(w http.ResponseWriter, r *http.Request) {
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

	var req DistributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.PlatformIDs) == 0 {
		http.Error(w, "At least one platform ID is required", http.StatusBadRequest)
		return
	}

	if !h.ownsRelease(w, releaseID, userID) {
		return
	}

	if !req.SkipValidation {
		validation := h.validator.ValidateRelease(r.Context(), releaseID, req.PlatformIDs)
		if !validation.Valid {
			logger.Warn("Distribution blocked by validation",
				logger.Int64("releaseId", releaseID),
				logger.Int("errors", len(validation.Errors)))
			respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":      "Release failed validation",
				"validation": validation,
			})
			return
		}
	}

	results := h.orchestrator.DistributeRelease(r.Context(), releaseID, req.PlatformIDs)

	succeeded := 0
	for _, res := range results {
		if res.Success {
			succeeded++
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"releaseId": releaseID,
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
		"results":   results,
	})
}

// GetDistributionHistoryHandler lists all distribution records of a release,
// newest first.
func (h *APIHandler) GetDistributionHistoryHandler(w http.ResponseWriter, r *http.Request) {
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

	if !h.ownsRelease(w, releaseID, userID) {
		return
	}

	records, err := h.orchestrator.GetDistributionHistory(r.Context(), releaseID)
	if err != nil {
		logger.Error("Failed to load distribution history",
			logger.Int64("releaseId", releaseID), logger.ErrorField(err))
		http.Error(w, "Failed to load distribution history", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"distributions": records})
}

// GetDistributionStatusHandler returns one distribution record by ID.
func (h *APIHandler) GetDistributionStatusHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	distributionID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid distribution ID", http.StatusBadRequest)
		return
	}

	record, err := h.orchestrator.GetDistributionStatus(r.Context(), distributionID)
	if err != nil {
		logger.Error("Failed to load distribution record",
			logger.Int64("distributionId", distributionID), logger.ErrorField(err))
		http.Error(w, "Failed to load distribution record", http.StatusInternalServerError)
		return
	}
	if record == nil {
		http.Error(w, "Distribution not found", http.StatusNotFound)
		return
	}

	if !h.ownsRelease(w, record.ReleaseID, userID) {
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// ownsRelease verifies the release exists and belongs to the user, writing
// the error response itself when it does not.
func (h *APIHandler) ownsRelease(w http.ResponseWriter, releaseID, userID int64) bool {
	release, err := h.releaseRepo.GetReleaseByID(releaseID)
	if err != nil {
		logger.Error("Failed to load release",
			logger.Int64("releaseId", releaseID), logger.ErrorField(err))
		http.Error(w, "Failed to load release", http.StatusInternalServerError)
		return false
	}
	if release == nil || release.UserID != userID {
		http.Error(w, "Release not found", http.StatusNotFound)
		return false
	}
	return true
}
