package server

import (
	"fmt"
	"net/http"
	"strconv"

	"distrofm/logger"
	"distrofm/model"
)

const maxImportFileSize = 32 << 20 // 32 MB

// ImportHandler accepts a multipart upload and runs it through the bulk
// import pipeline. Form fields: `file` (required), `type` (releases, tracks
// or artists, default releases), `mode` (strict or lenient, default lenient).
// Accepted release and track rows are persisted through the repositories;
// the outcome reports what happened either way.
func (h *APIHandler) ImportHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxImportFileSize); err != nil {
		http.Error(w, "Failed to parse multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Import file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	importType := model.ImportType(r.FormValue("type"))
	if importType == "" {
		importType = model.ImportTypeReleases
	}
	mode := model.ValidationMode(r.FormValue("mode"))
	if mode == "" {
		mode = model.ValidationModeLenient
	}

	outcome, err := h.importer.ImportFile(header.Filename, file, importType, mode)
	if err != nil {
		logger.Warn("Import rejected",
			logger.String("file", header.Filename),
			logger.ErrorField(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	persisted, persistErrors := h.persistImportedRows(userID, importType, outcome.Accepted)
	if len(persistErrors) > 0 {
		outcome.Details = append(outcome.Details, persistErrors...)
		outcome.AffectedItems = persisted
		if outcome.Status == model.ImportStatusSuccess {
			outcome.Status = model.ImportStatusWarning
			outcome.Message = fmt.Sprintf("Import completed with %d warnings", len(persistErrors))
		}
	}

	logger.Info("Import request handled",
		logger.Int64("userId", userID),
		logger.String("file", header.Filename),
		logger.String("batchId", outcome.BatchID),
		logger.String("status", string(outcome.Status)),
		logger.Int("persisted", persisted))

	respondJSON(w, http.StatusOK, outcome)
}

// persistImportedRows writes accepted rows through the repositories. Artist
// rows carry no dedicated table; they are accepted for batch reporting only.
func (h *APIHandler) persistImportedRows(userID int64, importType model.ImportType, rows []model.ImportRow) (int, []string) {
	var persistErrors []string
	persisted := 0

	for i, row := range rows {
		var err error
		switch importType {
		case model.ImportTypeReleases:
			release := &model.Release{
				UserID:      userID,
				Title:       rowString(row, "title"),
				Artist:      rowString(row, "artist"),
				Genre:       rowString(row, "genre"),
				ReleaseDate: rowString(row, "releaseDate"),
				UPC:         rowString(row, "upc"),
				CoverArt:    rowString(row, "coverArt"),
				Status:      model.ReleaseStatusDraft,
			}
			_, err = h.releaseRepo.CreateRelease(release)
		case model.ImportTypeTracks:
			releaseID, convErr := rowInt64(row, "releaseId")
			if convErr != nil {
				err = convErr
				break
			}
			track := &model.Track{
				ReleaseID: releaseID,
				Title:     rowString(row, "title"),
				ISRC:      rowString(row, "isrc"),
				AudioFile: rowString(row, "audioFile"),
			}
			_, err = h.trackRepo.CreateTrack(track)
		default:
			persisted++
			continue
		}

		if err != nil {
			persistErrors = append(persistErrors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		persisted++
	}

	return persisted, persistErrors
}

func rowString(row model.ImportRow, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func rowInt64(row model.ImportRow, key string) (int64, error) {
	switch v := row[key].(type) {
	case float64:
		return int64(v), nil
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q", key, v)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("missing %s value", key)
	}
}
