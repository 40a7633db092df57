// Package validator gates distribution on metadata completeness and
// correctness, both generically and per target platform. Validation is pure:
// it reads records and checks asset existence, nothing else, so it is safe to
// run concurrently for different releases.
package validator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"distrofm/logger"
	"distrofm/model"
	"distrofm/repository"
	"distrofm/storage"
)

// Validator validates release and track metadata before distribution.
type Validator struct {
	releases  repository.ReleaseRepository
	tracks    repository.TrackRepository
	platforms repository.PlatformRepository
	assets    storage.AssetStore
}

// New creates a Validator over the given repositories and asset store.
func New(releases repository.ReleaseRepository, tracks repository.TrackRepository,
	platforms repository.PlatformRepository, assets storage.AssetStore) *Validator {
	return &Validator{
		releases:  releases,
		tracks:    tracks,
		platforms: platforms,
		assets:    assets,
	}
}

// ValidateRelease validates a release against the generic requirements and
// the requirement profiles of each requested platform. All findings are
// aggregated; the result is valid iff no errors were collected. Warnings
// never gate distribution.
func (v *Validator) ValidateRelease(ctx context.Context, releaseID int64, platformIDs []int64) model.ValidationResult {
	result := model.ValidationResult{
		Errors:   []model.ValidationError{},
		Warnings: []model.ValidationWarning{},
	}

	release, err := v.releases.GetReleaseByID(releaseID)
	if err != nil {
		logger.Error("Failed to load release for validation",
			logger.Int64("releaseId", releaseID), logger.ErrorField(err))
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "general",
			Message: "An unexpected error occurred during validation",
			Code:    model.CodeValidationError,
		})
		return result
	}
	if release == nil {
		// Nothing else to check without a release.
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "releaseId",
			Message: fmt.Sprintf("Release with ID %d not found", releaseID),
			Code:    model.CodeReleaseNotFound,
		})
		return result
	}

	tracks, err := v.tracks.GetTracksByReleaseID(releaseID)
	if err != nil {
		logger.Error("Failed to load tracks for validation",
			logger.Int64("releaseId", releaseID), logger.ErrorField(err))
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "general",
			Message: "An unexpected error occurred during validation",
			Code:    model.CodeValidationError,
		})
		return result
	}
	if len(tracks) == 0 {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "tracks",
			Message: "Release must have at least one track",
			Code:    model.CodeNoTracks,
		})
	}

	v.validateBasicMetadata(release, &result)
	for _, track := range tracks {
		v.validateTrackMetadata(ctx, track, &result)
	}
	v.validateAssets(ctx, release, &result)

	for _, platformID := range platformIDs {
		platform, err := v.platforms.GetPlatformByID(platformID)
		if err != nil {
			logger.Error("Failed to load platform for validation",
				logger.Int64("platformId", platformID), logger.ErrorField(err))
			result.Errors = append(result.Errors, model.ValidationError{
				Field:   "general",
				Message: "An unexpected error occurred during validation",
				Code:    model.CodeValidationError,
			})
			continue
		}
		if platform == nil {
			// Skip platform checks for this id only; other platforms still run.
			result.Errors = append(result.Errors, model.ValidationError{
				Field:   "platformId",
				Message: fmt.Sprintf("Platform with ID %d not found", platformID),
				Code:    model.CodePlatformNotFound,
			})
			continue
		}
		v.validatePlatformRequirements(release, tracks, platform, &result)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// validateBasicMetadata checks the generic release-level requirements.
func (v *Validator) validateBasicMetadata(release *model.Release, result *model.ValidationResult) {
	if strings.TrimSpace(release.Title) == "" {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "title",
			Message: "Release title is required",
			Code:    model.CodeRequiredField,
		})
	} else if len(release.Title) > titleMaxLength {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("Title exceeds maximum length of %d characters", titleMaxLength),
			Code:    model.CodeFieldTooLong,
		})
	}

	if strings.TrimSpace(release.Artist) == "" {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "artist",
			Message: "Artist name is required",
			Code:    model.CodeRequiredField,
		})
	}

	if release.Genre == "" {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "genre",
			Message: "Genre is required",
			Code:    model.CodeRequiredField,
		})
	} else if !isValidGenre(release.Genre) {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "genre",
			Message: "Invalid genre specified",
			Code:    model.CodeInvalidGenre,
		})
		if isValidGenre(strings.ToLower(release.Genre)) {
			result.Warnings = append(result.Warnings, model.ValidationWarning{
				Field:      "genre",
				Message:    "Genre values are lowercase",
				Suggestion: strings.ToLower(release.Genre),
			})
		}
	}

	if release.UPC == "" {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "upc",
			Message: "UPC is required",
			Code:    model.CodeRequiredField,
		})
	} else if !upcPattern.MatchString(release.UPC) {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "upc",
			Message: "UPC format is invalid. Must be 12 digits",
			Code:    model.CodeInvalidUPC,
		})
	}

	v.validateReleaseDate(release.ReleaseDate, result)
}

func (v *Validator) validateReleaseDate(value string, result *model.ValidationResult) {
	if value == "" {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "releaseDate",
			Message: "Release date is required",
			Code:    model.CodeRequiredField,
		})
		return
	}

	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "releaseDate",
			Message: "Invalid release date format",
			Code:    model.CodeInvalidDate,
		})
		return
	}

	minDate, _ := time.Parse("2006-01-02", minReleaseDate)
	maxDate := time.Now().AddDate(1, 0, 0)
	if date.Before(minDate) {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "releaseDate",
			Message: fmt.Sprintf("Release date cannot be before %s", minReleaseDate),
			Code:    model.CodeDateTooEarly,
		})
	} else if date.After(maxDate) {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "releaseDate",
			Message: "Release date cannot be more than 1 year in the future",
			Code:    model.CodeDateTooFuture,
		})
	}
}

// validateTrackMetadata checks one track: title, ISRC pattern and the
// existence of the referenced audio file.
func (v *Validator) validateTrackMetadata(ctx context.Context, track *model.Track, result *model.ValidationResult) {
	if strings.TrimSpace(track.Title) == "" {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   fmt.Sprintf("track_%d_title", track.ID),
			Message: "Track title is required",
			Code:    model.CodeRequiredField,
		})
	}

	if track.ISRC == "" {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   fmt.Sprintf("track_%d_isrc", track.ID),
			Message: "ISRC is required for each track",
			Code:    model.CodeRequiredField,
		})
	} else if !isrcPattern.MatchString(track.ISRC) {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   fmt.Sprintf("track_%d_isrc", track.ID),
			Message: "ISRC format is invalid",
			Code:    model.CodeInvalidISRC,
		})
	}

	if track.AudioFile == "" {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   fmt.Sprintf("track_%d_audioFile", track.ID),
			Message: "Audio file is required",
			Code:    model.CodeRequiredField,
		})
		return
	}
	exists, err := v.assets.AudioFileExists(ctx, track.AudioFile)
	if err != nil {
		logger.Warn("Audio file existence check failed",
			logger.Int64("trackId", track.ID), logger.ErrorField(err))
		exists = false
	}
	if !exists {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   fmt.Sprintf("track_%d_audioFile", track.ID),
			Message: "Audio file not found",
			Code:    model.CodeFileNotFound,
		})
	}
}

// validateAssets checks the release-level assets (cover art).
func (v *Validator) validateAssets(ctx context.Context, release *model.Release, result *model.ValidationResult) {
	if release.CoverArt == "" {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "coverArt",
			Message: "Cover art is required",
			Code:    model.CodeRequiredField,
		})
		return
	}
	exists, err := v.assets.CoverArtExists(ctx, release.CoverArt)
	if err != nil {
		logger.Warn("Cover art existence check failed",
			logger.Int64("releaseId", release.ID), logger.ErrorField(err))
		exists = false
	}
	if !exists {
		result.Errors = append(result.Errors, model.ValidationError{
			Field:   "coverArt",
			Message: "Cover art file not found",
			Code:    model.CodeFileNotFound,
		})
	}
}

// validatePlatformRequirements applies one platform's requirements profile to
// the release and its tracks. Mismatches collect errors; they never abort the
// remaining checks.
func (v *Validator) validatePlatformRequirements(release *model.Release, tracks []*model.Track,
	platform *model.Platform, result *model.ValidationResult) {
	reqs, ok := requirementsFor(platform.Name)
	if !ok {
		return
	}

	if len(reqs.AudioFormats) > 0 {
		for _, track := range tracks {
			if track.AudioFile == "" {
				continue
			}
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(track.AudioFile), "."))
			if !containsFormat(reqs.AudioFormats, ext) {
				result.Errors = append(result.Errors, model.ValidationError{
					Field: fmt.Sprintf("track_%d_audioFormat", track.ID),
					Message: fmt.Sprintf("Platform %s requires %s format(s). Found: %s",
						platform.Name, strings.Join(reqs.AudioFormats, ", "), ext),
					Code: model.CodeInvalidAudioFormat,
				})
			}
		}
	}

	if len(reqs.ImageFormats) > 0 && release.CoverArt != "" {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(release.CoverArt), "."))
		if !containsFormat(reqs.ImageFormats, ext) {
			result.Errors = append(result.Errors, model.ValidationError{
				Field: "coverArtFormat",
				Message: fmt.Sprintf("Platform %s requires %s image format(s). Found: %s",
					platform.Name, strings.Join(reqs.ImageFormats, ", "), ext),
				Code: model.CodeInvalidImageFormat,
			})
		}
	}

	if reqs.CoverArt.MinResolution > 0 && release.CoverArt != "" {
		// Resolution is not stored with the release; flag the expectation so
		// the uploader can verify before delivery rejects it.
		result.Warnings = append(result.Warnings, model.ValidationWarning{
			Field: "coverArt",
			Message: fmt.Sprintf("Platform %s expects cover art of at least %dpx (%s)",
				platform.Name, reqs.CoverArt.MinResolution, reqs.CoverArt.Aspect),
		})
	}
}
