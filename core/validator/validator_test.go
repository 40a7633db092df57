package validator

import (
	"context"
	"database/sql"
	"testing"

	"distrofm/model"
)

type fakeReleaseRepo struct {
	releases map[int64]*model.Release
}

func (f *fakeReleaseRepo) CreateRelease(r *model.Release) (int64, error) { return r.ID, nil }
func (f *fakeReleaseRepo) GetReleaseByID(id int64) (*model.Release, error) {
	return f.releases[id], nil
}
func (f *fakeReleaseRepo) GetReleasesByUserID(userID int64) ([]*model.Release, error) {
	return nil, nil
}
func (f *fakeReleaseRepo) UpdateReleaseStatus(id int64, status model.ReleaseStatus) error {
	return nil
}

type fakeTrackRepo struct {
	tracks map[int64][]*model.Track
}

func (f *fakeTrackRepo) CreateTrack(t *model.Track) (int64, error)  { return t.ID, nil }
func (f *fakeTrackRepo) GetTrackByID(id int64) (*model.Track, error) { return nil, nil }
func (f *fakeTrackRepo) GetTracksByReleaseID(releaseID int64) ([]*model.Track, error) {
	return f.tracks[releaseID], nil
}

type fakePlatformRepo struct {
	platforms map[int64]*model.Platform
}

func (f *fakePlatformRepo) GetPlatformByID(id int64) (*model.Platform, error) {
	return f.platforms[id], nil
}
func (f *fakePlatformRepo) GetPlatformByName(name string) (*model.Platform, error) {
	return nil, nil
}
func (f *fakePlatformRepo) GetActivePlatforms() ([]*model.Platform, error) { return nil, nil }

// fakeAssetStore treats every object name in the set as existing.
type fakeAssetStore struct {
	objects map[string]bool
}

func (f *fakeAssetStore) CoverArtExists(ctx context.Context, name string) (bool, error) {
	return f.objects[name], nil
}
func (f *fakeAssetStore) AudioFileExists(ctx context.Context, name string) (bool, error) {
	return f.objects[name], nil
}

func validRelease() *model.Release {
	return &model.Release{
		ID:          1,
		UserID:      1,
		Title:       "Midnight Sessions",
		Artist:      "The Wave Riders",
		Genre:       "electronic",
		ReleaseDate: "2025-06-15",
		UPC:         "123456789012",
		CoverArt:    "midnight.jpg",
	}
}

func validTracks() []*model.Track {
	return []*model.Track{
		{ID: 10, ReleaseID: 1, Title: "Opening", ISRC: "USRC17607839", AudioFile: "opening.mp3"},
	}
}

func newTestValidator(release *model.Release, tracks []*model.Track, platforms map[int64]*model.Platform) *Validator {
	releases := map[int64]*model.Release{}
	if release != nil {
		releases[release.ID] = release
	}
	trackMap := map[int64][]*model.Track{}
	if release != nil {
		trackMap[release.ID] = tracks
	}
	assets := &fakeAssetStore{objects: map[string]bool{}}
	if release != nil {
		assets.objects[release.CoverArt] = true
	}
	for _, t := range tracks {
		assets.objects[t.AudioFile] = true
	}
	return New(
		&fakeReleaseRepo{releases: releases},
		&fakeTrackRepo{tracks: trackMap},
		&fakePlatformRepo{platforms: platforms},
		assets,
	)
}

func hasCode(result model.ValidationResult, code string) bool {
	for _, e := range result.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestValidateReleaseAccepted(t *testing.T) {
	v := newTestValidator(validRelease(), validTracks(), nil)

	result := v.ValidateRelease(context.Background(), 1, nil)
	if !result.Valid {
		t.Fatalf("expected valid result, got errors: %+v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %d", len(result.Errors))
	}
}

func TestValidateReleaseNotFound(t *testing.T) {
	v := newTestValidator(nil, nil, nil)

	result := v.ValidateRelease(context.Background(), 42, nil)
	if result.Valid {
		t.Fatal("expected invalid result for missing release")
	}
	if !hasCode(result, model.CodeReleaseNotFound) {
		t.Fatalf("expected %s, got %+v", model.CodeReleaseNotFound, result.Errors)
	}
	// A missing release short-circuits: no other findings.
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %d", len(result.Errors))
	}
}

func TestValidateReleaseWithoutTracks(t *testing.T) {
	v := newTestValidator(validRelease(), nil, nil)

	result := v.ValidateRelease(context.Background(), 1, nil)
	if result.Valid {
		t.Fatal("expected invalid result for trackless release")
	}
	if !hasCode(result, model.CodeNoTracks) {
		t.Fatalf("expected %s, got %+v", model.CodeNoTracks, result.Errors)
	}
}

func TestValidateReleaseFieldErrors(t *testing.T) {
	release := validRelease()
	release.Title = ""
	release.UPC = "12345"
	release.ReleaseDate = "2030-01-01"

	v := newTestValidator(release, validTracks(), nil)
	result := v.ValidateRelease(context.Background(), 1, nil)

	if result.Valid {
		t.Fatal("expected invalid result")
	}
	for _, code := range []string{model.CodeRequiredField, model.CodeInvalidUPC, model.CodeDateTooFuture} {
		if !hasCode(result, code) {
			t.Errorf("expected error code %s, got %+v", code, result.Errors)
		}
	}
}

func TestValidateReleaseDateTooEarly(t *testing.T) {
	release := validRelease()
	release.ReleaseDate = "1850-01-01"

	v := newTestValidator(release, validTracks(), nil)
	result := v.ValidateRelease(context.Background(), 1, nil)

	if !hasCode(result, model.CodeDateTooEarly) {
		t.Fatalf("expected %s, got %+v", model.CodeDateTooEarly, result.Errors)
	}
}

func TestValidateReleaseGenreCaseSuggestion(t *testing.T) {
	release := validRelease()
	release.Genre = "Electronic"

	v := newTestValidator(release, validTracks(), nil)
	result := v.ValidateRelease(context.Background(), 1, nil)

	if !hasCode(result, model.CodeInvalidGenre) {
		t.Fatalf("expected %s, got %+v", model.CodeInvalidGenre, result.Errors)
	}
	found := false
	for _, w := range result.Warnings {
		if w.Field == "genre" && w.Suggestion == "electronic" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected lowercase genre suggestion, got %+v", result.Warnings)
	}
}

func TestValidateReleaseInvalidISRC(t *testing.T) {
	tracks := validTracks()
	tracks[0].ISRC = "not-an-isrc"

	v := newTestValidator(validRelease(), tracks, nil)
	result := v.ValidateRelease(context.Background(), 1, nil)

	if !hasCode(result, model.CodeInvalidISRC) {
		t.Fatalf("expected %s, got %+v", model.CodeInvalidISRC, result.Errors)
	}
}

func TestValidateReleaseMissingAudioFile(t *testing.T) {
	v := newTestValidator(validRelease(), validTracks(), nil)
	// Drop the audio object from the store.
	v.assets.(*fakeAssetStore).objects["opening.mp3"] = false

	result := v.ValidateRelease(context.Background(), 1, nil)
	if !hasCode(result, model.CodeFileNotFound) {
		t.Fatalf("expected %s, got %+v", model.CodeFileNotFound, result.Errors)
	}
}

func TestValidatePlatformAudioFormat(t *testing.T) {
	platforms := map[int64]*model.Platform{
		2: {ID: 2, Name: "Apple Music", IsActive: true},
	}
	// mp3 is not an accepted Apple Music delivery format.
	v := newTestValidator(validRelease(), validTracks(), platforms)

	result := v.ValidateRelease(context.Background(), 1, []int64{2})
	if !hasCode(result, model.CodeInvalidAudioFormat) {
		t.Fatalf("expected %s, got %+v", model.CodeInvalidAudioFormat, result.Errors)
	}
}

func TestValidatePlatformNotFoundContinues(t *testing.T) {
	platforms := map[int64]*model.Platform{
		1: {ID: 1, Name: "Spotify", IsActive: true, APIKey: sql.NullString{String: "key", Valid: true}},
	}
	v := newTestValidator(validRelease(), validTracks(), platforms)

	result := v.ValidateRelease(context.Background(), 1, []int64{99, 1})
	if !hasCode(result, model.CodePlatformNotFound) {
		t.Fatalf("expected %s, got %+v", model.CodePlatformNotFound, result.Errors)
	}
	// The known platform still ran: mp3 is fine for Spotify, so the only
	// error is the unknown platform id.
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %+v", result.Errors)
	}
	// Spotify's resolution expectation surfaces as a warning.
	if len(result.Warnings) == 0 {
		t.Fatal("expected a cover art resolution warning")
	}
}
