package importer

import (
	"errors"
	"strings"
	"testing"

	"distrofm/model"
)

func newTestImporter(t *testing.T) *Importer {
	t.Helper()
	imp, err := New()
	if err != nil {
		t.Fatalf("failed to build importer: %v", err)
	}
	return imp
}

func TestImportJSONEnvelope(t *testing.T) {
	imp := newTestImporter(t)
	payload := `{"releases": [
		{"title": "Midnight Sessions", "artist": "The Wave Riders"},
		{"title": "Dawn Patrol", "artist": "The Wave Riders"}
	]}`

	outcome, err := imp.ImportFile("catalog.json", strings.NewReader(payload), model.ImportTypeReleases, model.ValidationModeLenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != model.ImportStatusSuccess {
		t.Fatalf("expected success, got %s: %s", outcome.Status, outcome.Message)
	}
	if outcome.TotalItems != 2 || outcome.AffectedItems != 2 {
		t.Fatalf("expected 2/2 items, got %d/%d", outcome.AffectedItems, outcome.TotalItems)
	}
	if len(outcome.Accepted) != 2 {
		t.Fatalf("expected 2 accepted rows, got %d", len(outcome.Accepted))
	}
	if outcome.BatchID == "" {
		t.Fatal("expected a batch id")
	}
}

func TestImportCSV(t *testing.T) {
	imp := newTestImporter(t)
	payload := "title,artist,genre\nMidnight Sessions,The Wave Riders,electronic\n"

	outcome, err := imp.ImportFile("catalog.csv", strings.NewReader(payload), model.ImportTypeReleases, model.ValidationModeLenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != model.ImportStatusSuccess || outcome.AffectedItems != 1 {
		t.Fatalf("expected one imported row, got %+v", outcome)
	}
}

func TestImportXML(t *testing.T) {
	imp := newTestImporter(t)
	payload := `<releases>
		<release><title>Midnight Sessions</title><artist>The Wave Riders</artist></release>
		<release><title>Dawn Patrol</title><artist>The Wave Riders</artist></release>
	</releases>`

	outcome, err := imp.ImportFile("catalog.xml", strings.NewReader(payload), model.ImportTypeReleases, model.ValidationModeLenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.AffectedItems != 2 {
		t.Fatalf("expected 2 rows, got %+v", outcome)
	}
}

func TestImportStrictAbortsOnFirstInvalidRow(t *testing.T) {
	imp := newTestImporter(t)
	payload := `[
		{"title": "Midnight Sessions", "artist": "The Wave Riders"},
		{"title": "", "artist": "The Wave Riders"},
		{"title": "Dawn Patrol", "artist": "The Wave Riders"}
	]`

	outcome, err := imp.ImportFile("catalog.json", strings.NewReader(payload), model.ImportTypeReleases, model.ValidationModeStrict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != model.ImportStatusError {
		t.Fatalf("expected error status, got %s", outcome.Status)
	}
	if outcome.Message != "Validation failed in strict mode" {
		t.Fatalf("unexpected message: %s", outcome.Message)
	}
	if outcome.AffectedItems != 0 {
		t.Fatalf("strict mode must not accept anything, got %d", outcome.AffectedItems)
	}
	if len(outcome.Details) == 0 || !strings.HasPrefix(outcome.Details[0], "Row 2:") {
		t.Fatalf("expected a row 2 detail, got %+v", outcome.Details)
	}
}

func TestImportLenientKeepsValidRows(t *testing.T) {
	imp := newTestImporter(t)
	payload := `[
		{"title": "Midnight Sessions", "artist": "The Wave Riders"},
		{"artist": "No Title"},
		{"title": "Dawn Patrol", "artist": "The Wave Riders"}
	]`

	outcome, err := imp.ImportFile("catalog.json", strings.NewReader(payload), model.ImportTypeReleases, model.ValidationModeLenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != model.ImportStatusWarning {
		t.Fatalf("expected warning status, got %s", outcome.Status)
	}
	if outcome.AffectedItems != 2 || outcome.TotalItems != 3 {
		t.Fatalf("expected 2/3 items, got %d/%d", outcome.AffectedItems, outcome.TotalItems)
	}
	if len(outcome.Details) == 0 {
		t.Fatal("expected details for the rejected row")
	}
}

func TestImportAllRowsInvalid(t *testing.T) {
	imp := newTestImporter(t)
	payload := `[{"artist": "No Title"}, {"title": ""}]`

	outcome, err := imp.ImportFile("catalog.json", strings.NewReader(payload), model.ImportTypeReleases, model.ValidationModeLenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != model.ImportStatusError {
		t.Fatalf("expected error status, got %s", outcome.Status)
	}
	if outcome.Message != "No valid items found in the import file" {
		t.Fatalf("unexpected message: %s", outcome.Message)
	}
}

func TestImportEmptyFile(t *testing.T) {
	imp := newTestImporter(t)

	outcome, err := imp.ImportFile("catalog.json", strings.NewReader(`[]`), model.ImportTypeReleases, model.ValidationModeLenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != model.ImportStatusError {
		t.Fatalf("expected error status, got %s", outcome.Status)
	}
	if outcome.Message != "No valid data found in the import file" {
		t.Fatalf("unexpected message: %s", outcome.Message)
	}
}

func TestImportUnsupportedExtension(t *testing.T) {
	imp := newTestImporter(t)

	_, err := imp.ImportFile("catalog.pdf", strings.NewReader("x"), model.ImportTypeReleases, model.ValidationModeLenient)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestImportUnknownType(t *testing.T) {
	imp := newTestImporter(t)

	_, err := imp.ImportFile("catalog.json", strings.NewReader(`[]`), model.ImportType("labels"), model.ValidationModeLenient)
	if err == nil {
		t.Fatal("expected an error for an unknown import type")
	}
}

func TestImportTracksSchema(t *testing.T) {
	imp := newTestImporter(t)
	payload := `{"tracks": [
		{"title": "Opening", "primaryArtist": "The Wave Riders", "isrc": "USRC17607839"},
		{"title": "Closing"}
	]}`

	outcome, err := imp.ImportFile("tracks.json", strings.NewReader(payload), model.ImportTypeTracks, model.ValidationModeLenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.AffectedItems != 1 {
		t.Fatalf("expected one accepted track row, got %+v", outcome)
	}
}
