package model

// ImportType selects the row schema applied during a bulk import.
type ImportType string

const (
	ImportTypeReleases ImportType = "releases"
	ImportTypeTracks   ImportType = "tracks"
	ImportTypeArtists  ImportType = "artists"
)

// ValidationMode controls how the import pipeline reacts to invalid rows.
type ValidationMode string

const (
	// ValidationModeStrict aborts the whole batch on the first invalid row.
	ValidationModeStrict ValidationMode = "strict"
	// ValidationModeLenient collects invalid rows and keeps going.
	ValidationModeLenient ValidationMode = "lenient"
)

// ImportStatus classifies the outcome of one import call.
type ImportStatus string

const (
	ImportStatusSuccess ImportStatus = "success"
	ImportStatusWarning ImportStatus = "warning"
	ImportStatusError   ImportStatus = "error"
)

// ImportRow is one decoded record, uniform across all file formats.
type ImportRow map[string]interface{}

// ImportOutcome is the classified result of one import request. Accepted
// holds the schema-valid rows; persistence of those rows happens at the
// caller's boundary, not inside the pipeline.
type ImportOutcome struct {
	BatchID       string       `json:"batchId"`
	Status        ImportStatus `json:"status"`
	Message       string       `json:"message"`
	Details       []string     `json:"details,omitempty"`
	AffectedItems int          `json:"affectedItems"`
	TotalItems    int          `json:"totalItems"`
	Accepted      []ImportRow  `json:"-"`
}
