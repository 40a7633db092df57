package model

// Validation error codes surfaced to callers. These are stable identifiers;
// messages may change, codes must not.
const (
	CodeReleaseNotFound    = "RELEASE_NOT_FOUND"
	CodeNoTracks           = "NO_TRACKS"
	CodeRequiredField      = "REQUIRED_FIELD"
	CodeFieldTooLong       = "FIELD_TOO_LONG"
	CodeInvalidGenre       = "INVALID_GENRE"
	CodeInvalidUPC         = "INVALID_UPC"
	CodeInvalidISRC        = "INVALID_ISRC"
	CodeInvalidDate        = "INVALID_DATE"
	CodeDateTooEarly       = "DATE_TOO_EARLY"
	CodeDateTooFuture      = "DATE_TOO_FUTURE"
	CodeFileNotFound       = "FILE_NOT_FOUND"
	CodeInvalidAudioFormat = "INVALID_AUDIO_FORMAT"
	CodeInvalidImageFormat = "INVALID_IMAGE_FORMAT"
	CodePlatformNotFound   = "PLATFORM_NOT_FOUND"
	CodeValidationError    = "VALIDATION_ERROR"
)

// ValidationError is a single blocking finding.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationWarning is a non-blocking finding; warnings never gate distribution.
type ValidationWarning struct {
	Field      string `json:"field"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidationResult aggregates all findings for one validateRelease call.
// Valid is true iff Errors is empty.
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	Errors   []ValidationError   `json:"errors"`
	Warnings []ValidationWarning `json:"warnings"`
}
