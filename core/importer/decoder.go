package importer

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"distrofm/model"
)

// ErrUnsupportedFormat is returned for file extensions no decoder handles.
// Input-shape problems like this are rejected before any decoding begins.
var ErrUnsupportedFormat = errors.New("unsupported file format; only XLSX, CSV, JSON and XML files are allowed")

// Decoder turns one file format into the uniform row list every format
// funnels into. Decoders are independent strategies selected by extension;
// none of them validates row contents.
type Decoder interface {
	Decode(r io.Reader) ([]model.ImportRow, error)
}

// DecoderForFile selects the decoder for a filename by extension.
func DecoderForFile(filename string) (Decoder, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return &xlsxDecoder{}, nil
	case ".csv":
		return &csvDecoder{}, nil
	case ".json":
		return &jsonDecoder{}, nil
	case ".xml":
		return &xmlDecoder{}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// SupportedExtension reports whether a filename would be accepted for import.
func SupportedExtension(filename string) bool {
	_, err := DecoderForFile(filename)
	return err == nil
}
