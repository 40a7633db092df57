package importer

import (
	"fmt"

	"distrofm/model"

	"github.com/xeipuuv/gojsonschema"
)

// Row schemas per import type. Minimal on purpose: bulk files routinely carry
// extra columns, so only the fields the catalog cannot live without are
// required here; the metadata validator applies the full rules later.
var rowSchemas = map[model.ImportType]string{
	model.ImportTypeReleases: `{
		"type": "object",
		"required": ["title", "artist"],
		"properties": {
			"title":  {"type": "string", "minLength": 1},
			"artist": {"type": "string", "minLength": 1},
			"genre":  {"type": "string"},
			"upc":    {"type": "string"}
		}
	}`,
	model.ImportTypeTracks: `{
		"type": "object",
		"required": ["title", "primaryArtist"],
		"properties": {
			"title":         {"type": "string", "minLength": 1},
			"primaryArtist": {"type": "string", "minLength": 1},
			"isrc":          {"type": "string"}
		}
	}`,
	model.ImportTypeArtists: `{
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string", "minLength": 1}
		}
	}`,
}

// SchemaSet holds the compiled row schemas.
type SchemaSet struct {
	schemas map[model.ImportType]*gojsonschema.Schema
}

// NewSchemaSet compiles all row schemas.
func NewSchemaSet() (*SchemaSet, error) {
	set := &SchemaSet{schemas: make(map[model.ImportType]*gojsonschema.Schema)}
	for importType, raw := range rowSchemas {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s row schema: %w", importType, err)
		}
		set.schemas[importType] = schema
	}
	return set, nil
}

// Supports reports whether a schema exists for the import type.
func (s *SchemaSet) Supports(importType model.ImportType) bool {
	_, ok := s.schemas[importType]
	return ok
}

// ValidateRow validates one decoded row against the import type's schema and
// returns the field-level messages, empty when the row is valid.
func (s *SchemaSet) ValidateRow(importType model.ImportType, row model.ImportRow) ([]string, error) {
	schema, ok := s.schemas[importType]
	if !ok {
		return nil, fmt.Errorf("no schema for import type %q", importType)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(map[string]interface{}(row)))
	if err != nil {
		return nil, fmt.Errorf("failed to validate row: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		messages = append(messages, desc.String())
	}
	return messages, nil
}
