package importer

import (
	"fmt"
	"io"

	"distrofm/logger"
	"distrofm/model"

	"github.com/google/uuid"
)

// Importer runs the bulk import pipeline: decode by format, validate each row
// against the import type's schema, and classify the batch. It never persists
// rows itself; accepted rows ride out on the outcome for the caller to store.
type Importer struct {
	schemas *SchemaSet
}

func New() (*Importer, error) {
	schemas, err := NewSchemaSet()
	if err != nil {
		return nil, err
	}
	return &Importer{schemas: schemas}, nil
}

// ImportFile processes one uploaded file. The returned error covers only
// input-shape failures (unknown import type, unsupported extension, a file
// the decoder cannot parse); everything past decoding is reported through the
// outcome's status and details.
func (imp *Importer) ImportFile(filename string, r io.Reader, importType model.ImportType, mode model.ValidationMode) (model.ImportOutcome, error) {
	if !imp.schemas.Supports(importType) {
		return model.ImportOutcome{}, fmt.Errorf("unknown import type %q", importType)
	}

	decoder, err := DecoderForFile(filename)
	if err != nil {
		return model.ImportOutcome{}, err
	}

	rows, err := decoder.Decode(r)
	if err != nil {
		return model.ImportOutcome{}, err
	}

	outcome := model.ImportOutcome{
		BatchID:    uuid.New().String(),
		TotalItems: len(rows),
	}

	if len(rows) == 0 {
		outcome.Status = model.ImportStatusError
		outcome.Message = "No valid data found in the import file"
		logger.Warn("Import file contained no rows",
			logger.String("batchId", outcome.BatchID),
			logger.String("file", filename))
		return outcome, nil
	}

	var details []string
	accepted := make([]model.ImportRow, 0, len(rows))

	for i, row := range rows {
		messages, err := imp.schemas.ValidateRow(importType, row)
		if err != nil {
			return model.ImportOutcome{}, err
		}
		if len(messages) == 0 {
			accepted = append(accepted, row)
			continue
		}

		for _, msg := range messages {
			details = append(details, fmt.Sprintf("Row %d: %s", i+1, msg))
		}

		if mode == model.ValidationModeStrict {
			// Strict mode is all or nothing: the first bad row voids the batch.
			outcome.Status = model.ImportStatusError
			outcome.Message = "Validation failed in strict mode"
			outcome.Details = details
			outcome.AffectedItems = 0
			logger.Warn("Strict import aborted",
				logger.String("batchId", outcome.BatchID),
				logger.String("file", filename),
				logger.Int("row", i+1))
			return outcome, nil
		}
	}

	outcome.AffectedItems = len(accepted)
	outcome.Accepted = accepted
	outcome.Details = details

	switch {
	case len(accepted) == 0:
		outcome.Status = model.ImportStatusError
		outcome.Message = "No valid items found in the import file"
	case len(details) > 0:
		outcome.Status = model.ImportStatusWarning
		outcome.Message = fmt.Sprintf("Import completed with %d warnings", len(details))
	default:
		outcome.Status = model.ImportStatusSuccess
		outcome.Message = fmt.Sprintf("Successfully imported %d %s", len(accepted), importType)
	}

	logger.Info("Import batch processed",
		logger.String("batchId", outcome.BatchID),
		logger.String("file", filename),
		logger.String("type", string(importType)),
		logger.String("status", string(outcome.Status)),
		logger.Int("accepted", outcome.AffectedItems),
		logger.Int("total", outcome.TotalItems))

	return outcome, nil
}
