package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"distrofm/model"
)

// csvDecoder reads delimited text with a header row.
type csvDecoder struct{}

func (d *csvDecoder) Decode(r io.Reader) ([]model.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows; schema validation reports the gaps

	headers, err := reader.Read()
	if err == io.EOF {
		return []model.ImportRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	records := make([]model.ImportRow, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		record := model.ImportRow{}
		for i, cell := range row {
			if i >= len(headers) {
				break
			}
			record[headers[i]] = cell
		}
		records = append(records, record)
	}
	return records, nil
}
