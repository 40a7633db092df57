package importer

import (
	"fmt"
	"io"

	"distrofm/model"

	"github.com/xuri/excelize/v2"
)

// xlsxDecoder reads the first worksheet of a workbook. The first row supplies
// the column headers; every following row becomes one record.
type xlsxDecoder struct{}

func (d *xlsxDecoder) Decode(r io.Reader) ([]model.ImportRow, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []model.ImportRow{}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		if cell == "" {
			headers[i] = fmt.Sprintf("Column%d", i+1)
		} else {
			headers[i] = cell
		}
	}

	records := make([]model.ImportRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
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
