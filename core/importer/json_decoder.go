package importer

import (
	"encoding/json"
	"fmt"
	"io"

	"distrofm/model"
)

// envelopeKeys are the named collection fields a JSON import may wrap its
// record array in, tried in order.
var envelopeKeys = []string{"items", "releases", "tracks", "artists"}

// jsonDecoder reads structured text: either a top-level array of objects or
// an object wrapping the array under one of the known envelope keys.
type jsonDecoder struct{}

func (d *jsonDecoder) Decode(r io.Reader) ([]model.ImportRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON input: %w", err)
	}

	var root interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	var list []interface{}
	switch typed := root.(type) {
	case []interface{}:
		list = typed
	case map[string]interface{}:
		for _, key := range envelopeKeys {
			if wrapped, ok := typed[key].([]interface{}); ok {
				list = wrapped
				break
			}
		}
	}

	records := make([]model.ImportRow, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]interface{}); ok {
			records = append(records, model.ImportRow(obj))
		}
	}
	return records, nil
}
