package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"distrofm/model"
)

// xmlDecoder reads a markup tree shaped like
//
//	<releases><release><title>...</title>...</release>...</releases>
//
// Each child of the root element becomes one record; the record's fields are
// the text contents of its child elements.
type xmlDecoder struct{}

func (d *xmlDecoder) Decode(r io.Reader) ([]model.ImportRow, error) {
	root, err := parseElement(xml.NewDecoder(r))
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	if root == nil {
		return []model.ImportRow{}, nil
	}

	records := make([]model.ImportRow, 0, len(root.children))
	for _, child := range root.children {
		record := model.ImportRow{}
		for _, field := range child.children {
			record[field.name] = strings.TrimSpace(field.text)
		}
		records = append(records, record)
	}
	return records, nil
}

// xmlElement is a minimal generic tree node; attribute values are not needed
// for tabular imports.
type xmlElement struct {
	name     string
	text     string
	children []*xmlElement
}

// parseElement reads the next element (and its subtree) from the decoder.
// Returns nil at EOF before any element starts.
func parseElement(decoder *xml.Decoder) (*xmlElement, error) {
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		return parseSubtree(decoder, start)
	}
}

func parseSubtree(decoder *xml.Decoder, start xml.StartElement) (*xmlElement, error) {
	element := &xmlElement{name: start.Name.Local}
	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		switch typed := token.(type) {
		case xml.StartElement:
			child, err := parseSubtree(decoder, typed)
			if err != nil {
				return nil, err
			}
			element.children = append(element.children, child)
		case xml.CharData:
			element.text += string(typed)
		case xml.EndElement:
			return element, nil
		}
	}
}
