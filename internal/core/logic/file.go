package logic

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a document from YAML, or JSON when the file ends in .json.
// The result is validated, then normalized.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read logic file: %w", err)
	}
	return Parse(data, strings.EqualFold(filepath.Ext(path), ".json"))
}

// Parse decodes a document from YAML or JSON bytes
func Parse(data []byte, isJSON bool) (*Document, error) {
	var doc Document
	if isJSON {
		if err := sonic.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse logic document: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse logic document: %w", err)
		}
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	doc.Normalize()
	renumber(&doc)
	return &doc, nil
}

// Encode renders the document in the server's JSON wire format
func (d *Document) Encode() ([]byte, error) {
	return sonic.Marshal(d)
}

// renumber assigns step indexes in document order, matching the form builder
func renumber(doc *Document) {
	for i := range doc.Logic {
		doc.Logic[i].Step = i
	}
}
