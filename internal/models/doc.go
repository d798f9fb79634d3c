package models

import (
	"encoding/json"
	"fmt"
)

// ToDoc converts an entity into the flat map shape the document store
// persists. Zero-valued optional fields are dropped by their omitempty
// tags.
func ToDoc(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	doc := make(map[string]any)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}
