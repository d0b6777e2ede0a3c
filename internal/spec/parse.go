package spec

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNoSpec indicates the spec file was not found.
var ErrNoSpec = errors.New("spec file not found")

// Parse decodes a SpecJSON document. It rejects malformed JSON but performs
// no semantic checks; run Validate on the result before generating.
func Parse(data []byte) (*WidgetSpec, error) {
	var s WidgetSpec
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing spec: %w", err)
	}
	return &s, nil
}

// Load reads and parses a SpecJSON file from disk.
func Load(path string) (*WidgetSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoSpec, path)
		}
		return nil, fmt.Errorf("reading spec: %w", err)
	}
	return Parse(data)
}
