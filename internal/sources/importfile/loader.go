package importfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidFormat is returned when the payload parses but its root is
	// not an array.
	ErrInvalidFormat = errors.New("invalid format: expected an array of records")
	// ErrParse is returned when the payload is not valid JSON or YAML.
	ErrParse = errors.New("failed to parse import payload")
)

// Format selects the decoder used for an import payload.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user-supplied name or content type to a Format.
// Anything unrecognized is JSON.
func ParseFormat(s string) Format {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.Contains(s, "yaml") || s == "yml" {
		return FormatYAML
	}
	return FormatJSON
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Loader reads import files from disk.
type Loader struct {
	filePath string
}

// NewLoader creates a loader for one import file.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the import file.
func (l *Loader) Load() ([]any, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	return Parse(data, FormatFromPath(l.filePath))
}

// Parse decodes an import payload. The root must be an array; its elements
// are returned untouched for the mapper to coerce.
func Parse(data []byte, format Format) ([]any, error) {
	var (
		root any
		err  error
	)
	switch format {
	case FormatYAML:
		root, err = decodeYAML(data)
	default:
		root, err = decodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	items, ok := root.([]any)
	if !ok {
		return nil, ErrInvalidFormat
	}
	return items, nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	// Keep numeric ids exact; float64 would round long digit strings.
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return root, nil
}

func decodeYAML(data []byte) (any, error) {
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return jsonSafe(root), nil
}

// jsonSafe rewrites YAML-decoded values so they marshal as JSON:
// maps with non-string keys become map[string]any and non-finite
// floats (.nan, .inf) become nil.
func jsonSafe(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = jsonSafe(item)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = jsonSafe(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = jsonSafe(item)
		}
		return val
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	default:
		return val
	}
}
