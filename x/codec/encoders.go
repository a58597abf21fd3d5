package codec

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// JSONEncoder renders values as indented JSON.
type JSONEncoder struct{}

// NewJSONEncoder creates a JSON encoder
func NewJSONEncoder() *JSONEncoder {
	return &JSONEncoder{}
}

// Encode marshals v as indented JSON with a trailing newline.
func (e *JSONEncoder) Encode(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// ContentType returns the MIME type for JSON output.
func (e *JSONEncoder) ContentType() string {
	return "application/json"
}

// YAMLEncoder renders values as YAML.
type YAMLEncoder struct{}

// NewYAMLEncoder creates a YAML encoder
func NewYAMLEncoder() *YAMLEncoder {
	return &YAMLEncoder{}
}

// Encode marshals v as a YAML document.
func (e *YAMLEncoder) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// ContentType returns the MIME type for YAML output.
func (e *YAMLEncoder) ContentType() string {
	return "application/yaml"
}
