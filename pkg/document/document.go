// Package document models the schema-free key/value output of external
// commands. Accessors report absence instead of failing.
package document

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/templar/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format names a structured output encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is a parsed key/value object
type Document map[string]any

// Get returns the raw value stored under key
func (d Document) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d[key]
	return v, ok
}

// Has reports whether key is present, whatever its value
func (d Document) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// String returns the value under key when it is a non-empty string
func (d Document) String(key string) (string, bool) {
	v, ok := d.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Parse decodes data as a single top-level object. Anything else,
// including empty output, is ErrMalformedOutput.
func Parse(format Format, data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(errors.ErrMalformedOutput, "command produced no output")
	}

	var raw any
	switch Format(strings.ToLower(string(format))) {
	case FormatYAML, "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrMalformedOutput, "output is not valid YAML")
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrMalformedOutput, "output is not valid JSON")
		}
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported output format: %s", format)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New(errors.ErrMalformedOutput, "output is not a key/value object").
			WithDetail("output", truncate(string(data), 200))
	}
	return Document(obj), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
