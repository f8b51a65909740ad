package report

import (
	"encoding/json"
	"io"
)

// JSON renders results for machine consumption
type JSON struct {
	encoder *json.Encoder
}

// NewJSON creates a JSON renderer
func NewJSON(w io.Writer) *JSON {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return &JSON{encoder: encoder}
}

func (r *JSON) RenderResult(result interface{}) error {
	return r.encoder.Encode(result)
}

func (r *JSON) RenderError(err error) error {
	return r.encoder.Encode(map[string]string{"error": err.Error()})
}

func (r *JSON) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
