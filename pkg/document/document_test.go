package document_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/arthur-debert/templar/pkg/document"
	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		format  document.Format
		input   string
		wantErr errors.ErrorCode
		wantID  string
	}{
		{name: "json object", format: document.FormatJSON, input: `{"id":"abc-123","remoteUrl":"https://x"}`, wantID: "abc-123"},
		{name: "default format is json", format: "", input: `{"id":"x"}`, wantID: "x"},
		{name: "yaml object", format: document.FormatYAML, input: "id: abc\nremoteUrl: https://x\n", wantID: "abc"},
		{name: "json array", format: document.FormatJSON, input: `[1,2]`, wantErr: errors.ErrMalformedOutput},
		{name: "json scalar", format: document.FormatJSON, input: `"hello"`, wantErr: errors.ErrMalformedOutput},
		{name: "broken json", format: document.FormatJSON, input: `{"id":`, wantErr: errors.ErrMalformedOutput},
		{name: "yaml scalar", format: document.FormatYAML, input: "just text", wantErr: errors.ErrMalformedOutput},
		{name: "empty output", format: document.FormatJSON, input: "  \n", wantErr: errors.ErrMalformedOutput},
		{name: "unknown format", format: "xml", input: "<a/>", wantErr: errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := document.Parse(tt.format, []byte(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, errors.GetErrorCode(err))
				return
			}
			require.NoError(t, err)
			id, ok := doc.String("id")
			assert.True(t, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestAccessors(t *testing.T) {
	doc := document.Document{"id": "abc", "empty": "", "count": 3.0, "nothing": nil}

	_, ok := doc.String("missing")
	assert.False(t, ok)

	_, ok = doc.String("empty")
	assert.False(t, ok, "empty string counts as absent")

	_, ok = doc.String("count")
	assert.False(t, ok, "non-string counts as absent")

	assert.True(t, doc.Has("nothing"))
	v, ok := doc.Get("count")
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	var nilDoc document.Document
	assert.False(t, nilDoc.Has("id"))
}

func TestParseTruncatesOutputOnRuneBoundary(t *testing.T) {
	// the two-byte rune straddles the 200 byte cut
	input := `["` + strings.Repeat("a", 197) + "é" + strings.Repeat("b", 50) + `"]`

	_, err := document.Parse(document.FormatJSON, []byte(input))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedOutput))

	output, ok := errors.GetErrorDetails(err)["output"].(string)
	require.True(t, ok)
	assert.True(t, utf8.ValidString(output))
	assert.Equal(t, `["`+strings.Repeat("a", 197)+"...", output)
}
