package types_test

import (
	"testing"

	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/arthur-debert/templar/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestSubstitutionRule(t *testing.T) {
	rule := types.SubstitutionRule{Old: "pkg.template.", New: "pkg.app."}

	t.Run("replaces_every_occurrence", func(t *testing.T) {
		got := rule.Apply("pkg.template.api uses pkg.template.core")
		assert.Equal(t, "pkg.app.api uses pkg.app.core", got)
	})

	t.Run("matches_inside_larger_identifiers", func(t *testing.T) {
		assert.True(t, rule.Contains("mypkg.template.x"))
		assert.Equal(t, "mypkg.app.x", rule.Apply("mypkg.template.x"))
	})

	t.Run("is_case_sensitive", func(t *testing.T) {
		assert.False(t, rule.Contains("PKG.TEMPLATE.api"))
		assert.Equal(t, "PKG.TEMPLATE.api", rule.Apply("PKG.TEMPLATE.api"))
	})

	t.Run("empty_placeholder_is_invalid", func(t *testing.T) {
		err := types.SubstitutionRule{New: "x"}.Validate()
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		assert.NoError(t, rule.Validate())
	})
}

func TestSubstitutionRuleSelects(t *testing.T) {
	tests := []struct {
		name       string
		extensions []string
		file       string
		want       bool
	}{
		{"no filter selects everything", nil, "Program.cs", true},
		{"matching suffix", []string{".cs", ".csproj"}, "Api.csproj", true},
		{"non matching suffix", []string{".cs"}, "README.md", false},
		{"suffix without dot", []string{"file"}, "Dockerfile", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := types.SubstitutionRule{Old: "a", Extensions: tt.extensions}
			assert.Equal(t, tt.want, rule.Selects(tt.file))
		})
	}
}
