package spec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLintClean(t *testing.T) {
	l, err := NewLinter()
	require.NoError(t, err)

	raw := Normalize(decodeRaw(t, newtonSpec))
	assert.Empty(t, l.Lint(raw))
}

func TestLintReportsWarnings(t *testing.T) {
	l, err := NewLinter()
	require.NoError(t, err)

	raw := Normalize(decodeRaw(t, `{"id":"x","duration":100,"layers":[
		{"id":"a","type":"hexagon","props":{}},
		{"id":"b","type":"circle","props":{},"animations":[{"property":"pulse","min":1,"max":2,"duration":0}]}]}`))
	warnings := l.Lint(raw)

	require.NotEmpty(t, warnings)
	joined := strings.Join(warnings, "\n")
	assert.Contains(t, joined, "/layers/0/type")
	assert.Contains(t, joined, "/layers/1/animations/0")

	s, err := Decode(raw)
	require.NoError(t, err, "lint findings never block decoding")
	assert.Len(t, s.Layers, 2)
}

func TestLintNotObject(t *testing.T) {
	l, err := NewLinter()
	require.NoError(t, err)
	assert.NotEmpty(t, l.Lint("nope"))
}

func TestLintJSON(t *testing.T) {
	l, err := NewLinter()
	require.NoError(t, err)

	assert.Empty(t, l.LintJSON([]byte(newtonSpec)), "aliases are normalized before linting")
	assert.Len(t, l.LintJSON([]byte(`{"id":`)), 1)
}

func TestLintUnknownEasing(t *testing.T) {
	l, err := NewLinter()
	require.NoError(t, err)

	raw := Normalize(decodeRaw(t, `{"id":"x","duration":100,"layers":[
		{"id":"a","type":"circle","props":{},"animations":[
			{"property":"opacity","from":0,"to":1,"duration":50,"easing":"easeInOut"},
			{"property":"opacity","from":1,"to":0,"duration":50,"easing":"bouncy"}]}]}`))

	assert.Contains(t, l.Lint(raw), `/layers/0/animations/1/easing: unknown easing "bouncy", using linear`)
	for _, w := range l.Lint(raw) {
		assert.NotContains(t, w, "animations/0/easing")
	}
}
