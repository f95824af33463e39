package spec

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/matt-g-everett/vistx/util"
)

//go:embed schema.json
var schemaSource string

const schemaURL = "https://vistx.schemas.local/visualization.schema.json"

// Linter reports where an upstream payload strays from the expected shape.
// Findings are advisory; the decoder copes with all of them.
type Linter struct {
	schema *jsonschema.Schema
}

// NewLinter compiles the embedded visualization schema.
func NewLinter() (*Linter, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
		return nil, fmt.Errorf("spec schema load failed: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("spec schema compile failed: %w", err)
	}
	return &Linter{schema: compiled}, nil
}

// Lint validates a normalized JSON value and returns one warning per failed
// rule, sorted. A nil result means the payload matches the schema.
func (l *Linter) Lint(raw any) []string {
	out := lintEasings(raw)
	err := l.schema.Validate(raw)
	if err == nil {
		sort.Strings(out)
		return out
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return append(out, err.Error())
	}

	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, fmt.Sprintf("%s: %s", loc, e.Message))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	sort.Strings(out)
	return out
}

// lintEasings flags easing names that fall back to linear.
func lintEasings(raw any) []string {
	root, _ := raw.(map[string]any)
	layers, _ := root["layers"].([]any)
	var out []string
	for i, l := range layers {
		lm, _ := l.(map[string]any)
		anims, _ := lm["animations"].([]any)
		for j, a := range anims {
			am, _ := a.(map[string]any)
			name, ok := am["easing"].(string)
			if ok && !util.KnownEasing(name) {
				out = append(out, fmt.Sprintf("/layers/%d/animations/%d/easing: unknown easing %q, using linear", i, j, name))
			}
		}
	}
	return out
}

// LintJSON normalizes a raw payload and lints it. Payloads that are not JSON
// produce a single warning.
func (l *Linter) LintJSON(data []byte) []string {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return []string{fmt.Sprintf("/: %v", err)}
	}
	return l.Lint(Normalize(raw))
}
