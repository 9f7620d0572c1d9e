package template

import (
	"fmt"
	"strconv"
	"strings"
)

// Context holds the variables for one render. It is immutable once built:
// lookups never modify it, and loop scopes are layered on with Child
// rather than by mutation.
type Context struct {
	vars map[string]any
}

// NewContext creates a context directly from a variable map. Most callers
// should use Builder instead so that settings/variable precedence is
// explicit.
func NewContext(vars map[string]any) *Context {
	if vars == nil {
		vars = map[string]any{}
	}
	return &Context{vars: vars}
}

// Builder assembles a render context from its layers. Precedence is fixed:
// settings < variables < engine-injected fields. Settings provide fallback
// branding; caller variables carry the business facts and always win.
type Builder struct {
	settings  map[string]any
	variables map[string]any
	language  string
	team      string
}

// NewBuilder returns an empty context builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Settings sets the lowest-precedence layer (app settings, branding).
func (b *Builder) Settings(settings map[string]any) *Builder {
	b.settings = settings
	return b
}

// Variables sets the caller-supplied business variables.
func (b *Builder) Variables(vars map[string]any) *Builder {
	b.variables = vars
	return b
}

// Language sets the engine-injected "language" field.
func (b *Builder) Language(lang string) *Builder {
	b.language = lang
	return b
}

// Team sets the engine-injected "team" field.
func (b *Builder) Team(team string) *Builder {
	b.team = team
	return b
}

// Build merges the layers into an immutable Context.
func (b *Builder) Build() *Context {
	merged := make(map[string]any, len(b.settings)+len(b.variables)+2)
	for k, v := range b.settings {
		merged[k] = v
	}
	for k, v := range b.variables {
		merged[k] = v
	}
	if b.language != "" {
		merged["language"] = b.language
	}
	if b.team != "" {
		merged["team"] = b.team
	}
	return &Context{vars: merged}
}

// Child returns the union of this context and an iteration item's fields,
// with item fields shadowing on collision. Conditions and placeholders
// inside an each body evaluate against this union scope.
func (c *Context) Child(item map[string]any) *Context {
	merged := make(map[string]any, len(c.vars)+len(item))
	for k, v := range c.vars {
		merged[k] = v
	}
	for k, v := range item {
		merged[k] = v
	}
	return &Context{vars: merged}
}

// Lookup resolves a name or dotted path against the context. It reports
// false when the name or any path segment is absent.
func (c *Context) Lookup(path string) (any, bool) {
	if c == nil {
		return nil, false
	}
	if v, ok := c.vars[path]; ok {
		return v, true
	}
	if !strings.Contains(path, ".") {
		return nil, false
	}
	parts := strings.Split(path, ".")
	var current any = c.vars
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Records resolves a name to an array of records for each-expansion.
// It reports false for missing, null, non-array, and mixed-element values.
func (c *Context) Records(name string) ([]map[string]any, bool) {
	v, ok := c.Lookup(name)
	if !ok || v == nil {
		return nil, false
	}
	switch items := v.(type) {
	case []map[string]any:
		return items, true
	case []any:
		records := make([]map[string]any, 0, len(items))
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, false
			}
			records = append(records, m)
		}
		return records, true
	}
	return nil, false
}

// Truthy classifies a resolved value for bare-name conditions. The falsy
// set is exactly: nil, "", 0, and false. Everything else, including empty
// arrays and records, is truthy.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case int:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case uint:
		return x != 0
	case uint32:
		return x != 0
	case uint64:
		return x != 0
	case float32:
		return x != 0
	case float64:
		return x != 0
	}
	return true
}

// toNumber coerces a value to float64 for numeric comparison and currency
// formatting. Numeric strings parse; anything else reports false.
func toNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// formatValue converts a resolved value to its output text.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
