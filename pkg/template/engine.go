package template

import (
	"regexp"
	"strings"
)

// Engine renders template strings. It holds no state and is safe for
// concurrent use; every render allocates its own intermediates.
type Engine struct{}

// New creates a template engine.
func New() *Engine {
	return &Engine{}
}

// exprRegex matches {{expression}} placeholders with optional whitespace.
var exprRegex = regexp.MustCompile(`\{\{\s*([^}]+?)\s*\}\}`)

// ternaryRegex matches condition ? "true text" : "false text".
var ternaryRegex = regexp.MustCompile(`^(.+?)\s*\?\s*"([^"]*)"\s*:\s*"([^"]*)"$`)

// bracketRegex matches legacy [UPPER_SNAKE] placeholders.
var bracketRegex = regexp.MustCompile(`\[([A-Z][A-Z0-9_]*)\]`)

// Render runs the full pipeline over one document: each-expansion,
// if/unless expansion, placeholder substitution, then the bracket
// fallback pass. It is a pure function of (s, ctx).
func (e *Engine) Render(s string, ctx *Context) string {
	s = expandBlocks(s, ctx)
	s = substitute(s, ctx)
	s = substituteBrackets(s, ctx)
	return s
}

// RenderDocument renders a subject/html/text triple against one shared
// context and trims each result.
func (e *Engine) RenderDocument(subject, html, text string, ctx *Context) (string, string, string) {
	return strings.TrimSpace(e.Render(subject, ctx)),
		strings.TrimSpace(e.Render(html, ctx)),
		strings.TrimSpace(e.Render(text, ctx))
}

// substitute resolves all remaining {{expression}} placeholders in a
// single left-to-right pass. Leftover directive tags from unmatched
// blocks are not expressions and pass through untouched.
func substitute(s string, ctx *Context) string {
	return exprRegex.ReplaceAllStringFunc(s, func(match string) string {
		sub := exprRegex.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		expr := strings.TrimSpace(sub[1])
		if strings.HasPrefix(expr, "#") || strings.HasPrefix(expr, "/") {
			return match
		}
		return resolveExpr(expr, ctx, match)
	})
}

// resolveExpr resolves one placeholder expression, trying the sub-forms
// in priority order. The original match text is the fallback for
// unresolved bare variables and unknown function names, so missing data
// stays visible in the output instead of silently vanishing.
func resolveExpr(expr string, ctx *Context, match string) string {
	if m := ternaryRegex.FindStringSubmatch(expr); m != nil {
		if EvalCondition(m[1], ctx) {
			return m[2]
		}
		return m[3]
	}

	if parts := strings.Fields(expr); len(parts) >= 2 {
		switch parts[0] {
		case "formatCurrency":
			amount, _ := ctx.Lookup(parts[1])
			currency := ""
			if len(parts) >= 3 {
				if v, ok := ctx.Lookup(parts[2]); ok {
					currency = formatValue(v)
				}
			}
			return FormatCurrency(amount, currency)
		case "formatDate":
			date, ok := ctx.Lookup(parts[1])
			if !ok {
				return ""
			}
			lang := ambientLanguage(ctx)
			if len(parts) >= 3 {
				if v, found := ctx.Lookup(parts[2]); found {
					lang = formatValue(v)
				}
			}
			return FormatDate(date, lang)
		}
		return match
	}

	if strings.Contains(expr, ".") {
		v, ok := ctx.Lookup(expr)
		if !ok {
			return ""
		}
		return formatValue(v)
	}

	v, ok := ctx.Lookup(expr)
	if !ok {
		return match
	}
	return formatValue(v)
}

// substituteBrackets runs the legacy placeholder pass: each [NAME] token
// is lower-cased and looked up directly; a miss leaves the token literal.
func substituteBrackets(s string, ctx *Context) string {
	return bracketRegex.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.ToLower(match[1 : len(match)-1])
		v, ok := ctx.Lookup(name)
		if !ok {
			return match
		}
		return formatValue(v)
	})
}

// ambientLanguage reads the engine-injected language field, defaulting
// to English.
func ambientLanguage(ctx *Context) string {
	if v, ok := ctx.Lookup("language"); ok {
		return formatValue(v)
	}
	return "en"
}
