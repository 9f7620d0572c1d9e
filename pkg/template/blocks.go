package template

import "strings"

// Block directive delimiters. The grammar is fixed; templates cannot
// define new block kinds.
const (
	eachOpen    = "{{#each "
	eachClose   = "{{/each}}"
	ifOpen      = "{{#if "
	ifClose     = "{{/if}}"
	unlessOpen  = "{{#unless "
	unlessClose = "{{/unless}}"
)

// expandBlocks runs both structural passes in their required order:
// each-expansion first (loop bodies must see per-item scope), then
// if/unless against the possibly item-scoped context.
func expandBlocks(s string, ctx *Context) string {
	s = expandEach(s, ctx)
	s = expandConditionals(s, ctx)
	return s
}

// expandEach replaces every {{#each name}}...{{/each}} block with N
// renderings of its body, one per record, each against the union of the
// outer context and the record's fields. Anything that does not resolve
// to a non-empty array of records collapses the whole block to "".
//
// The body of each copy is rendered completely (nested each blocks,
// conditionals, then leaf substitution) against the item scope before the
// outer passes continue, so item fields never leak into or out of the
// loop.
func expandEach(s string, ctx *Context) string {
	var out strings.Builder
	for {
		start := strings.Index(s, eachOpen)
		if start < 0 {
			out.WriteString(s)
			break
		}
		openEnd := strings.Index(s[start:], "}}")
		if openEnd < 0 {
			out.WriteString(s)
			break
		}
		name := strings.TrimSpace(s[start+len(eachOpen) : start+openEnd])
		bodyStart := start + openEnd + 2

		bodyEnd, after, ok := findBlockEnd(s, bodyStart, eachOpen, eachClose)
		if !ok {
			// Unmatched opening tag: emit it literally and keep going.
			out.WriteString(s[:bodyStart])
			s = s[bodyStart:]
			continue
		}

		out.WriteString(s[:start])
		body := s[bodyStart:bodyEnd]
		if items, found := ctx.Records(name); found && len(items) > 0 {
			for _, item := range items {
				scope := ctx.Child(item)
				row := expandEach(body, scope)
				row = expandConditionals(row, scope)
				row = substitute(row, scope)
				out.WriteString(row)
			}
		}
		s = s[after:]
	}
	return out.String()
}

// expandConditionals resolves {{#if}} and {{#unless}} blocks against the
// context. Included bodies are re-expanded so nested conditionals inside
// a kept branch resolve too.
func expandConditionals(s string, ctx *Context) string {
	s = expandConditional(s, ctx, ifOpen, ifClose, false)
	s = expandConditional(s, ctx, unlessOpen, unlessClose, true)
	return s
}

func expandConditional(s string, ctx *Context, open, close string, negate bool) string {
	var out strings.Builder
	for {
		start := strings.Index(s, open)
		if start < 0 {
			out.WriteString(s)
			break
		}
		openEnd := strings.Index(s[start:], "}}")
		if openEnd < 0 {
			out.WriteString(s)
			break
		}
		cond := strings.TrimSpace(s[start+len(open) : start+openEnd])
		bodyStart := start + openEnd + 2

		bodyEnd, after, ok := findBlockEnd(s, bodyStart, open, close)
		if !ok {
			out.WriteString(s[:bodyStart])
			s = s[bodyStart:]
			continue
		}

		out.WriteString(s[:start])
		include := EvalCondition(cond, ctx)
		if negate {
			include = !include
		}
		if include {
			body := s[bodyStart:bodyEnd]
			out.WriteString(expandConditional(body, ctx, open, close, negate))
		}
		s = s[after:]
	}
	return out.String()
}

// findBlockEnd locates the closing tag matching an already-consumed
// opening tag, honoring nesting of the same block kind. It reports false
// when the block is never closed.
func findBlockEnd(s string, from int, open, close string) (bodyEnd, after int, ok bool) {
	depth := 1
	i := from
	for i < len(s) {
		nextOpen := strings.Index(s[i:], open)
		nextClose := strings.Index(s[i:], close)
		if nextClose < 0 {
			return 0, 0, false
		}
		if nextOpen >= 0 && nextOpen < nextClose {
			depth++
			i += nextOpen + len(open)
			continue
		}
		depth--
		if depth == 0 {
			return i + nextClose, i + nextClose + len(close), true
		}
		i += nextClose + len(close)
	}
	return 0, 0, false
}

// Issue describes a structural problem found by Lint.
type Issue struct {
	Tag     string // the offending directive text, e.g. "{{#if paid}}"
	Message string
}

// Lint reports unmatched block directives in a template. The renderer
// itself never fails on these (unmatched tags pass through as literal
// text); Lint exists so an editor surface can flag them before a send.
func Lint(s string) []Issue {
	var issues []Issue
	for _, kind := range []struct{ open, close string }{
		{eachOpen, eachClose},
		{ifOpen, ifClose},
		{unlessOpen, unlessClose},
	} {
		rest := s
		for {
			start := strings.Index(rest, kind.open)
			if start < 0 {
				break
			}
			openEnd := strings.Index(rest[start:], "}}")
			if openEnd < 0 {
				issues = append(issues, Issue{
					Tag:     rest[start:],
					Message: "directive is never terminated with }}",
				})
				break
			}
			tag := rest[start : start+openEnd+2]
			bodyStart := start + openEnd + 2
			_, after, ok := findBlockEnd(rest, bodyStart, kind.open, kind.close)
			if !ok {
				issues = append(issues, Issue{
					Tag:     tag,
					Message: "no matching " + kind.close,
				})
				rest = rest[bodyStart:]
				continue
			}
			rest = rest[after:]
		}
	}
	return issues
}
