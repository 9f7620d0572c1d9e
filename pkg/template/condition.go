package template

import (
	"regexp"
	"strconv"
	"strings"
)

// condKind tags the parsed form of a condition.
type condKind int

const (
	condEq condKind = iota
	condCmp
	condContains
	condAnd
	condBare
)

// condition is the parsed form of a condition string. Parsing the fixed
// grammar up front, instead of re-sniffing the raw text at every
// evaluation site, keeps the form priority in one place.
type condition struct {
	kind  condKind
	name  string     // Eq, Cmp, Contains, Bare: context name or dotted path
	str   string     // Eq: literal; Contains: substring
	op    string     // Cmp: one of > >= < <= == !=
	num   float64    // Cmp: numeric operand
	left  *condition // And
	right *condition // And
}

var (
	namePart = `[A-Za-z_][\w]*(?:\.[A-Za-z_][\w]*)*`

	eqPattern       = regexp.MustCompile(`^(` + namePart + `)\s*==\s*"([^"]*)"$`)
	cmpPattern      = regexp.MustCompile(`^(` + namePart + `)\s*(>=|<=|!=|==|>|<)\s*(-?\d+(?:\.\d+)?)$`)
	containsPattern = regexp.MustCompile(`^contains\s+(` + namePart + `)\s+"([^"]*)"$`)
	barePattern     = regexp.MustCompile(`^` + namePart + `$`)
)

// parseCondition parses a condition string into its structural form.
// Forms are tried in priority order; the first full match wins. A string
// matching none of them reports false.
func parseCondition(s string) (*condition, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}

	if m := eqPattern.FindStringSubmatch(s); m != nil {
		return &condition{kind: condEq, name: m[1], str: m[2]}, true
	}
	if m := cmpPattern.FindStringSubmatch(s); m != nil {
		num, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return nil, false
		}
		return &condition{kind: condCmp, name: m[1], op: m[2], num: num}, true
	}
	if m := containsPattern.FindStringSubmatch(s); m != nil {
		return &condition{kind: condContains, name: m[1], str: m[2]}, true
	}
	if left, right, ok := strings.Cut(s, "&&"); ok {
		l, lok := parseCondition(left)
		r, rok := parseCondition(right)
		if !lok || !rok {
			return nil, false
		}
		return &condition{kind: condAnd, left: l, right: r}, true
	}
	if barePattern.MatchString(s) {
		return &condition{kind: condBare, name: s}, true
	}
	return nil, false
}

// eval decides the condition against a context. It cannot fail: every
// lookup miss and type mismatch degrades to false.
func (c *condition) eval(ctx *Context) bool {
	switch c.kind {
	case condEq:
		v, ok := ctx.Lookup(c.name)
		if !ok {
			return false
		}
		return formatValue(v) == c.str
	case condCmp:
		v, _ := ctx.Lookup(c.name)
		n, ok := toNumber(v)
		if !ok {
			n = 0
		}
		switch c.op {
		case ">":
			return n > c.num
		case ">=":
			return n >= c.num
		case "<":
			return n < c.num
		case "<=":
			return n <= c.num
		case "==":
			return n == c.num
		case "!=":
			return n != c.num
		}
		return false
	case condContains:
		v, ok := ctx.Lookup(c.name)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(formatValue(v)), strings.ToLower(c.str))
	case condAnd:
		return c.left.eval(ctx) && c.right.eval(ctx)
	case condBare:
		v, ok := ctx.Lookup(c.name)
		if !ok {
			return false
		}
		return Truthy(v)
	}
	return false
}

// EvalCondition evaluates a condition string against a context. Malformed
// conditions return false; no error ever escapes a send because of a bad
// stored condition.
func EvalCondition(cond string, ctx *Context) bool {
	parsed, ok := parseCondition(cond)
	if !ok {
		return false
	}
	return parsed.eval(ctx)
}
