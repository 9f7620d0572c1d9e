// Package template renders stored notification templates (email subject,
// HTML body, plain-text body) against a per-render variable context.
// Templates use a small, closed directive grammar; nothing in a template
// can execute code, so untrusted stored content is safe to render.
//
// # Directives
//
// Block constructs control repetition and inclusion of template text:
//   - {{#each items}}...{{/each}} - repeat the body once per record in the
//     items array. Missing, null, empty, or non-array values render the
//     whole block as the empty string.
//   - {{#if condition}}...{{/if}} - include the body when the condition
//     holds.
//   - {{#unless condition}}...{{/unless}} - include the body when the
//     condition does not hold.
//
// There is no else clause; adjacent if/unless blocks express the two
// branches. Each blocks are expanded before conditionals so that
// conditions inside a loop body see the per-item scope.
//
// # Conditions
//
// A condition is one of:
//   - name == "literal" - string equality
//   - name <op> number - numeric comparison (>, >=, <, <=, ==, !=);
//     unresolved or non-numeric values coerce to 0
//   - contains name "substring" - case-insensitive containment
//   - condA && condB - logical AND
//   - name - truthiness of the resolved value
//
// A value is falsy only when it is null, absent, the empty string, the
// number 0, or false. The number 0 is falsy on purpose: zero discount
// and adjustment amounts must not render their rows. Malformed
// conditions evaluate to false rather than failing the render.
//
// # Placeholders
//
// After block expansion, {{expression}} placeholders resolve in priority
// order:
//   - {{cond ? "yes" : "no"}} - ternary over a condition
//   - {{formatCurrency amount currency}} - currency formatting; the
//     currency defaults to JPY when unresolved
//   - {{formatDate date lang}} - locale-aware date formatting
//   - {{a.b.c}} - dotted-path lookup; a missing segment yields ""
//   - {{name}} - direct lookup; an unresolved name is left as literal
//     text so missing data stays visible to a template editor
//
// A final pass resolves legacy [UPPER_SNAKE] placeholders by lower-cased
// lookup, with the same leave-literal policy on a miss.
//
// Rendering is a pure function of (template, context); the engine holds
// no state and is safe for concurrent use.
package template
