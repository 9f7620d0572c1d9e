package notification

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/ohler55/ojg/jp"
)

// MappingRule binds one template variable to a JSONPath expression over
// the source record (a decoded booking, quotation, or payment row).
type MappingRule struct {
	// Name is the template variable to populate.
	Name string `json:"name" yaml:"name"`
	// Path is a JSONPath expression, e.g. "$.customer.name".
	Path string `json:"path" yaml:"path"`
}

// Mapping turns a raw business record into the flat variable set a
// template renders against. Rules extract fields; Derived computes
// additional variables from the extracted set with expr expressions,
// e.g. vehicle: `vehicle_make + " " + vehicle_model`.
type Mapping struct {
	Rules   []MappingRule     `json:"rules" yaml:"rules"`
	Derived map[string]string `json:"derived,omitempty" yaml:"derived,omitempty"`
}

// CompiledMapping is a Mapping with its JSONPath and expr programs
// pre-compiled. Compile once, apply per record.
type CompiledMapping struct {
	rules   []compiledRule
	derived []compiledDerived
}

type compiledRule struct {
	name string
	path jp.Expr
}

type compiledDerived struct {
	name    string
	program *vm.Program
}

// Compile validates and compiles every rule and derived expression.
// A mapping is configuration, so bad paths and expressions fail here,
// loudly, rather than during a send.
func (m *Mapping) Compile() (*CompiledMapping, error) {
	compiled := &CompiledMapping{}
	for _, rule := range m.Rules {
		path, err := jp.ParseString(rule.Path)
		if err != nil {
			return nil, fmt.Errorf("rule %q: invalid JSONPath %q: %w", rule.Name, rule.Path, err)
		}
		compiled.rules = append(compiled.rules, compiledRule{name: rule.Name, path: path})
	}
	for name, src := range m.Derived {
		program, err := expr.Compile(src, expr.Env(map[string]any{}), expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("derived %q: %w", name, err)
		}
		compiled.derived = append(compiled.derived, compiledDerived{name: name, program: program})
	}
	return compiled, nil
}

// Apply extracts template variables from one source record. Rules whose
// path does not match and derived expressions that fail at runtime are
// omitted from the result, matching the renderer's degrade-gracefully
// policy: the unresolved placeholder stays visible in the output.
func (c *CompiledMapping) Apply(source any) map[string]any {
	vars := make(map[string]any, len(c.rules)+len(c.derived))
	for _, rule := range c.rules {
		results := rule.path.Get(source)
		if len(results) == 0 {
			continue
		}
		vars[rule.name] = results[0]
	}
	for _, d := range c.derived {
		value, err := expr.Run(d.program, vars)
		if err != nil || value == nil {
			continue
		}
		vars[d.name] = value
	}
	return vars
}

// DefaultBookingMapping maps the booking record shape used by dispatch
// and invoicing to the variables the stock booking templates reference.
func DefaultBookingMapping() Mapping {
	return Mapping{
		Rules: []MappingRule{
			{Name: "booking_id", Path: "$.wp_id"},
			{Name: "customer_name", Path: "$.customer_name"},
			{Name: "customer_email", Path: "$.customer_email"},
			{Name: "service_name", Path: "$.service_name"},
			{Name: "vehicle_make", Path: "$.vehicle_make"},
			{Name: "vehicle_model", Path: "$.vehicle_model"},
			{Name: "pickup_location", Path: "$.pickup_location"},
			{Name: "dropoff_location", Path: "$.dropoff_location"},
			{Name: "date", Path: "$.date"},
			{Name: "time", Path: "$.time"},
			{Name: "amount", Path: "$.price_amount"},
			{Name: "currency", Path: "$.price_currency"},
			{Name: "payment_status", Path: "$.payment_status"},
		},
		Derived: map[string]string{
			"vehicle": `vehicle_make + " " + vehicle_model`,
		},
	}
}

// DefaultQuotationMapping maps the quotation record shape to the
// variables the stock quotation templates reference.
func DefaultQuotationMapping() Mapping {
	return Mapping{
		Rules: []MappingRule{
			{Name: "quotation_id", Path: "$.id"},
			{Name: "quote_number", Path: "$.quote_number"},
			{Name: "customer_name", Path: "$.customer_name"},
			{Name: "customer_email", Path: "$.customer_email"},
			{Name: "service_type", Path: "$.service_type"},
			{Name: "vehicle_type", Path: "$.vehicle_type"},
			{Name: "pickup_location", Path: "$.pickup_location"},
			{Name: "dropoff_location", Path: "$.dropoff_location"},
			{Name: "date", Path: "$.date"},
			{Name: "time", Path: "$.time"},
			{Name: "currency", Path: "$.currency"},
			{Name: "total_amount", Path: "$.total_amount"},
			{Name: "subtotal", Path: "$.subtotal"},
			{Name: "tax_amount", Path: "$.tax_amount"},
			{Name: "tax_percentage", Path: "$.tax_percentage"},
			{Name: "regular_discount", Path: "$.regular_discount"},
			{Name: "promotion_discount", Path: "$.promotion_discount"},
			{Name: "final_total", Path: "$.final_total"},
		},
		Derived: map[string]string{
			"total_discount": "regular_discount + promotion_discount",
		},
	}
}
