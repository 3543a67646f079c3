// Package logic decides whether a module, row or column is shown for the
// current entity states.
//
// A node opts in through two fields:
//
//	display_mode:       always | every | any
//	display_conditions: [{type: state, entity: light.kitchen, operator: "=", value: "on"}, ...]
//
// Condition types are "state" (the entity's state), "attribute" (one of its
// attributes) and "template", an HCL expression over the variable states:
//
//	states["sensor.temperature"].attributes.value > 20 && states["light.hall"].state == "on"
package logic

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

// Field keys read from a module.
const (
	FieldDisplayMode       = "display_mode"
	FieldDisplayConditions = "display_conditions"
)

// Display modes.
const (
	ModeAlways = "always"
	ModeEvery  = "every"
	ModeAny    = "any"
)

// Condition types.
const (
	TypeState     = "state"
	TypeAttribute = "attribute"
	TypeTemplate  = "template"
)

// Operators lists every comparison a state or attribute condition accepts.
var Operators = []string{"=", "!=", ">", ">=", "<", "<=", "contains", "not_contains", "has_value", "no_value"}

// Entity is the state of one entity.
type Entity struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// States maps entity ids to their state.
type States map[string]Entity

// Condition is one display condition.
type Condition struct {
	Type      string `json:"type"`
	Entity    string `json:"entity,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	Operator  string `json:"operator,omitempty"`
	Value     any    `json:"value,omitempty"`
	Template  string `json:"template,omitempty"`
}

// Rule is a module's display configuration.
type Rule struct {
	Mode       string
	Conditions []Condition
}

// RuleOf reads the display rule from a module's fields. Modules without
// a rule are always shown.
func RuleOf(f layout.Fields) (Rule, error) {
	r := Rule{Mode: ModeAlways}
	if v, ok := f[FieldDisplayMode]; ok && v != nil {
		mode, ok := v.(string)
		if !ok {
			return r, errs.New(errs.ErrCodeInvalidInput, "%s must be a string", FieldDisplayMode)
		}
		switch mode {
		case "", ModeAlways:
		case ModeEvery, ModeAny:
			r.Mode = mode
		default:
			return r, errs.New(errs.ErrCodeInvalidInput, "unknown %s %q", FieldDisplayMode, mode)
		}
	}
	raw, ok := f[FieldDisplayConditions]
	if !ok || raw == nil {
		return r, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return r, errs.Wrap(errs.ErrCodeInvalidInput, err, "%s", FieldDisplayConditions)
	}
	if err := json.Unmarshal(data, &r.Conditions); err != nil {
		return r, errs.Wrap(errs.ErrCodeInvalidInput, err, "%s must be a list of conditions", FieldDisplayConditions)
	}
	for i, c := range r.Conditions {
		if err := c.check(); err != nil {
			return r, errs.Wrap(errs.ErrCodeInvalidInput, err, "condition %d", i)
		}
	}
	return r, nil
}

func (c Condition) check() error {
	switch c.Type {
	case TypeState, TypeAttribute:
		if c.Entity == "" {
			return fmt.Errorf("%s condition needs an entity", c.Type)
		}
		if c.Type == TypeAttribute && c.Attribute == "" {
			return fmt.Errorf("attribute condition needs an attribute")
		}
		if c.Operator != "" && !isOperator(c.Operator) {
			return fmt.Errorf("unknown operator %q", c.Operator)
		}
	case TypeTemplate:
		if strings.TrimSpace(c.Template) == "" {
			return fmt.Errorf("template condition needs a template")
		}
	default:
		return fmt.Errorf("unknown condition type %q", c.Type)
	}
	return nil
}

func isOperator(op string) bool {
	return slices.Contains(Operators, op)
}

// compare applies op to an actual value and the condition's expected value.
// Numeric operators compare as numbers when both sides parse as numbers and
// as strings otherwise.
func compare(op string, actual, expected any) bool {
	switch op {
	case "has_value":
		return hasValue(actual)
	case "no_value":
		return !hasValue(actual)
	case "contains", "not_contains":
		found := contains(actual, expected)
		return found == (op == "contains")
	case "", "=":
		return equal(actual, expected)
	case "!=":
		return !equal(actual, expected)
	}

	a, aok := number(actual)
	b, bok := number(expected)
	if aok && bok {
		switch op {
		case ">":
			return a > b
		case ">=":
			return a >= b
		case "<":
			return a < b
		case "<=":
			return a <= b
		}
		return false
	}
	as, bs := text(actual), text(expected)
	switch op {
	case ">":
		return as > bs
	case ">=":
		return as >= bs
	case "<":
		return as < bs
	case "<=":
		return as <= bs
	}
	return false
}

func hasValue(v any) bool {
	switch s := v.(type) {
	case nil:
		return false
	case string:
		return s != "" && s != "unknown" && s != "unavailable"
	}
	return true
}

func equal(a, b any) bool {
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			return x == y
		}
	}
	return text(a) == text(b)
}

func contains(haystack, needle any) bool {
	if list, ok := haystack.([]any); ok {
		for _, item := range list {
			if equal(item, needle) {
				return true
			}
		}
		return false
	}
	return strings.Contains(text(haystack), text(needle))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
