package logic

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

var states = States{
	"light.kitchen":      {State: "on", Attributes: map[string]any{"brightness": 180.0, "modes": []any{"warm", "cold"}}},
	"sensor.temperature": {State: "21.5", Attributes: map[string]any{"unit": "°C"}},
	"sensor.broken":      {State: "unavailable"},
}

func TestEvaluate(t *testing.T) {
	e := NewConditionEvaluator()
	tests := []struct {
		name string
		c    Condition
		want bool
	}{
		{"state equal", Condition{Type: TypeState, Entity: "light.kitchen", Value: "on"}, true},
		{"state explicit equal", Condition{Type: TypeState, Entity: "light.kitchen", Operator: "=", Value: "off"}, false},
		{"state not equal", Condition{Type: TypeState, Entity: "light.kitchen", Operator: "!=", Value: "off"}, true},
		{"numeric greater", Condition{Type: TypeState, Entity: "sensor.temperature", Operator: ">", Value: 20.0}, true},
		{"numeric string", Condition{Type: TypeState, Entity: "sensor.temperature", Operator: "<=", Value: "21.5"}, true},
		{"numeric equal", Condition{Type: TypeState, Entity: "sensor.temperature", Value: 21.5}, true},
		{"contains", Condition{Type: TypeState, Entity: "sensor.temperature", Operator: "contains", Value: "21"}, true},
		{"not contains", Condition{Type: TypeState, Entity: "light.kitchen", Operator: "not_contains", Value: "x"}, true},
		{"has value", Condition{Type: TypeState, Entity: "light.kitchen", Operator: "has_value"}, true},
		{"unavailable has no value", Condition{Type: TypeState, Entity: "sensor.broken", Operator: "has_value"}, false},
		{"missing entity", Condition{Type: TypeState, Entity: "light.none", Value: "on"}, false},
		{"missing entity no value", Condition{Type: TypeState, Entity: "light.none", Operator: "no_value"}, true},
		{"attribute", Condition{Type: TypeAttribute, Entity: "light.kitchen", Attribute: "brightness", Operator: ">=", Value: 100.0}, true},
		{"attribute list contains", Condition{Type: TypeAttribute, Entity: "light.kitchen", Attribute: "modes", Operator: "contains", Value: "warm"}, true},
		{"attribute missing", Condition{Type: TypeAttribute, Entity: "light.kitchen", Attribute: "color", Operator: "no_value"}, true},
		{"template", Condition{Type: TypeTemplate, Template: `states["light.kitchen"].state == "on"`}, true},
		{"template attributes", Condition{Type: TypeTemplate, Template: `states["light.kitchen"].attributes.brightness > 200`}, false},
		{"template functions", Condition{Type: TypeTemplate, Template: `upper(states["light.kitchen"].state) == "ON"`}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(tt.c, states)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	e := NewConditionEvaluator()
	tests := []struct {
		name string
		c    Condition
	}{
		{"unknown type", Condition{Type: "time"}},
		{"missing entity", Condition{Type: TypeState}},
		{"missing attribute", Condition{Type: TypeAttribute, Entity: "light.kitchen"}},
		{"unknown operator", Condition{Type: TypeState, Entity: "light.kitchen", Operator: "~"}},
		{"empty template", Condition{Type: TypeTemplate}},
		{"syntax error", Condition{Type: TypeTemplate, Template: `states[`}},
		{"not a bool", Condition{Type: TypeTemplate, Template: `[1, 2]`}},
		{"unknown entity in template", Condition{Type: TypeTemplate, Template: `states["nope"].state == "on"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.Evaluate(tt.c, states); !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("Evaluate() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func module(mode string, conds ...map[string]any) layout.Module {
	m := layout.Module{ID: "m", Type: "text", Fields: layout.Fields{}}
	if mode != "" {
		m.Fields[FieldDisplayMode] = mode
	}
	if len(conds) > 0 {
		list := make([]any, len(conds))
		for i, c := range conds {
			list[i] = c
		}
		m.Fields[FieldDisplayConditions] = list
	}
	return m
}

func TestVisible(t *testing.T) {
	ctx := context.Background()
	on := map[string]any{"type": "state", "entity": "light.kitchen", "value": "on"}
	off := map[string]any{"type": "state", "entity": "light.kitchen", "value": "off"}

	tests := []struct {
		name string
		m    layout.Module
		want bool
	}{
		{"no rule", module(""), true},
		{"always ignores conditions", module(ModeAlways, off), true},
		{"every all true", module(ModeEvery, on, on), true},
		{"every one false", module(ModeEvery, on, off), false},
		{"any one true", module(ModeAny, off, on), true},
		{"any all false", module(ModeAny, off, off), false},
		{"mode without conditions", module(ModeEvery), true},
	}
	e := NewConditionEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Visible(ctx, tt.m, states)
			if err != nil {
				t.Fatalf("Visible: %v", err)
			}
			if got != tt.want {
				t.Errorf("Visible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibleKeepsMalformedModulesShown(t *testing.T) {
	e := NewConditionEvaluator()
	m := module("sometimes")
	ok, err := e.Visible(context.Background(), m, states)
	if !ok || !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Visible() = %v, %v; want true, INVALID_INPUT", ok, err)
	}

	m = module(ModeEvery)
	m.Fields[FieldDisplayConditions] = "not a list"
	if ok, err := e.Visible(context.Background(), m, states); !ok || err == nil {
		t.Errorf("Visible() = %v, %v; want true and an error", ok, err)
	}
}

func TestHidden(t *testing.T) {
	off := map[string]any{"type": "state", "entity": "light.kitchen", "value": "off"}
	hiddenText := module(ModeEvery, off)
	hiddenChild := module(ModeEvery, off)
	hiddenChild.ID = "k"
	l := layout.Layout{Rows: []layout.Row{{
		ID: "r", ColumnLayout: "1-col",
		Columns: []layout.Column{{ID: "c", Modules: []layout.Module{
			{ID: "shown", Type: "text"},
			hiddenText,
			{ID: "v", Type: "vertical", Modules: []layout.Module{{ID: "k0", Type: "text"}, hiddenChild}},
		}}},
	}}}

	got := Hidden(context.Background(), NewConditionEvaluator(), l, states)
	want := []layout.Address{layout.ModuleAddress(0, 0, 1), layout.ChildAddress(0, 0, 2, 1)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Hidden() mismatch (-want +got):\n%s", diff)
	}
}

func TestHiddenRowsAndColumns(t *testing.T) {
	rule := layout.Fields{
		FieldDisplayMode:       ModeEvery,
		FieldDisplayConditions: []any{map[string]any{"type": "state", "entity": "light.hall", "value": "on"}},
	}
	hallOff := States{"light.hall": {State: "off"}}

	tests := []struct {
		name string
		l    layout.Layout
		want []layout.Address
	}{
		{
			name: "row",
			l: layout.Layout{Rows: []layout.Row{
				{ID: "r0", Fields: rule, Columns: []layout.Column{{ID: "c0", Fields: rule, Modules: []layout.Module{{ID: "a", Type: "text"}}}}},
				{ID: "r1", Columns: []layout.Column{{ID: "c1", Modules: []layout.Module{{ID: "b", Type: "text"}}}}},
			}},
			want: []layout.Address{layout.RowAddress(0)},
		},
		{
			name: "column",
			l: layout.Layout{Rows: []layout.Row{{ID: "r0", Columns: []layout.Column{
				{ID: "c0", Modules: []layout.Module{{ID: "a", Type: "text"}}},
				{ID: "c1", Fields: rule, Modules: []layout.Module{{ID: "b", Type: "text", Fields: rule}}},
			}}}},
			want: []layout.Address{layout.ColumnAddress(0, 1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hidden(context.Background(), NewConditionEvaluator(), tt.l, hallOff)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Hidden() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	hallOn := States{"light.hall": {State: "on"}}
	if got := Hidden(context.Background(), NewConditionEvaluator(), tests[0].l, hallOn); len(got) != 0 {
		t.Errorf("Hidden() = %v, want none", got)
	}
}

func TestVisibleFields(t *testing.T) {
	e := NewConditionEvaluator()
	ok, err := e.VisibleFields(context.Background(), nil, states)
	if !ok || err != nil {
		t.Errorf("VisibleFields(nil) = %v, %v, want true, nil", ok, err)
	}
	f := layout.Fields{FieldDisplayMode: ModeAny, FieldDisplayConditions: []any{
		map[string]any{"type": "state", "entity": "light.kitchen", "value": "off"},
	}}
	if ok, err := e.VisibleFields(context.Background(), f, states); ok || err != nil {
		t.Errorf("VisibleFields() = %v, %v, want false, nil", ok, err)
	}
}

func TestIsOperator(t *testing.T) {
	for _, op := range Operators {
		if !isOperator(op) {
			t.Errorf("isOperator(%q) = false, want true", op)
		}
	}
	for _, op := range []string{"", "~", "==", "equals"} {
		if isOperator(op) {
			t.Errorf("isOperator(%q) = true, want false", op)
		}
	}
}

func TestTemplateCache(t *testing.T) {
	e := NewConditionEvaluator()
	c := Condition{Type: TypeTemplate, Template: `states["light.kitchen"].state == "on"`}
	for i := 0; i < 3; i++ {
		if _, err := e.Evaluate(c, states); err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
	}
	if len(e.exprs) != 1 {
		t.Errorf("cached expressions = %d, want 1", len(e.exprs))
	}
}
