package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
	"github.com/matzehuels/cardbuilder/pkg/observability"
)

// Evaluator decides visibility from the display rule held in a node's
// fields. Modules, rows and columns all carry rules the same way.
type Evaluator interface {
	VisibleFields(ctx context.Context, f layout.Fields, states States) (bool, error)
}

// ConditionEvaluator evaluates display rules. Parsed template expressions
// are cached by source text. The zero value is ready to use.
type ConditionEvaluator struct {
	mu    sync.Mutex
	exprs map[string]hcl.Expression
}

// NewConditionEvaluator creates an evaluator.
func NewConditionEvaluator() *ConditionEvaluator {
	return &ConditionEvaluator{}
}

var functions = map[string]function.Function{
	"lower":    stdlib.LowerFunc,
	"upper":    stdlib.UpperFunc,
	"length":   stdlib.LengthFunc,
	"contains": stdlib.ContainsFunc,
	"abs":      stdlib.AbsoluteFunc,
	"min":      stdlib.MinFunc,
	"max":      stdlib.MaxFunc,
}

// Visible reports whether m is shown. A malformed rule keeps the module
// visible and returns the error.
func (e *ConditionEvaluator) Visible(ctx context.Context, m layout.Module, states States) (bool, error) {
	ok, err := e.VisibleFields(ctx, m.Fields, states)
	if err != nil {
		observability.Logger(ctx).Warn("display rule ignored", "module", m.ID, "err", err)
	}
	return ok, err
}

// VisibleFields reports whether the node owning f is shown.
func (e *ConditionEvaluator) VisibleFields(ctx context.Context, f layout.Fields, states States) (bool, error) {
	rule, err := RuleOf(f)
	if err != nil {
		return true, err
	}
	if rule.Mode == ModeAlways || len(rule.Conditions) == 0 {
		return true, nil
	}

	var evalCtx *hcl.EvalContext
	for _, c := range rule.Conditions {
		if c.Type == TypeTemplate && evalCtx == nil {
			if evalCtx, err = newEvalContext(states); err != nil {
				return true, err
			}
		}
		ok, err := e.evaluate(c, states, evalCtx)
		if err != nil {
			observability.Logger(ctx).Debug("display condition failed", "type", c.Type, "err", err)
			return true, err
		}
		if rule.Mode == ModeAny && ok {
			return true, nil
		}
		if rule.Mode == ModeEvery && !ok {
			return false, nil
		}
	}
	return rule.Mode == ModeEvery, nil
}

// Evaluate checks one condition against states.
func (e *ConditionEvaluator) Evaluate(c Condition, states States) (bool, error) {
	if err := c.check(); err != nil {
		return false, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid condition")
	}
	var evalCtx *hcl.EvalContext
	if c.Type == TypeTemplate {
		var err error
		if evalCtx, err = newEvalContext(states); err != nil {
			return false, err
		}
	}
	return e.evaluate(c, states, evalCtx)
}

func (e *ConditionEvaluator) evaluate(c Condition, states States, evalCtx *hcl.EvalContext) (bool, error) {
	switch c.Type {
	case TypeState:
		ent, ok := states[c.Entity]
		if !ok {
			return c.Operator == "no_value", nil
		}
		return compare(c.Operator, ent.State, c.Value), nil
	case TypeAttribute:
		ent, ok := states[c.Entity]
		var v any
		if ok {
			v = ent.Attributes[c.Attribute]
		}
		return compare(c.Operator, v, c.Value), nil
	case TypeTemplate:
		return e.template(c.Template, evalCtx)
	}
	return false, errs.New(errs.ErrCodeInvalidInput, "unknown condition type %q", c.Type)
}

func (e *ConditionEvaluator) template(src string, evalCtx *hcl.EvalContext) (bool, error) {
	expr, err := e.parse(src)
	if err != nil {
		return false, err
	}
	v, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return false, errs.New(errs.ErrCodeInvalidInput, "template %q: %s", src, diags.Error())
	}
	if v.IsNull() || !v.IsKnown() {
		return false, nil
	}
	b, err := convert.Convert(v, cty.Bool)
	if err != nil {
		return false, errs.New(errs.ErrCodeInvalidInput, "template %q must produce a bool, got %s", src, v.Type().FriendlyName())
	}
	return b.True(), nil
}

func (e *ConditionEvaluator) parse(src string) (hcl.Expression, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if expr, ok := e.exprs[src]; ok {
		return expr, nil
	}
	expr, diags := hclsyntax.ParseExpression([]byte(src), "template", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, errs.New(errs.ErrCodeInvalidInput, "parse template %q: %s", src, diags.Error())
	}
	if e.exprs == nil {
		e.exprs = make(map[string]hcl.Expression)
	}
	e.exprs[src] = expr
	return expr, nil
}

// newEvalContext exposes states to templates as the object "states".
func newEvalContext(states States) (*hcl.EvalContext, error) {
	if states == nil {
		states = States{}
	}
	data, err := json.Marshal(states)
	if err != nil {
		return nil, fmt.Errorf("encode states: %w", err)
	}
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return nil, fmt.Errorf("states type: %w", err)
	}
	v, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return nil, fmt.Errorf("states value: %w", err)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"states": v},
		Functions: functions,
	}, nil
}

// Hidden returns the addresses of rows, columns, modules and container
// children that are not shown for states. Nothing inside a hidden node is
// listed separately.
func Hidden(ctx context.Context, e Evaluator, l layout.Layout, states States) []layout.Address {
	var out []layout.Address
	hidden := func(id string, f layout.Fields, a layout.Address) bool {
		ok, err := e.VisibleFields(ctx, f, states)
		if err != nil {
			observability.Logger(ctx).Warn("display rule ignored", "node", id, "address", a.String(), "err", err)
		}
		if !ok {
			out = append(out, a)
		}
		return !ok
	}
	for ri, row := range l.Rows {
		if hidden(row.ID, row.Fields, layout.RowAddress(ri)) {
			continue
		}
		for ci, col := range row.Columns {
			if hidden(col.ID, col.Fields, layout.ColumnAddress(ri, ci)) {
				continue
			}
			for mi, m := range col.Modules {
				if hidden(m.ID, m.Fields, layout.ModuleAddress(ri, ci, mi)) {
					continue
				}
				for ki, child := range m.Modules {
					hidden(child.ID, child.Fields, layout.ChildAddress(ri, ci, mi, ki))
				}
			}
		}
	}
	return out
}

var _ Evaluator = (*ConditionEvaluator)(nil)
