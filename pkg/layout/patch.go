package layout

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
)

type unset struct{}

// Unset marks a patch key for deletion. A nil value does the same; Unset
// exists so Go callers can say what they mean.
var Unset any = unset{}

// Patch is a partial update of a node. Keys present with a nil or Unset value
// are deleted from the node; all other keys overwrite.
type Patch map[string]any

// Keys returns the patch keys in sorted order.
func (p Patch) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isDeletion(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(unset)
	return ok
}

// structuralKeys cannot be patched: they are changed through dedicated
// operations that keep the tree invariants.
var structuralKeys = []string{keyID, keyType, keyRows, keyColumns, keyModules, keyColumnLayout}

// PatchError reports a rejected patch key.
type PatchError struct {
	Key    string
	Reason string
}

func (e *PatchError) Error() string { return fmt.Sprintf("patch key %q: %s", e.Key, e.Reason) }

func checkPatch(p Patch) error {
	for _, k := range p.Keys() {
		if slices.Contains(structuralKeys, k) {
			return &PatchError{Key: k, Reason: "structural field"}
		}
		if v := p[k]; !isDeletion(v) {
			if _, err := json.Marshal(v); err != nil {
				return &PatchError{Key: k, Reason: "value cannot be encoded: " + err.Error()}
			}
		}
	}
	return nil
}

// applyFields returns a new field map with p merged into f.
func applyFields(f Fields, p Patch, skip ...string) Fields {
	out := f.Clone()
	if out == nil {
		out = Fields{}
	}
	for k, v := range p {
		if slices.Contains(skip, k) {
			continue
		}
		if isDeletion(v) {
			delete(out, k)
			continue
		}
		out[k] = cloneValue(v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Patched returns a copy of r with p applied.
func (r Row) Patched(p Patch) (Row, error) {
	if err := checkPatch(p); err != nil {
		return r, err
	}
	out := r
	out.Fields = applyFields(r.Fields, p)
	return out, nil
}

// Patched returns a copy of c with p applied. Deleting an alignment resets it
// to [AlignCenter].
func (c Column) Patched(p Patch) (Column, error) {
	if err := checkPatch(p); err != nil {
		return c, err
	}
	out := c
	for key, dst := range map[string]*string{
		keyVerticalAlignment:   &out.VerticalAlignment,
		keyHorizontalAlignment: &out.HorizontalAlignment,
	} {
		v, ok := p[key]
		if !ok {
			continue
		}
		if isDeletion(v) {
			*dst = AlignCenter
			continue
		}
		s, ok := v.(string)
		if !ok {
			return c, &PatchError{Key: key, Reason: fmt.Sprintf("want string, got %T", v)}
		}
		*dst = s
	}
	out.Fields = applyFields(c.Fields, p, keyVerticalAlignment, keyHorizontalAlignment)
	return out, nil
}

// Patched returns a copy of m with p applied.
func (m Module) Patched(p Patch) (Module, error) {
	if err := checkPatch(p); err != nil {
		return m, err
	}
	out := m
	out.Fields = applyFields(m.Fields, p)
	return out, nil
}
