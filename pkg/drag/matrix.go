package drag

import (
	"slices"

	"github.com/matzehuels/cardbuilder/pkg/layout"
)

var compatibility = map[layout.Kind][]TargetKind{
	layout.KindRow:         {TargetRow},
	layout.KindColumn:      {TargetColumn, TargetRow},
	layout.KindModule:      {TargetModule, TargetColumn, TargetContainer, TargetChild},
	layout.KindLayoutChild: {TargetModule, TargetColumn, TargetContainer, TargetChild},
}

// AllowedTargets returns the target kinds a source of kind k may drop on.
func AllowedTargets(k layout.Kind) []TargetKind {
	return slices.Clone(compatibility[k])
}

// IsSelf reports whether t is the position s was picked up from.
func IsSelf(s Source, t Target) bool {
	return s.Address() == t.Address()
}

// Compatible reports whether s may be dropped on t. It checks the
// compatibility table, rejects self-drops and keeps containers out of
// containers. It does not check that t exists in any layout.
func Compatible(s Source, t Target) bool {
	if s == nil || t == nil {
		return false
	}
	if !slices.Contains(compatibility[s.Kind()], t.Kind()) {
		return false
	}
	if IsSelf(s, t) {
		return false
	}
	if m, ok := MovedModule(s); ok && m.IsContainer() {
		if k := t.Kind(); k == TargetContainer || k == TargetChild {
			return false
		}
	}
	return true
}
