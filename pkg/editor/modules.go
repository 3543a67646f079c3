package editor

import (
	"strings"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

// builtinDefaults are used before the registry is consulted.
var builtinDefaults = map[string]func() layout.Fields{
	"text":      func() layout.Fields { return layout.Fields{"text": "New text"} },
	"separator": func() layout.Fields { return layout.Fields{"separator_style": "line", "thickness": 1.0} },
	"image":     func() layout.Fields { return layout.Fields{"image_type": "url", "image": ""} },
	"markdown":  func() layout.Fields { return layout.Fields{"markdown_content": "New markdown"} },
	"bar":       func() layout.Fields { return layout.Fields{"entity": "", "bar_style": "flat"} },
	"button":    func() layout.Fields { return layout.Fields{"button_action": map[string]any{"action_type": "none"}} },
	"info":      func() layout.Fields { return layout.Fields{"info_entities": []any{}} },
}

// inheritedNameKeys are display names a factory may set. New modules never
// carry one.
var inheritedNameKeys = []string{"name", "title", "label"}

// NewModule builds a module of type typ: from the built-in table, then from
// the registry, and as a last resort a plain text module.
func (e *Editor) NewModule(typ string) layout.Module {
	var m layout.Module
	if defaults, ok := builtinDefaults[typ]; ok {
		m = layout.Module{ID: e.IDs(layout.PrefixModule), Type: typ, Fields: defaults()}
	} else if created, ok := e.Registry.CreateDefaultModule(typ); ok {
		m = created
	} else {
		e.Logger.Debug("unknown module type, using text", "type", typ)
		m = layout.Module{ID: e.IDs(layout.PrefixModule), Type: layout.TypeText, Fields: builtinDefaults[layout.TypeText]()}
	}
	for _, k := range inheritedNameKeys {
		delete(m.Fields, k)
	}
	if len(m.Fields) == 0 {
		m.Fields = nil
	}
	if m.IsContainer() && m.Modules == nil {
		m.Modules = []layout.Module{}
	}
	return m
}

func checkType(typ string) error {
	if strings.TrimSpace(typ) == "" {
		return errs.New(errs.ErrCodeInvalidInput, "module type is required")
	}
	return nil
}

// AddModule appends a new module of type typ to column (ri, ci).
func (e *Editor) AddModule(l layout.Layout, ri, ci int, typ string) (layout.Layout, error) {
	if err := checkColumn(l, ri, ci); err != nil {
		return l, err
	}
	if err := checkType(typ); err != nil {
		return l, err
	}
	mods := l.Rows[ri].Columns[ci].Modules
	return withModules(l, ri, ci, insertAt(mods, len(mods), e.NewModule(typ))), nil
}

// AddChildModule appends a new module of type typ to the children of the
// container at (ri, ci, mi).
func (e *Editor) AddChildModule(l layout.Layout, ri, ci, mi int, typ string) (layout.Layout, error) {
	if err := checkContainer(l, ri, ci, mi); err != nil {
		return l, err
	}
	if err := checkType(typ); err != nil {
		return l, err
	}
	if layout.IsContainer(typ) {
		return l, errs.New(errs.ErrCodeNestedContainer, "cannot add %s module inside a container", typ)
	}
	m := e.NewModule(typ)
	if m.IsContainer() {
		return l, errs.New(errs.ErrCodeNestedContainer, "cannot add %s module inside a container", m.Type)
	}
	children := l.Rows[ri].Columns[ci].Modules[mi].Modules
	return withChildren(l, ri, ci, mi, insertAt(children, len(children), m)), nil
}

// DuplicateModule inserts a copy of module (ri, ci, mi), with fresh ids, after it.
func (e *Editor) DuplicateModule(l layout.Layout, ri, ci, mi int) (layout.Layout, error) {
	if err := checkModule(l, ri, ci, mi); err != nil {
		return l, err
	}
	mods := l.Rows[ri].Columns[ci].Modules
	return withModules(l, ri, ci, insertAt(mods, mi+1, mods[mi].Fresh(e.IDs))), nil
}

// DeleteModule removes module (ri, ci, mi), children included.
func (e *Editor) DeleteModule(l layout.Layout, ri, ci, mi int) (layout.Layout, error) {
	if err := checkModule(l, ri, ci, mi); err != nil {
		return l, err
	}
	return withModules(l, ri, ci, removeAt(l.Rows[ri].Columns[ci].Modules, mi)), nil
}

// DuplicateChildModule inserts a copy of child ki of container (ri, ci, mi)
// after it.
func (e *Editor) DuplicateChildModule(l layout.Layout, ri, ci, mi, ki int) (layout.Layout, error) {
	if err := checkChild(l, ri, ci, mi, ki); err != nil {
		return l, err
	}
	children := l.Rows[ri].Columns[ci].Modules[mi].Modules
	return withChildren(l, ri, ci, mi, insertAt(children, ki+1, children[ki].Fresh(e.IDs))), nil
}

// DeleteChildModule removes child ki of container (ri, ci, mi).
func (e *Editor) DeleteChildModule(l layout.Layout, ri, ci, mi, ki int) (layout.Layout, error) {
	if err := checkChild(l, ri, ci, mi, ki); err != nil {
		return l, err
	}
	children := l.Rows[ri].Columns[ci].Modules[mi].Modules
	return withChildren(l, ri, ci, mi, removeAt(children, ki)), nil
}
