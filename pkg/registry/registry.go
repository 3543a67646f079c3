package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/cardbuilder/pkg/layout"
)

// Category groups module types in pickers.
type Category string

// Module categories.
const (
	CategoryContent     Category = "content"
	CategoryLayout      Category = "layout"
	CategoryInteractive Category = "interactive"
	CategoryData        Category = "data"
)

// Metadata describes a module type.
type Metadata struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Category    Category `json:"category"`
	Description string   `json:"description,omitempty"`
	Icon        string   `json:"icon,omitempty"`
}

// Handler is a registered module type. Defaults returns the type-specific
// fields of a new module; it may be nil.
type Handler struct {
	Metadata
	Defaults func() layout.Fields
}

// Registry is the collaborator the editor uses to create modules.
type Registry interface {
	// CreateDefaultModule returns a new module of type typ with a fresh id,
	// or false when typ is not registered.
	CreateDefaultModule(typ string) (layout.Module, bool)
	// GetModule returns the handler registered for typ.
	GetModule(typ string) (Handler, bool)
}

// Catalog is an in-memory [Registry]. It is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	ids      layout.IDFunc
	handlers map[string]Handler
	order    []string
}

// New returns an empty catalogue that assigns ids with ids. A nil ids uses
// [layout.NewID].
func New(ids layout.IDFunc) *Catalog {
	if ids == nil {
		ids = layout.NewID
	}
	return &Catalog{ids: ids, handlers: make(map[string]Handler)}
}

// Register adds h. The title defaults to the title-cased type name.
func (c *Catalog) Register(h Handler) error {
	typ := strings.TrimSpace(h.Type)
	if typ == "" {
		return fmt.Errorf("register module: empty type")
	}
	h.Type = typ
	if h.Title == "" {
		h.Title = Title(typ)
	}
	if h.Category == "" {
		h.Category = CategoryContent
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.handlers[typ]; dup {
		return fmt.Errorf("register module %q: already registered", typ)
	}
	c.handlers[typ] = h
	c.order = append(c.order, typ)
	return nil
}

// MustRegister is like Register but panics on error.
func (c *Catalog) MustRegister(h Handler) {
	if err := c.Register(h); err != nil {
		panic(err)
	}
}

// GetModule implements [Registry].
func (c *Catalog) GetModule(typ string) (Handler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handlers[typ]
	return h, ok
}

// CreateDefaultModule implements [Registry].
func (c *Catalog) CreateDefaultModule(typ string) (layout.Module, bool) {
	h, ok := c.GetModule(typ)
	if !ok {
		return layout.Module{}, false
	}
	m := layout.Module{ID: c.ids(layout.PrefixModule), Type: typ}
	if h.Defaults != nil {
		m.Fields = h.Defaults().Clone()
	}
	if m.IsContainer() {
		m.Modules = []layout.Module{}
	}
	return m, true
}

// List returns the metadata of every registered type in registration order.
func (c *Catalog) List() []Metadata {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Metadata, 0, len(c.order))
	for _, typ := range c.order {
		out = append(out, c.handlers[typ].Metadata)
	}
	return out
}

// ListCategory returns the metadata of the types in cat.
func (c *Catalog) ListCategory(cat Category) []Metadata {
	var out []Metadata
	for _, md := range c.List() {
		if md.Category == cat {
			out = append(out, md)
		}
	}
	return out
}

// Types returns the registered type names, sorted.
func (c *Catalog) Types() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	types := slices.Clone(c.order)
	slices.Sort(types)
	return types
}

// Suggest returns the registered type closest to typ by edit distance, if it
// is close enough to be a plausible typo.
func (c *Catalog) Suggest(typ string) (string, bool) {
	return Closest(strings.ToLower(typ), c.Types())
}

// Closest returns the candidate nearest to s. Matches further than a third of
// the input length (minimum 2) are discarded.
func Closest(s string, candidates []string) (string, bool) {
	if s == "" {
		return "", false
	}
	limit := max(2, len(s)/3)
	best, bestDist := "", limit+1
	for _, cand := range candidates {
		d := levenshtein.ComputeDistance(s, cand)
		if d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best, best != ""
}

var titleCaser = cases.Title(language.English)

// Title turns a type name such as "entity_row" into "Entity Row".
func Title(typ string) string {
	words := strings.FieldsFunc(typ, func(r rune) bool { return r == '_' || r == '-' })
	return titleCaser.String(strings.Join(words, " "))
}
