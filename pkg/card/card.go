// Package card holds the host-side card configuration that owns a layout.
//
// A [Card] is what gets stored and edited: a card type, an optional layout
// and free-form settings. Cards read and write as JSON, YAML or TOML, chosen
// by file extension. [Host] adapts a card to the editor session so every
// layout change lands back in the card.
package card

import (
	"context"
	"sync"
	"time"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

// DefaultType is the card type written by [New].
const DefaultType = "custom:layout-card"

// Card is a stored card configuration.
type Card struct {
	ID        string         `json:"id,omitempty"`
	Type      string         `json:"type"`
	Title     string         `json:"title,omitempty"`
	Layout    *layout.Layout `json:"layout,omitempty"`
	Settings  map[string]any `json:"settings,omitempty"`
	UpdatedAt time.Time      `json:"updated_at,omitzero"`
}

// New creates a card with the default layout.
func New(id string, ids layout.IDFunc) Card {
	l := layout.Default(ids)
	return Card{ID: id, Type: DefaultType, Layout: &l}
}

// Clone returns a deep copy of c.
func (c Card) Clone() Card {
	if c.Layout != nil {
		l := c.Layout.Clone()
		c.Layout = &l
	}
	c.Settings = layout.Fields(c.Settings).Clone()
	return c
}

// Validate checks the card type and, when present, the layout.
func (c Card) Validate() error {
	if c.Type == "" {
		return errs.New(errs.ErrCodeInvalidInput, "card type is required")
	}
	if c.ID != "" {
		if err := errs.ValidateID(c.ID); err != nil {
			return err
		}
	}
	if c.Layout == nil {
		return nil
	}
	if err := layout.Validate(*c.Layout); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid layout")
	}
	return nil
}

// =============================================================================
// Host
// =============================================================================

// Host keeps a card in memory and applies layout changes to it.
// OnChange, if set, runs after every change with a copy of the card;
// its error is returned to the session.
type Host struct {
	OnChange func(ctx context.Context, c Card) error

	mu   sync.Mutex
	card Card
}

// NewHost wraps c.
func NewHost(c Card, onChange func(ctx context.Context, c Card) error) *Host {
	return &Host{card: c.Clone(), OnChange: onChange}
}

// Layout returns a copy of the card's layout, or nil if it has none.
func (h *Host) Layout(ctx context.Context) (*layout.Layout, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.card.Layout == nil {
		return nil, nil
	}
	l := h.card.Layout.Clone()
	return &l, nil
}

// LayoutChanged stores l in the card.
func (h *Host) LayoutChanged(ctx context.Context, l layout.Layout) error {
	h.mu.Lock()
	prev, prevUpdated := h.card.Layout, h.card.UpdatedAt
	h.card.Layout = &l
	h.card.UpdatedAt = time.Now().UTC()
	snapshot := h.card.Clone()
	h.mu.Unlock()

	if h.OnChange == nil {
		return nil
	}
	if err := h.OnChange(ctx, snapshot); err != nil {
		h.mu.Lock()
		h.card.Layout, h.card.UpdatedAt = prev, prevUpdated
		h.mu.Unlock()
		return err
	}
	return nil
}

// Card returns a copy of the current card.
func (h *Host) Card() Card {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.card.Clone()
}
