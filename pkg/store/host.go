package store

import (
	"context"
	"time"

	"github.com/matzehuels/cardbuilder/pkg/card"
	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

// Host serves one stored card to an editor session. Each layout change is
// written back with Put.
type Host struct {
	Store  Store
	CardID string
}

// Layout loads the card's layout. A missing card is an error; a card
// without layout yields nil.
func (h Host) Layout(ctx context.Context) (*layout.Layout, error) {
	c, err := h.Store.Get(ctx, h.CardID)
	if err != nil {
		return nil, err
	}
	return c.Layout, nil
}

// LayoutChanged saves l into the stored card.
func (h Host) LayoutChanged(ctx context.Context, l layout.Layout) error {
	c, err := h.Store.Get(ctx, h.CardID)
	if errs.Is(err, errs.ErrCodeCardNotFound) {
		c = card.Card{ID: h.CardID, Type: card.DefaultType}
	} else if err != nil {
		return err
	}
	c.Layout = &l
	c.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	return h.Store.Put(ctx, c)
}
