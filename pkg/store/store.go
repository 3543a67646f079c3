// Package store persists cards.
//
// Backends:
//   - file: one JSON file per card, for the CLI and single-user setups
//   - sqlite: a local database with embedded schema migrations
//   - mongo: a MongoDB collection for shared deployments
//
// Every backend reports operations through [observability.StoreHooks].
package store

import (
	"context"
	"time"

	"github.com/matzehuels/cardbuilder/pkg/card"
	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/observability"
)

// Store is the interface for card storage backends.
type Store interface {
	// Get returns the card with id, or a CARD_NOT_FOUND error.
	Get(ctx context.Context, id string) (card.Card, error)

	// Put creates or replaces a card. A zero UpdatedAt is set to now.
	Put(ctx context.Context, c card.Card) error

	// Delete removes a card, or returns a CARD_NOT_FOUND error.
	Delete(ctx context.Context, id string) error

	// List returns summaries of all cards ordered by id.
	List(ctx context.Context) ([]Summary, error)

	// Close releases backend resources.
	Close() error
}

// Summary describes a stored card without its layout.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Type      string    `json:"type" bson:"type"`
	Title     string    `json:"title,omitempty" bson:"title"`
	Rows      int       `json:"rows" bson:"rows"`
	Modules   int       `json:"modules" bson:"modules"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Summarize builds the summary of c.
func Summarize(c card.Card) Summary {
	s := Summary{ID: c.ID, Type: c.Type, Title: c.Title, UpdatedAt: c.UpdatedAt}
	if c.Layout != nil {
		s.Rows = len(c.Layout.Rows)
		s.Modules = c.Layout.ModuleCount()
	}
	return s
}

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string
	Dir           string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
}

// Open creates the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.Dir)
	case BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case BackendMongo:
		return ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unknown store backend %q", cfg.Backend)
}

func notFound(id string) error {
	return errs.New(errs.ErrCodeCardNotFound, "card %q not found", id)
}

// prepare validates c and stamps its update time.
func prepare(c card.Card) (card.Card, error) {
	if err := errs.ValidateID(c.ID); err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	return c, nil
}

// observe reports a finished store operation. Use with a named error:
//
//	defer observe(ctx, "file", "get", time.Now(), &err)
func observe(ctx context.Context, backend, op string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	observability.Store().OnStoreOp(ctx, backend, op, time.Since(start), err)
	if err != nil && !errs.Is(err, errs.ErrCodeCardNotFound) {
		observability.Logger(ctx).Warn("store operation failed", "backend", backend, "op", op, "err", err)
	}
}

func wrap(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	return errs.Wrap(errs.ErrCodeInternal, err, "%s %s", backend, op)
}
