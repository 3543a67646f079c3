package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/matzehuels/cardbuilder/pkg/card"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore keeps cards in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies pending
// migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, wrap("sqlite", "open", errors.New("database path is required"))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, wrap("sqlite", "open", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, wrap("sqlite", "open", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrap("sqlite", "open", err)
	}
	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, wrap("sqlite", "migrate", err)
	}
	return &SQLiteStore{db: db}, nil
}

// migrateUp applies the embedded migrations. The migrate instance is not
// closed because that would close db.
func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return src.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (c card.Card, err error) {
	defer observe(ctx, "sqlite", "get", time.Now(), &err)
	var body string
	err = s.db.QueryRowContext(ctx, `SELECT body FROM cards WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return card.Card{}, notFound(id)
	}
	if err != nil {
		return card.Card{}, wrap("sqlite", "get", err)
	}
	return card.Decode([]byte(body), card.FormatJSON)
}

func (s *SQLiteStore) Put(ctx context.Context, c card.Card) (err error) {
	defer observe(ctx, "sqlite", "put", time.Now(), &err)
	if c, err = prepare(c); err != nil {
		return err
	}
	body, err := json.Marshal(c)
	if err != nil {
		return wrap("sqlite", "put", err)
	}
	sum := Summarize(c)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cards (id, type, title, body, row_count, module_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			title = excluded.title,
			body = excluded.body,
			row_count = excluded.row_count,
			module_count = excluded.module_count,
			updated_at = excluded.updated_at`,
		sum.ID, sum.Type, sum.Title, string(body), sum.Rows, sum.Modules,
		sum.UpdatedAt.UTC().Format(time.RFC3339Nano))
	return wrap("sqlite", "put", err)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, "sqlite", "delete", time.Now(), &err)
	res, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return wrap("sqlite", "delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) (out []Summary, err error) {
	defer observe(ctx, "sqlite", "list", time.Now(), &err)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, title, row_count, module_count, updated_at
		FROM cards ORDER BY id`)
	if err != nil {
		return nil, wrap("sqlite", "list", err)
	}
	defer rows.Close()

	out = []Summary{}
	for rows.Next() {
		var sum Summary
		var updated string
		if err := rows.Scan(&sum.ID, &sum.Type, &sum.Title, &sum.Rows, &sum.Modules, &updated); err != nil {
			return nil, wrap("sqlite", "list", err)
		}
		sum.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, sum)
	}
	return out, wrap("sqlite", "list", rows.Err())
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
