package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/cardbuilder/pkg/card"
	errs "github.com/matzehuels/cardbuilder/pkg/errors"
)

// FileStore keeps each card as <dir>/<id>.json.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file store in dir.
// If dir is empty, defaults to ~/.local/share/cardbuilder/cards/
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, wrap("file", "open", err)
		}
		dir = filepath.Join(home, ".local", "share", "cardbuilder", "cards")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, wrap("file", "open", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the card files.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(id string) (string, error) {
	if err := errs.ValidateID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *FileStore) Get(ctx context.Context, id string) (c card.Card, err error) {
	defer observe(ctx, "file", "get", time.Now(), &err)
	path, err := s.path(id)
	if err != nil {
		return card.Card{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(path, id)
}

func (s *FileStore) read(path, id string) (card.Card, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return card.Card{}, notFound(id)
	}
	if err != nil {
		return card.Card{}, wrap("file", "read", err)
	}
	c, err := card.Decode(data, card.FormatJSON)
	if err != nil {
		return card.Card{}, err
	}
	c.ID = id
	return c, nil
}

func (s *FileStore) Put(ctx context.Context, c card.Card) (err error) {
	defer observe(ctx, "file", "put", time.Now(), &err)
	if c, err = prepare(c); err != nil {
		return err
	}
	path, err := s.path(c.ID)
	if err != nil {
		return err
	}
	data, err := card.Encode(c, card.FormatJSON)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Write then rename so readers never see a partial file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return wrap("file", "write", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return wrap("file", "write", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, "file", "delete", time.Now(), &err)
	path, err := s.path(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return notFound(id)
	}
	return wrap("file", "delete", err)
}

func (s *FileStore) List(ctx context.Context) (out []Summary, err error) {
	defer observe(ctx, "file", "list", time.Now(), &err)
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, wrap("file", "list", err)
	}
	out = []Summary{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		c, err := s.read(filepath.Join(s.dir, name), id)
		if err != nil {
			continue
		}
		out = append(out, Summarize(c))
	}
	slices.SortFunc(out, func(a, b Summary) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
