package prompts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/JaimeStill/gallery/pkg/pagination"
)

type fileStore struct {
	path       string
	mu         sync.RWMutex
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// NewFile creates a prompt store persisted as a JSON array in the file at path.
// The file and its directory are created when missing. Each mutation rewrites
// the whole collection through a temporary file and rename.
func NewFile(
	path string,
	logger *slog.Logger,
	pagination pagination.Config,
) (System, error) {
	if err := ensureFile(path); err != nil {
		return nil, err
	}

	return &fileStore{
		path:       path,
		logger:     logger.With("system", "prompts", "store", "file"),
		pagination: pagination,
		now:        time.Now,
	}, nil
}

func (f *fileStore) Handler() *Handler {
	return NewHandler(f, f.logger, f.pagination)
}

func (f *fileStore) All(ctx context.Context) ([]Prompt, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	items, err := f.read()
	if err != nil {
		return nil, err
	}
	return SortNewest(items), nil
}

func (f *fileStore) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Prompt], error) {
	page.Normalize(f.pagination)

	items, err := f.All(ctx)
	if err != nil {
		return nil, err
	}

	result := pagination.Slice(Filter(items, page.SearchTerm()), page.Page, page.PageSize)
	return &result, nil
}

func (f *fileStore) Find(ctx context.Context, id string) (*Prompt, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	items, err := f.read()
	if err != nil {
		return nil, err
	}

	i := index(items, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return &items[i], nil
}

func (f *fileStore) Create(ctx context.Context, cmd Command) (*Prompt, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return nil, err
	}

	p := newPrompt(cmd, f.now())
	if err := f.write(append(items, p)); err != nil {
		return nil, err
	}

	f.logger.Info("prompt created", "id", p.ID, "title", p.Title)
	return &p, nil
}

func (f *fileStore) Update(ctx context.Context, id string, cmd Command) (*Prompt, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return nil, err
	}

	i := index(items, id)
	if i < 0 {
		return nil, ErrNotFound
	}

	items[i].apply(cmd, f.now())
	if err := f.write(items); err != nil {
		return nil, err
	}

	p := items[i]
	f.logger.Info("prompt updated", "id", p.ID, "title", p.Title)
	return &p, nil
}

func (f *fileStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return err
	}

	i := index(items, id)
	if i < 0 {
		return ErrNotFound
	}

	if err := f.write(slices.Delete(items, i, i+1)); err != nil {
		return err
	}

	f.logger.Info("prompt deleted", "id", id)
	return nil
}

func (f *fileStore) read() ([]Prompt, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}

	var items []Prompt
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode prompt file: %w", err)
	}
	return items, nil
}

func (f *fileStore) write(items []Prompt) error {
	if items == nil {
		items = []Prompt{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode prompt file: %w", err)
	}

	return writeAtomic(f.path, data)
}

func index(items []Prompt, id string) int {
	return slices.IndexFunc(items, func(p Prompt) bool {
		return p.ID == id
	})
}

func ensureFile(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat prompt file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create prompt file directory: %w", err)
	}
	return writeAtomic(path, []byte("[]"))
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace prompt file: %w", err)
	}
	return nil
}
