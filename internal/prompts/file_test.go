package prompts_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/gallery/internal/prompts"
	"github.com/JaimeStill/gallery/pkg/pagination"
)

func newFileStore(t *testing.T) (prompts.System, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "prompts.json")

	sys, err := prompts.NewFile(path, discardLogger(), pagination.Config{DefaultPageSize: 6, MaxPageSize: 100})
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	return sys, path
}

// create inserts records with distinct creation times.
func create(t *testing.T, sys prompts.System, cmds ...prompts.Command) []*prompts.Prompt {
	t.Helper()
	created := make([]*prompts.Prompt, 0, len(cmds))
	for _, cmd := range cmds {
		p, err := sys.Create(context.Background(), cmd)
		if err != nil {
			t.Fatalf("Create(%q) error = %v", cmd.Title, err)
		}
		created = append(created, p)
		time.Sleep(2 * time.Millisecond)
	}
	return created
}

func TestNewFileCreatesEmptyCollection(t *testing.T) {
	sys, path := newFileStore(t)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("file = %q, want []", data)
	}

	items, err := sys.All(context.Background())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("All() = %d items, want 0", len(items))
	}
}

func TestFileCreateThenFind(t *testing.T) {
	sys, _ := newFileStore(t)
	ctx := context.Background()

	p := create(t, sys, prompts.Command{
		Title:       "Neon Alley",
		Image:       "https://img.example.com/neon.png",
		Description: "cyberpunk",
		Prompt:      "a neon alley at night",
	})[0]

	if p.ID == "" {
		t.Fatal("Create() returned empty id")
	}
	if p.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if p.UpdatedAt != nil {
		t.Error("UpdatedAt set on create")
	}

	got, err := sys.Find(ctx, p.ID)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got.Title != p.Title || got.Prompt != p.Prompt || got.Image != p.Image || got.Description != p.Description {
		t.Errorf("Find() = %+v, want %+v", got, p)
	}
}

func TestFileCreateDefaultsOptionalFields(t *testing.T) {
	sys, _ := newFileStore(t)

	p := create(t, sys, prompts.Command{Title: "Bare", Prompt: "just text"})[0]
	if p.Image != "" || p.Description != "" {
		t.Errorf("optional fields = %q, %q; want empty", p.Image, p.Description)
	}
}

func TestFileValidation(t *testing.T) {
	sys, _ := newFileStore(t)
	ctx := context.Background()
	existing := create(t, sys, prompts.Command{Title: "Keep", Prompt: "keep me"})[0]

	tests := []struct {
		name string
		cmd  prompts.Command
	}{
		{"missing title", prompts.Command{Prompt: "p"}},
		{"blank title", prompts.Command{Title: "   ", Prompt: "p"}},
		{"missing prompt", prompts.Command{Title: "t"}},
		{"blank prompt", prompts.Command{Title: "t", Prompt: "\n\t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sys.Create(ctx, tt.cmd); !errors.Is(err, prompts.ErrValidation) {
				t.Errorf("Create() error = %v, want ErrValidation", err)
			}
			if _, err := sys.Update(ctx, existing.ID, tt.cmd); !errors.Is(err, prompts.ErrValidation) {
				t.Errorf("Update() error = %v, want ErrValidation", err)
			}
		})
	}

	items, err := sys.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(items) != 1 || items[0].Title != "Keep" {
		t.Errorf("store changed by rejected commands: %+v", items)
	}
}

func TestFileUpdate(t *testing.T) {
	sys, _ := newFileStore(t)
	ctx := context.Background()
	p := create(t, sys, prompts.Command{Title: "Before", Prompt: "old"})[0]

	updated, err := sys.Update(ctx, p.ID, prompts.Command{Title: "After", Prompt: "new", Description: "d"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ID != p.ID {
		t.Errorf("id changed: %q -> %q", p.ID, updated.ID)
	}
	if !updated.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", p.CreatedAt, updated.CreatedAt)
	}
	if updated.UpdatedAt == nil {
		t.Error("UpdatedAt not set")
	}

	got, err := sys.Find(ctx, p.ID)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got.Title != "After" || got.Prompt != "new" || got.Description != "d" {
		t.Errorf("Find() = %+v", got)
	}
}

func TestFileUpdateUnknownDoesNotCreate(t *testing.T) {
	sys, _ := newFileStore(t)
	ctx := context.Background()

	_, err := sys.Update(ctx, "00000000-0000-0000-0000-000000000000", prompts.Command{Title: "t", Prompt: "p"})
	if !errors.Is(err, prompts.ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}

	items, err := sys.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("All() = %d items, want 0", len(items))
	}
}

func TestFileDelete(t *testing.T) {
	sys, _ := newFileStore(t)
	ctx := context.Background()
	p := create(t, sys, prompts.Command{Title: "Gone", Prompt: "soon"})[0]

	if err := sys.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := sys.Find(ctx, p.ID); !errors.Is(err, prompts.ErrNotFound) {
		t.Errorf("Find() after delete error = %v, want ErrNotFound", err)
	}
	if err := sys.Delete(ctx, p.ID); !errors.Is(err, prompts.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestFileAllNewestFirst(t *testing.T) {
	sys, _ := newFileStore(t)

	create(t, sys,
		prompts.Command{Title: "first", Prompt: "p"},
		prompts.Command{Title: "second", Prompt: "p"},
		prompts.Command{Title: "third", Prompt: "p"},
	)

	items, err := sys.All(context.Background())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}

	want := []string{"third", "second", "first"}
	for i, title := range want {
		if items[i].Title != title {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Title, title)
		}
	}
}

func TestFileLifecycleScenario(t *testing.T) {
	sys, _ := newFileStore(t)
	ctx := context.Background()

	created := create(t, sys,
		prompts.Command{Title: "A", Prompt: "alpha"},
		prompts.Command{Title: "B", Prompt: "beta"},
	)
	a, b := created[0], created[1]

	if err := sys.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete(A) error = %v", err)
	}

	items, err := sys.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != b.ID {
		t.Fatalf("All() = %+v, want only B", items)
	}
}

func TestFileList(t *testing.T) {
	sys, _ := newFileStore(t)
	ctx := context.Background()

	var cmds []prompts.Command
	for _, title := range []string{"cat one", "dog", "cat two", "bird", "cat three", "fish", "cat four"} {
		cmds = append(cmds, prompts.Command{Title: title, Prompt: "p"})
	}
	create(t, sys, cmds...)

	t.Run("paginates newest first", func(t *testing.T) {
		result, err := sys.List(ctx, pagination.PageRequest{Page: 2})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Total != 7 || result.TotalPages != 2 {
			t.Errorf("total = %d pages = %d, want 7 and 2", result.Total, result.TotalPages)
		}
		if len(result.Data) != 1 || result.Data[0].Title != "cat one" {
			t.Errorf("page 2 = %+v", result.Data)
		}
	})

	t.Run("filters by search", func(t *testing.T) {
		search := "CAT"
		result, err := sys.List(ctx, pagination.PageRequest{Search: &search})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Total != 4 {
			t.Errorf("total = %d, want 4", result.Total)
		}
		if result.Data[0].Title != "cat four" {
			t.Errorf("first = %q, want cat four", result.Data[0].Title)
		}
	})

	t.Run("clamps page past the end", func(t *testing.T) {
		result, err := sys.List(ctx, pagination.PageRequest{Page: 99})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Page != 2 {
			t.Errorf("page = %d, want 2", result.Page)
		}
	})
}

func TestFilePersistsAcrossInstances(t *testing.T) {
	sys, path := newFileStore(t)
	p := create(t, sys, prompts.Command{Title: "Durable", Prompt: "p"})[0]

	reopened, err := prompts.NewFile(path, discardLogger(), pagination.Config{DefaultPageSize: 6, MaxPageSize: 100})
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}

	got, err := reopened.Find(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got.Title != "Durable" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestFileCorruptCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	sys, err := prompts.NewFile(path, discardLogger(), pagination.Config{DefaultPageSize: 6, MaxPageSize: 100})
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}

	_, err = sys.All(context.Background())
	if err == nil {
		t.Fatal("expected decode error")
	}
	if prompts.MapHTTPStatus(err) != 500 {
		t.Errorf("status = %d, want 500", prompts.MapHTTPStatus(err))
	}
}
