package prompts_test

import (
	"testing"
	"time"

	"github.com/JaimeStill/gallery/internal/prompts"
)

func at(day int) time.Time {
	return time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC)
}

func galleryFixture() []prompts.Prompt {
	return []prompts.Prompt{
		{ID: "1", Title: "Forest Spirit", Description: "misty woods", CreatedAt: at(1)},
		{ID: "2", Title: "Desert Dune", Description: "golden hour", CreatedAt: at(5)},
		{ID: "3", Title: "Ocean Deep", Description: "bioluminescent forest of kelp", CreatedAt: at(3)},
		{ID: "4", Title: "Untimed", Description: ""},
	}
}

func TestSortNewest(t *testing.T) {
	items := galleryFixture()
	sorted := prompts.SortNewest(items)

	want := []string{"2", "3", "1", "4"}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Errorf("sorted[%d] = %s, want %s", i, sorted[i].ID, id)
		}
	}

	if items[0].ID != "1" {
		t.Error("SortNewest modified its input")
	}
}

func TestMatches(t *testing.T) {
	p := prompts.Prompt{Title: "Forest Spirit", Description: "misty woods", Prompt: "hidden text"}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"forest", true},
		{"SPIRIT", true},
		{"forest ", true},
		{"spirit ", false},
		{"  misty", false},
		{"hidden", false},
		{"ocean", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := prompts.Matches(p, tt.query); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	got := prompts.Filter(galleryFixture(), "forest")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("order not preserved: %s, %s", got[0].ID, got[1].ID)
	}

	if all := prompts.Filter(galleryFixture(), ""); len(all) != 4 {
		t.Errorf("blank query len = %d, want 4", len(all))
	}
}

func TestBrowse(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		page      int
		pageSize  int
		wantIDs   []string
		wantPage  int
		wantTotal int
	}{
		{"first page", "", 1, 2, []string{"2", "3"}, 1, 4},
		{"second page", "", 2, 2, []string{"1", "4"}, 2, 4},
		{"filtered", "forest", 1, 6, []string{"3", "1"}, 1, 2},
		{"clamped high", "", 9, 3, []string{"4"}, 2, 4},
		{"clamped low", "", -1, 3, []string{"2", "3", "1"}, 1, 4},
		{"no matches", "zzz", 1, 6, nil, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := prompts.Browse(galleryFixture(), tt.query, tt.page, tt.pageSize)

			if result.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", result.Page, tt.wantPage)
			}
			if result.Total != tt.wantTotal {
				t.Errorf("total = %d, want %d", result.Total, tt.wantTotal)
			}
			if len(result.Data) != len(tt.wantIDs) {
				t.Fatalf("len = %d, want %d", len(result.Data), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if result.Data[i].ID != id {
					t.Errorf("data[%d] = %s, want %s", i, result.Data[i].ID, id)
				}
			}
		})
	}
}

func TestCommandValidate(t *testing.T) {
	if err := (prompts.Command{Title: "t", Prompt: "p"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (prompts.Command{Title: "t"}).Validate(); err == nil {
		t.Error("Validate() accepted blank prompt")
	}
}
