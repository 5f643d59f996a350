package listutil

import (
	"errors"
	"testing"
	"time"

	"campuspulse/internal/domain/club"
)

var now = time.Date(2026, 3, 11, 15, 30, 0, 0, time.UTC) // a Wednesday

// TestNewPageParams verifies defaults and clamping.
func TestNewPageParams(t *testing.T) {
	tests := []struct {
		name          string
		page, perPage int
		want          PageParams
	}{
		{"defaults", 0, 0, PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"valid", 3, 50, PageParams{Page: 3, PerPage: 50}},
		{"per page not allowed", 2, 25, PageParams{Page: 2, PerPage: DefaultPerPage}},
		{"negative page", -1, 10, PageParams{Page: 1, PerPage: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPageParams(tt.page, tt.perPage); got != tt.want {
				t.Errorf("NewPageParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestParseCategory verifies case-insensitive matching and the All pseudo-category.
func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw     string
		want    club.Category
		wantErr error
	}{
		{"", club.CategoryAll, nil},
		{"all", club.CategoryAll, nil},
		{"tech", club.CategoryTech, nil},
		{" Music ", club.CategoryMusic, nil},
		{"chess", "", ErrUnknownCategory},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseCategory(tt.raw)
			if !errors.Is(err, tt.wantErr) || got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, %v; want %q, %v", tt.raw, got, err, tt.want, tt.wantErr)
			}
		})
	}
}

// TestParseDay verifies ISO and natural-language dates resolve to midnight.
func TestParseDay(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"", time.Time{}},
		{"2026-04-02", time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)},
		{"today", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)},
		{"tomorrow", time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDay(tt.raw, now)
			if err != nil {
				t.Fatalf("ParseDay(%q): %v", tt.raw, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDay(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}

	if _, err := ParseDay("whenever works", now); !errors.Is(err, ErrUnparsableDate) {
		t.Errorf("err = %v, want ErrUnparsableDate", err)
	}
}

// TestParseEventFilter verifies all fields are carried into the filter.
func TestParseEventFilter(t *testing.T) {
	f, err := ParseEventFilter(FilterParams{Search: " summit ", Category: "tech", From: "2026-03-01", To: "2026-03-31"}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Search != "summit" || f.Category != club.CategoryTech {
		t.Errorf("filter = %+v", f)
	}
	if f.Range.From.Day() != 1 || f.Range.To.Day() != 31 {
		t.Errorf("range = %v .. %v", f.Range.From, f.Range.To)
	}

	if _, err := ParseEventFilter(FilterParams{To: "someday maybe"}, now); !errors.Is(err, ErrUnparsableDate) {
		t.Errorf("err = %v, want ErrUnparsableDate", err)
	}
}

// TestNewPageInfo_Basic verifies total pages calculation.
func TestNewPageInfo_Basic(t *testing.T) {
	p := NewPageInfo(1, 20, 55)
	if p.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", p.TotalPages)
	}
	if p.Offset() != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset())
	}
}

// TestNewPageInfo_ClampHigh verifies page is clamped to total pages when too high.
func TestNewPageInfo_ClampHigh(t *testing.T) {
	p := NewPageInfo(10, 20, 30)
	if p.Page != 2 {
		t.Errorf("expected page clamped to 2, got %d", p.Page)
	}
}

// TestPageInfo_Rows verifies start and end rows on the last page.
func TestPageInfo_Rows(t *testing.T) {
	p := NewPageInfo(3, 20, 55)
	if p.StartRow() != 41 || p.EndRow() != 55 {
		t.Errorf("rows = %d..%d, want 41..55", p.StartRow(), p.EndRow())
	}
	if !p.ShowPagination() {
		t.Error("expected pagination")
	}
	if NewPageInfo(1, 20, 0).StartRow() != 0 {
		t.Error("expected StartRow 0 for empty list")
	}
}

// TestPaginate verifies slicing at the edges.
func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	if got := Paginate(items, NewPageInfo(2, 2, len(items))); len(got) != 2 || got[0] != 3 {
		t.Errorf("page 2 = %v", got)
	}
	if got := Paginate(items, NewPageInfo(3, 2, len(items))); len(got) != 1 || got[0] != 5 {
		t.Errorf("page 3 = %v", got)
	}
	if got := Paginate([]int{}, NewPageInfo(1, 10, 0)); len(got) != 0 {
		t.Errorf("empty = %v", got)
	}
}
