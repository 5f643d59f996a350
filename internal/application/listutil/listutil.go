package listutil

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"campuspulse/internal/application/projections"
	"campuspulse/internal/domain/club"
)

// ErrUnknownCategory is returned for a category filter outside the enum and All.
var ErrUnknownCategory = errors.New("unknown category")

// ErrUnparsableDate is returned when a date filter matches no known format.
var ErrUnparsableDate = errors.New("unrecognised date")

// PageParams carries pagination input.
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page
}

// FilterParams carries the raw filter input for the event listing.
type FilterParams struct {
	Search   string // free-text search
	Category string // category name or "All"
	From     string // date, e.g. 2026-03-01 or "next friday"
	To       string
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed)
	PerPage    int // rows per page
	Total      int // total matching rows
	TotalPages int // ceil(Total / PerPage)
}

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100, 200}

// NewPageParams applies defaults to user-supplied paging values.
// PRE: none
// POST: Page >= 1; PerPage is one of PerPageOptions
func NewPageParams(page, perPage int) PageParams {
	if page < 1 {
		page = 1
	}
	if !isValidPerPage(perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// ParseCategory maps a category name, case-insensitively, onto the enum.
// The empty string and "All" both mean every category.
func ParseCategory(raw string) (club.Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, string(club.CategoryAll)) {
		return club.CategoryAll, nil
	}
	for _, c := range club.Categories {
		if strings.EqualFold(raw, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
}

var dateParser = newDateParser()

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseDay resolves a date filter to midnight of the named day in now's location.
// ISO dates (YYYY-MM-DD) are tried first, then natural language relative to now.
// The empty string yields the zero time, meaning an open bound.
func ParseDay(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	loc := now.Location()
	if t, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		return t, nil
	}
	r, err := dateParser.Parse(strings.ToLower(raw), now)
	if err != nil || r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsableDate, raw)
	}
	y, m, d := r.Time.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}

// ParseEventFilter turns raw filter input into a listing filter.
// PRE: none
// POST: Range.From is the start of its day; Range.To names a day included in full
func ParseEventFilter(fp FilterParams, now time.Time) (projections.EventFilter, error) {
	category, err := ParseCategory(fp.Category)
	if err != nil {
		return projections.EventFilter{}, err
	}
	from, err := ParseDay(fp.From, now)
	if err != nil {
		return projections.EventFilter{}, fmt.Errorf("from: %w", err)
	}
	to, err := ParseDay(fp.To, now)
	if err != nil {
		return projections.EventFilter{}, fmt.Errorf("to: %w", err)
	}
	return projections.EventFilter{
		Search:   strings.TrimSpace(fp.Search),
		Category: category,
		Range:    projections.DateRange{From: from, To: to},
	}, nil
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0, perPage > 0, page >= 1
// POST: returns PageInfo with TotalPages computed; Page clamped to valid range
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Paginate returns the slice of items on page p.
func Paginate[T any](items []T, p PageInfo) []T {
	start := min(p.Offset(), len(items))
	end := min(start+p.PerPage, len(items))
	return items[start:end]
}

// Offset returns the index of the first row on the current page.
// PRE: PageInfo is valid
// POST: Returns (Page-1) * PerPage
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number on the current page.
// PRE: PageInfo is valid
// POST: Returns 0 if Total is 0, otherwise Offset+1
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
// PRE: PageInfo is valid
// POST: Returns min(Offset+PerPage, Total)
func (p PageInfo) EndRow() int {
	end := p.Offset() + p.PerPage
	if end > p.Total {
		end = p.Total
	}
	return end
}

// ShowPagination returns true if there is more than one page.
// PRE: PageInfo is valid
// POST: Returns true if Total > PerPage
func (p PageInfo) ShowPagination() bool {
	return p.Total > p.PerPage
}

func isValidPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}
