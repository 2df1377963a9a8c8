package console

import (
	"context"
	"sync/atomic"
)

// PageFetcher loads one page of records with the given offset, limit
// and search filter.
type PageFetcher[T any] func(ctx context.Context, skip, limit int, search string) ([]T, error)

// ListController owns paginated, searchable list state for one entity
// type. The backend reports no total count, so the page count is a
// live heuristic: an under-full page marks the end, a full page means
// at least one more page until proven otherwise.
type ListController[T any] struct {
	fetch    PageFetcher[T]
	pageSize int

	pageIndex  int
	searchTerm string
	totalPages int

	rows    []T
	loaded  bool
	loadErr error

	seq atomic.Uint64
}

// NewListController constructs a controller with the given page size.
func NewListController[T any](fetch PageFetcher[T], pageSize int) *ListController[T] {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &ListController[T]{fetch: fetch, pageSize: pageSize}
}

// Load fetches the current page. Stale completions are discarded:
// each load carries a sequence token, and a response that is no longer
// the most recently issued one for this controller is dropped so the
// latest user intent always wins.
func (c *ListController[T]) Load(ctx context.Context) error {
	token := c.seq.Add(1)
	page, term := c.pageIndex, c.searchTerm

	rows, err := c.fetch(ctx, page*c.pageSize, c.pageSize, term)
	if c.seq.Load() != token {
		return nil
	}

	if err != nil {
		c.loadErr = err
		if !c.loaded {
			// First load: replace content with the error indicator.
			c.rows = nil
		}
		return err
	}

	c.rows = rows
	c.loaded = true
	c.loadErr = nil
	if len(rows) < c.pageSize {
		c.totalPages = page + 1
	} else {
		c.totalPages = page + 2
	}
	return nil
}

// SetSearch changes the filter and resets to the first page.
// Searching always starts from page one.
func (c *ListController[T]) SetSearch(term string) {
	if term == c.searchTerm {
		return
	}
	c.searchTerm = term
	c.pageIndex = 0
}

// NextPage advances one page and loads it.
func (c *ListController[T]) NextPage(ctx context.Context) error {
	if !c.CanNext() {
		return nil
	}
	c.pageIndex++
	return c.Load(ctx)
}

// PrevPage goes back one page and loads it.
func (c *ListController[T]) PrevPage(ctx context.Context) error {
	if !c.CanPrev() {
		return nil
	}
	c.pageIndex--
	return c.Load(ctx)
}

// GoToPage jumps to a specific page and loads it.
func (c *ListController[T]) GoToPage(ctx context.Context, page int) error {
	if page < 0 || page > c.totalPages-1 {
		return nil
	}
	c.pageIndex = page
	return c.Load(ctx)
}

// CanPrev reports whether a previous page exists.
func (c *ListController[T]) CanPrev() bool {
	return c.pageIndex > 0
}

// CanNext reports whether the heuristic still promises another page.
func (c *ListController[T]) CanNext() bool {
	return c.pageIndex < c.totalPages-1
}

// Rows returns the currently displayed page.
func (c *ListController[T]) Rows() []T {
	return c.rows
}

// PageIndex returns the zero-based current page.
func (c *ListController[T]) PageIndex() int {
	return c.pageIndex
}

// PageSize returns the fixed page size.
func (c *ListController[T]) PageSize() int {
	return c.pageSize
}

// SearchTerm returns the active search filter.
func (c *ListController[T]) SearchTerm() string {
	return c.searchTerm
}

// TotalPages returns the current page-count estimate. It may shrink or
// grow as the user navigates.
func (c *ListController[T]) TotalPages() int {
	return c.totalPages
}

// Err returns the most recent load failure, or nil after a success.
func (c *ListController[T]) Err() error {
	return c.loadErr
}

// ErrorMessage returns the display message for a failed load.
func (c *ListController[T]) ErrorMessage() string {
	if c.loadErr == nil {
		return ""
	}
	return ErrorDetail(c.loadErr, "Failed to load list")
}

// Loaded reports whether at least one page has been shown. A failure
// before the first success leaves the view in an error state with no
// rows; after that, failed refreshes keep the previous page visible.
func (c *ListController[T]) Loaded() bool {
	return c.loaded
}
