package console

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicrm/minicrm/internal/crm"
)

func TestListControllerFullPageEstimatesMore(t *testing.T) {
	fetch := func(ctx context.Context, skip, limit int, search string) ([]crm.Customer, error) {
		return makeCustomers(limit), nil
	}
	c := NewListController(fetch, 10)

	require.NoError(t, c.Load(context.Background()))

	// A full page promises at least one more page.
	assert.Equal(t, 2, c.TotalPages())
	assert.True(t, c.CanNext())
	assert.False(t, c.CanPrev())
	assert.Len(t, c.Rows(), 10)
}

func TestListControllerShortPageIsLast(t *testing.T) {
	fetch := func(ctx context.Context, skip, limit int, search string) ([]crm.Customer, error) {
		return makeCustomers(3), nil
	}
	c := NewListController(fetch, 10)

	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, 1, c.TotalPages())
	assert.False(t, c.CanNext())
}

func TestListControllerEstimateShrinksOnShortPage(t *testing.T) {
	pages := map[int]int{0: 10, 1: 10, 2: 4}
	c := NewListController(func(ctx context.Context, skip, limit int, search string) ([]crm.Customer, error) {
		return makeCustomers(pages[skip/limit]), nil
	}, 10)

	ctx := context.Background()
	require.NoError(t, c.Load(ctx))
	require.NoError(t, c.NextPage(ctx))
	assert.Equal(t, 3, c.TotalPages())

	require.NoError(t, c.NextPage(ctx))
	assert.Equal(t, 2, c.PageIndex())
	assert.Equal(t, 3, c.TotalPages())
	assert.False(t, c.CanNext())
	assert.True(t, c.CanPrev())
}

func TestListControllerFetchParameters(t *testing.T) {
	var gotSkip, gotLimit int
	var gotSearch string
	c := NewListController(func(ctx context.Context, skip, limit int, search string) ([]crm.Customer, error) {
		gotSkip, gotLimit, gotSearch = skip, limit, search
		return makeCustomers(limit), nil
	}, 10)

	ctx := context.Background()
	require.NoError(t, c.Load(ctx))
	require.NoError(t, c.NextPage(ctx))

	assert.Equal(t, 10, gotSkip)
	assert.Equal(t, 10, gotLimit)
	assert.Empty(t, gotSearch)

	c.SetSearch("acme")
	require.NoError(t, c.Load(ctx))
	assert.Equal(t, 0, gotSkip)
	assert.Equal(t, "acme", gotSearch)
}

func TestListControllerSearchResetsPage(t *testing.T) {
	c := NewListController(func(ctx context.Context, skip, limit int, search string) ([]crm.Customer, error) {
		return makeCustomers(limit), nil
	}, 10)

	ctx := context.Background()
	require.NoError(t, c.Load(ctx))
	require.NoError(t, c.NextPage(ctx))
	require.Equal(t, 1, c.PageIndex())

	c.SetSearch("smith")
	assert.Equal(t, 0, c.PageIndex())

	// Re-applying the identical term keeps the current page.
	require.NoError(t, c.NextPage(ctx))
	c.SetSearch("smith")
	assert.Equal(t, 1, c.PageIndex())
}

func TestListControllerNavigationGuards(t *testing.T) {
	calls := 0
	c := NewListController(func(ctx context.Context, skip, limit int, search string) ([]crm.Customer, error) {
		calls++
		return makeCustomers(3), nil
	}, 10)

	ctx := context.Background()
	require.NoError(t, c.Load(ctx))
	require.Equal(t, 1, calls)

	// Single short page: neither direction may fetch.
	require.NoError(t, c.NextPage(ctx))
	require.NoError(t, c.PrevPage(ctx))
	require.NoError(t, c.GoToPage(ctx, 5))
	require.NoError(t, c.GoToPage(ctx, -1))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, c.PageIndex())
}

func TestListControllerFirstLoadFailure(t *testing.T) {
	loadErr := &GatewayError{Status: 500, detail: "database unavailable"}
	c := NewListController(func(ctx context.Context, skip, limit int, search string) ([]crm.Customer, error) {
		return nil, loadErr
	}, 10)

	err := c.Load(context.Background())

	require.Error(t, err)
	assert.False(t, c.Loaded())
	assert.Empty(t, c.Rows())
	assert.Equal(t, "database unavailable", c.ErrorMessage())
}

func TestListControllerRefreshFailureKeepsRows(t *testing.T) {
	fail := false
	c := NewListController(func(ctx context.Context, skip, limit int, search string) ([]crm.Customer, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return makeCustomers(10), nil
	}, 10)

	ctx := context.Background()
	require.NoError(t, c.Load(ctx))
	require.Len(t, c.Rows(), 10)

	fail = true
	err := c.Load(ctx)

	require.Error(t, err)
	assert.True(t, c.Loaded())
	assert.Len(t, c.Rows(), 10)
	assert.Equal(t, "Failed to load list", c.ErrorMessage())

	fail = false
	require.NoError(t, c.Load(ctx))
	assert.NoError(t, c.Err())
	assert.Empty(t, c.ErrorMessage())
}

func TestListControllerDiscardsStaleResponse(t *testing.T) {
	c := NewListController[crm.Customer](nil, 10)

	results := [][]crm.Customer{makeCustomers(10), makeCustomers(2)}
	var inner *ListController[crm.Customer]
	call := 0
	c.fetch = func(ctx context.Context, skip, limit int, search string) ([]crm.Customer, error) {
		idx := call
		call++
		if idx == 0 {
			// A newer load overtakes this one before it completes.
			_ = inner.Load(ctx)
		}
		return results[idx], nil
	}
	inner = c

	require.NoError(t, c.Load(context.Background()))

	// The slow first response arrived last but was superseded; the
	// newer short page wins.
	assert.Len(t, c.Rows(), 2)
	assert.Equal(t, 1, c.TotalPages())
}
