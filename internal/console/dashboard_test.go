package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicrm/minicrm/internal/crm"
)

func dashboardFixture() *fakeGateway {
	return &fakeGateway{
		dashboardStats: func(ctx context.Context) (*crm.DashboardStats, error) {
			return &crm.DashboardStats{
				TotalCustomers: 4,
				TotalLeads:     6,
				LeadsByStatus:  map[string]int{"New": 2, "Contacted": 2, "Converted": 1, "Lost": 1},
				TotalValue:     75000,
			}, nil
		},
		listCustomers: func(ctx context.Context, skip, limit int, search string) ([]crm.Customer, error) {
			return makeCustomers(4), nil
		},
		listLeads: func(ctx context.Context) ([]crm.Lead, error) {
			return []crm.Lead{
				makeLead("1", crm.StatusNew, 15000),
				makeLead("2", crm.StatusContacted, 25000),
				makeLead("3", crm.StatusNew, 8000),
				makeLead("4", crm.StatusLost, 5000),
				makeLead("5", crm.StatusContacted, 12000),
				makeLead("6", crm.StatusConverted, 10000),
			}, nil
		},
	}
}

func TestDashboardControllerLoad(t *testing.T) {
	gw := dashboardFixture()
	c := NewDashboardController(gw)

	require.NoError(t, c.Load(context.Background()))

	require.NotNil(t, c.Stats())
	assert.Equal(t, 4, c.Stats().TotalCustomers)
	assert.Len(t, c.RecentCustomers(), 4)
	assert.Len(t, c.RecentLeads(), 5)
	assert.Equal(t, float64(75000), c.PipelineValue())

	counts := c.LeadStatusCounts()
	assert.Equal(t, 2, counts[crm.StatusNew])
	assert.Equal(t, 2, counts[crm.StatusContacted])
	assert.Equal(t, 1, counts[crm.StatusConverted])
	assert.Equal(t, 1, counts[crm.StatusLost])
}

func TestDashboardControllerRequestsRecentWindow(t *testing.T) {
	gw := dashboardFixture()
	var gotSkip, gotLimit = -1, -1
	gw.listCustomers = func(ctx context.Context, skip, limit int, search string) ([]crm.Customer, error) {
		gotSkip, gotLimit = skip, limit
		return makeCustomers(2), nil
	}
	c := NewDashboardController(gw)

	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, 0, gotSkip)
	assert.Equal(t, 5, gotLimit)
}

func TestDashboardControllerAnyFailureIsTotal(t *testing.T) {
	gw := dashboardFixture()
	gw.listLeads = func(ctx context.Context) ([]crm.Lead, error) {
		return nil, &GatewayError{Status: 500}
	}
	c := NewDashboardController(gw)

	err := c.Load(context.Background())

	require.Error(t, err)
	assert.Nil(t, c.Stats())
	assert.Nil(t, c.RecentCustomers())
	assert.Empty(t, c.RecentLeads())
	assert.Equal(t, "Failed to load dashboard data", c.ErrorMessage())
}

func TestDashboardControllerStatsFailureSkipsRest(t *testing.T) {
	gw := dashboardFixture()
	listed := false
	gw.dashboardStats = func(ctx context.Context) (*crm.DashboardStats, error) {
		return nil, &GatewayError{Status: 500, detail: "stats offline"}
	}
	gw.listLeads = func(ctx context.Context) ([]crm.Lead, error) {
		listed = true
		return nil, nil
	}
	c := NewDashboardController(gw)

	require.Error(t, c.Load(context.Background()))

	assert.False(t, listed)
	assert.Equal(t, "stats offline", c.ErrorMessage())
}
