package console

import (
	"context"
	"sync/atomic"

	"github.com/minicrm/minicrm/internal/crm"
)

const recentLimit = 5

// DashboardController aggregates the dashboard view: the
// server-computed totals plus recent customers and the full lead
// collection. Leads are fetched unpaginated so client-side
// aggregation covers the whole pipeline, not one page of it.
type DashboardController struct {
	gateway Gateway

	stats           *crm.DashboardStats
	recentCustomers []crm.Customer
	allLeads        []crm.Lead
	loadErr         error

	seq atomic.Uint64
}

// NewDashboardController constructs a controller.
func NewDashboardController(gateway Gateway) *DashboardController {
	return &DashboardController{gateway: gateway}
}

// Load fetches the stats, recent customers and the full lead list.
// Any failure leaves the dashboard in a single error state.
func (c *DashboardController) Load(ctx context.Context) error {
	token := c.seq.Add(1)

	stats, err := c.gateway.DashboardStats(ctx)
	if err == nil {
		var customers []crm.Customer
		customers, err = c.gateway.ListCustomers(ctx, 0, recentLimit, "")
		if err == nil {
			var leads []crm.Lead
			leads, err = c.gateway.ListLeads(ctx)
			if err == nil {
				if c.seq.Load() != token {
					return nil
				}
				c.stats = stats
				c.recentCustomers = customers
				c.allLeads = leads
				c.loadErr = nil
				return nil
			}
		}
	}

	if c.seq.Load() != token {
		return nil
	}
	c.stats = nil
	c.recentCustomers = nil
	c.allLeads = nil
	c.loadErr = err
	return err
}

// Stats returns the server-computed aggregate, nil until loaded.
func (c *DashboardController) Stats() *crm.DashboardStats {
	return c.stats
}

// RecentCustomers returns the newest customers, at most five.
func (c *DashboardController) RecentCustomers() []crm.Customer {
	return c.recentCustomers
}

// RecentLeads returns the newest leads, at most five.
func (c *DashboardController) RecentLeads() []crm.Lead {
	if len(c.allLeads) <= recentLimit {
		return c.allLeads
	}
	return c.allLeads[:recentLimit]
}

// PipelineValue computes the total value over the full lead set.
func (c *DashboardController) PipelineValue() float64 {
	return TotalValue(c.allLeads)
}

// LeadStatusCounts computes the client-side by-status counts over the
// full lead set.
func (c *DashboardController) LeadStatusCounts() map[crm.LeadStatus]int {
	return ByStatusCounts(c.allLeads)
}

// Err returns the load failure, or nil after a success.
func (c *DashboardController) Err() error {
	return c.loadErr
}

// ErrorMessage returns the display message for a failed load.
func (c *DashboardController) ErrorMessage() string {
	if c.loadErr == nil {
		return ""
	}
	return ErrorDetail(c.loadErr, "Failed to load dashboard data")
}
