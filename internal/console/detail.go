package console

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/minicrm/minicrm/internal/crm"
)

// DetailController loads one customer together with all of its leads
// and derives the detail-view aggregates. The two fetches run in
// parallel and must both succeed; either failing yields a single
// failed state, never a partial view.
type DetailController struct {
	gateway Gateway

	customer *crm.Customer
	leads    []crm.Lead

	statusFilter crm.LeadStatus // empty means no filter
	loadErr      error

	seq atomic.Uint64
}

// NewDetailController constructs a controller.
func NewDetailController(gateway Gateway) *DetailController {
	return &DetailController{gateway: gateway}
}

// Load fetches the customer and its full, unpaginated lead list.
// Stale completions are discarded via a sequence token, as in the
// list controller.
func (c *DetailController) Load(ctx context.Context, customerID string) error {
	token := c.seq.Add(1)

	var customer *crm.Customer
	var leads []crm.Lead

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customer, err = c.gateway.GetCustomer(gctx, customerID)
		return err
	})
	g.Go(func() error {
		var err error
		leads, err = c.gateway.ListCustomerLeads(gctx, customerID)
		return err
	})
	err := g.Wait()

	if c.seq.Load() != token {
		return nil
	}

	if err != nil {
		c.customer = nil
		c.leads = nil
		c.loadErr = err
		return err
	}

	c.customer = customer
	c.leads = leads
	c.loadErr = nil
	return nil
}

// Customer returns the loaded customer, nil while unloaded or failed.
func (c *DetailController) Customer() *crm.Customer {
	return c.customer
}

// Leads returns the full lead set regardless of the status filter.
func (c *DetailController) Leads() []crm.Lead {
	return c.leads
}

// SetStatusFilter narrows the visible leads. Filtering applies to the
// already-loaded set and never triggers a network round trip.
func (c *DetailController) SetStatusFilter(status crm.LeadStatus) {
	c.statusFilter = status
}

// StatusFilter returns the active filter, empty when none.
func (c *DetailController) StatusFilter() crm.LeadStatus {
	return c.statusFilter
}

// FilterActive reports whether a status filter is applied.
func (c *DetailController) FilterActive() bool {
	return c.statusFilter != ""
}

// FilteredLeads returns the leads visible under the current filter.
func (c *DetailController) FilteredLeads() []crm.Lead {
	if c.statusFilter == "" {
		return c.leads
	}
	filtered := make([]crm.Lead, 0, len(c.leads))
	for _, lead := range c.leads {
		if lead.Status == c.statusFilter {
			filtered = append(filtered, lead)
		}
	}
	return filtered
}

// Stats derives the aggregate over the full lead set, ignoring the
// status filter.
func (c *DetailController) Stats() LeadStats {
	return ComputeLeadStats(c.leads)
}

// Err returns the load failure, or nil after a success.
func (c *DetailController) Err() error {
	return c.loadErr
}

// ErrorMessage returns the display message for a failed load.
func (c *DetailController) ErrorMessage() string {
	if c.loadErr == nil {
		return ""
	}
	return ErrorDetail(c.loadErr, "Failed to load customer data")
}
