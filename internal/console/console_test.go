package console

import (
	"context"
	"time"

	"github.com/minicrm/minicrm/internal/crm"
)

// fakeGateway implements Gateway with per-call hooks so each test
// wires only the calls it exercises.
type fakeGateway struct {
	listCustomers     func(ctx context.Context, skip, limit int, search string) ([]crm.Customer, error)
	getCustomer       func(ctx context.Context, id string) (*crm.Customer, error)
	createCustomer    func(ctx context.Context, req crm.CreateCustomerRequest) (*crm.Customer, error)
	updateCustomer    func(ctx context.Context, id string, req crm.UpdateCustomerRequest) (*crm.Customer, error)
	deleteCustomer    func(ctx context.Context, id string) error
	listCustomerLeads func(ctx context.Context, customerID string) ([]crm.Lead, error)
	createLead        func(ctx context.Context, customerID string, req crm.CreateLeadRequest) (*crm.Lead, error)
	updateLead        func(ctx context.Context, id string, req crm.UpdateLeadRequest) (*crm.Lead, error)
	deleteLead        func(ctx context.Context, id string) error
	listLeads         func(ctx context.Context) ([]crm.Lead, error)
	dashboardStats    func(ctx context.Context) (*crm.DashboardStats, error)
}

func (g *fakeGateway) ListCustomers(ctx context.Context, skip, limit int, search string) ([]crm.Customer, error) {
	return g.listCustomers(ctx, skip, limit, search)
}

func (g *fakeGateway) GetCustomer(ctx context.Context, id string) (*crm.Customer, error) {
	return g.getCustomer(ctx, id)
}

func (g *fakeGateway) CreateCustomer(ctx context.Context, req crm.CreateCustomerRequest) (*crm.Customer, error) {
	return g.createCustomer(ctx, req)
}

func (g *fakeGateway) UpdateCustomer(ctx context.Context, id string, req crm.UpdateCustomerRequest) (*crm.Customer, error) {
	return g.updateCustomer(ctx, id, req)
}

func (g *fakeGateway) DeleteCustomer(ctx context.Context, id string) error {
	return g.deleteCustomer(ctx, id)
}

func (g *fakeGateway) ListCustomerLeads(ctx context.Context, customerID string) ([]crm.Lead, error) {
	return g.listCustomerLeads(ctx, customerID)
}

func (g *fakeGateway) CreateLead(ctx context.Context, customerID string, req crm.CreateLeadRequest) (*crm.Lead, error) {
	return g.createLead(ctx, customerID, req)
}

func (g *fakeGateway) UpdateLead(ctx context.Context, id string, req crm.UpdateLeadRequest) (*crm.Lead, error) {
	return g.updateLead(ctx, id, req)
}

func (g *fakeGateway) DeleteLead(ctx context.Context, id string) error {
	return g.deleteLead(ctx, id)
}

func (g *fakeGateway) ListLeads(ctx context.Context) ([]crm.Lead, error) {
	return g.listLeads(ctx)
}

func (g *fakeGateway) DashboardStats(ctx context.Context) (*crm.DashboardStats, error) {
	return g.dashboardStats(ctx)
}

func makeLead(id string, status crm.LeadStatus, value float64) crm.Lead {
	return crm.Lead{
		ID:         id,
		CustomerID: "cust-1",
		Title:      "Lead " + id,
		Status:     status,
		Value:      value,
		CreatedAt:  time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

func makeCustomers(n int) []crm.Customer {
	customers := make([]crm.Customer, n)
	for i := range customers {
		customers[i] = crm.Customer{
			ID:    string(rune('a' + i)),
			Name:  "Customer",
			Email: "customer@example.com",
		}
	}
	return customers
}
