package crm

import "context"

// Scope restricts queries to records visible to a caller. Admins see
// everything; regular users only records they own.
type Scope struct {
	OwnerID string
	All     bool
}

// Repository provides persistence for customers and leads.
type Repository interface {
	ListCustomers(ctx context.Context, scope Scope, req ListCustomersRequest) ([]Customer, error)
	GetCustomer(ctx context.Context, scope Scope, id string) (*Customer, error)
	CreateCustomer(ctx context.Context, customer Customer) error
	UpdateCustomer(ctx context.Context, id string, updates map[string]any) error
	DeleteCustomerCascade(ctx context.Context, scope Scope, id string) error
	CountCustomers(ctx context.Context, scope Scope) (int, error)

	ListCustomerLeads(ctx context.Context, customerID string, status *LeadStatus) ([]Lead, error)
	ListLeads(ctx context.Context, scope Scope, status *LeadStatus) ([]Lead, error)
	GetLead(ctx context.Context, id string) (*Lead, error)
	CreateLead(ctx context.Context, lead Lead) error
	UpdateLead(ctx context.Context, id string, updates map[string]any) error
	DeleteLead(ctx context.Context, id string) error
}
