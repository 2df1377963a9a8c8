package crm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/minicrm/minicrm/internal/shared"
)

// Service wraps CRM business rules.
type Service struct {
	repo   Repository
	stats  *StatsCache
	logger *slog.Logger
	clock  func() time.Time
}

// NewService constructs a Service. The stats cache may be nil.
func NewService(repo Repository, stats *StatsCache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		stats:  stats,
		logger: logger,
		clock:  func() time.Time { return time.Now().UTC() },
	}
}

func scopeFor(p shared.Principal) Scope {
	return Scope{OwnerID: p.UserID, All: p.IsAdmin()}
}

// ListCustomers returns one page of customers visible to the caller.
// No total count is reported; an under-full page marks the end.
func (s *Service) ListCustomers(ctx context.Context, p shared.Principal, req ListCustomersRequest) ([]Customer, error) {
	if req.Limit <= 0 {
		req.Limit = 10
	}
	if req.Skip < 0 {
		req.Skip = 0
	}
	return s.repo.ListCustomers(ctx, scopeFor(p), req)
}

// GetCustomer returns a single customer visible to the caller.
func (s *Service) GetCustomer(ctx context.Context, p shared.Principal, id string) (*Customer, error) {
	return s.repo.GetCustomer(ctx, scopeFor(p), id)
}

// CreateCustomer creates a customer owned by the caller.
func (s *Service) CreateCustomer(ctx context.Context, p shared.Principal, req CreateCustomerRequest) (*Customer, error) {
	customer := Customer{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		OwnerID:   p.UserID,
		CreatedAt: s.clock(),
	}
	if err := s.repo.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, customer.OwnerID)
	return &customer, nil
}

// UpdateCustomer applies the provided fields and returns the updated record.
func (s *Service) UpdateCustomer(ctx context.Context, p shared.Principal, id string, req UpdateCustomerRequest) (*Customer, error) {
	existing, err := s.repo.GetCustomer(ctx, scopeFor(p), id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Company != nil {
		updates["company"] = *req.Company
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.UpdateCustomer(ctx, id, updates); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, existing.OwnerID)
	return s.repo.GetCustomer(ctx, scopeFor(p), id)
}

// DeleteCustomer removes a customer and cascades to its leads.
func (s *Service) DeleteCustomer(ctx context.Context, p shared.Principal, id string) error {
	existing, err := s.repo.GetCustomer(ctx, scopeFor(p), id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCustomerCascade(ctx, scopeFor(p), id); err != nil {
		return err
	}
	s.invalidateStats(ctx, existing.OwnerID)
	return nil
}

// ListCustomerLeads returns every lead of one customer, unpaginated.
func (s *Service) ListCustomerLeads(ctx context.Context, p shared.Principal, customerID string, status *LeadStatus) ([]Lead, error) {
	if _, err := s.repo.GetCustomer(ctx, scopeFor(p), customerID); err != nil {
		return nil, err
	}
	return s.repo.ListCustomerLeads(ctx, customerID, status)
}

// ListLeads returns every lead visible to the caller, unpaginated.
func (s *Service) ListLeads(ctx context.Context, p shared.Principal, status *LeadStatus) ([]Lead, error) {
	return s.repo.ListLeads(ctx, scopeFor(p), status)
}

// CreateLead creates a lead under the given customer.
func (s *Service) CreateLead(ctx context.Context, p shared.Principal, customerID string, req CreateLeadRequest) (*Lead, error) {
	customer, err := s.repo.GetCustomer(ctx, scopeFor(p), customerID)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = StatusNew
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, status)
	}

	lead := Lead{
		ID:          uuid.NewString(),
		CustomerID:  customer.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Value:       req.Value,
		CreatedAt:   s.clock(),
	}
	if err := s.repo.CreateLead(ctx, lead); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, customer.OwnerID)
	return &lead, nil
}

// UpdateLead applies the provided fields and returns the updated record.
func (s *Service) UpdateLead(ctx context.Context, p shared.Principal, id string, req UpdateLeadRequest) (*Lead, error) {
	owner, err := s.leadOwner(ctx, p, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, *req.Status)
		}
		updates["status"] = string(*req.Status)
	}
	if req.Value != nil {
		updates["value"] = *req.Value
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateLead(ctx, id, updates); err != nil {
			return nil, err
		}
		s.invalidateStats(ctx, owner)
	}
	return s.repo.GetLead(ctx, id)
}

// DeleteLead removes a lead.
func (s *Service) DeleteLead(ctx context.Context, p shared.Principal, id string) error {
	owner, err := s.leadOwner(ctx, p, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteLead(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx, owner)
	return nil
}

// DashboardStats computes the caller's aggregate, serving from cache
// when a fresh entry exists.
func (s *Service) DashboardStats(ctx context.Context, p shared.Principal) (*DashboardStats, error) {
	scope := scopeFor(p)

	if cached, err := s.stats.Get(ctx, scope); err != nil {
		s.logger.Warn("stats cache read", slog.Any("error", err))
	} else if cached != nil {
		return cached, nil
	}

	stats, err := s.computeStats(ctx, scope)
	if err != nil {
		return nil, err
	}
	if err := s.stats.Set(ctx, scope, *stats); err != nil {
		s.logger.Warn("stats cache write", slog.Any("error", err))
	}
	return stats, nil
}

// ComputeStats recomputes the aggregate for a scope, bypassing the
// cache. Used by the warmup job.
func (s *Service) ComputeStats(ctx context.Context, scope Scope) (*DashboardStats, error) {
	return s.computeStats(ctx, scope)
}

// PrimeStats recomputes and stores the aggregate for a scope.
func (s *Service) PrimeStats(ctx context.Context, scope Scope) error {
	stats, err := s.computeStats(ctx, scope)
	if err != nil {
		return err
	}
	return s.stats.Set(ctx, scope, *stats)
}

func (s *Service) computeStats(ctx context.Context, scope Scope) (*DashboardStats, error) {
	totalCustomers, err := s.repo.CountCustomers(ctx, scope)
	if err != nil {
		return nil, err
	}
	leads, err := s.repo.ListLeads(ctx, scope, nil)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int, len(AllLeadStatuses))
	for _, status := range AllLeadStatuses {
		byStatus[string(status)] = 0
	}
	var totalValue float64
	for _, lead := range leads {
		byStatus[string(lead.Status)]++
		totalValue += lead.Value
	}

	return &DashboardStats{
		TotalCustomers: totalCustomers,
		TotalLeads:     len(leads),
		LeadsByStatus:  byStatus,
		TotalValue:     totalValue,
	}, nil
}

func (s *Service) leadOwner(ctx context.Context, p shared.Principal, leadID string) (string, error) {
	lead, err := s.repo.GetLead(ctx, leadID)
	if err != nil {
		return "", err
	}
	customer, err := s.repo.GetCustomer(ctx, Scope{All: true}, lead.CustomerID)
	if err != nil {
		return "", err
	}
	if !p.IsAdmin() && customer.OwnerID != p.UserID {
		return "", fmt.Errorf("%w: access denied", shared.ErrForbidden)
	}
	return customer.OwnerID, nil
}

func (s *Service) invalidateStats(ctx context.Context, ownerID string) {
	if err := s.stats.Invalidate(ctx, ownerID); err != nil {
		s.logger.Warn("stats cache invalidate", slog.Any("error", err))
	}
}
