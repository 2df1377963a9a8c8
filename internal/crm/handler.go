package crm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/minicrm/minicrm/internal/platform/httpx"
	"github.com/minicrm/minicrm/internal/shared"
)

// UserSeeder provisions the sample accounts for /seed-data.
type UserSeeder interface {
	EnsureSeedUsers(ctx context.Context) (adminID, regularID string, existed bool, err error)
}

// Handler wires the CRM REST endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	seeder    UserSeeder
	validator *validator.Validate
}

// NewHandler constructs a Handler instance. The seeder may be nil to
// disable the seed endpoint.
func NewHandler(logger *slog.Logger, service *Service, seeder UserSeeder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		seeder:    seeder,
		validator: validator.New(),
	}
}

func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (shared.Principal, bool) {
	p, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
	}
	return p, ok
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	req := ListCustomersRequest{
		Search: r.URL.Query().Get("search"),
		Limit:  10,
	}
	if v := r.URL.Query().Get("skip"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			req.Skip = parsed
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			req.Limit = parsed
		}
	}

	customers, err := h.service.ListCustomers(r.Context(), p, req)
	if err != nil {
		h.logger.Error("list customers failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if customers == nil {
		customers = []Customer{}
	}
	httpx.JSON(w, http.StatusOK, customers)
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	customer, err := h.service.GetCustomer(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req CreateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	customer, err := h.service.CreateCustomer(r.Context(), p, req)
	if err != nil {
		h.logger.Error("create customer failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	customer, err := h.service.UpdateCustomer(r.Context(), p, chi.URLParam(r, "id"), req)
	if err != nil {
		h.logger.Error("update customer failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		h.logger.Error("delete customer failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Customer deleted successfully"})
}

func (h *Handler) ListCustomerLeads(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	status, err := statusFilter(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	leads, err := h.service.ListCustomerLeads(r.Context(), p, chi.URLParam(r, "id"), status)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if leads == nil {
		leads = []Lead{}
	}
	httpx.JSON(w, http.StatusOK, leads)
}

func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req CreateLeadRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	lead, err := h.service.CreateLead(r.Context(), p, chi.URLParam(r, "id"), req)
	if err != nil {
		h.logger.Error("create lead failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, lead)
}

func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	status, err := statusFilter(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	leads, err := h.service.ListLeads(r.Context(), p, status)
	if err != nil {
		h.logger.Error("list leads failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if leads == nil {
		leads = []Lead{}
	}
	httpx.JSON(w, http.StatusOK, leads)
}

func (h *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req UpdateLeadRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	lead, err := h.service.UpdateLead(r.Context(), p, chi.URLParam(r, "id"), req)
	if err != nil {
		h.logger.Error("update lead failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, lead)
}

func (h *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteLead(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		h.logger.Error("delete lead failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Lead deleted successfully"})
}

func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	stats, err := h.service.DashboardStats(r.Context(), p)
	if err != nil {
		h.logger.Error("dashboard stats failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) SeedData(w http.ResponseWriter, r *http.Request) {
	if h.seeder == nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "seeding disabled")
		return
	}

	adminID, regularID, existed, err := h.seeder.EnsureSeedUsers(r.Context())
	if err != nil {
		h.logger.Error("seed users failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if existed {
		httpx.JSON(w, http.StatusOK, map[string]string{"message": "Sample data already exists"})
		return
	}

	if err := h.service.SeedSampleData(r.Context(), adminID, regularID); err != nil {
		h.logger.Error("seed sample data failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Sample data created successfully"})
}

func statusFilter(r *http.Request) (*LeadStatus, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}
	status := LeadStatus(raw)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, raw)
	}
	return &status, nil
}
