package crm

import "github.com/go-chi/chi/v5"

// MountRoutes registers the CRM REST surface. Callers are expected to
// have already applied the auth middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/customers", h.ListCustomers)
	r.Post("/customers", h.CreateCustomer)
	r.Get("/customers/{id}", h.GetCustomer)
	r.Put("/customers/{id}", h.UpdateCustomer)
	r.Delete("/customers/{id}", h.DeleteCustomer)

	r.Get("/customers/{id}/leads", h.ListCustomerLeads)
	r.Post("/customers/{id}/leads", h.CreateLead)

	r.Get("/leads", h.ListLeads)
	r.Put("/leads/{id}", h.UpdateLead)
	r.Delete("/leads/{id}", h.DeleteLead)

	r.Get("/dashboard/stats", h.DashboardStats)
}
