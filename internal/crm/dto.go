package crm

// CreateCustomerRequest carries the fields for a new customer.
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,max=50"`
	Company string `json:"company" validate:"required,max=200"`
}

// UpdateCustomerRequest applies only the fields that are present.
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Company *string `json:"company,omitempty" validate:"omitempty,max=200"`
}

// CreateLeadRequest carries the fields for a new lead. The owning
// customer comes from the URL, never from the body.
type CreateLeadRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"required"`
	Status      LeadStatus `json:"status"`
	Value       float64    `json:"value" validate:"gte=0"`
}

// UpdateLeadRequest applies only the fields that are present.
type UpdateLeadRequest struct {
	Title       *string     `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string     `json:"description,omitempty"`
	Status      *LeadStatus `json:"status,omitempty"`
	Value       *float64    `json:"value,omitempty" validate:"omitempty,gte=0"`
}

// ListCustomersRequest carries list query parameters. The backend does
// not report a total count; callers page until an under-full page.
type ListCustomersRequest struct {
	Search string
	Skip   int
	Limit  int
}
