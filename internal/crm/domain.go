package crm

import "time"

// LeadStatus is the pipeline stage of a lead. The set is closed; any
// status may change to any other.
type LeadStatus string

const (
	StatusNew       LeadStatus = "New"
	StatusContacted LeadStatus = "Contacted"
	StatusConverted LeadStatus = "Converted"
	StatusLost      LeadStatus = "Lost"
)

// AllLeadStatuses lists every pipeline stage in display order.
var AllLeadStatuses = []LeadStatus{StatusNew, StatusContacted, StatusConverted, StatusLost}

// Valid reports whether the status is one of the closed set.
func (s LeadStatus) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusConverted, StatusLost:
		return true
	}
	return false
}

// Customer is a business contact owning zero or more leads.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Lead is a sales opportunity belonging to exactly one customer.
type Lead struct {
	ID          string     `json:"id"`
	CustomerID  string     `json:"customer_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      LeadStatus `json:"status"`
	Value       float64    `json:"value"`
	CreatedAt   time.Time  `json:"created_at"`
}

// DashboardStats is the server-computed aggregate for the dashboard.
// LeadsByStatus carries every status, including zero counts.
type DashboardStats struct {
	TotalCustomers int            `json:"total_customers"`
	TotalLeads     int            `json:"total_leads"`
	LeadsByStatus  map[string]int `json:"leads_by_status"`
	TotalValue     float64        `json:"total_value"`
}
