package crm

import (
	"context"

	"github.com/google/uuid"
)

type seedCustomer struct {
	name, email, phone, company string
}

type seedLead struct {
	customer    int
	title, desc string
	status      LeadStatus
	value       float64
}

var sampleCustomers = []seedCustomer{
	{"Alice Johnson", "alice@techcorp.com", "+1-555-0101", "TechCorp Inc"},
	{"Bob Smith", "bob@innovate.co", "+1-555-0102", "Innovate Solutions"},
	{"Carol Wilson", "carol@startupx.io", "+1-555-0103", "StartupX"},
	{"David Brown", "david@enterprise.com", "+1-555-0104", "Enterprise LLC"},
}

var sampleLeads = []seedLead{
	{0, "Website Redesign", "Complete website overhaul", StatusNew, 15000},
	{0, "Mobile App", "iOS and Android app development", StatusContacted, 25000},
	{1, "CRM Integration", "Integrate with existing CRM", StatusConverted, 8000},
	{1, "Data Migration", "Migrate legacy data", StatusLost, 5000},
	{2, "Cloud Setup", "AWS cloud infrastructure", StatusNew, 12000},
	{3, "Security Audit", "Complete security assessment", StatusContacted, 10000},
}

// SeedSampleData inserts the sample customers and leads. The first two
// customers belong to the regular user, the rest to the admin.
func (s *Service) SeedSampleData(ctx context.Context, adminID, regularID string) error {
	owners := []string{regularID, regularID, adminID, adminID}

	customerIDs := make([]string, len(sampleCustomers))
	for i, sc := range sampleCustomers {
		customer := Customer{
			ID:        uuid.NewString(),
			Name:      sc.name,
			Email:     sc.email,
			Phone:     sc.phone,
			Company:   sc.company,
			OwnerID:   owners[i],
			CreatedAt: s.clock(),
		}
		if err := s.repo.CreateCustomer(ctx, customer); err != nil {
			return err
		}
		customerIDs[i] = customer.ID
	}

	for _, sl := range sampleLeads {
		lead := Lead{
			ID:          uuid.NewString(),
			CustomerID:  customerIDs[sl.customer],
			Title:       sl.title,
			Description: sl.desc,
			Status:      sl.status,
			Value:       sl.value,
			CreatedAt:   s.clock(),
		}
		if err := s.repo.CreateLead(ctx, lead); err != nil {
			return err
		}
	}

	s.invalidateStats(ctx, adminID)
	s.invalidateStats(ctx, regularID)
	return nil
}
