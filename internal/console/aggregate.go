package console

import "github.com/minicrm/minicrm/internal/crm"

// TotalValue sums the monetary value over a lead collection.
func TotalValue(leads []crm.Lead) float64 {
	var total float64
	for _, lead := range leads {
		total += lead.Value
	}
	return total
}

// ConvertedValue sums the monetary value of converted leads.
func ConvertedValue(leads []crm.Lead) float64 {
	var total float64
	for _, lead := range leads {
		if lead.Status == crm.StatusConverted {
			total += lead.Value
		}
	}
	return total
}

// ByStatusCounts maps each status present in the collection to its
// occurrence count. Statuses with no leads are absent from the map;
// consumers default missing keys to zero.
func ByStatusCounts(leads []crm.Lead) map[crm.LeadStatus]int {
	counts := make(map[crm.LeadStatus]int)
	for _, lead := range leads {
		counts[lead.Status]++
	}
	return counts
}

// LeadStats is the derived aggregate shown on a customer detail view.
type LeadStats struct {
	LeadCount      int
	ConvertedCount int
	TotalValue     float64
	ConvertedValue float64
}

// ComputeLeadStats derives the detail-view aggregate from one
// customer's leads. Recomputed on every load, never persisted.
func ComputeLeadStats(leads []crm.Lead) LeadStats {
	stats := LeadStats{LeadCount: len(leads)}
	for _, lead := range leads {
		stats.TotalValue += lead.Value
		if lead.Status == crm.StatusConverted {
			stats.ConvertedCount++
			stats.ConvertedValue += lead.Value
		}
	}
	return stats
}
