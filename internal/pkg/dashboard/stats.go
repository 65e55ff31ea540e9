// Package dashboard derives everything the dashboard shows from the fetched
// earnings logs: aggregate statistics, display rows, the CSV export and the
// render state.
package dashboard

import "github.com/driversheet/driversheet-web/app/models"

type Stats struct {
	TotalGross float64 `json:"totalGross"`
	TotalTips  float64 `json:"totalTips"`
	Deliveries int     `json:"deliveries"`
	TotalMiles float64 `json:"totalMiles"`
}

// Summarize aggregates logs. Missing mileage counts as zero.
func Summarize(logs []models.LogEntry) Stats {
	var s Stats
	for _, l := range logs {
		s.TotalGross += l.Gross
		s.TotalTips += l.Tips
		s.TotalMiles += l.MileageOrZero()
	}
	s.Deliveries = len(logs)
	return s
}
