package models

// LogEntry is one parsed payout as returned by the backend. The front end
// never creates or mutates entries.
type LogEntry struct {
	ID        int64    `json:"id"`
	UserID    int64    `json:"userId"`
	OrderDate string   `json:"orderDate"`
	Gross     float64  `json:"gross"`
	Tips      float64  `json:"tips"`
	Mileage   *float64 `json:"mileage"`
	ParsedAt  string   `json:"parsedAt"`
}

// MileageOrZero treats a missing mileage as zero for aggregation.
func (l LogEntry) MileageOrZero() float64 {
	if l.Mileage == nil {
		return 0
	}
	return *l.Mileage
}
