package dashboard

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/driversheet/driversheet-web/app/models"
	"github.com/driversheet/driversheet-web/internal/pkg/billing"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats v as US dollars, e.g. $1,234.56.
func Currency(v float64) string {
	if v < 0 {
		return "-$" + printer.Sprintf("%.2f", math.Abs(v))
	}
	return "$" + printer.Sprintf("%.2f", v)
}

// Miles formats a mileage total with one decimal.
func Miles(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Date renders a backend date as "Jan 2, 2006"; unparseable values are
// shown as received.
func Date(raw string) string {
	t, ok := billing.ParseCreated(raw)
	if !ok {
		return raw
	}
	return t.Format("Jan 2, 2006")
}

func DateTime(raw string) string {
	t, ok := billing.ParseCreated(raw)
	if !ok {
		return raw
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}

// Row is a log entry formatted for the table.
type Row struct {
	ID       int64
	Date     string
	Gross    string
	Tips     string
	Mileage  string
	ParsedAt string
}

func Rows(logs []models.LogEntry) []Row {
	rows := make([]Row, 0, len(logs))
	for _, l := range logs {
		mileage := "-"
		if l.Mileage != nil && *l.Mileage != 0 {
			mileage = Miles(*l.Mileage) + " mi"
		}
		rows = append(rows, Row{
			ID:       l.ID,
			Date:     Date(l.OrderDate),
			Gross:    Currency(l.Gross),
			Tips:     Currency(l.Tips),
			Mileage:  mileage,
			ParsedAt: DateTime(l.ParsedAt),
		})
	}
	return rows
}
