package dashboard

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driversheet/driversheet-web/app/models"
	"github.com/driversheet/driversheet-web/internal/pkg/backend"
)

func f(v float64) *float64 { return &v }

func twoEntries() []models.LogEntry {
	return []models.LogEntry{
		{ID: 1, UserID: 7, OrderDate: "2024-05-01", Gross: 100, Tips: 10, Mileage: f(5), ParsedAt: "2024-05-01T18:00:00"},
		{ID: 2, UserID: 7, OrderDate: "2024-05-02", Gross: 50, Tips: 0, Mileage: nil, ParsedAt: "2024-05-02T18:00:00"},
	}
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Stats{}, Summarize(nil))
	assert.Equal(t, Stats{}, Summarize([]models.LogEntry{}))
}

func TestSummarize_TwoEntries(t *testing.T) {
	s := Summarize(twoEntries())
	assert.Equal(t, 150.0, s.TotalGross)
	assert.Equal(t, 10.0, s.TotalTips)
	assert.Equal(t, 2, s.Deliveries)
	assert.Equal(t, 5.0, s.TotalMiles)
}

func TestCSV_TwoEntries(t *testing.T) {
	out := string(CSV(twoEntries()))
	require.True(t, strings.HasSuffix(out, "\n"))

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Gross,Tips,Mileage,Parsed At", lines[0])
	assert.Equal(t, "2024-05-01,100,10,5,2024-05-01T18:00:00", lines[1])
	assert.Equal(t, "2024-05-02,50,0,,2024-05-02T18:00:00", lines[2])

	fields := strings.Split(lines[2], ",")
	require.Len(t, fields, 5)
	assert.Empty(t, fields[3])
}

func TestCSV_DecimalsArePlain(t *testing.T) {
	out := string(CSV([]models.LogEntry{{OrderDate: "2024-05-01", Gross: 12.5, Tips: 0.1, Mileage: f(3.25), ParsedAt: "x"}}))
	assert.Contains(t, out, "2024-05-01,12.5,0.1,3.25,x\n")
}

func TestCSV_EmptyIsHeaderOnly(t *testing.T) {
	assert.Equal(t, "Date,Gross,Tips,Mileage,Parsed At\n", string(CSV(nil)))
}

func TestCSVFilename(t *testing.T) {
	now := time.Date(2024, 5, 10, 23, 30, 0, 0, time.FixedZone("PDT", -7*60*60))
	assert.Equal(t, "driversheet-logs-2024-05-11.csv", CSVFilename(now))
}

func TestDataURI(t *testing.T) {
	uri := DataURI([]byte("a,b\n"))
	require.True(t, strings.HasPrefix(uri, "data:text/csv;charset=utf-8;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:text/csv;charset=utf-8;base64,"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(raw))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, StateLoaded, Classify(nil))
	assert.Equal(t, StatePaymentRequired, Classify(&backend.PaymentRequiredError{AccountID: 7}))
	assert.Equal(t, StatePaymentRequired, Classify(fmt.Errorf("load logs: %w", &backend.PaymentRequiredError{AccountID: 7})))
	assert.Equal(t, StateFailed, Classify(&backend.FetchError{Status: 500}))
	assert.Equal(t, StateFailed, Classify(errors.New("boom")))
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "$0.00", Currency(0))
	assert.Equal(t, "$150.00", Currency(150))
	assert.Equal(t, "$1,234.56", Currency(1234.56))
	assert.Equal(t, "-$5.50", Currency(-5.5))
}

func TestRows(t *testing.T) {
	rows := Rows(twoEntries())
	require.Len(t, rows, 2)
	assert.Equal(t, "May 1, 2024", rows[0].Date)
	assert.Equal(t, "$100.00", rows[0].Gross)
	assert.Equal(t, "5.0 mi", rows[0].Mileage)
	assert.Equal(t, "-", rows[1].Mileage)
	assert.Equal(t, "May 2, 2024 6:00 PM", rows[1].ParsedAt)
}

func TestDate_Unparseable(t *testing.T) {
	assert.Equal(t, "sometime", Date("sometime"))
}

func TestSheetURL(t *testing.T) {
	id := "1AbC-d_9"
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/1AbC-d_9", SheetURL(&id))

	full := "https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=0"
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/1AbC-d_9", SheetURL(&full))

	blank := "  "
	assert.Empty(t, SheetURL(&blank))
	assert.Empty(t, SheetURL(nil))
}
