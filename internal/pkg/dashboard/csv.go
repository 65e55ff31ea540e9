package dashboard

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/driversheet/driversheet-web/app/models"
)

var csvHeader = []string{"Date", "Gross", "Tips", "Mileage", "Parsed At"}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes one header row and one row per entry, in the given order.
// Missing mileage is written as an empty field.
func WriteCSV(w io.Writer, logs []models.LogEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, l := range logs {
		mileage := ""
		if l.Mileage != nil {
			mileage = formatNumber(*l.Mileage)
		}
		record := []string{l.OrderDate, formatNumber(l.Gross), formatNumber(l.Tips), mileage, l.ParsedAt}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func CSV(logs []models.LogEntry) []byte {
	var buf bytes.Buffer
	// writes to a bytes.Buffer cannot fail
	_ = WriteCSV(&buf, logs)
	return buf.Bytes()
}

// CSVFilename names the export after the (UTC) day it was generated.
func CSVFilename(now time.Time) string {
	return "driversheet-logs-" + now.UTC().Format("2006-01-02") + ".csv"
}

// DataURI embeds the export in the page so downloading it needs no request.
func DataURI(data []byte) string {
	return "data:text/csv;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(data)
}
