package dashboard

import (
	"regexp"
	"strings"
)

var sheetURLPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// NormalizeSheetID accepts a bare spreadsheet id or a full Google Sheets
// URL and returns the id.
func NormalizeSheetID(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := sheetURLPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}

// SheetURL links to the spreadsheet, or returns "" without an id.
func SheetURL(sheetID *string) string {
	if sheetID == nil {
		return ""
	}
	id := NormalizeSheetID(*sheetID)
	if id == "" {
		return ""
	}
	return "https://docs.google.com/spreadsheets/d/" + id
}
