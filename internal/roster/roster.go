// Package roster implements the delegate roster exchange formats: the
// fixed-column CSV file used by the badge pipeline and the multi-sheet
// Excel workbooks received from participating organizations.
package roster

import (
	"strconv"
	"strings"
)

// Columns is the canonical CSV column order. Readers tolerate files with
// columns missing or reordered; writers always emit this exact order.
var Columns = []string{
	"Nationality", "ID", "Name", "Category", "Organization", "RoleTitle",
	"Email", "Phone", "BadgePhoto", "Notes", "CheckedIn",
	"Day1_CheckIn", "Day2_CheckIn", "Day3_CheckIn", "Day4_CheckIn", "Day5_CheckIn",
	"CreatedAt",
}

// Row is one roster line as it appears in the exchange files. IDs stay
// strings here; the service layer owns numeric identity.
type Row struct {
	Nationality  string
	ID           string
	Name         string
	Category     string
	Organization string
	RoleTitle    string
	Email        string
	Phone        string
	BadgePhoto   string
	Notes        string
	CheckedIn    bool
	DayCheckIn   [5]bool
	CreatedAt    string
}

// DedupeKey is the registration identity of a row: the case-insensitive,
// whitespace-trimmed (name, organization) pair.
func DedupeKey(name, organization string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(organization))
}

// NextID returns max(numeric ids)+1, or "1" when there are no numeric ids.
func NextID(ids []string) string {
	max := int64(0)
	found := false
	for _, raw := range ids {
		value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			continue
		}
		if !found || value > max {
			max = value
			found = true
		}
	}
	if !found {
		return "1"
	}
	return strconv.FormatInt(max+1, 10)
}

// NormalizePhone repairs phone values damaged by spreadsheet round trips:
// numeric-looking values lose the trailing ".0", leading "+" country codes
// are preserved, and NaN placeholders collapse to the empty string.
func NormalizePhone(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, "nan") {
		return ""
	}
	if strings.HasPrefix(value, "+") {
		return value
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	return strconv.FormatInt(int64(parsed), 10)
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func formatBool(value bool) string {
	if value {
		return "true"
	}
	return "false"
}
