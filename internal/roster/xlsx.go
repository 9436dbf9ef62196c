package roster

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// headerAliases maps the column spellings seen in organization-supplied
// workbooks onto the canonical schema.
var headerAliases = map[string]string{
	"name":          "Name",
	"full name":     "Name",
	"delegate name": "Name",
	"category":      "Category",
	"attendee type": "Category",
	"title":         "RoleTitle",
	"role":          "RoleTitle",
	"role title":    "RoleTitle",
	"roletitle":     "RoleTitle",
	"position":      "RoleTitle",
	"organization":  "Organization",
	"organisation":  "Organization",
	"company":       "Organization",
	"email":         "Email",
	"email address": "Email",
	"phone":         "Phone",
	"phone number":  "Phone",
	"mobile":        "Phone",
	"contact":       "Phone",
	"nationality":   "Nationality",
	"country":       "Nationality",
	"notes":         "Notes",
	"first name":    "FirstName",
	"firstname":     "FirstName",
	"surname":       "Surname",
	"last name":     "Surname",
	"lastname":      "Surname",
}

var summarySheets = map[string]bool{
	"summary":  true,
	"overview": true,
	"totals":   true,
	"stats":    true,
	"metadata": true,
	"info":     true,
}

var personNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z'.-]*(?: [A-Za-z][A-Za-z'.-]*)+$`)

// ParseWorkbook reads a multi-sheet roster workbook. Each non-summary sheet
// is one organization's roster; the sheet name fills Organization when the
// sheet has no such column.
func ParseWorkbook(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows := []Row{}
	seen := map[string]bool{}
	for _, sheet := range f.GetSheetList() {
		if isSummarySheet(sheet) {
			continue
		}
		records, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		for _, row := range parseSheet(sheet, records) {
			key := DedupeKey(row.Name, row.Organization)
			if seen[key] {
				continue
			}
			seen[key] = true
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func isSummarySheet(name string) bool {
	return summarySheets[strings.ToLower(strings.TrimSpace(name))]
}

func parseSheet(sheet string, records [][]string) []Row {
	if len(records) < 2 {
		return nil
	}
	index := map[string]int{}
	for i, header := range records[0] {
		canonical, ok := headerAliases[strings.ToLower(strings.TrimSpace(header))]
		if !ok {
			continue
		}
		if _, taken := index[canonical]; !taken {
			index[canonical] = i
		}
	}
	_, hasName := index["Name"]
	_, hasFirst := index["FirstName"]
	if !hasName && !hasFirst {
		// No obvious name column; look for the most name-like text column.
		col, ok := guessNameColumn(records)
		if !ok {
			return nil
		}
		index["Name"] = col
	}

	cell := func(record []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		name := cell(record, "Name")
		if name == "" {
			name = strings.TrimSpace(cell(record, "FirstName") + " " + cell(record, "Surname"))
		}
		if name == "" {
			continue
		}
		organization := cell(record, "Organization")
		if organization == "" {
			organization = strings.TrimSpace(sheet)
		}
		rows = append(rows, Row{
			Name:         name,
			Category:     cell(record, "Category"),
			Organization: organization,
			RoleTitle:    cell(record, "RoleTitle"),
			Email:        cell(record, "Email"),
			Phone:        NormalizePhone(cell(record, "Phone")),
			Nationality:  cell(record, "Nationality"),
			Notes:        cell(record, "Notes"),
		})
	}
	return rows
}

// guessNameColumn scores every column by how many of its cells look like a
// person's name (two or more words, letters only) and returns the best one
// when at least 60% of its values qualify.
func guessNameColumn(records [][]string) (int, bool) {
	width := len(records[0])
	bestCol := -1
	bestScore := 0.0
	for col := 0; col < width; col++ {
		total := 0
		hits := 0
		for _, record := range records[1:] {
			if col >= len(record) {
				continue
			}
			value := strings.TrimSpace(record[col])
			if value == "" {
				continue
			}
			total++
			if personNamePattern.MatchString(value) {
				hits++
			}
		}
		if total == 0 {
			continue
		}
		score := float64(hits) / float64(total)
		if score > bestScore {
			bestScore = score
			bestCol = col
		}
	}
	if bestCol < 0 || bestScore < 0.6 {
		return 0, false
	}
	return bestCol, true
}

// ExportWorkbook writes the roster to an xlsx workbook: the full roster on
// a "Delegates" sheet plus count pivots by category, organization and
// nationality.
func ExportWorkbook(rows []Row) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Delegates"); err != nil {
		return nil, "", err
	}
	header := make([]interface{}, len(Columns))
	for i, column := range Columns {
		header[i] = column
	}
	if err := f.SetSheetRow("Delegates", "A1", &header); err != nil {
		return nil, "", err
	}
	for i, row := range rows {
		record := []interface{}{
			row.Nationality, row.ID, row.Name, row.Category, row.Organization,
			row.RoleTitle, row.Email, row.Phone, row.BadgePhoto, row.Notes,
			row.CheckedIn,
			row.DayCheckIn[0], row.DayCheckIn[1], row.DayCheckIn[2], row.DayCheckIn[3], row.DayCheckIn[4],
			row.CreatedAt,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetSheetRow("Delegates", cell, &record); err != nil {
			return nil, "", err
		}
	}

	pivots := []struct {
		sheet string
		field func(Row) string
	}{
		{"By Category", func(r Row) string { return r.Category }},
		{"By Organization", func(r Row) string { return r.Organization }},
		{"By Nationality", func(r Row) string { return r.Nationality }},
	}
	for _, pivot := range pivots {
		if err := writePivot(f, pivot.sheet, rows, pivot.field); err != nil {
			return nil, "", err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("delegates_%s.xlsx", time.Now().Format("20060102_1504"))
	return buf, filename, nil
}

func writePivot(f *excelize.File, sheet string, rows []Row, field func(Row) string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	counts := map[string]int{}
	for _, row := range rows {
		counts[field(row)]++
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{strings.TrimPrefix(sheet, "By "), "Count"}); err != nil {
		return err
	}
	for i, key := range keys {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{key, counts[key]}); err != nil {
			return err
		}
	}
	return nil
}
