package roster

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ReadFile loads a roster CSV. A missing file is an empty roster, not an
// error; the first save will create it.
func ReadFile(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Row{}, nil
		}
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// Read parses roster CSV content. Unknown columns are ignored and missing
// columns coerce to defaults, so files written by older exports still load.
func Read(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []Row{}, nil
	}
	index := map[string]int{}
	for i, name := range records[0] {
		index[strings.TrimSpace(name)] = i
	}
	field := func(record []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}
	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := Row{
			Nationality:  strings.TrimSpace(field(record, "Nationality")),
			ID:           strings.TrimSpace(field(record, "ID")),
			Name:         strings.TrimSpace(field(record, "Name")),
			Category:     strings.TrimSpace(field(record, "Category")),
			Organization: strings.TrimSpace(field(record, "Organization")),
			RoleTitle:    strings.TrimSpace(field(record, "RoleTitle")),
			Email:        strings.TrimSpace(field(record, "Email")),
			Phone:        NormalizePhone(field(record, "Phone")),
			BadgePhoto:   strings.TrimSpace(field(record, "BadgePhoto")),
			Notes:        strings.TrimSpace(field(record, "Notes")),
			CheckedIn:    parseBool(field(record, "CheckedIn")),
			CreatedAt:    strings.TrimSpace(field(record, "CreatedAt")),
		}
		for day := 1; day <= 5; day++ {
			row.DayCheckIn[day-1] = parseBool(field(record, dayColumn(day)))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteFile re-serializes the complete roster, overwriting the file.
func WriteFile(path string, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Write emits the roster with every canonical column in order.
func Write(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Nationality,
			row.ID,
			row.Name,
			row.Category,
			row.Organization,
			row.RoleTitle,
			row.Email,
			NormalizePhone(row.Phone),
			row.BadgePhoto,
			row.Notes,
			formatBool(row.CheckedIn),
			formatBool(row.DayCheckIn[0]),
			formatBool(row.DayCheckIn[1]),
			formatBool(row.DayCheckIn[2]),
			formatBool(row.DayCheckIn[3]),
			formatBool(row.DayCheckIn[4]),
			row.CreatedAt,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func dayColumn(day int) string {
	return "Day" + string(rune('0'+day)) + "_CheckIn"
}
