package roster

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFileAbsent(t *testing.T) {
	rows, err := ReadFile(filepath.Join(t.TempDir(), "no_such_roster.csv"))
	if err != nil {
		t.Fatalf("absent file must not error, got %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("absent file must load as empty roster, got %d rows", len(rows))
	}
}

func TestRoundTrip(t *testing.T) {
	rows := []Row{
		{
			Nationality:  "Zambian",
			ID:           "1",
			Name:         "Jane Banda",
			Category:     "Speaker",
			Organization: "ZESCO",
			RoleTitle:    "Engineer",
			Email:        "jane@example.com",
			Phone:        "+260971234567",
			CheckedIn:    true,
			DayCheckIn:   [5]bool{true, false, true, false, false},
			CreatedAt:    "2025-10-06 09:00:00",
		},
		{
			ID:       "2",
			Name:     "John Phiri",
			Category: "VIP",
			Notes:    "escort, front row",
		},
	}

	var first bytes.Buffer
	if err := Write(&first, rows); err != nil {
		t.Fatal(err)
	}
	loaded, err := Read(bytes.NewReader(first.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	var second bytes.Buffer
	if err := Write(&second, loaded); err != nil {
		t.Fatal(err)
	}
	if first.String() != second.String() {
		t.Errorf("save(load()) changed the file:\n%s\nvs\n%s", first.String(), second.String())
	}
	if loaded[0] != rows[0] || loaded[1] != rows[1] {
		t.Errorf("row data changed across round trip: %+v", loaded)
	}
}

func TestReadCoercesMissingColumns(t *testing.T) {
	input := "Name,Organization,Phone\nJane Banda,ZESCO,260971234567.0\n"
	rows, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.Phone != "260971234567" {
		t.Errorf("phone not normalized: %q", row.Phone)
	}
	if row.CheckedIn || row.DayCheckIn != [5]bool{} {
		t.Errorf("missing boolean columns must default to false: %+v", row)
	}
	if row.Category != "" || row.ID != "" {
		t.Errorf("missing string columns must default to empty: %+v", row)
	}
}

func TestWriteColumnOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	if err := WriteFile(path, []Row{{ID: "1", Name: "Jane Banda"}}); err != nil {
		t.Fatal(err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	header := strings.SplitN(string(content), "\n", 2)[0]
	want := strings.Join(Columns, ",")
	if strings.TrimRight(header, "\r") != want {
		t.Errorf("header = %q, want %q", header, want)
	}
}
