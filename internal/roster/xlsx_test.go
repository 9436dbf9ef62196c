package roster

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatal(err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatal(err)
			}
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatal(err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestParseWorkbookSplitNameAndSheetOrganization(t *testing.T) {
	src := buildWorkbook(t, map[string][][]interface{}{
		"Zesco": {
			{"First Name", "Surname", "Email"},
			{"Jane", "Banda", "jane@zesco.co.zm"},
			{"John", "Phiri", "john@zesco.co.zm"},
		},
		"Summary": {
			{"Metric", "Value"},
			{"Total", 2},
		},
	})
	rows, err := ParseWorkbook(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows (Summary skipped), got %d", len(rows))
	}
	for _, row := range rows {
		if row.Organization != "Zesco" {
			t.Errorf("organization = %q, want sheet name", row.Organization)
		}
	}
	if rows[0].Name != "Jane Banda" || rows[1].Name != "John Phiri" {
		t.Errorf("names not joined from First Name + Surname: %+v", rows)
	}
}

func TestParseWorkbookFuzzyHeaders(t *testing.T) {
	src := buildWorkbook(t, map[string][][]interface{}{
		"Delegates": {
			{"Full Name", "Attendee Type", "Role Title", "Company", "Phone"},
			{"Mary Mwansa", "VIP", "Director", "KCM", "260971234567.0"},
		},
	})
	rows, err := ParseWorkbook(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.Name != "Mary Mwansa" || row.Category != "VIP" || row.RoleTitle != "Director" {
		t.Errorf("fuzzy mapping failed: %+v", row)
	}
	if row.Organization != "KCM" {
		t.Errorf("company column must win over sheet name, got %q", row.Organization)
	}
	if row.Phone != "260971234567" {
		t.Errorf("phone not normalized on import: %q", row.Phone)
	}
}

func TestParseWorkbookNameHeuristic(t *testing.T) {
	src := buildWorkbook(t, map[string][][]interface{}{
		"Mopani": {
			{"Ref", "Person", "Dept"},
			{"A-1", "Grace Tembo", "Logistics"},
			{"A-2", "Peter Zulu", "Security"},
		},
	})
	rows, err := ParseWorkbook(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "Grace Tembo" {
		t.Errorf("heuristic picked wrong column: %+v", rows[0])
	}
}

func TestParseWorkbookDropsDuplicatesAndBlanks(t *testing.T) {
	src := buildWorkbook(t, map[string][][]interface{}{
		"Zesco": {
			{"Name", "Email"},
			{"Jane Banda", "jane@zesco.co.zm"},
			{"jane banda ", "dup@zesco.co.zm"},
			{"", "blank@zesco.co.zm"},
		},
	})
	rows, err := ParseWorkbook(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("want 1 row after dedupe and blank drop, got %d", len(rows))
	}
	if rows[0].Email != "jane@zesco.co.zm" {
		t.Errorf("dedupe must keep the first occurrence, got %+v", rows[0])
	}
}

func TestExportWorkbookRoundTrips(t *testing.T) {
	rows := []Row{
		{ID: "1", Name: "Jane Banda", Category: "Speaker", Organization: "ZESCO", Nationality: "Zambian"},
		{ID: "2", Name: "John Phiri", Category: "VIP", Organization: "KCM", Nationality: "Zambian"},
	}
	buf, filename, err := ExportWorkbook(rows)
	if err != nil {
		t.Fatal(err)
	}
	if filename == "" {
		t.Error("export must suggest a filename")
	}
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := f.GetRows("Delegates")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("want header + 2 rows, got %d", len(records))
	}
	for _, sheet := range []string{"By Category", "By Organization", "By Nationality"} {
		pivot, err := f.GetRows(sheet)
		if err != nil {
			t.Fatalf("missing pivot sheet %s: %v", sheet, err)
		}
		if len(pivot) < 2 {
			t.Errorf("pivot %s is empty", sheet)
		}
	}
}
