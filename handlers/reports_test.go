package handlers

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"
)

func TestWriteExportCSV(t *testing.T) {
	rows := []exportRow{
		{"Expense", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), "groceries", "weekly shop", 82.40},
		{"Income", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), "salary", "", 2000},
		{"Expense", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "rent", "", 900},
	}

	var buf bytes.Buffer
	writeExportCSV(&buf, rows)

	reader := csv.NewReader(&buf)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	// header + 3 rows + 3 totals (the blank separator row is skipped by
	// the reader).
	if len(records) != 7 {
		t.Fatalf("got %d records, want 7", len(records))
	}

	header := records[0]
	want := []string{"Type", "Date", "Title", "Description", "Amount"}
	for i := range want {
		if header[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, header[i], want[i])
		}
	}

	if records[1][0] != "Expense" || records[1][1] != "2025-03-20" || records[1][4] != "82.40" {
		t.Errorf("unexpected first row: %v", records[1])
	}

	totals := map[string]string{}
	for _, r := range records[4:] {
		totals[r[0]] = r[4]
	}
	if totals["Total expenses"] != "982.40" {
		t.Errorf("total expenses = %q, want 982.40", totals["Total expenses"])
	}
	if totals["Total incomes"] != "2000.00" {
		t.Errorf("total incomes = %q, want 2000.00", totals["Total incomes"])
	}
	if totals["Balance"] != "1017.60" {
		t.Errorf("balance = %q, want 1017.60", totals["Balance"])
	}
}
