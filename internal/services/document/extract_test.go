package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestFileTypeForName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"report.pdf", FileTypePDF},
		{"Workbook.XLSX", FileTypeExcel},
		{"legacy.xls", FileTypeExcel},
		{"statement.csv", FileTypeCSV},
		{"notes.txt", FileTypeText},
		{"no-extension", FileTypeText},
	}

	for _, tc := range tests {
		if got := FileTypeForName(tc.name); got != tc.want {
			t.Errorf("FileTypeForName(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestExtractExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.xlsx")

	wb := excelize.NewFile()
	wb.SetCellValue("Sheet1", "A1", "date")
	wb.SetCellValue("Sheet1", "B1", "amount")
	wb.SetCellValue("Sheet1", "A2", "2025-08-01")
	wb.SetCellValue("Sheet1", "B2", -42.5)
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("failed to write workbook: %v", err)
	}

	text, err := ExtractText(path, FileTypeExcel)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if !strings.Contains(text, "=== Sheet: Sheet1 ===") {
		t.Errorf("sheet header missing from extracted text: %q", text)
	}
	if !strings.Contains(text, "date, amount") {
		t.Errorf("header row missing from extracted text: %q", text)
	}
	if !strings.Contains(text, "2025-08-01, -42.5") {
		t.Errorf("data row missing from extracted text: %q", text)
	}
}

func TestExtractExcel_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	if err := os.WriteFile(path, []byte("not a workbook"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ExtractText(path, FileTypeExcel); err == nil {
		t.Error("expected an error for a malformed workbook")
	}
}
