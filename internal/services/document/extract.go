package document

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"github.com/Tejaspatil1175/finora/internal/models"
)

// File types accepted by the pipeline.
const (
	FileTypePDF   = "PDF"
	FileTypeExcel = "EXCEL"
	FileTypeCSV   = "CSV"
	FileTypeText  = "TEXT"
)

// ExtractText pulls plain text out of the stored file according to its
// type.
func ExtractText(path, fileType string) (string, error) {
	switch fileType {
	case FileTypePDF:
		return extractPDF(path)
	case FileTypeExcel:
		return extractExcel(path)
	case FileTypeCSV:
		return extractCSV(path)
	case FileTypeText:
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return string(content), nil
	default:
		return "", fmt.Errorf("unsupported file type %q for text extraction", fileType)
	}
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	return buf.String(), nil
}

// extractExcel flattens every sheet of a workbook to comma-joined rows,
// one section per sheet.
func extractExcel(path string) (string, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer workbook.Close()

	var sb strings.Builder
	for _, sheetName := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(sheetName)
		if err != nil {
			return "", fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
		}
		sb.WriteString(fmt.Sprintf("\n=== Sheet: %s ===\n", sheetName))
		for _, row := range rows {
			sb.WriteString(strings.Join(row, ", "))
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// extractCSV flattens rows to comma-joined lines, one line per record.
func extractCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to parse CSV: %w", err)
	}

	lines := make([]string, len(records))
	for i, record := range records {
		lines[i] = strings.Join(record, ", ")
	}
	return strings.Join(lines, "\n"), nil
}

// FileTypeForName classifies an upload by filename extension.
func FileTypeForName(fileName string) string {
	name := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return FileTypePDF
	case strings.HasSuffix(name, ".xlsx"), strings.HasSuffix(name, ".xls"):
		return FileTypeExcel
	case strings.HasSuffix(name, ".csv"):
		return FileTypeCSV
	default:
		return FileTypeText
	}
}

// normalizeCategory maps unknown categories to OTHER.
func normalizeCategory(category string) string {
	switch category {
	case models.CategoryBankStatement, models.CategoryCompanyReport:
		return category
	default:
		return models.CategoryOther
	}
}
