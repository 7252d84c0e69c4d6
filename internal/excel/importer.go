package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportConfig defines where material texts are read from.
type ImportConfig struct {
	TextColumn string // Column with the material text
	SheetName  string // Sheet to import; empty means the first sheet
	StartRow   int    // The row to start importing from (1-based index)
}

// DefaultImportConfig reads column A of the first sheet, skipping one header row.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TextColumn: "A",
		StartRow:   2,
	}
}

// IsSupported reports whether filename looks like an importable spreadsheet.
func IsSupported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	}
	return false
}

// ReadMaterials returns the trimmed material texts found in r. The format is
// chosen from filename's extension; blank cells are skipped.
func ReadMaterials(r io.Reader, filename string, config ImportConfig) ([]string, error) {
	col, err := excelize.ColumnNameToNumber(config.TextColumn)
	if err != nil {
		return nil, fmt.Errorf("invalid text column %q: %w", config.TextColumn, err)
	}
	if config.StartRow < 1 {
		config.StartRow = 1
	}

	var rows [][]string
	if strings.ToLower(filepath.Ext(filename)) == ".csv" {
		rows, err = readCSV(r)
	} else {
		rows, err = readExcel(r, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	var texts []string
	for i, row := range rows {
		if i < config.StartRow-1 || len(row) < col {
			continue
		}
		if text := strings.TrimSpace(row[col-1]); text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

func readExcel(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}
