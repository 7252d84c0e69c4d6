package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/example/reviewbot/pkg/models"
)

var exportHeader = []interface{}{"Text", "Status", "Step", "Created", "Next review", "Last reviewed"}

// WriteMaterials writes one row per material, in order, below a header row.
// The text column matches DefaultImportConfig so an export can be re-imported.
func WriteMaterials(w io.Writer, materials []models.Material) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, m := range materials {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{m.Text, status(m), fmt.Sprintf("%d/%d", m.CurrentStep, len(m.ReviewSchedule)), m.CreatedDate.String(), "", ""}
		if next, ok := m.NextReview(); ok {
			row[4] = next.String()
		}
		if m.LastReviewedDate != nil {
			row[5] = m.LastReviewedDate.String()
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 60); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func status(m models.Material) string {
	if m.Completed {
		return "completed"
	}
	return "in progress"
}
