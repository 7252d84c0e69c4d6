package excel

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/reviewbot/pkg/models"
)

func TestExportCanBeReimported(t *testing.T) {
	day := models.NewDate(2024, time.May, 1)
	materials := []models.Material{
		{Text: "Photosynthesis", ReviewSchedule: []models.Date{day.AddDays(1), day.AddDays(3)}, CreatedDate: day},
		{Text: "Krebs cycle", ReviewSchedule: []models.Date{day.AddDays(1)}, CurrentStep: 1, Completed: true, CreatedDate: day, LastReviewedDate: day.AddDays(1).Ptr()},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMaterials(&buf, materials))

	texts, err := ReadMaterials(bytes.NewReader(buf.Bytes()), "export.xlsx", DefaultImportConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"Photosynthesis", "Krebs cycle"}, texts)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.GreaterOrEqual(t, len(rows[1]), 5)
	assert.Equal(t, []string{"Photosynthesis", "in progress", "0/2", "2024-05-01", "2024-05-02"}, rows[1][:5])
	require.Len(t, rows[2], 6)
	assert.Equal(t, []string{"Krebs cycle", "completed", "1/1", "2024-05-01", "", "2024-05-02"}, rows[2])
}

func TestReadMaterialsFromCSV(t *testing.T) {
	input := "text,notes\nMitochondria,powerhouse\n\n  ,blank\n\"Quoted, with comma\"\nsingle\n"

	texts, err := ReadMaterials(strings.NewReader(input), "list.CSV", DefaultImportConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"Mitochondria", "Quoted, with comma", "single"}, texts)
}

func TestReadMaterialsOtherColumn(t *testing.T) {
	input := "1,first\n2\n3,third\n"
	cfg := ImportConfig{TextColumn: "B", StartRow: 1}

	texts, err := ReadMaterials(strings.NewReader(input), "list.csv", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "third"}, texts)
}

func TestReadMaterialsRejectsBadInput(t *testing.T) {
	_, err := ReadMaterials(strings.NewReader("not a zip"), "x.xlsx", DefaultImportConfig())
	assert.Error(t, err)

	_, err = ReadMaterials(strings.NewReader("a"), "x.csv", ImportConfig{TextColumn: "1"})
	assert.Error(t, err)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("words.xlsx"))
	assert.True(t, IsSupported("WORDS.CSV"))
	assert.False(t, IsSupported("notes.txt"))
	assert.False(t, IsSupported("archive"))
}
