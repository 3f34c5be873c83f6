package lands

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportFormat selects the saved-lands export encoding
type ExportFormat string

const (
	FormatXLSX ExportFormat = "xlsx"
	FormatCSV  ExportFormat = "csv"

	exportSheet = "Lands"
)

// ParseFormat defaults to xlsx.
func ParseFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type of the format.
func (f ExportFormat) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

var exportColumns = []string{
	"Land ID", "Land Name", "Farmer", "Ownership", "Area (acres)",
	"Suitability", "Suitability IDs", "Image", "Saved At",
}

func exportRow(r LandRecord) []interface{} {
	ids := make([]string, len(r.SuitabilityIDs))
	for i, id := range r.SuitabilityIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	var area, savedAt interface{}
	if r.AreaAcres != nil {
		area = *r.AreaAcres
	}
	if !r.CreatedAt.IsZero() {
		savedAt = r.CreatedAt
	}
	return []interface{}{
		r.LandID, r.LandName, r.FarmerName, r.OwnershipType, area,
		r.SuitabilityKind, strings.Join(ids, ","), r.ImageURL, savedAt,
	}
}

// WriteWorkbook writes the records as a single-sheet workbook
func WriteWorkbook(w io.Writer, records []LandRecord) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2E7D32"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	areaFormat := "#,##0.00"
	areaStyle, err := file.NewStyle(&excelize.Style{CustomNumFmt: &areaFormat})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}
	dateStyle, err := file.NewStyle(&excelize.Style{NumFmt: 22})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(exportSheet, cell, col)
		file.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	widths := make([]float64, len(exportColumns))
	for i, col := range exportColumns {
		widths[i] = float64(len(col)) * 1.2
	}

	for rowIdx, r := range records {
		for colIdx, val := range exportRow(r) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			switch v := val.(type) {
			case nil:
				file.SetCellValue(exportSheet, cell, "")
			case float64:
				file.SetCellValue(exportSheet, cell, v)
				file.SetCellStyle(exportSheet, cell, cell, areaStyle)
			case time.Time:
				file.SetCellValue(exportSheet, cell, v)
				file.SetCellStyle(exportSheet, cell, cell, dateStyle)
			default:
				file.SetCellValue(exportSheet, cell, v)
			}
			if width := float64(len(fmt.Sprintf("%v", val))) * 1.2; width > widths[colIdx] {
				widths[colIdx] = width
			}
		}
	}

	for i, width := range widths {
		// Min width 10, max width 50
		width = min(max(width, 10), 50)
		col, _ := excelize.ColumnNumberToName(i + 1)
		file.SetColWidth(exportSheet, col, col, width)
	}

	file.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if len(records) > 0 {
		lastCol, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
		file.AutoFilter(exportSheet, "A1:"+lastCol, nil)
	}

	return file.Write(w)
}

// WriteCSV writes the records as comma separated values
func WriteCSV(w io.Writer, records []LandRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range records {
		row := exportRow(r)
		record := make([]string, len(row))
		for i, val := range row {
			record[i] = formatCSVValue(val)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatCSVValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case time.Time:
		return v.Format(time.RFC3339)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
