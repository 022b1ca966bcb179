// Package report renders incubator history as an xlsx workbook.
package report

import (
	"fmt"
	"time"

	"github.com/mosca-iot/hub/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	SheetTemperature = "Temperature"
	SheetHumidity    = "Humidity"
	SheetAlerts      = "Alerts"
	SheetActivations = "Activations"
)

// History is everything one export contains.
type History struct {
	IncubatorID int
	Start       time.Time
	End         time.Time
	Temperature []models.Sample
	Humidity    []models.Sample
	Alerts      []models.AlertRecord
	Activations []models.ActivationRecord
}

var (
	sampleHeader     = []string{"Timestamp (UTC)", "Component", "Value"}
	alertHeader      = []string{"Timestamp (UTC)", "Component", "Kind", "Value", "Threshold", "Direction"}
	activationHeader = []string{"Timestamp (UTC)", "Component"}
)

// BuildWorkbook renders h with one sheet per record type and returns the
// xlsx bytes.
func BuildWorkbook(h History) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	var rows [][]interface{}

	for _, s := range h.Temperature {
		rows = append(rows, []interface{}{stamp(s.Timestamp), s.ComponentID, s.Value})
	}
	if err := writeSheet(f, SheetTemperature, sampleHeader, rows, headerStyle); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	if first, err := f.GetSheetIndex(SheetTemperature); err == nil {
		f.SetActiveSheet(first)
	}

	rows = nil
	for _, s := range h.Humidity {
		rows = append(rows, []interface{}{stamp(s.Timestamp), s.ComponentID, s.Value})
	}
	if err := writeSheet(f, SheetHumidity, sampleHeader, rows, headerStyle); err != nil {
		return nil, err
	}

	rows = nil
	for _, a := range h.Alerts {
		rows = append(rows, []interface{}{stamp(a.Timestamp), a.ComponentID, string(a.Kind), a.Value, a.Threshold, string(a.Direction)})
	}
	if err := writeSheet(f, SheetAlerts, alertHeader, rows, headerStyle); err != nil {
		return nil, err
	}

	rows = nil
	for _, a := range h.Activations {
		rows = append(rows, []interface{}{stamp(a.Timestamp), a.ComponentID})
	}
	if err := writeSheet(f, SheetActivations, activationHeader, rows, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 22); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	for r, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

// stamp writes timestamps as text so spreadsheet apps do not shift them into
// the viewer's zone.
func stamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
