// Package report renders spreadsheet exports.
package report

import (
	"fmt"
	"io"

	"github.com/protomem/medicall/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	ShiftsSheet       = "Shifts"
	XLSXContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	_headerRow        = 3
	_firstDataRow     = _headerRow + 1
	_defaultColWidth  = 14
	_defaultWideWidth = 24
)

var _shiftColumns = []struct {
	title string
	wide  bool
	value func(model.Shift) any
}{
	{"ID", false, func(s model.Shift) any { return s.ID }},
	{"Date", false, func(s model.Shift) any { return s.Date.String() }},
	{"Department", true, func(s model.Shift) any { return s.Department }},
	{"Role", true, func(s model.Shift) any { return s.Position }},
	{"Start", false, func(s model.Shift) any { return s.StartTime }},
	{"End", false, func(s model.Shift) any { return s.EndTime }},
	{"Hours", false, func(s model.Shift) any { return s.DurationHours.InexactFloat64() }},
	{"Pay per hour", false, func(s model.Shift) any { return s.PayPerHour.InexactFloat64() }},
	{"Total pay", false, func(s model.Shift) any { return s.ComputeTotalPay().InexactFloat64() }},
	{"Urgency", false, func(s model.Shift) any { return string(s.Urgency) }},
	{"Status", false, func(s model.Shift) any { return string(s.Status) }},
	{"Applicants", false, func(s model.Shift) any { return s.ApplicantCount }},
	{"Max applicants", false, func(s model.Shift) any { return s.MaxApplicants }},
	{"Location", true, func(s model.Shift) any { return s.Location }},
}

// WriteShifts writes an xlsx workbook listing shifts, one per row.
func WriteShifts(w io.Writer, title string, shifts []model.Shift) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", ShiftsSheet); err != nil {
		return err
	}

	if err := f.SetCellValue(ShiftsSheet, "A1", title); err != nil {
		return err
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ShiftsSheet, "A1", "A1", titleStyle); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0EBF5"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 2},
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	for i, col := range _shiftColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}

		cell := fmt.Sprintf("%s%d", name, _headerRow)
		if err := f.SetCellValue(ShiftsSheet, cell, col.title); err != nil {
			return err
		}
		if err := f.SetCellStyle(ShiftsSheet, cell, cell, headerStyle); err != nil {
			return err
		}

		width := float64(_defaultColWidth)
		if col.wide {
			width = _defaultWideWidth
		}
		if err := f.SetColWidth(ShiftsSheet, name, name, width); err != nil {
			return err
		}
	}

	for r, sh := range shifts {
		row := make([]any, 0, len(_shiftColumns))
		for _, col := range _shiftColumns {
			row = append(row, col.value(sh))
		}

		cell, err := excelize.CoordinatesToCellName(1, _firstDataRow+r)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ShiftsSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}
