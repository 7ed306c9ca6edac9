package report_test

import (
	"bytes"
	"testing"

	"github.com/protomem/medicall/internal/model"
	"github.com/protomem/medicall/internal/report"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestWriteShifts(t *testing.T) {
	date, _ := model.ParseDate("2030-01-15")
	shifts := []model.Shift{
		{
			ID:             7,
			Department:     "Emergency",
			Position:       "Nurse",
			Date:           date,
			StartTime:      "08:00",
			EndTime:        "16:00",
			DurationHours:  decimal.RequireFromString("8"),
			PayPerHour:     decimal.RequireFromString("42.5"),
			Urgency:        model.UrgencyHigh,
			Status:         model.ShiftActive,
			ApplicantCount: 3,
			MaxApplicants:  10,
			Location:       "Ward 2",
		},
	}

	var buf bytes.Buffer
	if err := report.WriteShifts(&buf, "St. Mary shifts", shifts); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	checks := map[string]string{
		"A1": "St. Mary shifts",
		"A3": "ID",
		"I3": "Total pay",
		"A4": "7",
		"B4": "2030-01-15",
		"D4": "Nurse",
		"I4": "340",
		"L4": "3",
		"N4": "Ward 2",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue(report.ShiftsSheet, cell)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestWriteShifts_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WriteShifts(&buf, "empty", nil); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(report.ShiftsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Errorf("rows = %d, want title, blank and header", len(rows))
	}
}
