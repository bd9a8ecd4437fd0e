// Package export renders periods as spreadsheets.
package export

import (
	"cmp"
	"io"
	"slices"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/eden/core"
	"github.com/trezcool/eden/core/period"
)

const (
	SheetName   = "Timetable"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var header = []interface{}{"Day", "Time", "Subject", "Code"}

type row struct {
	period.Period
	start int // minutes since midnight
}

// Timetable builds a workbook with one row per period, ordered by weekday then time.
// A period whose stored time does not parse fails the export with a *core.IntegrityError.
func Timetable(periods []period.Period) (*excelize.File, error) {
	rows := make([]row, 0, len(periods))
	for _, p := range periods {
		start, err := period.ParseTimeOfDay(p.Time)
		if err != nil {
			return nil, core.NewIntegrityError("period", p.ID, errors.Wrap(err, "parsing time"))
		}
		rows = append(rows, row{Period: p, start: start.Minutes()})
	}
	slices.SortStableFunc(rows, func(a, b row) int {
		if c := cmp.Compare(a.Day, b.Day); c != 0 {
			return c
		}
		return cmp.Compare(a.start, b.start)
	})

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, errors.Wrap(err, "renaming sheet")
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, errors.Wrap(err, "writing header")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "creating header style")
	}
	_ = f.SetCellStyle(SheetName, "A1", "D1", bold)

	for i, p := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{p.Day.String(), p.Time, p.Subject.Name, p.Subject.Code}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, errors.Wrapf(err, "writing row %d", i+2)
		}
	}
	_ = f.SetColWidth(SheetName, "A", "A", 12)
	_ = f.SetColWidth(SheetName, "C", "C", 30)
	return f, nil
}

// WriteTimetable writes the timetable workbook of periods to w.
func WriteTimetable(w io.Writer, periods []period.Period) error {
	f, err := Timetable(periods)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}
