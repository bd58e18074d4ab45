// Package export renders reconciled tables as the master .xlsx workbook.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/okian/skillmerge/internal/domain/model"
	"github.com/okian/skillmerge/internal/domain/reconcile"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the exported workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrWrite wraps any failure while building or serialising the workbook.
var ErrWrite = errors.New("export workbook failed")

const (
	nameColumnWidth  = 24
	levelColumnWidth = 8
)

// Write renders the three tables and the pivot into sheets Cycle1, Cycle2,
// Master_Combined and Master_Pivot, in that order. Missing levels are left
// as empty cells.
func Write(w io.Writer, res reconcile.Result, pivot model.PivotView) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", model.SheetCycle1); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for _, name := range []string{model.SheetCycle2, model.SheetMaster, model.SheetPivot} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}

	tables := []struct {
		sheet string
		rows  []model.TableRow
	}{
		{model.SheetCycle1, res.Cycle1},
		{model.SheetCycle2, res.Cycle2},
		{model.SheetMaster, res.Master},
	}
	for _, t := range tables {
		if err := writeTable(f, t.sheet, t.rows); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWrite, t.sheet, err)
		}
	}
	if err := writePivot(f, pivot); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, model.SheetPivot, err)
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, rows []model.TableRow) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetColWidth(1, 2, nameColumnWidth); err != nil {
		return err
	}
	if err := sw.SetColWidth(3, 3, levelColumnWidth); err != nil {
		return err
	}
	if err := sw.SetRow("A1", []interface{}{model.ColEmployee, model.ColSkill, model.ColLevel}); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, []interface{}{r.Employee, r.Skill, levelValue(r.Level)}); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func writePivot(f *excelize.File, p model.PivotView) error {
	sw, err := f.NewStreamWriter(model.SheetPivot)
	if err != nil {
		return err
	}
	if err := sw.SetColWidth(1, 1, nameColumnWidth); err != nil {
		return err
	}

	header := make([]interface{}, 0, len(p.Skills)+1)
	header = append(header, model.ColEmployee)
	for _, s := range p.Skills {
		header = append(header, s)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, employee := range p.Employees {
		row := make([]interface{}, 0, len(p.Skills)+1)
		row = append(row, employee)
		for j := range p.Skills {
			row = append(row, levelValue(p.Cells[i][j]))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// levelValue returns nil for a missing level so the stream writer leaves the cell empty.
func levelValue(l *int) interface{} {
	if l == nil {
		return nil
	}
	return *l
}
