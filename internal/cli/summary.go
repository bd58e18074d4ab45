package cli

import (
	"io"
	"strconv"

	service "github.com/okian/skillmerge/internal/app"
	"github.com/okian/skillmerge/internal/domain/model"
	"github.com/olekukonko/tablewriter"
)

// renderReport prints the per-file summary and any warnings.
func renderReport(w io.Writer, report *service.Report) error {
	files := make([][]any, 0, len(report.Files))
	for _, f := range report.Files {
		files = append(files, []any{f.Filename, f.Employee, f.Cycle, f.Heuristic, strconv.Itoa(f.Records)})
	}
	if err := renderTable(w, []any{"File", "Employee", "Cycle", "Heuristic", "Records"}, files); err != nil {
		return err
	}

	if len(report.Warnings) > 0 {
		warnings := make([][]any, 0, len(report.Warnings))
		for _, wn := range report.Warnings {
			warnings = append(warnings, []any{wn.Filename, wn.Reason, wn.Detail})
		}
		if err := renderTable(w, []any{"Skipped", "Reason", "Detail"}, warnings); err != nil {
			return err
		}
	}
	return nil
}

// renderRows prints an Employee, Skill, Level table.
func renderRows(w io.Writer, rows []model.TableRow) error {
	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		level := ""
		if r.Level != nil {
			level = strconv.Itoa(*r.Level)
		}
		data = append(data, []any{r.Employee, r.Skill, level})
	}
	return renderTable(w, []any{model.ColEmployee, model.ColSkill, model.ColLevel}, data)
}

func renderTable(w io.Writer, header []any, rows [][]any) error {
	table := tablewriter.NewTable(w)
	table.Header(header...)
	for _, row := range rows {
		if err := table.Append(row...); err != nil {
			return err
		}
	}
	return table.Render()
}
