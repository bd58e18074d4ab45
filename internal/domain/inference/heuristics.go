package inference

import (
	"strings"

	"github.com/okian/skillmerge/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

// Heuristic names the layout strategy that produced a record set.
type Heuristic string

// Layout strategies, in cascade order.
const (
	HeuristicNone         Heuristic = ""
	HeuristicNamedColumns Heuristic = "named_columns"
	HeuristicPositional   Heuristic = "positional"
	HeuristicWideMatrix   Heuristic = "wide_matrix"
	HeuristicCellDump     Heuristic = "cell_dump"
	HeuristicPriorMaster  Heuristic = "prior_master"
)

// positionalNumericPercent is the share of column-2 cells that must be numeric
// for the positional layout to apply.
const positionalNumericPercent = 30

// input is what every strategy sees. Strategies must not modify it.
type input struct {
	sheet    model.Sheet
	header   []string
	width    int
	employee string
	cycle    model.Cycle
	vocab    *vocabularies
}

type vocabularies struct {
	skill    vocabulary
	level    vocabulary
	employee vocabulary
}

func newInput(sheet model.Sheet, employee string, cycle model.Cycle, vocab *vocabularies) input {
	in := input{
		sheet:    sheet,
		width:    sheet.Width(),
		employee: employee,
		cycle:    cycle,
		vocab:    vocab,
	}
	in.header = make([]string, in.width)
	for c := range in.header {
		in.header[c] = sheet.Cell(0, c)
	}
	return in
}

func (in input) record(employee, skill string, level model.Level) model.SkillRecord {
	return model.SkillRecord{Employee: employee, Skill: skill, Level: level, Cycle: in.cycle}
}

// rowEmployee returns the employee for a row: the employee column when present
// and non-empty, else the name derived from the file.
func (in input) rowEmployee(row, employeeCol int) string {
	if employeeCol >= 0 {
		if v := strings.TrimSpace(in.sheet.Cell(row, employeeCol)); v != "" {
			return v
		}
	}
	return in.employee
}

// columnName returns the trimmed header of column c, or its letter when blank.
func (in input) columnName(c int) string {
	if h := strings.TrimSpace(in.header[c]); h != "" {
		return h
	}
	letter, err := excelize.ColumnNumberToName(c + 1)
	if err != nil {
		return ""
	}
	return "Column " + letter
}

// strategy extracts records or returns none so the cascade moves on.
type strategy struct {
	heuristic Heuristic
	extract   func(in input) model.RecordSet
}

// cascade is evaluated in order; the first non-empty result wins.
var cascade = []strategy{
	{HeuristicNamedColumns, namedColumns},
	{HeuristicPositional, positional},
	{HeuristicWideMatrix, wideMatrix},
	{HeuristicCellDump, cellDump},
}

// namedColumns reads explicit skill and level columns.
func namedColumns(in input) model.RecordSet {
	skillCol := in.vocab.skill.lastMatch(in.header)
	levelCol := in.vocab.level.lastMatch(in.header)
	if skillCol < 0 || levelCol < 0 {
		return nil
	}
	employeeCol := in.vocab.employee.lastMatch(in.header)

	var out model.RecordSet
	for r := 1; r < len(in.sheet.Rows); r++ {
		skill := strings.TrimSpace(in.sheet.Cell(r, skillCol))
		if skill == "" {
			continue
		}
		out = append(out, in.record(in.rowEmployee(r, employeeCol), skill, coerceLevel(in.sheet.Cell(r, levelCol))))
	}
	return out
}

// positional treats column 1 as the skill and column 2 as the level when
// enough of column 2 is numeric. A numeric second header cell means the sheet
// has no header row, so the first row is data too.
func positional(in input) model.RecordSet {
	if in.width < 2 || len(in.sheet.Rows) == 0 {
		return nil
	}
	start := 1
	if isNumeric(in.sheet.Cell(0, 1)) {
		start = 0
	}

	numeric := 0
	for r := start; r < len(in.sheet.Rows); r++ {
		if isNumeric(in.sheet.Cell(r, 1)) {
			numeric++
		}
	}
	threshold := max(1, (len(in.sheet.Rows)-start)*positionalNumericPercent/100)
	if numeric < threshold {
		return nil
	}

	var out model.RecordSet
	for r := start; r < len(in.sheet.Rows); r++ {
		skill := strings.TrimSpace(in.sheet.Cell(r, 0))
		if skill == "" {
			continue
		}
		out = append(out, in.record(in.employee, skill, coerceLevel(in.sheet.Cell(r, 1))))
	}
	return out
}

// wideMatrix reads skills as column headers with 0-10 levels underneath.
// Every qualifying cell of every row yields one record.
func wideMatrix(in input) model.RecordSet {
	employeeCol := in.vocab.employee.lastMatch(in.header)

	var out model.RecordSet
	for r := 1; r < len(in.sheet.Rows); r++ {
		for c := 0; c < in.width; c++ {
			if c == employeeCol {
				continue
			}
			n, ok := matrixLevel(in.sheet.Cell(r, c))
			if !ok {
				continue
			}
			out = append(out, in.record(in.rowEmployee(r, employeeCol), in.columnName(c), model.IntLevel(n)))
		}
	}
	return out
}

// cellDump is the last resort: every short non-empty cell becomes a skill with
// an unknown level.
func cellDump(in input) model.RecordSet {
	var out model.RecordSet
	for r := 1; r < len(in.sheet.Rows); r++ {
		for c := 0; c < in.width; c++ {
			s := strings.TrimSpace(in.sheet.Cell(r, c))
			if !dumpable(s) {
				continue
			}
			out = append(out, in.record(in.employee, s, model.UnknownLevel()))
		}
	}
	return out
}
