package model

// Sheet is the raw tabular content of one worksheet. Rows[0] is the header row.
// Rows may be ragged; missing trailing cells are empty.
type Sheet struct {
	Name string
	Rows [][]string
}

// Cell returns the cell at (row, col) or "" when out of range.
func (s Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Width returns the number of columns of the widest row.
func (s Sheet) Width() int {
	w := 0
	for _, r := range s.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Workbook is one spreadsheet file after decoding.
type Workbook struct {
	Name   string
	Sheets []Sheet
}

// Sheet returns the named sheet.
func (w Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// TableRow is a reconciled (employee, skill) row. A nil Level means no numeric
// level could be recovered for the pair.
type TableRow struct {
	Employee string `json:"employee"`
	Skill    string `json:"skill"`
	Level    *int   `json:"level"`
}

// CycleTable holds one row per (employee, skill) for a single cycle, sorted by employee then skill.
type CycleTable []TableRow

// MasterTable holds the combined rows across both cycles, sorted by employee then skill.
type MasterTable []TableRow

// PivotView is the employees x skills projection of a MasterTable.
// Cells[i][j] is the level of Employees[i] for Skills[j]; nil renders blank.
type PivotView struct {
	Employees []string `json:"employees"`
	Skills    []string `json:"skills"`
	Cells     [][]*int `json:"cells"`
}

// Sheet and column names of the exported master workbook. Downstream
// consumers depend on these exact names.
const (
	SheetCycle1 = "Cycle1"
	SheetCycle2 = "Cycle2"
	SheetMaster = "Master_Combined"
	SheetPivot  = "Master_Pivot"

	ColEmployee = "Employee"
	ColSkill    = "Skill"
	ColLevel    = "Level"
)

// TableColumns is the header of the Cycle1, Cycle2 and Master_Combined sheets.
var TableColumns = []string{ColEmployee, ColSkill, ColLevel}
