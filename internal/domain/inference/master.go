package inference

import (
	"strings"

	"github.com/okian/skillmerge/internal/domain/model"
)

// Column positions in an exported cycle sheet.
const (
	masterEmployeeCol = 0
	masterSkillCol    = 1
	masterLevelCol    = 2
)

// importPriorMaster reads a workbook written by the exporter back into tagged
// records. It reports false when the workbook is not such a file.
func importPriorMaster(wb model.Workbook) (model.RecordSet, bool) {
	c1, ok1 := wb.Sheet(model.SheetCycle1)
	c2, ok2 := wb.Sheet(model.SheetCycle2)
	if !ok1 || !ok2 || !hasMasterHeader(c1) || !hasMasterHeader(c2) {
		return nil, false
	}
	var out model.RecordSet
	out = appendMasterRows(out, c1, model.Cycle1)
	out = appendMasterRows(out, c2, model.Cycle2)
	return out, true
}

func hasMasterHeader(s model.Sheet) bool {
	for c, name := range model.TableColumns {
		if foldHeader(s.Cell(0, c)) != foldHeader(name) {
			return false
		}
	}
	return true
}

func appendMasterRows(out model.RecordSet, s model.Sheet, cycle model.Cycle) model.RecordSet {
	for r := 1; r < len(s.Rows); r++ {
		employee := strings.TrimSpace(s.Cell(r, masterEmployeeCol))
		skill := strings.TrimSpace(s.Cell(r, masterSkillCol))
		if employee == "" || skill == "" {
			continue
		}
		out = append(out, model.SkillRecord{
			Employee: employee,
			Skill:    skill,
			Level:    coerceLevel(s.Cell(r, masterLevelCol)),
			Cycle:    cycle,
		})
	}
	return out
}
