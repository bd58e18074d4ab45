package reconcile

import (
	"sort"

	"github.com/okian/skillmerge/internal/domain/model"
)

// ToPivot reshapes a master table into employees x skills. Both axes are
// sorted; a pair not in the table, or present without a level, is a nil cell.
func ToPivot(master model.MasterTable) model.PivotView {
	employees := distinct(master, func(r model.TableRow) string { return r.Employee })
	skills := distinct(master, func(r model.TableRow) string { return r.Skill })

	rowOf := index(employees)
	colOf := index(skills)

	cells := make([][]*int, len(employees))
	for i := range cells {
		cells[i] = make([]*int, len(skills))
	}
	for _, r := range master {
		cells[rowOf[r.Employee]][colOf[r.Skill]] = copyLevel(r.Level)
	}
	return model.PivotView{Employees: employees, Skills: skills, Cells: cells}
}

func distinct(rows model.MasterTable, key func(model.TableRow) string) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func index(values []string) map[string]int {
	m := make(map[string]int, len(values))
	for i, v := range values {
		m[v] = i
	}
	return m
}
