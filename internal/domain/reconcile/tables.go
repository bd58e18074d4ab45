package reconcile

import (
	"sort"

	"github.com/okian/skillmerge/internal/domain/model"
)

type pairKey struct {
	employee string
	skill    string
}

// numericLevel returns the level as a number, or nil when it is not numeric.
func numericLevel(l model.Level) *int {
	n, ok := l.Int()
	if !ok {
		return nil
	}
	return &n
}

// higher orders levels descending with missing values last.
func higher(a, b *int) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a > *b
	}
}

// Dedupe builds a cycle table: one row per (employee, skill) holding the
// highest numeric level among the duplicates, or no level when none is numeric.
// Ties keep the earliest input row.
func Dedupe(recs model.RecordSet) model.CycleTable {
	if len(recs) == 0 {
		return model.CycleTable{}
	}
	rows := make([]model.TableRow, len(recs))
	for i, r := range recs {
		rows[i] = model.TableRow{Employee: r.Employee, Skill: r.Skill, Level: numericLevel(r.Level)}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Employee != rows[j].Employee {
			return rows[i].Employee < rows[j].Employee
		}
		if rows[i].Skill != rows[j].Skill {
			return rows[i].Skill < rows[j].Skill
		}
		return higher(rows[i].Level, rows[j].Level)
	})

	out := make(model.CycleTable, 0, len(rows))
	for _, r := range rows {
		if n := len(out); n > 0 && out[n-1].Employee == r.Employee && out[n-1].Skill == r.Skill {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Combine merges two cycle tables into the master table.
//
// The combined level is the maximum across cycles, not the later cycle's
// value: a lower cycle-2 score does not replace a higher cycle-1 score.
func Combine(c1, c2 model.CycleTable) model.MasterTable {
	best := make(map[pairKey]*int, len(c1)+len(c2))
	order := make([]pairKey, 0, len(c1)+len(c2))
	for _, table := range []model.CycleTable{c1, c2} {
		for _, r := range table {
			k := pairKey{r.Employee, r.Skill}
			cur, seen := best[k]
			if !seen {
				order = append(order, k)
				best[k] = copyLevel(r.Level)
				continue
			}
			if higher(r.Level, cur) {
				best[k] = copyLevel(r.Level)
			}
		}
	}

	out := make(model.MasterTable, 0, len(order))
	for _, k := range order {
		out = append(out, model.TableRow{Employee: k.employee, Skill: k.skill, Level: best[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Employee != out[j].Employee {
			return out[i].Employee < out[j].Employee
		}
		return out[i].Skill < out[j].Skill
	})
	return out
}

func copyLevel(l *int) *int {
	if l == nil {
		return nil
	}
	n := *l
	return &n
}
