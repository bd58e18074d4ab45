package reconcile

import "github.com/okian/skillmerge/internal/domain/model"

// Result holds the reconciled tables.
type Result struct {
	Cycle1 model.CycleTable  `json:"cycle1"`
	Cycle2 model.CycleTable  `json:"cycle2"`
	Master model.MasterTable `json:"master"`
}

// Reconcile partitions, resolves, deduplicates and combines record sets.
// It is a pure function of its input; identical input order gives identical output.
func Reconcile(sets []model.RecordSet) Result {
	b := Resolve(Partition(sets))
	c1 := Dedupe(b.Cycle1)
	c2 := Dedupe(b.Cycle2)
	return Result{
		Cycle1: c1,
		Cycle2: c2,
		Master: Combine(c1, c2),
	}
}
