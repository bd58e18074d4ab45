// Package reconcile merges per-file skill records into per-cycle and combined tables.
package reconcile

import (
	"strings"

	"github.com/okian/skillmerge/internal/domain/model"
)

// Buckets holds records split by cycle tag. Functions in this package treat a
// Buckets value as immutable and return new slices.
type Buckets struct {
	Cycle1  model.RecordSet
	Cycle2  model.RecordSet
	Unknown model.RecordSet
}

// Partition concatenates record sets in order and splits them by cycle,
// trimming employee and skill names first.
func Partition(sets []model.RecordSet) Buckets {
	var b Buckets
	for _, set := range sets {
		for _, rec := range set {
			rec.Employee = strings.TrimSpace(rec.Employee)
			rec.Skill = strings.TrimSpace(rec.Skill)
			switch rec.Cycle {
			case model.Cycle1:
				b.Cycle1 = append(b.Cycle1, rec)
			case model.Cycle2:
				b.Cycle2 = append(b.Cycle2, rec)
			case model.CycleUnknown:
				b.Unknown = append(b.Unknown, rec)
			}
		}
	}
	return b
}

// Resolve folds untagged records into a concrete cycle.
//
// Untagged records are treated as the latest round and always land in
// Cycle2, appended after the explicitly tagged ones. Cycle1 only ever holds
// records tagged as cycle 1. The returned Unknown bucket is always empty.
func Resolve(in Buckets) Buckets {
	out := Buckets{
		Cycle1: append(model.RecordSet(nil), in.Cycle1...),
		Cycle2: make(model.RecordSet, 0, len(in.Cycle2)+len(in.Unknown)),
	}
	out.Cycle2 = append(out.Cycle2, in.Cycle2...)
	out.Cycle2 = append(out.Cycle2, in.Unknown...)
	if len(out.Cycle2) == 0 {
		out.Cycle2 = nil
	}
	return out
}
