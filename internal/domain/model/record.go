// Package model contains domain models passed between layers.
package model

import "strconv"

// Cycle identifies the assessment round a record belongs to.
// The zero value is CycleUnknown.
type Cycle uint8

// Assessment cycles.
const (
	CycleUnknown Cycle = iota
	Cycle1
	Cycle2
)

// String returns "1", "2" or "unknown".
func (c Cycle) String() string {
	switch c {
	case Cycle1:
		return "1"
	case Cycle2:
		return "2"
	default:
		return "unknown"
	}
}

// Known reports whether the cycle was tagged explicitly.
func (c Cycle) Known() bool {
	return c == Cycle1 || c == Cycle2
}

// levelKind discriminates the Level variants.
type levelKind uint8

const (
	levelUnknown levelKind = iota
	levelInt
	levelRaw
)

// Level is a skill score as recovered from a sheet: an integer, the verbatim
// cell text when the cell could not be coerced, or unknown.
// The zero value is an unknown level.
type Level struct {
	kind levelKind
	n    int
	raw  string
}

// UnknownLevel returns a level with no recoverable value.
func UnknownLevel() Level { return Level{} }

// IntLevel returns an integer level.
func IntLevel(n int) Level { return Level{kind: levelInt, n: n} }

// RawLevel returns a level holding non-numeric cell text.
func RawLevel(s string) Level { return Level{kind: levelRaw, raw: s} }

// Int returns the integer value and true when the level is numeric.
func (l Level) Int() (int, bool) { return l.n, l.kind == levelInt }

// Raw returns the retained cell text and true when the level is raw.
func (l Level) Raw() (string, bool) { return l.raw, l.kind == levelRaw }

// IsUnknown reports whether no value was recovered.
func (l Level) IsUnknown() bool { return l.kind == levelUnknown }

// String renders the level for previews; unknown renders as "".
func (l Level) String() string {
	switch l.kind {
	case levelInt:
		return strconv.Itoa(l.n)
	case levelRaw:
		return l.raw
	default:
		return ""
	}
}

// MarshalJSON encodes integers as numbers, raw text as strings and unknown as null.
func (l Level) MarshalJSON() ([]byte, error) {
	switch l.kind {
	case levelInt:
		return []byte(strconv.Itoa(l.n)), nil
	case levelRaw:
		return []byte(strconv.Quote(l.raw)), nil
	default:
		return []byte("null"), nil
	}
}

// SkillRecord is one (employee, skill, level, cycle) observation extracted from a sheet.
type SkillRecord struct {
	Employee string `json:"employee"`
	Skill    string `json:"skill"`
	Level    Level  `json:"level"`
	Cycle    Cycle  `json:"-"`
}

// RecordSet is the output of parsing one spreadsheet.
type RecordSet []SkillRecord
