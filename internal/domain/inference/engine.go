package inference

import (
	"time"

	"github.com/okian/skillmerge/internal/domain/model"
)

// Result is the outcome of parsing one sheet. Empty Records means the file
// could not be parsed.
type Result struct {
	Records   model.RecordSet
	Heuristic Heuristic
	Employee  string
	Cycle     model.Cycle
	// DetectedDate is a date found in the filename. It is reported only and
	// never used to assign a cycle.
	DetectedDate *time.Time
}

// Engine runs the layout cascade. It holds no per-call state and is safe for
// concurrent use.
type Engine struct {
	vocab *vocabularies
}

// New creates an Engine with the default header synonyms plus any added by opts.
func New(opts ...Option) *Engine {
	e := &Engine{
		vocab: &vocabularies{
			skill:    newVocabulary(defaultSkillHeaders),
			level:    newVocabulary(defaultLevelHeaders),
			employee: newVocabulary(defaultEmployeeHeaders),
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parse turns one sheet into skill records. It never fails; a sheet no
// strategy understands yields an empty Result.
func (e *Engine) Parse(sheet model.Sheet, filename string) (res Result) {
	res.Employee = EmployeeFromFilename(filename)
	res.Cycle, res.DetectedDate = DetectCycle(filename)

	defer func() {
		if r := recover(); r != nil {
			res.Records = nil
			res.Heuristic = HeuristicNone
		}
	}()

	in := newInput(sheet, res.Employee, res.Cycle, e.vocab)
	for _, s := range cascade {
		if recs := s.extract(in); len(recs) > 0 {
			res.Records = recs
			res.Heuristic = s.heuristic
			return res
		}
	}
	return res
}

// ParseWorkbook parses a decoded file: a previously exported master is
// imported sheet by sheet, anything else runs the cascade on its first sheet.
func (e *Engine) ParseWorkbook(wb model.Workbook) Result {
	if recs, ok := importPriorMaster(wb); ok {
		return Result{
			Records:   recs,
			Heuristic: HeuristicPriorMaster,
			Employee:  EmployeeFromFilename(wb.Name),
		}
	}
	if len(wb.Sheets) == 0 {
		res := Result{Employee: EmployeeFromFilename(wb.Name)}
		res.Cycle, res.DetectedDate = DetectCycle(wb.Name)
		return res
	}
	return e.Parse(wb.Sheets[0], wb.Name)
}
