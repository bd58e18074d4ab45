package service

import (
	"errors"
	"time"

	"github.com/okian/skillmerge/internal/adapters/spreadsheet"
	"github.com/okian/skillmerge/internal/domain/model"
	"github.com/okian/skillmerge/internal/domain/reconcile"
)

// Upload is one file as received from the caller.
type Upload struct {
	Filename string
	Data     []byte
}

// Warning reasons.
const (
	ReasonDuplicate   = "duplicate"
	ReasonUnsupported = "unsupported_format"
	ReasonUnreadable  = "unreadable"
	ReasonArchive     = "archive_rejected"
	ReasonNoRecords   = "no_records"
)

// Warning reports a file that was excluded from the merge. The batch
// continues without it.
type Warning struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
	Detail   string `json:"detail,omitempty"`
}

// FileSummary describes a file that contributed records.
type FileSummary struct {
	Filename     string     `json:"filename"`
	Employee     string     `json:"employee"`
	Cycle        string     `json:"cycle"`
	Heuristic    string     `json:"heuristic"`
	Records      int        `json:"records"`
	DetectedDate *time.Time `json:"detected_date,omitempty"`
}

// Report is the outcome of one merge batch. Its JSON form carries the
// cycle1, cycle2 and master tables at the top level.
type Report struct {
	BatchID  string        `json:"batch_id"`
	Files    []FileSummary `json:"files"`
	Warnings []Warning     `json:"warnings"`
	reconcile.Result
	Pivot model.PivotView `json:"pivot"`
}

// reasonFor maps a reader error to a warning reason.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, spreadsheet.ErrUnsupportedFormat):
		return ReasonUnsupported
	case errors.Is(err, spreadsheet.ErrArchiveTooLarge):
		return ReasonArchive
	default:
		return ReasonUnreadable
	}
}
