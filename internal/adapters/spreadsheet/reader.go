// Package spreadsheet decodes uploaded spreadsheet files and archives into
// raw string tables.
package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/extrame/xls"
	"github.com/okian/skillmerge/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

// Format is a container format recognised by file extension.
type Format uint8

// Recognised formats.
const (
	FormatUnknown Format = iota
	FormatXLSX
	FormatXLS
	FormatZip
)

// String returns the canonical extension without the dot.
func (f Format) String() string {
	switch f {
	case FormatXLSX:
		return "xlsx"
	case FormatXLS:
		return "xls"
	case FormatZip:
		return "zip"
	default:
		return "unknown"
	}
}

// DetectFormat classifies a filename by extension, case-insensitively.
func DetectFormat(filename string) Format {
	switch strings.ToLower(path.Ext(strings.ReplaceAll(filename, `\`, "/"))) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".xls":
		return FormatXLS
	case ".zip":
		return FormatZip
	default:
		return FormatUnknown
	}
}

// File is one named blob of bytes, either an upload or an archive member.
// Err is set for an archive member that could not be extracted.
type File struct {
	Name string
	Data []byte
	Err  error
}

// Reader decodes spreadsheets. It is safe for concurrent use.
type Reader struct {
	charset           string
	maxArchiveEntries int
	maxMemberBytes    int64
}

// New creates a Reader with defaults: utf-8 for .xls, 500 archive members
// and 32 MiB per member.
func New(opts ...Option) *Reader {
	r := &Reader{
		charset:           "utf-8",
		maxArchiveEntries: 500,
		maxMemberBytes:    32 << 20,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open decodes one spreadsheet file into a workbook with every sheet.
func (r *Reader) Open(ctx context.Context, data []byte, filename string) (model.Workbook, error) {
	if err := ctx.Err(); err != nil {
		return model.Workbook{}, err
	}
	switch DetectFormat(filename) {
	case FormatXLSX:
		return r.openXLSX(data, filename)
	case FormatXLS:
		return r.openXLS(data, filename)
	default:
		return model.Workbook{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

func (r *Reader) openXLSX(data []byte, filename string) (model.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return model.Workbook{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, filename, err)
	}
	defer func() { _ = f.Close() }()

	wb := model.Workbook{Name: filename}
	var firstErr error
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			// chart sheets and damaged parts are skipped
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		wb.Sheets = append(wb.Sheets, model.Sheet{Name: name, Rows: rows})
	}
	if len(wb.Sheets) == 0 && firstErr != nil {
		return model.Workbook{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, filename, firstErr)
	}
	return wb, nil
}

func (r *Reader) openXLS(data []byte, filename string) (wb model.Workbook, err error) {
	// The BIFF decoder indexes unchecked offsets and panics on truncated input.
	defer func() {
		if p := recover(); p != nil {
			wb = model.Workbook{}
			err = fmt.Errorf("%w: %s: %v", ErrCorrupt, filename, p)
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(data), r.charset)
	if err != nil {
		return model.Workbook{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, filename, err)
	}
	if book == nil {
		return model.Workbook{}, fmt.Errorf("%w: %s", ErrCorrupt, filename)
	}

	wb = model.Workbook{Name: filename}
	for i := 0; i < book.NumSheets(); i++ {
		sheet := book.GetSheet(i)
		if sheet == nil {
			continue
		}
		wb.Sheets = append(wb.Sheets, model.Sheet{Name: sheet.Name, Rows: xlsRows(sheet)})
	}
	return wb, nil
}

func xlsRows(sheet *xls.WorkSheet) [][]string {
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for c := 0; c <= row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, trimCells(cells))
	}
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// trimCells drops trailing empty cells, matching how excelize reports rows.
func trimCells(cells []string) []string {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	return cells[:n]
}
