package service_test

import (
	"archive/zip"
	"bytes"

	"github.com/xuri/excelize/v2"
)

// workbook builds an in-memory .xlsx with a single sheet holding rows.
func workbook(rows ...[]any) []byte {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			panic(err)
		}
		values := row
		if err := f.SetSheetRow("Sheet1", cell, &values); err != nil {
			panic(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// archive zips name/data pairs in order.
func archive(pairs ...any) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i := 0; i+1 < len(pairs); i += 2 {
		w, err := zw.Create(pairs[i].(string))
		if err != nil {
			panic(err)
		}
		if _, err := w.Write(pairs[i+1].([]byte)); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
