package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/skillmerge/internal/adapters/export"
	service "github.com/okian/skillmerge/internal/app"
	"github.com/okian/skillmerge/pkg/logger"
)

// Multipart and response conventions of POST /merge.
const (
	FilesField     = "files"
	HeaderBatchID  = "X-Batch-ID"
	HeaderWarnings = "X-Skillmerge-Warnings"

	// multipart parts above this size spill to temporary files
	formMemoryBytes = 8 << 20
)

const emptyBatchHint = `no files uploaded; send one or more .xlsx, .xlsm, .xls or .zip files in the "files" form field`

// MergeHandler handles batch uploads.
type MergeHandler struct {
	deps           Dependencies
	maxUploadBytes int64
	outputFilename string
	logger         logger.Logger
}

// NewMergeHandler creates a merge handler.
func NewMergeHandler(deps Dependencies, opts ...Option) *MergeHandler {
	h := &MergeHandler{
		deps:           deps,
		maxUploadBytes: 32 << 20,
		outputFilename: "final_master.xlsx",
		logger:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleMerge handles POST /merge. The response is the JSON report unless
// the caller asks for the workbook with ?format=xlsx or an Accept header
// naming the xlsx media type.
func (h *MergeHandler) HandleMerge(w http.ResponseWriter, r *http.Request) {
	const op = "api.merge"
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	uploads, err := readUploads(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", WrapKind(op, ErrPayloadTooLarge, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	report, err := h.deps.Merge(r.Context(), uploads)
	switch {
	case errors.Is(err, service.ErrEmptyBatch):
		writeError(w, http.StatusBadRequest, "empty_batch", errors.New(emptyBatchHint))
		return
	case errors.Is(err, service.ErrTooManyFiles):
		writeError(w, http.StatusRequestEntityTooLarge, "too_many_files", WrapKind(op, ErrPayloadTooLarge, err))
		return
	case err != nil:
		h.logger.Error(r.Context(), "merge failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "merge_failed", WrapKind(op, ErrMergeFailed, err))
		return
	}

	if !wantsWorkbook(r) {
		writeJSON(w, http.StatusOK, report)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, report.Result, report.Pivot); err != nil {
		h.logger.Error(r.Context(), "export failed", logger.String("batchID", report.BatchID), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "export_failed", WrapKind(op, ErrExportFailed, err))
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": h.outputFilename}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set(HeaderBatchID, report.BatchID)
	w.Header().Set(HeaderWarnings, strconv.Itoa(len(report.Warnings)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// readUploads reads every part of the files field in form order.
func readUploads(r *http.Request) ([]service.Upload, error) {
	if err := r.ParseMultipartForm(formMemoryBytes); err != nil {
		return nil, err
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[FilesField]
	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fh.Filename, err)
		}
		uploads = append(uploads, service.Upload{Filename: fh.Filename, Data: data})
	}
	return uploads, nil
}

func wantsWorkbook(r *http.Request) bool {
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "xlsx":
		return true
	case "json":
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), export.ContentType)
}
