// Package service provides the batch merge service behind the HTTP API and
// the command line.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/skillmerge/internal/adapters/spreadsheet"
	"github.com/okian/skillmerge/internal/domain/dedupe"
	"github.com/okian/skillmerge/internal/domain/inference"
	"github.com/okian/skillmerge/internal/domain/model"
	"github.com/okian/skillmerge/internal/domain/reconcile"
	"github.com/okian/skillmerge/pkg/logger"
	"github.com/okian/skillmerge/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Service merges batches of uploaded spreadsheets. Batches share no state
// apart from the counters behind GetStats.
type Service struct {
	mu sync.RWMutex

	// Core components
	reader *spreadsheet.Reader
	engine *inference.Engine

	// Configuration
	parseWorkers int
	maxFiles     int

	// State
	started   bool
	startedAt time.Time
	lastBatch string

	batches       atomic.Int64
	filesParsed   atomic.Int64
	filesRejected atomic.Int64
	records       atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithParseWorkers bounds how many files of one batch are parsed at once.
func WithParseWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.parseWorkers = n
		}
	}
}

// WithMaxFiles caps the number of files in a batch after archive expansion.
func WithMaxFiles(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxFiles = n
		}
	}
}

// WithReader sets the spreadsheet reader.
func WithReader(r *spreadsheet.Reader) Option {
	return func(s *Service) {
		if r != nil {
			s.reader = r
		}
	}
}

// WithEngine sets the layout inference engine.
func WithEngine(e *inference.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		reader:       spreadsheet.New(),
		engine:       inference.New(),
		parseWorkers: runtime.NumCPU(),
		maxFiles:     200,
		logger:       logger.Discard(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start marks the service as serving.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "merge service started",
		logger.Int("parseWorkers", s.parseWorkers),
		logger.Int("maxFiles", s.maxFiles),
	)
	return nil
}

// Stop marks the service as stopped. In-flight batches run to completion.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "merge service stopped")
}

// parsed is the outcome of one file.
type parsed struct {
	summary FileSummary
	records model.RecordSet
	warning *Warning
}

// Merge expands, parses and reconciles one batch. Unreadable or unparseable
// files become warnings; the only errors are an empty or oversized batch and
// context cancellation.
func (s *Service) Merge(ctx context.Context, uploads []Upload) (*Report, error) {
	start := time.Now()
	if len(uploads) == 0 {
		metrics.RecordBatch(metrics.OutcomeEmpty)
		return nil, ErrEmptyBatch
	}

	batchID := uuid.NewString()
	files, warnings, err := s.collect(ctx, uploads)
	if err != nil {
		metrics.RecordBatch(metrics.OutcomeFailed)
		return nil, err
	}
	if len(files) > s.maxFiles {
		metrics.RecordBatch(metrics.OutcomeFailed)
		return nil, fmt.Errorf("%w: %d files, limit is %d", ErrTooManyFiles, len(files), s.maxFiles)
	}

	outcomes := make([]parsed, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parseWorkers)
	for i, f := range files {
		g.Go(func() error {
			out, err := s.parseFile(gctx, f)
			outcomes[i] = out
			return err
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RecordBatch(metrics.OutcomeFailed)
		return nil, err
	}

	report := &Report{BatchID: batchID, Files: []FileSummary{}}
	sets := make([]model.RecordSet, 0, len(outcomes))
	for _, out := range outcomes {
		if out.warning != nil {
			warnings = append(warnings, *out.warning)
			continue
		}
		report.Files = append(report.Files, out.summary)
		sets = append(sets, out.records)
	}
	report.Warnings = warnings
	if report.Warnings == nil {
		report.Warnings = []Warning{}
	}

	rstart := time.Now()
	report.Result = reconcile.Reconcile(sets)
	report.Pivot = reconcile.ToPivot(report.Result.Master)
	metrics.RecordReconcileLatency(float64(time.Since(rstart).Microseconds()) / 1000)

	metrics.UpdateTableRows(metrics.TableCycle1, len(report.Result.Cycle1))
	metrics.UpdateTableRows(metrics.TableCycle2, len(report.Result.Cycle2))
	metrics.UpdateTableRows(metrics.TableMaster, len(report.Result.Master))

	outcome := metrics.OutcomeMerged
	if len(sets) == 0 {
		outcome = metrics.OutcomeNoData
	}
	metrics.RecordBatch(outcome)
	metrics.RecordBatchLatency(float64(time.Since(start).Milliseconds()))

	s.batches.Add(1)
	s.mu.Lock()
	s.lastBatch = batchID
	s.mu.Unlock()

	s.logger.Info(ctx, "batch merged",
		logger.String("batchID", batchID),
		logger.Int("files", len(report.Files)),
		logger.Int("warnings", len(report.Warnings)),
		logger.Int("masterRows", len(report.Result.Master)),
		logger.Duration("took", time.Since(start)),
	)
	return report, nil
}

// collect expands archives and drops repeats of the same file name with the
// same bytes, keeping upload order.
func (s *Service) collect(ctx context.Context, uploads []Upload) ([]spreadsheet.File, []Warning, error) {
	deduper := dedupe.NewInMemoryDeduper(dedupe.WithCapacity(len(uploads)))
	var (
		files    []spreadsheet.File
		warnings []Warning
	)
	for _, u := range uploads {
		expanded, err := s.reader.Expand(ctx, u.Data, u.Filename)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			s.reject(ctx, &warnings, Warning{Filename: u.Filename, Reason: reasonFor(err), Detail: err.Error()})
			continue
		}
		for _, f := range expanded {
			metrics.RecordFileReceived()
			if f.Err != nil {
				s.reject(ctx, &warnings, Warning{Filename: f.Name, Reason: reasonFor(f.Err), Detail: f.Err.Error()})
				continue
			}
			if deduper.SeenAndRecord(ctx, dedupe.Fingerprint(f.Name, f.Data)) {
				metrics.RecordFileDuplicate()
				s.logger.Debug(ctx, "duplicate file skipped", logger.String("filename", f.Name))
				warnings = append(warnings, Warning{Filename: f.Name, Reason: ReasonDuplicate})
				continue
			}
			files = append(files, f)
		}
	}
	return files, warnings, nil
}

func (s *Service) parseFile(ctx context.Context, f spreadsheet.File) (parsed, error) {
	start := time.Now()
	defer func() {
		metrics.RecordParseLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	wb, err := s.reader.Open(ctx, f.Data, f.Name)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return parsed{}, ctxErr
		}
		w := Warning{Filename: f.Name, Reason: reasonFor(err), Detail: err.Error()}
		s.filesRejected.Add(1)
		metrics.RecordFileUnparseable(w.Reason)
		s.logger.Warn(ctx, "file skipped", logger.String("filename", f.Name), logger.Error(err))
		return parsed{warning: &w}, nil
	}

	res := s.engine.ParseWorkbook(wb)
	if len(res.Records) == 0 {
		w := Warning{Filename: f.Name, Reason: ReasonNoRecords}
		s.filesRejected.Add(1)
		metrics.RecordFileUnparseable(w.Reason)
		s.logger.Warn(ctx, "no records recognised", logger.String("filename", f.Name))
		return parsed{warning: &w}, nil
	}

	s.filesParsed.Add(1)
	s.records.Add(int64(len(res.Records)))
	metrics.RecordFileParsed(string(res.Heuristic))
	metrics.RecordRecordsExtracted(len(res.Records))
	s.logger.Debug(ctx, "file parsed",
		logger.String("filename", f.Name),
		logger.String("heuristic", string(res.Heuristic)),
		logger.Int("records", len(res.Records)),
	)
	return parsed{
		records: res.Records,
		summary: FileSummary{
			Filename:     f.Name,
			Employee:     res.Employee,
			Cycle:        res.Cycle.String(),
			Heuristic:    string(res.Heuristic),
			Records:      len(res.Records),
			DetectedDate: res.DetectedDate,
		},
	}, nil
}

func (s *Service) reject(ctx context.Context, warnings *[]Warning, w Warning) {
	s.filesRejected.Add(1)
	metrics.RecordFileUnparseable(w.Reason)
	s.logger.Warn(ctx, "upload skipped",
		logger.String("filename", w.Filename),
		logger.String("reason", w.Reason),
		logger.String("detail", w.Detail),
	)
	*warnings = append(*warnings, w)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"parseWorkers":  s.parseWorkers,
		"maxFiles":      s.maxFiles,
		"batches":       s.batches.Load(),
		"filesParsed":   s.filesParsed.Load(),
		"filesRejected": s.filesRejected.Load(),
		"records":       s.records.Load(),
	}
	if s.lastBatch != "" {
		stats["lastBatchID"] = s.lastBatch
	}
	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateSystemMemoryUsage(mem.HeapInuse)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	return stats
}
