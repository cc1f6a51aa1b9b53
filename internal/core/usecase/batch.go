package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/ymdk/docrenamer/internal/core/domain"
	"github.com/ymdk/docrenamer/internal/core/ports"
	"github.com/ymdk/docrenamer/internal/observability/metrics"
)

// BatchConfig bounds one batch run. Values mirror the deployment limits of
// the analysis service: strictly sequential files, paced, with independent
// per-file and whole-batch budgets.
type BatchConfig struct {
	MaxFiles     int
	FileTimeout  time.Duration
	BatchTimeout time.Duration
	FileInterval time.Duration
	ServiceName  string
}

// ProcessBatchUseCase iterates a bounded file list sequentially and
// aggregates per-file outcomes. One file's failure never aborts the batch;
// the global budget only prevents new files from starting.
type ProcessBatchUseCase struct {
	processor  ports.FileProcessor
	configured bool
	cfg        BatchConfig
	limiter    *rate.Limiter
	metrics    *metrics.PipelineMetrics
	now        func() time.Time
}

func NewProcessBatchUseCase(
	processor ports.FileProcessor,
	configured bool,
	cfg BatchConfig,
	pipelineMetrics *metrics.PipelineMetrics,
) *ProcessBatchUseCase {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.FileInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.FileInterval), 1)
	}
	return &ProcessBatchUseCase{
		processor:  processor,
		configured: configured,
		cfg:        cfg,
		limiter:    limiter,
		metrics:    pipelineMetrics,
		now:        time.Now,
	}
}

func (uc *ProcessBatchUseCase) ProcessBatch(
	ctx context.Context,
	files []domain.InputFile,
) (domain.BatchResult, error) {
	if !uc.configured {
		return domain.BatchResult{}, domain.WrapError(domain.ErrConfiguration, "process batch",
			errors.New("analysis service credentials are not set"))
	}
	if len(files) == 0 {
		return domain.BatchResult{}, domain.WrapError(domain.ErrValidation, "process batch",
			errors.New("no files submitted"))
	}
	if len(files) > uc.cfg.MaxFiles {
		return domain.BatchResult{}, domain.WrapError(domain.ErrValidation, "process batch",
			fmt.Errorf("%d files submitted, limit is %d", len(files), uc.cfg.MaxFiles))
	}

	start := uc.now()
	deadline := start.Add(uc.cfg.BatchTimeout)
	results := make([]domain.FileResult, 0, len(files))

	for _, file := range files {
		// Budget check happens before a file starts; a file already in
		// flight runs to completion or its own timeout.
		if !uc.now().Before(deadline) {
			slog.Warn("batch_budget_exhausted",
				"processed", len(results),
				"submitted", len(files),
			)
			break
		}
		if err := ctx.Err(); err != nil {
			break
		}

		// First wait drains the limiter's stored token instantly; every
		// later one enforces the inter-file interval.
		if err := uc.pace(ctx, deadline); err != nil {
			break
		}

		results = append(results, uc.processOne(ctx, file))
	}

	elapsed := uc.now().Sub(start)
	uc.metrics.RecordBatch(uc.cfg.ServiceName, len(files), elapsed)

	return domain.BatchResult{
		Results: results,
		Summary: domain.Summarize(results, elapsed),
	}, nil
}

// pace blocks until the inter-file interval has elapsed, bounded by the
// batch deadline and caller cancellation.
func (uc *ProcessBatchUseCase) pace(ctx context.Context, deadline time.Time) error {
	waitCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()
	return uc.limiter.Wait(waitCtx)
}

func (uc *ProcessBatchUseCase) processOne(ctx context.Context, file domain.InputFile) domain.FileResult {
	fileStart := uc.now()
	uc.metrics.StartFile()

	result := uc.runFile(ctx, file)
	result.ProcessingTimeMS = uc.now().Sub(fileStart).Milliseconds()

	uc.metrics.FinishFile(uc.cfg.ServiceName, string(result.Status), uc.now().Sub(fileStart))
	if result.Analysis != nil && result.Analysis.Fallback {
		uc.metrics.RecordFallback(uc.cfg.ServiceName)
	}

	slog.Info("file_processed",
		"filename", file.Name,
		"status", result.Status,
		"new_filename", result.NewFilename,
		"duration_ms", result.ProcessingTimeMS,
	)
	return result
}

func (uc *ProcessBatchUseCase) runFile(ctx context.Context, file domain.InputFile) domain.FileResult {
	result := domain.FileResult{
		OriginalFilename: file.Name,
		Status:           domain.StatusError,
	}

	mimeType, data, err := DecodeDataURL(file.Data)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	fileCtx, cancel := context.WithTimeout(ctx, uc.cfg.FileTimeout)
	defer cancel()

	record, newName, err := uc.processor.Process(fileCtx, file.Name, mimeType, data)
	if err != nil {
		// Name the per-file limit only when this context actually lapsed;
		// a timeout inside a single remote call reports itself.
		if domain.IsKind(err, domain.ErrTimeout) && errors.Is(fileCtx.Err(), context.DeadlineExceeded) {
			result.Error = fmt.Sprintf("processing %q exceeded the %s per-file budget", file.Name, uc.cfg.FileTimeout)
		} else {
			result.Error = err.Error()
		}
		return result
	}

	result.Status = domain.StatusSuccess
	result.NewFilename = newName
	result.Analysis = &record
	return result
}
