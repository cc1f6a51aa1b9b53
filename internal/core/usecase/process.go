package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ymdk/docrenamer/internal/core/domain"
	"github.com/ymdk/docrenamer/internal/core/ports"
	"github.com/ymdk/docrenamer/internal/infrastructure/dateext"
	"github.com/ymdk/docrenamer/internal/infrastructure/dify"
	"github.com/ymdk/docrenamer/internal/infrastructure/heuristic"
	"github.com/ymdk/docrenamer/internal/infrastructure/naming"
	"github.com/ymdk/docrenamer/internal/infrastructure/resilience"
)

// ProcessFileUseCase runs the upload→workflow sequence for one file and
// reduces the response to a renamed-file outcome.
//
// Remote failures other than deadline expiry degrade to heuristic
// classification instead of failing the file: a best-effort rename with a
// low confidence score beats no result for this workload. Deadline expiry
// stays an error so the batch budget keeps its meaning.
type ProcessFileUseCase struct {
	client     ports.AnalysisClient
	exec       *resilience.Executor
	classifier *heuristic.Classifier
	peeker     ports.TextPeeker

	maxFileSize   int64
	maxNameLength int
}

func NewProcessFileUseCase(
	client ports.AnalysisClient,
	exec *resilience.Executor,
	classifier *heuristic.Classifier,
	peeker ports.TextPeeker,
	maxFileSize int64,
	maxNameLength int,
) *ProcessFileUseCase {
	return &ProcessFileUseCase{
		client:        client,
		exec:          exec,
		classifier:    classifier,
		peeker:        peeker,
		maxFileSize:   maxFileSize,
		maxNameLength: maxNameLength,
	}
}

// Process validates the file, runs the remote analysis with retry, and
// returns the normalized record plus the generated filename.
func (uc *ProcessFileUseCase) Process(
	ctx context.Context,
	filename, mimeType string,
	data []byte,
) (domain.AnalysisRecord, string, error) {
	mimeType = ResolveMIME(filename, mimeType)
	if err := validateFile(filename, mimeType, int64(len(data)), uc.maxFileSize); err != nil {
		return domain.AnalysisRecord{}, "", err
	}

	record, err := uc.analyze(ctx, filename, mimeType, data)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return domain.AnalysisRecord{}, "", domain.WrapError(domain.ErrTimeout, "analyze "+filename, err)
		}
		record = uc.fallback(filename, mimeType, data, err)
	}

	newName := naming.BuildFilename(record.DocumentDate, record.DocumentName, filename, uc.maxNameLength)
	return record, newName, nil
}

// analyze performs both remote steps under one retry scope; a retried
// attempt re-uploads, since upload handles are single-use.
func (uc *ProcessFileUseCase) analyze(
	ctx context.Context,
	filename, mimeType string,
	data []byte,
) (domain.AnalysisRecord, error) {
	var result ports.WorkflowResult

	err := uc.exec.Execute(ctx, "analysis", func(ctx context.Context) error {
		fileID, err := uc.client.Upload(ctx, filename, mimeType, data)
		if err != nil {
			return domain.WrapError(domain.ErrRemoteUpload, "upload "+filename, err)
		}

		result, err = uc.client.RunWorkflow(ctx, fileID, mimeType)
		if err != nil {
			return domain.WrapError(domain.ErrRemoteWorkflow, "workflow "+filename, err)
		}
		return nil
	}, dify.ClassifyError)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}

	return uc.reduceOutputs(result.Outputs), nil
}

// fallback builds a heuristic record from the filename and any text the
// document body yields locally.
func (uc *ProcessFileUseCase) fallback(filename, mimeType string, data []byte, cause error) domain.AnalysisRecord {
	slog.Warn("analysis_fallback", "filename", filename, "error", cause)

	text := filename
	if uc.peeker != nil {
		if peeked := uc.peeker.Peek(data, mimeType); peeked != "" {
			text += "\n" + peeked
		}
	}

	record := uc.classifier.Classify(text)
	if date, ok := dateext.Extract(text); ok {
		record.DocumentDate = date
	} else {
		record.DocumentDate = dateext.Today()
	}
	record.DocumentName = record.IssuingOrganization + "_" + record.DocumentType
	record.RemoteError = cause.Error()
	return record
}
