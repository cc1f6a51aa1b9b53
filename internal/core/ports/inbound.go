package ports

import (
	"context"

	"github.com/ymdk/docrenamer/internal/core/domain"
)

// FileProcessor is the inbound contract for processing one decoded file.
type FileProcessor interface {
	Process(ctx context.Context, filename, mimeType string, data []byte) (domain.AnalysisRecord, string, error)
}

// BatchProcessor is the inbound contract for the sequential batch pipeline.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, files []domain.InputFile) (domain.BatchResult, error)
}
