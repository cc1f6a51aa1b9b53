package ports

import "context"

// WorkflowResult is the raw, still-unreduced outcome of one workflow run.
type WorkflowResult struct {
	Status  string
	Outputs map[string]any
}

// AnalysisClient talks to the external document-analysis service.
// Upload returns the opaque handle referenced by the subsequent RunWorkflow
// call. Both calls are safe to retry; a retry re-uploads.
type AnalysisClient interface {
	Upload(ctx context.Context, filename, mimeType string, data []byte) (string, error)
	RunWorkflow(ctx context.Context, fileID, mimeType string) (WorkflowResult, error)
}

// TextPeeker extracts a bounded amount of plain text from a file body for
// heuristic fallback classification. Failure to extract is not an error
// condition; implementations return empty text instead.
type TextPeeker interface {
	Peek(data []byte, mimeType string) string
}
