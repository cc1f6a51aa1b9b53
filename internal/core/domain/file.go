package domain

import "time"

// Defaults applied when the analysis service omits a field. The Japanese
// labels match the downstream filing convention the workflow feeds.
const (
	DefaultOrganization = "不明機関"
	DefaultDocumentType = "その他書類"

	// FallbackConfidence is the fixed score assigned when the record was
	// produced by keyword heuristics instead of the analysis service.
	FallbackConfidence = 0.3
)

type FileStatus string

const (
	StatusSuccess FileStatus = "success"
	StatusError   FileStatus = "error"
)

// InputFile is one entry of a batch request. Data carries a
// "data:<mime>;base64,<payload>" URL as produced by browser FileReader.
type InputFile struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// AnalysisRecord is the normalized reduction of one workflow run.
// Constructed once per file and immediately consumed by filename generation.
type AnalysisRecord struct {
	IssuingOrganization string  `json:"issuing_organization"`
	DocumentType        string  `json:"document_type"`
	DocumentDate        string  `json:"document_date"`
	DocumentName        string  `json:"document_name"`
	Confidence          float64 `json:"confidence"`

	// Fallback marks records produced by heuristic classification after a
	// remote failure; RemoteError keeps the underlying cause visible.
	Fallback    bool   `json:"fallback,omitempty"`
	RemoteError string `json:"remote_error,omitempty"`
}

// FileResult is the per-file outcome. Exactly one per input file, never
// mutated after creation.
type FileResult struct {
	OriginalFilename string          `json:"original_filename"`
	NewFilename      string          `json:"new_filename,omitempty"`
	Analysis         *AnalysisRecord `json:"analysis"`
	Status           FileStatus      `json:"status"`
	Error            string          `json:"error,omitempty"`
	ProcessingTimeMS int64           `json:"processing_time_ms"`
}

// BatchSummary is derived once after the batch loop terminates.
type BatchSummary struct {
	Total           int     `json:"total"`
	Successful      int     `json:"successful"`
	Failed          int     `json:"failed"`
	SuccessRate     float64 `json:"success_rate"`
	TotalDurationMS int64   `json:"total_duration_ms"`
}

type BatchResult struct {
	Results []FileResult `json:"results"`
	Summary BatchSummary `json:"summary"`
}

// Summarize computes the aggregate view over a finished result list.
// Total reflects the files actually processed, which may be fewer than
// submitted when the global budget ran out.
func Summarize(results []FileResult, elapsed time.Duration) BatchSummary {
	summary := BatchSummary{
		Total:           len(results),
		TotalDurationMS: elapsed.Milliseconds(),
	}
	for _, r := range results {
		if r.Status == StatusSuccess {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	if summary.Total > 0 {
		summary.SuccessRate = float64(summary.Successful) / float64(summary.Total) * 100
	}
	return summary
}
