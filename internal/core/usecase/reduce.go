package usecase

import (
	"strings"

	"github.com/ymdk/docrenamer/internal/core/domain"
	"github.com/ymdk/docrenamer/internal/infrastructure/dateext"
)

// Output field names the workflow may produce, in precedence order:
// structured fields first, free text as a second chance for gaps.
var (
	organizationKeys = []string{"issuing_organization", "issuer"}
	documentTypeKeys = []string{"document_type", "doc_type"}
	documentDateKeys = []string{"document_date", "date"}
	documentNameKeys = []string{"document_name", "title"}
	freeTextKeys     = []string{"text", "result"}
)

// reduceOutputs turns raw workflow outputs into a normalized record.
// Missing fields receive the documented defaults; confidence rewards each
// field the service actually supplied.
func (uc *ProcessFileUseCase) reduceOutputs(outputs map[string]any) domain.AnalysisRecord {
	record := domain.AnalysisRecord{
		IssuingOrganization: firstString(outputs, organizationKeys),
		DocumentType:        firstString(outputs, documentTypeKeys),
		DocumentName:        firstString(outputs, documentNameKeys),
	}

	dateFound := false
	if raw := firstString(outputs, documentDateKeys); raw != "" {
		if date, ok := dateext.Extract(raw); ok {
			record.DocumentDate = date
			dateFound = true
		}
	}

	// Second chance: scan free-text outputs for whatever is still missing.
	if record.IssuingOrganization == "" || record.DocumentType == "" || !dateFound {
		if text := firstString(outputs, freeTextKeys); text != "" {
			guess := uc.classifier.Classify(text)
			if record.IssuingOrganization == "" && guess.IssuingOrganization != domain.DefaultOrganization {
				record.IssuingOrganization = guess.IssuingOrganization
			}
			if record.DocumentType == "" && guess.DocumentType != domain.DefaultDocumentType {
				record.DocumentType = guess.DocumentType
			}
			if !dateFound {
				if date, ok := dateext.Extract(text); ok {
					record.DocumentDate = date
					dateFound = true
				}
			}
		}
	}

	if record.IssuingOrganization == "" {
		record.IssuingOrganization = domain.DefaultOrganization
	}
	if record.DocumentType == "" {
		record.DocumentType = domain.DefaultDocumentType
	}
	if !dateFound {
		record.DocumentDate = dateext.Today()
	}
	if record.DocumentName == "" {
		record.DocumentName = record.IssuingOrganization + "_" + record.DocumentType
	}

	record.Confidence = scoreConfidence(record, dateFound)
	return record
}

// scoreConfidence: base 0.5, +0.2 per real organization and document type,
// +0.1 for a date the document itself supplied, capped at 1.0.
func scoreConfidence(record domain.AnalysisRecord, dateFound bool) float64 {
	score := 0.5
	if record.IssuingOrganization != domain.DefaultOrganization {
		score += 0.2
	}
	if record.DocumentType != domain.DefaultDocumentType {
		score += 0.2
	}
	if dateFound {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func firstString(outputs map[string]any, keys []string) string {
	for _, key := range keys {
		if value, ok := outputs[key].(string); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
