// Package heuristic infers document metadata from filenames and embedded
// text when the analysis service is unavailable. Matching is keyword-based
// against an injected read-only table, so tests can substitute their own.
package heuristic

import (
	"strings"

	"github.com/ymdk/docrenamer/internal/core/domain"
)

type Keyword struct {
	Match string `yaml:"match"`
	Label string `yaml:"label"`
}

// Table holds ordered keyword rules. Earlier entries win; Latin keywords
// match case-insensitively.
type Table struct {
	Organizations []Keyword `yaml:"organizations"`
	DocumentTypes []Keyword `yaml:"document_types"`
}

type Classifier struct {
	table Table
}

func NewClassifier(table Table) *Classifier {
	return &Classifier{table: table}
}

// Classify produces a best-effort record from free text (typically the
// original filename plus any locally extracted document text). Confidence
// is fixed low to keep heuristic results distinguishable downstream.
func (c *Classifier) Classify(text string) domain.AnalysisRecord {
	folded := strings.ToLower(text)

	record := domain.AnalysisRecord{
		IssuingOrganization: matchKeyword(folded, c.table.Organizations, domain.DefaultOrganization),
		DocumentType:        matchKeyword(folded, c.table.DocumentTypes, domain.DefaultDocumentType),
		Confidence:          domain.FallbackConfidence,
		Fallback:            true,
	}
	record.DocumentName = record.IssuingOrganization + "_" + record.DocumentType
	return record
}

func matchKeyword(folded string, rules []Keyword, fallback string) string {
	for _, rule := range rules {
		if strings.Contains(folded, strings.ToLower(rule.Match)) {
			return rule.Label
		}
	}
	return fallback
}
