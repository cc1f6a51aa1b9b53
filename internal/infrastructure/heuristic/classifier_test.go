package heuristic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ymdk/docrenamer/internal/core/domain"
)

func TestClassifyMatchesLatinKeywordsCaseInsensitively(t *testing.T) {
	c := NewClassifier(DefaultTable())

	record := c.Classify("INVOICE_Rakuten.pdf")
	if record.IssuingOrganization != "楽天" {
		t.Fatalf("expected 楽天, got %q", record.IssuingOrganization)
	}
	if record.DocumentType != "請求書" {
		t.Fatalf("expected 請求書, got %q", record.DocumentType)
	}
	if record.Confidence != domain.FallbackConfidence {
		t.Fatalf("expected fallback confidence %v, got %v", domain.FallbackConfidence, record.Confidence)
	}
	if !record.Fallback {
		t.Fatal("expected record marked as fallback")
	}
}

func TestClassifyFallsBackToDefaults(t *testing.T) {
	c := NewClassifier(DefaultTable())

	record := c.Classify("scan_0001.pdf")
	if record.IssuingOrganization != domain.DefaultOrganization {
		t.Fatalf("expected default organization, got %q", record.IssuingOrganization)
	}
	if record.DocumentType != domain.DefaultDocumentType {
		t.Fatalf("expected default document type, got %q", record.DocumentType)
	}
	if record.DocumentName != domain.DefaultOrganization+"_"+domain.DefaultDocumentType {
		t.Fatalf("unexpected document name %q", record.DocumentName)
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	c := NewClassifier(Table{
		DocumentTypes: []Keyword{
			{Match: "診療報酬明細", Label: "診療報酬明細書"},
			{Match: "明細", Label: "明細書"},
		},
	})

	record := c.Classify("診療報酬明細_2024.pdf")
	if record.DocumentType != "診療報酬明細書" {
		t.Fatalf("expected specific rule to win, got %q", record.DocumentType)
	}
}

func TestLoadTableFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	content := []byte(`
organizations:
  - match: acme
    label: ACME商事
document_types:
  - match: 納品
    label: 納品書
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}

	record := NewClassifier(table).Classify("ACME_納品_202401.pdf")
	if record.IssuingOrganization != "ACME商事" || record.DocumentType != "納品書" {
		t.Fatalf("unexpected classification: %+v", record)
	}
}

func TestLoadTableRejectsEmptyRuleset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	if _, err := LoadTable(path); err == nil {
		t.Fatal("expected error for empty table")
	}
}
