package naming

import (
	"strings"
	"testing"
)

func TestSanitizeStripsIllegalCharacters(t *testing.T) {
	got := Sanitize(`請求書/2024:*?"<>|控え`)
	for _, c := range `/\:*?"<>|` {
		if strings.ContainsRune(got, c) {
			t.Fatalf("output %q still contains %q", got, c)
		}
	}
	if got != "請求書_2024_控え" {
		t.Fatalf("unexpected sanitized name: %q", got)
	}
}

func TestSanitizeCollapsesWhitespaceRuns(t *testing.T) {
	got := Sanitize("医療費  通知\t書  ")
	if strings.ContainsAny(got, " \t") {
		t.Fatalf("output %q contains whitespace", got)
	}
	if got != "医療費_通知_書" {
		t.Fatalf("unexpected sanitized name: %q", got)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		`a/b\c:d*e?f"g<h>i|j`,
		"  leading and trailing  ",
		"___already___clean___",
		"楽天_請求書_20240101",
		"",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Fatalf("sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSanitizeTruncatesLongNames(t *testing.T) {
	got := SanitizeN(strings.Repeat("あ", 300), 50)
	if n := len([]rune(got)); n > 50 {
		t.Fatalf("expected at most 50 runes, got %d", n)
	}
}

func TestBuildFilename(t *testing.T) {
	got := BuildFilename("20230501", "楽天_請求書", "invoice_rakuten.PDF", DefaultMaxLength)
	if got != "20230501_楽天_請求書.pdf" {
		t.Fatalf("unexpected filename: %q", got)
	}
}
