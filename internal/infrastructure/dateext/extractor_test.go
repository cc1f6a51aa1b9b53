package dateext

import "testing"

func TestExtractReiwaEra(t *testing.T) {
	got, ok := Extract("発行日 令和5年3月15日 支払基金")
	if !ok {
		t.Fatal("expected a date")
	}
	if got != "20230315" {
		t.Fatalf("expected 20230315, got %q", got)
	}
}

func TestExtractReiwaFirstYear(t *testing.T) {
	got, ok := Extract("令和元年10月1日")
	if !ok || got != "20191001" {
		t.Fatalf("expected 20191001, got %q (found=%v)", got, ok)
	}
}

func TestExtractGregorianVariants(t *testing.T) {
	cases := map[string]string{
		"2024年1月9日 発行":    "20240109",
		"date: 2024/1/9":  "20240109",
		"date: 2024-01-9": "20240109",
		"20240109_請求書":    "20240109",
	}
	for in, want := range cases {
		got, ok := Extract(in)
		if !ok || got != want {
			t.Fatalf("Extract(%q) = %q (found=%v), want %q", in, got, ok, want)
		}
	}
}

func TestExtractCanonicalIsIdentity(t *testing.T) {
	got, ok := Extract("20230315")
	if !ok || got != "20230315" {
		t.Fatalf("expected identity on canonical input, got %q (found=%v)", got, ok)
	}
}

func TestExtractInvalidHitDoesNotMaskLaterValidDate(t *testing.T) {
	got, ok := Extract("整理番号 2024/13/40 発行日 2024/1/9")
	if !ok || got != "20240109" {
		t.Fatalf("expected 20240109 past the invalid candidate, got %q (found=%v)", got, ok)
	}

	got, ok = Extract("令和5年13月1日 令和5年3月15日")
	if !ok || got != "20230315" {
		t.Fatalf("expected 20230315 past the invalid era candidate, got %q (found=%v)", got, ok)
	}
}

func TestExtractRejectsImpossibleDates(t *testing.T) {
	if got, ok := Extract("2024年2月30日"); ok {
		t.Fatalf("expected no date for Feb 30, got %q", got)
	}
	if _, ok := Extract("no dates here"); ok {
		t.Fatal("expected no date in plain text")
	}
}
