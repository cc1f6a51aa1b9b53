// Package dateext normalizes document dates found in structured fields or
// free text to canonical YYYYMMDD, including Reiwa-era notation.
package dateext

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Reiwa era: Gregorian year = 2018 + era year, 令和元年 being year 1.
const reiwaOffset = 2018

var (
	reReiwa     = regexp.MustCompile(`令和\s*(元|\d{1,2})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*日?`)
	reJapanese  = regexp.MustCompile(`(\d{4})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*日?`)
	reDelimited = regexp.MustCompile(`(\d{4})[/-](\d{1,2})[/-](\d{1,2})`)
	reCompact   = regexp.MustCompile(`(20\d{2})(\d{2})(\d{2})`)
)

// Extract scans text for the first recognizable date and returns it as
// YYYYMMDD. The bool reports whether anything usable was found. A string
// that is already canonical extracts to itself. Candidates are checked in
// order within each pattern, so a calendar-invalid hit never masks a
// later valid one.
func Extract(text string) (string, bool) {
	for _, m := range reReiwa.FindAllStringSubmatch(text, -1) {
		eraYear := 1
		if m[1] != "元" {
			eraYear, _ = strconv.Atoi(m[1])
		}
		if date, ok := canonical(reiwaOffset+eraYear, m[2], m[3]); ok {
			return date, true
		}
	}

	for _, re := range []*regexp.Regexp{reJapanese, reDelimited, reCompact} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			year, _ := strconv.Atoi(m[1])
			if date, ok := canonical(year, m[2], m[3]); ok {
				return date, true
			}
		}
	}

	return "", false
}

// Today returns the current date in canonical form, used as the default
// when neither the service nor the text supplies one.
func Today() string {
	return time.Now().Format("20060102")
}

func canonical(year int, monthStr, dayStr string) (string, bool) {
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	// Rejects impossible combinations like Feb 30 via normalization.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d%02d%02d", year, month, day), true
}
