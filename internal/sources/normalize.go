package sources

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// round1 rounds to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// score clamps a 0-10 value, returning nil for NaN input.
func score(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	x = math.Max(0, math.Min(10, round1(x)))
	return &x
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// splitList splits a comma separated field, trimming and dropping blanks.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`[ \t]+`)
)

func stripHTML(s string) string {
	s = strings.ReplaceAll(s, "<br>", "\n")
	s = htmlTagRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func totalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// synthesizeDate builds YYYY-MM-DD from split parts; missing month or day
// default to 01. A missing year yields nil.
func synthesizeDate(year, month, day *int) *string {
	if year == nil || *year <= 0 {
		return nil
	}
	m, d := 1, 1
	if month != nil && *month >= 1 && *month <= 12 {
		m = *month
	}
	if day != nil && *day >= 1 && *day <= 31 {
		d = *day
	}
	s := fmt.Sprintf("%04d-%02d-%02d", *year, m, d)
	return &s
}

func yearDate(year int) *string {
	return synthesizeDate(&year, nil, nil)
}

// Layouts without a day or month parse to the 1st / January.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2006",
	"January 2006",
	"Jan, 2006",
}

// parseDate normalizes free text such as "Oct 2, 2007" to YYYY-MM-DD.
// Unparsable input yields nil.
func parseDate(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.Format("2006-01-02")
			return &out
		}
	}
	return nil
}
