package sources

import "testing"

func TestSynthesizeDate(t *testing.T) {
	year := 2020
	month := 7
	day := 9

	tests := []struct {
		name             string
		year, month, day *int
		want             string
	}{
		{"year only", &year, nil, nil, "2020-01-01"},
		{"year and month", &year, &month, nil, "2020-07-01"},
		{"full", &year, &month, &day, "2020-07-09"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := synthesizeDate(tt.year, tt.month, tt.day)
			if got == nil || *got != tt.want {
				t.Errorf("expected %s, got %v", tt.want, got)
			}
		})
	}

	if got := synthesizeDate(nil, &month, &day); got != nil {
		t.Errorf("expected nil without a year, got %s", *got)
	}
}

func TestParseDate(t *testing.T) {
	tests := map[string]string{
		"Oct 2, 2007":     "2007-10-02",
		"2 Oct, 2007":     "2007-10-02",
		"October 2, 2007": "2007-10-02",
		"Oct 2007":        "2007-10-01",
		"2007":            "2007-01-01",
		"2007-10-02":      "2007-10-02",
	}
	for in, want := range tests {
		got := parseDate(in)
		if got == nil || *got != want {
			t.Errorf("parseDate(%q): expected %s, got %v", in, want, got)
		}
	}

	for _, bad := range []string{"", "Coming soon", "TBA", "Q3 2024"} {
		if got := parseDate(bad); got != nil {
			t.Errorf("parseDate(%q): expected nil, got %s", bad, *got)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" Valve, , Hidden Path ,")
	if len(got) != 2 || got[0] != "Valve" || got[1] != "Hidden Path" {
		t.Errorf("unexpected split: %#v", got)
	}
	if got := splitList(""); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestScoreClamps(t *testing.T) {
	if s := score(12.3); *s != 10 {
		t.Errorf("expected clamp to 10, got %v", *s)
	}
	if s := score(-1); *s != 0 {
		t.Errorf("expected clamp to 0, got %v", *s)
	}
	if s := score(7.26); *s != 7.3 {
		t.Errorf("expected 7.3, got %v", *s)
	}
}
