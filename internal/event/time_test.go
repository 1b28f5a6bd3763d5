package event

import "testing"

func TestExtractTimeRange(t *testing.T) {
	ti := ExtractTime("Вечеринка 18:00 - 22:00, вход свободный")
	if ti == nil {
		t.Fatal("expected a time range, got nil")
	}
	if ti.Start != "18:00" || ti.End != "22:00" {
		t.Errorf("expected 18:00-22:00, got %s-%s", ti.Start, ti.End)
	}
	if !ti.HasEndTime {
		t.Error("expected HasEndTime to be true")
	}
	if ti.Full != "18:00-22:00" {
		t.Errorf("expected full form 18:00-22:00, got %s", ti.Full)
	}
}

func TestExtractTimeSingle(t *testing.T) {
	ti := ExtractTime("Начало в 19:30")
	if ti == nil {
		t.Fatal("expected a single time, got nil")
	}
	if ti.Start != "19:30" || ti.End != "" || ti.HasEndTime {
		t.Errorf("expected single 19:30 without end, got %+v", ti)
	}
	if ti.Full != "19:30" {
		t.Errorf("expected full form 19:30, got %s", ti.Full)
	}
}

func TestExtractTimeZeroPadding(t *testing.T) {
	ti := ExtractTime("сбор в 9:05")
	if ti == nil {
		t.Fatal("expected a time, got nil")
	}
	if ti.Start != "09:05" {
		t.Errorf("expected zero-padded 09:05, got %s", ti.Start)
	}
}

func TestExtractTimeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty text", ""},
		{"no time at all", "концерт в парке"},
		{"hour out of range", "25:61"},
		{"minute out of range", "18:75"},
		{"invalid range end", "18:00 - 24:30"},
		{"date-like dd.mm", "14.06 | Концерт"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ti := ExtractTime(tt.text); ti != nil {
				t.Errorf("expected nil, got %+v", ti)
			}
		})
	}
}

func TestExtractTimeRangeWinsOverSingle(t *testing.T) {
	ti := ExtractTime("сбор 17:30, программа 18:00-21:00")
	if ti == nil || !ti.HasEndTime {
		t.Fatalf("expected the range to win, got %+v", ti)
	}
	if ti.Start != "18:00" || ti.End != "21:00" {
		t.Errorf("expected 18:00-21:00, got %s-%s", ti.Start, ti.End)
	}
}

func TestExtractTimeInvalidRangeNoFallback(t *testing.T) {
	// The range matches syntactically but has invalid digits; extraction
	// must not fall back to matching "18:00" as a single time.
	if ti := ExtractTime("18:00 - 26:00"); ti != nil {
		t.Errorf("expected nil for invalid range, got %+v", ti)
	}
}
