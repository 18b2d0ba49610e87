package catalog

import (
	"testing"
	"time"
)

func TestDurationFormatted(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{125000, "2:05"},
		{59000, "0:59"},
		{0, "0:00"},
		{60000, "1:00"},
		{59999, "0:59"},
		{3723000, "62:03"},
	}

	for _, tt := range tests {
		tr := Track{Duration: time.Duration(tt.ms) * time.Millisecond}
		if got := tr.DurationFormatted(); got != tt.want {
			t.Errorf("DurationFormatted(%dms) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestFormatDuration_Negative(t *testing.T) {
	if got := FormatDuration(-time.Second); got != "0:00" {
		t.Errorf("FormatDuration(-1s) = %q, want 0:00", got)
	}
}

func TestIndexOf(t *testing.T) {
	tracks := []Track{{ID: 3}, {ID: 5}, {ID: 9}}

	if got := IndexOf(tracks, 5); got != 1 {
		t.Errorf("IndexOf(5) = %d, want 1", got)
	}
	if got := IndexOf(tracks, 42); got != -1 {
		t.Errorf("IndexOf(42) = %d, want -1", got)
	}
}

func TestWithout(t *testing.T) {
	tracks := []Track{{ID: 1}, {ID: 2}, {ID: 1}, {ID: 3}}

	got := Without(tracks, 1)

	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Errorf("Without(1) = %v, want [2 3]", got)
	}
	if len(tracks) != 4 {
		t.Error("Without must not modify its input")
	}
}
