package timeutil

import (
	"testing"
	"time"
)

func TestParseWindowDefault(t *testing.T) {
	dur, label, err := ParseWindow("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 28 * day; dur != want {
		t.Fatalf("expected %v, got %v", want, dur)
	}
	if label != "4w" {
		t.Fatalf("expected label 4w, got %s", label)
	}
}

func TestParseWindowComposite(t *testing.T) {
	dur, label, err := ParseWindow("1w 2d6h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := (7*24 + 2*24 + 6) * time.Hour; dur != want {
		t.Fatalf("expected %v, got %v", want, dur)
	}
	if label != "1w2d6h" {
		t.Fatalf("unexpected label: %s", label)
	}
}

func TestParseWindowMonthsAndYears(t *testing.T) {
	dur, label, err := ParseWindow("1mo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dur != 30*day || label != "4w2d" {
		t.Fatalf("got %v %s", dur, label)
	}
	if dur, _, _ := ParseWindow("1y"); dur != 365*day {
		t.Fatalf("got %v", dur)
	}
}

func TestParseWindowAll(t *testing.T) {
	dur, label, err := ParseWindow(" ALL ")
	if err != nil || dur != 0 || label != All {
		t.Fatalf("got %v %q %v", dur, label, err)
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"noop", "3x", "0d", "5 minutes"} {
		if _, _, err := ParseWindow(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestBounds(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	since, until, label, err := Bounds("2d", now)
	if err != nil {
		t.Fatal(err)
	}
	if !since.Equal(now.Add(-48*time.Hour)) || !until.Equal(now) || label != "2d" {
		t.Fatalf("got %v %v %s", since, until, label)
	}

	since, until, _, err = Bounds("all", now)
	if err != nil || !since.IsZero() || !until.Equal(now) {
		t.Fatalf("all: got %v %v %v", since, until, err)
	}
}

func TestMonthOf(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	got, err := MonthOf("", now, time.UTC)
	if err != nil || !got.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("got %v %v", got, err)
	}
	got, err = MonthOf("2025-02", now, time.UTC)
	if err != nil || got.Month() != time.February || got.Year() != 2025 {
		t.Fatalf("got %v %v", got, err)
	}
	if _, err := MonthOf("February", now, time.UTC); err == nil {
		t.Fatal("expected error")
	}
}
