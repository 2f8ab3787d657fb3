package repository

import (
	"testing"
	"time"
)

func TestIntervalDurationMinutes(t *testing.T) {
	if d := IntervalDuration("1min"); d != time.Minute {
		t.Fatalf("1min: %v", d)
	}
	if d := IntervalDuration("45min"); d != 45*time.Minute {
		t.Fatalf("45min: %v", d)
	}
}

func TestIntervalDurationHours(t *testing.T) {
	if d := IntervalDuration("1h"); d != time.Hour {
		t.Fatalf("1h: %v", d)
	}
	if d := IntervalDuration("4h"); d != 4*time.Hour {
		t.Fatalf("4h: %v", d)
	}
}

func TestIntervalDurationCalendarTokens(t *testing.T) {
	if d := IntervalDuration("1day"); d != 24*time.Hour {
		t.Fatalf("1day: %v", d)
	}
	if d := IntervalDuration("1week"); d != 7*24*time.Hour {
		t.Fatalf("1week: %v", d)
	}
	// "1month" contains an "h" but must map to the 30-day approximation.
	if d := IntervalDuration("1month"); d != 30*24*time.Hour {
		t.Fatalf("1month: %v", d)
	}
}

func TestIntervalDurationUnrecognizedDefaultsToDay(t *testing.T) {
	if d := IntervalDuration("fortnight"); d != 24*time.Hour {
		t.Fatalf("default: %v", d)
	}
}

func TestIsValidInterval(t *testing.T) {
	if !IsValidInterval("15min") {
		t.Fatalf("15min should be valid")
	}
	if IsValidInterval("2day") {
		t.Fatalf("2day should be invalid")
	}
}
