package timescale

import (
	"errors"
	"testing"
	"time"
)

func TestNewRejectsNonPositivePeriods(t *testing.T) {
	for _, period := range []time.Duration{0, -time.Nanosecond, -time.Hour} {
		if _, err := New(period); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("New(%s): expected invalid argument, got %v", period, err)
		}
		if _, err := NewWithFunction(period, FunctionMean); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("NewWithFunction(%s): expected invalid argument, got %v", period, err)
		}
	}
}

func TestNewRejectsUnknownFunctionConstant(t *testing.T) {
	if _, err := NewWithFunction(time.Hour, Function(42)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestNewDefaultsToUnknownFunction(t *testing.T) {
	ts, err := New(time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Function() != FunctionUnknown {
		t.Fatalf("expected UNKNOWN function, got %s", ts.Function())
	}
	if ts.Period() != time.Hour {
		t.Fatalf("expected 1h period, got %s", ts.Period())
	}
}

func TestDefaultIsInstantaneous(t *testing.T) {
	ts := Default()
	if ts.Period() != 60*time.Second || ts.Function() != FunctionUnknown {
		t.Fatalf("unexpected default %v", ts)
	}
	if !ts.IsInstantaneous() {
		t.Fatalf("expected default to be instantaneous")
	}
}

func TestIsInstantaneousThreshold(t *testing.T) {
	functions := []Function{FunctionUnknown, FunctionMean, FunctionMinimum, FunctionMaximum, FunctionTotal}
	tests := []struct {
		period time.Duration
		want   bool
	}{
		{time.Nanosecond, true},
		{time.Second, true},
		{59 * time.Second, true},
		{60 * time.Second, true},
		{60*time.Second + time.Nanosecond, false},
		{61 * time.Second, false},
		{time.Hour, false},
	}
	for _, tt := range tests {
		for _, fn := range functions {
			ts := MustNew(tt.period, fn)
			if got := ts.IsInstantaneous(); got != tt.want {
				t.Fatalf("%s/%s: IsInstantaneous() = %v, want %v", tt.period, fn, got, tt.want)
			}
		}
	}
}

func TestEqualityAndOrdering(t *testing.T) {
	a := MustNew(time.Hour, FunctionMean)
	b := MustNew(time.Hour, FunctionMean)
	c := MustNew(time.Hour, FunctionTotal)
	d := MustNew(2*time.Hour, FunctionUnknown)

	if a != b || !a.Equal(b) {
		t.Fatalf("expected %v to equal %v", a, b)
	}
	if a.Equal(c) {
		t.Fatalf("expected %v to differ from %v", a, c)
	}
	if a.Compare(c) >= 0 {
		t.Fatalf("expected MEAN to sort before TOTAL for equal periods")
	}
	if c.Compare(d) >= 0 {
		t.Fatalf("expected shorter period to sort first regardless of function")
	}
	if a.Compare(b) != 0 {
		t.Fatalf("expected equal scales to compare as 0")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		ts   TimeScale
		want string
	}{
		{MustNew(30*time.Second, FunctionMean), "[INSTANTANEOUS]"},
		{Default(), "[INSTANTANEOUS]"},
		{MustNew(time.Hour, FunctionMean), "[PT1H,MEAN]"},
		{MustNew(90*time.Minute, FunctionTotal), "[PT1H30M,TOTAL]"},
		{MustNew(24*time.Hour, FunctionMaximum), "[PT24H,MAXIMUM]"},
		{MustNew(61*time.Second+500*time.Millisecond, FunctionUnknown), "[PT1M1.5S,UNKNOWN]"},
	}
	for _, tt := range tests {
		if got := tt.ts.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseFunction(t *testing.T) {
	tests := map[string]Function{
		"mean":         FunctionMean,
		"MEAN":         FunctionMean,
		" min ":        FunctionMinimum,
		"maximum":      FunctionMaximum,
		"sum":          FunctionTotal,
		"accumulation": FunctionTotal,
		"":             FunctionUnknown,
		"unknown":      FunctionUnknown,
	}
	for in, want := range tests {
		got, err := ParseFunction(in)
		if err != nil {
			t.Fatalf("ParseFunction(%q): unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseFunction(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseFunction("median"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for median, got %v", err)
	}
}
