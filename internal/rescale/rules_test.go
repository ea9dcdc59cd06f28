package rescale

import (
	"testing"
	"time"

	"github.com/miradorstack/scalegate/internal/timescale"
	"github.com/miradorstack/scalegate/internal/validation"
)

func TestLeniencyGuard(t *testing.T) {
	warn := validation.WarnEvent("warn")
	fail := validation.ErrorEvent("fail")

	if got := leniencyGuard(false, true, warn, fail, "pass %d", 1); got.Type != validation.Pass || got.Message != "pass 1" {
		t.Fatalf("expected pass, got %v", got)
	}
	if got := leniencyGuard(true, true, warn, fail, "pass"); got != warn {
		t.Fatalf("expected warn, got %v", got)
	}
	if got := leniencyGuard(true, false, warn, fail, "pass"); got != fail {
		t.Fatalf("expected fail, got %v", got)
	}
}

func TestCheckFunctionChangeNeedsPeriodChange(t *testing.T) {
	tests := []struct {
		name     string
		existing timescale.TimeScale
		desired  timescale.TimeScale
		want     validation.EventType
	}{
		{"unknown to mean warns", ts(time.Hour, timescale.FunctionUnknown), ts(time.Hour, timescale.FunctionMean), validation.Warn},
		{"mean to total fails", ts(time.Hour, timescale.FunctionMean), ts(time.Hour, timescale.FunctionTotal), validation.Error},
		// Equal periods and UNKNOWN on both sides are compatible: nothing changes.
		{"unknown to unknown passes", ts(time.Hour, timescale.FunctionUnknown), ts(time.Hour, timescale.FunctionUnknown), validation.Pass},
		{"different periods pass", ts(time.Hour, timescale.FunctionMean), ts(2*time.Hour, timescale.FunctionTotal), validation.Pass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckFunctionChangeNeedsPeriodChange(tt.existing, tt.desired, "observed"); got.Type != tt.want {
				t.Fatalf("got %v, want %s", got, tt.want)
			}
		})
	}
}

func TestCheckNoAccumulationOfNonAccumulation(t *testing.T) {
	desired := ts(6*time.Hour, timescale.FunctionTotal)
	tests := []struct {
		existing timescale.Function
		want     validation.EventType
	}{
		{timescale.FunctionTotal, validation.Pass},
		{timescale.FunctionUnknown, validation.Warn},
		{timescale.FunctionMean, validation.Error},
		{timescale.FunctionMaximum, validation.Error},
	}
	for _, tt := range tests {
		got := CheckNoAccumulationOfNonAccumulation(ts(time.Hour, tt.existing), desired, "observed")
		if got.Type != tt.want {
			t.Fatalf("%s: got %v, want %s", tt.existing, got, tt.want)
		}
	}

	if got := CheckNoAccumulationOfNonAccumulation(ts(time.Hour, timescale.FunctionMean), ts(6*time.Hour, timescale.FunctionMean), "observed"); got.Type != validation.Pass {
		t.Fatalf("expected pass when the desired function is not TOTAL, got %v", got)
	}
}

func TestIsIntegerMultiple(t *testing.T) {
	tests := []struct {
		numerator   time.Duration
		denominator time.Duration
		want        bool
	}{
		{3 * time.Hour, time.Hour, true},
		{time.Hour, time.Hour, true},
		{4 * time.Hour, 90 * time.Minute, false},
		{time.Hour, 3 * time.Hour, false},
		{3 * time.Second, 1500 * time.Millisecond, true},
		{time.Second + time.Nanosecond, time.Second, false},
		{0, time.Hour, false},
		{time.Hour, 0, false},
		{-2 * time.Hour, time.Hour, false},
		{2 * time.Hour, -time.Hour, false},
	}
	for _, tt := range tests {
		if got := IsIntegerMultiple(tt.numerator, tt.denominator); got != tt.want {
			t.Fatalf("IsIntegerMultiple(%s, %s) = %v, want %v", tt.numerator, tt.denominator, got, tt.want)
		}
	}
}
