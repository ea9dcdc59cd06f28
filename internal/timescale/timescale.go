package timescale

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InstantaneousThreshold is the largest period still treated as instantaneous.
const InstantaneousThreshold = 60 * time.Second

// Function describes how a value was aggregated over its period.
type Function int

const (
	FunctionUnknown Function = iota
	FunctionMean
	FunctionMinimum
	FunctionMaximum
	FunctionTotal
)

var functionNames = map[Function]string{
	FunctionUnknown: "UNKNOWN",
	FunctionMean:    "MEAN",
	FunctionMinimum: "MINIMUM",
	FunctionMaximum: "MAXIMUM",
	FunctionTotal:   "TOTAL",
}

func (f Function) String() string {
	if name, ok := functionNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Function(%d)", int(f))
}

// Valid reports whether f is one of the declared constants.
func (f Function) Valid() bool {
	_, ok := functionNames[f]
	return ok
}

// ParseFunction maps a case-insensitive name onto a Function.
func ParseFunction(value string) (Function, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "unknown":
		return FunctionUnknown, nil
	case "mean", "average", "avg":
		return FunctionMean, nil
	case "minimum", "min":
		return FunctionMinimum, nil
	case "maximum", "max":
		return FunctionMaximum, nil
	case "total", "sum", "accumulation":
		return FunctionTotal, nil
	}
	return FunctionUnknown, fmt.Errorf("%w: unrecognised time scale function %q", ErrInvalidArgument, value)
}

// TimeScale is a period of support plus the function used to aggregate over it.
// The zero value is unset and is rejected by the validators; build instances
// with New or NewWithFunction.
type TimeScale struct {
	period   time.Duration
	function Function
}

// New returns a time scale with an UNKNOWN function.
func New(period time.Duration) (TimeScale, error) {
	return NewWithFunction(period, FunctionUnknown)
}

// NewWithFunction returns a time scale with an explicit function.
func NewWithFunction(period time.Duration, function Function) (TimeScale, error) {
	if period <= 0 {
		return TimeScale{}, fmt.Errorf("%w: time scale period must be positive, got %s", ErrInvalidArgument, period)
	}
	if !function.Valid() {
		return TimeScale{}, fmt.Errorf("%w: unsupported time scale function %s", ErrInvalidArgument, function)
	}
	return TimeScale{period: period, function: function}, nil
}

// MustNew is like NewWithFunction but panics on invalid input.
func MustNew(period time.Duration, function Function) TimeScale {
	ts, err := NewWithFunction(period, function)
	if err != nil {
		panic(err)
	}
	return ts
}

// Default returns the instantaneous scale (60s, UNKNOWN).
func Default() TimeScale {
	return TimeScale{period: InstantaneousThreshold, function: FunctionUnknown}
}

// Period returns the period of support.
func (t TimeScale) Period() time.Duration { return t.period }

// Function returns the aggregation function.
func (t TimeScale) Function() Function { return t.function }

// IsZero reports whether t was never constructed.
func (t TimeScale) IsZero() bool { return t.period == 0 }

// IsInstantaneous is true when the period is at most one minute, whatever the function.
func (t TimeScale) IsInstantaneous() bool {
	return t.period <= InstantaneousThreshold
}

// Equal reports whether both period and function match.
func (t TimeScale) Equal(other TimeScale) bool {
	return t.period == other.period && t.function == other.function
}

// Compare orders by period, then by function.
func (t TimeScale) Compare(other TimeScale) int {
	switch {
	case t.period < other.period:
		return -1
	case t.period > other.period:
		return 1
	case t.function < other.function:
		return -1
	case t.function > other.function:
		return 1
	}
	return 0
}

func (t TimeScale) String() string {
	if t.IsInstantaneous() {
		return "[INSTANTANEOUS]"
	}
	return "[" + FormatPeriod(t.period) + "," + t.function.String() + "]"
}

// FormatPeriod renders a duration in ISO-8601 form, e.g. PT1H30M or PT0.5S.
func FormatPeriod(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	b.WriteString("PT")

	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	nanos := d - seconds*time.Second

	if hours > 0 {
		b.WriteString(strconv.FormatInt(int64(hours), 10))
		b.WriteByte('H')
	}
	if minutes > 0 {
		b.WriteString(strconv.FormatInt(int64(minutes), 10))
		b.WriteByte('M')
	}
	if seconds > 0 || nanos > 0 {
		b.WriteString(strconv.FormatInt(int64(seconds), 10))
		if nanos > 0 {
			frac := strings.TrimRight(fmt.Sprintf("%09d", int64(nanos)), "0")
			b.WriteByte('.')
			b.WriteString(frac)
		}
		b.WriteByte('S')
	}
	return b.String()
}
