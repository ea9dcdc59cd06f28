package timescale

import (
	"fmt"
	"math"
	"math/bits"
	"slices"
	"time"
)

// LeastCommonDuration returns the least common multiple of the distinct durations.
//
// Durations that are whole seconds are reduced in seconds. When any member
// carries a sub-second part the reduction runs in nanoseconds so the
// fractional part is not lost.
func LeastCommonDuration(durations []time.Duration) (time.Duration, error) {
	if len(durations) == 0 {
		return 0, fmt.Errorf("%w: cannot compute the least common duration of an empty set", ErrInvalidArgument)
	}

	distinct := make([]time.Duration, 0, len(durations))
	wholeSeconds := true
	for _, d := range durations {
		if d == 0 {
			return 0, fmt.Errorf("%w: cannot compute the least common duration with a zero duration in %v", ErrInvalidArgument, durations)
		}
		if d < 0 {
			return 0, fmt.Errorf("%w: cannot compute the least common duration with a negative duration %s", ErrInvalidArgument, d)
		}
		if d%time.Second != 0 {
			wholeSeconds = false
		}
		if !slices.Contains(distinct, d) {
			distinct = append(distinct, d)
		}
	}

	if len(distinct) == 1 {
		return distinct[0], nil
	}
	slices.Sort(distinct)

	unit := time.Duration(1)
	if wholeSeconds {
		unit = time.Second
	}

	result := int64(distinct[0] / unit)
	for _, d := range distinct[1:] {
		next, err := lcm(result, int64(d/unit))
		if err != nil {
			return 0, newRescalingError("least common duration",
				fmt.Sprintf("while computing the least common duration of %v", distinct), err)
		}
		result = next
	}

	if result > math.MaxInt64/int64(unit) {
		return 0, newRescalingError("least common duration",
			fmt.Sprintf("the least common duration of %v does not fit a duration", distinct),
			fmt.Errorf("%w: %d x %s", ErrArithmeticOverflow, result, unit))
	}
	return time.Duration(result) * unit, nil
}

// LeastCommonTimeScale returns the smallest time scale to which every
// member of scales can be rescaled.
//
// Instantaneous members never drive the period. At most two distinct
// functions are allowed, and two only when an instantaneous member accounts
// for one of them.
func LeastCommonTimeScale(scales []TimeScale) (TimeScale, error) {
	if len(scales) == 0 {
		return TimeScale{}, fmt.Errorf("%w: cannot compute the least common time scale of an empty set", ErrInvalidArgument)
	}

	distinct := make([]TimeScale, 0, len(scales))
	functions := make(map[Function]struct{})
	hasInstantaneous := false
	for _, ts := range scales {
		if ts.IsZero() {
			return TimeScale{}, fmt.Errorf("%w: cannot compute the least common time scale with an unset time scale", ErrInvalidArgument)
		}
		if !slices.Contains(distinct, ts) {
			distinct = append(distinct, ts)
		}
		functions[ts.function] = struct{}{}
		if ts.IsInstantaneous() {
			hasInstantaneous = true
		}
	}
	slices.SortFunc(distinct, TimeScale.Compare)

	if len(functions) > 2 || (len(functions) == 2 && !hasInstantaneous) {
		return TimeScale{}, newRescalingError("least common time scale",
			fmt.Sprintf("could not determine the least common time scale of %v: only one function is allowed "+
				"unless an instantaneous time scale accounts for a second function", distinct), nil)
	}

	if len(distinct) == 1 {
		return distinct[0], nil
	}

	nonInstantaneous := make([]TimeScale, 0, len(distinct))
	for _, ts := range distinct {
		if !ts.IsInstantaneous() {
			nonInstantaneous = append(nonInstantaneous, ts)
		}
	}

	switch len(nonInstantaneous) {
	case 0:
		return distinct[len(distinct)-1], nil
	case 1:
		return nonInstantaneous[0], nil
	}

	function := nonInstantaneous[0].function
	periods := make([]time.Duration, 0, len(nonInstantaneous))
	for _, ts := range nonInstantaneous {
		if ts.function != function {
			return TimeScale{}, newRescalingError("least common time scale",
				fmt.Sprintf("could not determine the least common time scale of %v: the non-instantaneous "+
					"time scales have different functions", nonInstantaneous), nil)
		}
		periods = append(periods, ts.period)
	}

	period, err := LeastCommonDuration(periods)
	if err != nil {
		return TimeScale{}, err
	}
	return NewWithFunction(period, function)
}

func lcm(a, b int64) (int64, error) {
	q := a / gcd(a, b)
	hi, lo := bits.Mul64(uint64(q), uint64(b))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, fmt.Errorf("%w: lcm(%d, %d)", ErrArithmeticOverflow, a, b)
	}
	return int64(lo), nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
