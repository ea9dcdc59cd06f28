// Package rescale decides whether time-series data can be rescaled from an
// existing time scale to a desired one.
//
// Rule violations are returned as validation events rather than errors, so a
// caller sees every problem with a source in one pass. Errors are reserved
// for contract violations by the caller.
package rescale

import (
	"fmt"
	"time"

	"github.com/miradorstack/scalegate/internal/timescale"
	"github.com/miradorstack/scalegate/internal/validation"
)

// Declaration describes where a time-series came from, as declared by the user.
type Declaration interface {
	// DeclaredTimeScale returns the time scale declared for the source, if any.
	DeclaredTimeScale() (timescale.TimeScale, bool)
}

// ValidateScaleInformation checks whether data at the existing time scale
// and time-step can be rescaled to the desired time scale. The returned
// events exclude PASS outcomes and keep the order in which rules ran.
func ValidateScaleInformation(decl Declaration, existing, desired timescale.TimeScale, timeStep time.Duration, label string) ([]validation.Event, error) {
	switch {
	case decl == nil:
		return nil, fmt.Errorf("%w: the data source declaration is required", timescale.ErrInvalidArgument)
	case existing.IsZero():
		return nil, fmt.Errorf("%w: the existing time scale is required", timescale.ErrInvalidArgument)
	case desired.IsZero():
		return nil, fmt.Errorf("%w: the desired time scale is required", timescale.ErrInvalidArgument)
	case label == "":
		return nil, fmt.Errorf("%w: the data source label is required", timescale.ErrInvalidArgument)
	}

	events := []validation.Event{CheckDeclaredScale(decl, existing, label)}
	if !IsChangeOfScaleRequired(existing, desired) {
		return validation.WithoutPass(events), nil
	}

	events = append(events,
		CheckTimeStepIsNotZero(timeStep, label),
		CheckTimeStepIsNotNegative(timeStep, label),
		CheckDesiredFunctionIsKnown(desired, label),
		CheckNoDownscaling(existing, desired, label),
		CheckPeriodsCommute(existing, desired, label),
		CheckFunctionChangeNeedsPeriodChange(existing, desired, label),
		CheckNoAccumulationOfInstantaneous(existing, desired, label),
		CheckNoAccumulationOfNonAccumulation(existing, desired, label),
		CheckTimeStepDoesNotExceedPeriod(desired, timeStep, label),
		CheckTimeStepDiffersFromPeriod(desired, timeStep, label),
		CheckPeriodIsMultipleOfTimeStep(desired, timeStep, label),
	)
	return validation.WithoutPass(events), nil
}

// IsChangeOfScaleRequired is false when the scales are equal, both
// instantaneous, or share a period with an UNKNOWN existing function.
func IsChangeOfScaleRequired(existing, desired timescale.TimeScale) bool {
	if existing.Equal(desired) {
		return false
	}
	if existing.IsInstantaneous() && desired.IsInstantaneous() {
		return false
	}
	if existing.Period() == desired.Period() && existing.Function() == timescale.FunctionUnknown {
		return false
	}
	return true
}

// ResolveDesiredTimeScale returns the declared desired time scale or, when
// none was declared, the least common time scale of the existing scales.
func ResolveDesiredTimeScale(declared *timescale.TimeScale, existing []timescale.TimeScale) (timescale.TimeScale, error) {
	if declared != nil && !declared.IsZero() {
		return *declared, nil
	}
	if len(existing) == 0 {
		return timescale.TimeScale{}, fmt.Errorf("%w: no desired time scale was declared and no existing time scales "+
			"were supplied", timescale.ErrInvalidArgument)
	}
	return timescale.LeastCommonTimeScale(existing)
}
