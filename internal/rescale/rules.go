package rescale

import (
	"time"

	"github.com/miradorstack/scalegate/internal/timescale"
	"github.com/miradorstack/scalegate/internal/validation"
)

// CheckDeclaredScale compares the time scale declared for a source with the
// existing time scale of its data.
func CheckDeclaredScale(decl Declaration, existing timescale.TimeScale, label string) validation.Event {
	declared, ok := decl.DeclaredTimeScale()
	if !ok {
		return validation.Newf(validation.Pass,
			"No time scale was declared for the %s data, so there is nothing to cross-check against the existing time scale %s.",
			label, existing)
	}
	if declared.Equal(existing) {
		return validation.Newf(validation.Pass,
			"The declared time scale of the %s data matches the existing time scale %s.", label, existing)
	}
	if declared.IsInstantaneous() && existing.IsInstantaneous() {
		return validation.Newf(validation.Warn,
			"The time scale declared for the %s data (%s) does not match the existing time scale (%s). Both are "+
				"instantaneous, so the mismatch is tolerated.", label, declared, existing)
	}
	return validation.Newf(validation.Error,
		"The time scale declared for the %s data (%s) is inconsistent with the existing time scale of the data (%s). "+
			"Fix the declaration or remove it.", label, declared, existing)
}

// CheckTimeStepIsNotZero fails when the data time-step is zero.
func CheckTimeStepIsNotZero(timeStep time.Duration, label string) validation.Event {
	if timeStep == 0 {
		return validation.Newf(validation.Error,
			"The time-step of the %s data is zero, so the data cannot be rescaled.", label)
	}
	return validation.Newf(validation.Pass, "The time-step of the %s data is not zero.", label)
}

// CheckTimeStepIsNotNegative fails when the data time-step is negative.
func CheckTimeStepIsNotNegative(timeStep time.Duration, label string) validation.Event {
	if timeStep < 0 {
		return validation.Newf(validation.Error,
			"The time-step of the %s data is negative (%s), so the data cannot be rescaled.", label, timeStep)
	}
	return validation.Newf(validation.Pass, "The time-step of the %s data is not negative.", label)
}

// CheckDesiredFunctionIsKnown fails when rescaling has no concrete function to apply.
func CheckDesiredFunctionIsKnown(desired timescale.TimeScale, label string) validation.Event {
	if desired.Function() == timescale.FunctionUnknown {
		return validation.Newf(validation.Error,
			"The desired time scale %s has an UNKNOWN function, but the %s data must be rescaled. Declare the "+
				"function of the desired time scale.", desired, label)
	}
	return validation.PassEvent("The function of the desired time scale is known.")
}

// CheckNoDownscaling fails when the desired period is shorter than the existing period.
func CheckNoDownscaling(existing, desired timescale.TimeScale, label string) validation.Event {
	if existing.Period() > desired.Period() {
		return validation.Newf(validation.Error,
			"Downscaling is not supported: the existing time scale of the %s data (%s) is larger than the desired "+
				"time scale (%s).", label, existing, desired)
	}
	return validation.Newf(validation.Pass, "The %s data does not require downscaling.", label)
}

// CheckPeriodsCommute fails unless the desired period is an integer multiple
// of the existing period.
func CheckPeriodsCommute(existing, desired timescale.TimeScale, label string) validation.Event {
	if !IsIntegerMultiple(desired.Period(), existing.Period()) {
		return validation.Newf(validation.Error,
			"The desired period of %s is not an integer multiple of the existing period of %s for the %s data. "+
				"Choose a desired period that is an integer multiple of %s.",
			timescale.FormatPeriod(desired.Period()), timescale.FormatPeriod(existing.Period()), label,
			timescale.FormatPeriod(existing.Period()))
	}
	return validation.Newf(validation.Pass,
		"The desired period is an integer multiple of the existing period for the %s data.", label)
}

// CheckFunctionChangeNeedsPeriodChange fails when the function changes but the period does not.
// An UNKNOWN existing function is assumed to match the desired one.
func CheckFunctionChangeNeedsPeriodChange(existing, desired timescale.TimeScale, label string) validation.Event {
	triggered := existing.Period() == desired.Period() && existing.Function() != desired.Function()
	return leniencyGuard(triggered, existing.Function() == timescale.FunctionUnknown,
		validation.Newf(validation.Warn,
			"The existing and desired periods of the %s data are equal and the existing function is UNKNOWN. "+
				"Assuming the existing function is %s.", label, desired.Function()),
		validation.Newf(validation.Error,
			"The existing time scale %s and desired time scale %s of the %s data have the same period but different "+
				"functions. A function cannot be changed without also changing the period.", existing, desired, label),
		"The function of the %s data is not changed without a change of period.", label)
}

// CheckNoAccumulationOfInstantaneous fails when instantaneous data would be totalled.
func CheckNoAccumulationOfInstantaneous(existing, desired timescale.TimeScale, label string) validation.Event {
	if existing.IsInstantaneous() && desired.Function() == timescale.FunctionTotal {
		return validation.Newf(validation.Error,
			"Cannot accumulate instantaneous %s data to a TOTAL over %s. Use a different desired function or "+
				"provide data with a non-instantaneous time scale.", label, timescale.FormatPeriod(desired.Period()))
	}
	return validation.Newf(validation.Pass, "The %s data does not accumulate instantaneous values.", label)
}

// CheckNoAccumulationOfNonAccumulation fails when non-TOTAL data would be totalled.
// An UNKNOWN existing function is assumed to be a TOTAL.
func CheckNoAccumulationOfNonAccumulation(existing, desired timescale.TimeScale, label string) validation.Event {
	triggered := desired.Function() == timescale.FunctionTotal && existing.Function() != timescale.FunctionTotal
	return leniencyGuard(triggered, existing.Function() == timescale.FunctionUnknown,
		validation.Newf(validation.Warn,
			"The desired function is TOTAL but the existing function of the %s data is UNKNOWN. Assuming the "+
				"existing data are already totals over %s.", label, timescale.FormatPeriod(existing.Period())),
		validation.Newf(validation.Error,
			"Cannot accumulate %s data whose existing function is %s. Only TOTAL data can be rescaled to a TOTAL.",
			label, existing.Function()),
		"The %s data does not accumulate something other than a TOTAL.", label)
}

// CheckTimeStepDoesNotExceedPeriod fails when the data are spaced more widely than the desired period.
func CheckTimeStepDoesNotExceedPeriod(desired timescale.TimeScale, timeStep time.Duration, label string) validation.Event {
	if timeStep > desired.Period() {
		return validation.Newf(validation.Error,
			"The time-step of the %s data (%s) is larger than the desired period (%s), so the data cannot be "+
				"rescaled.", label, timescale.FormatPeriod(timeStep), timescale.FormatPeriod(desired.Period()))
	}
	return validation.Newf(validation.Pass, "The time-step of the %s data does not exceed the desired period.", label)
}

// CheckTimeStepDiffersFromPeriod fails when rescaling is required but the
// data are already spaced at the desired period.
func CheckTimeStepDiffersFromPeriod(desired timescale.TimeScale, timeStep time.Duration, label string) validation.Event {
	if timeStep == desired.Period() {
		return validation.Newf(validation.Error,
			"The time-step of the %s data equals the desired period (%s), but the time scales differ. Each value "+
				"would be rescaled from a single datum.", label, timescale.FormatPeriod(timeStep))
	}
	return validation.Newf(validation.Pass, "The time-step of the %s data differs from the desired period.", label)
}

// CheckPeriodIsMultipleOfTimeStep fails unless the desired period is an integer multiple of the time-step.
func CheckPeriodIsMultipleOfTimeStep(desired timescale.TimeScale, timeStep time.Duration, label string) validation.Event {
	if !IsIntegerMultiple(desired.Period(), timeStep) {
		return validation.Newf(validation.Error,
			"The desired period of %s is not an integer multiple of the time-step of the %s data (%s).",
			timescale.FormatPeriod(desired.Period()), label, timescale.FormatPeriod(timeStep))
	}
	return validation.Newf(validation.Pass,
		"The desired period is an integer multiple of the time-step of the %s data.", label)
}

// leniencyGuard returns warn when the condition fired against an UNKNOWN
// existing function and fail when it fired otherwise.
func leniencyGuard(triggered, existingUnknown bool, warn, fail validation.Event, passFormat string, args ...any) validation.Event {
	switch {
	case !triggered:
		return validation.Newf(validation.Pass, passFormat, args...)
	case existingUnknown:
		return warn
	default:
		return fail
	}
}
