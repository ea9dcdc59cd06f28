package models

import (
	"time"

	"github.com/miradorstack/scalegate/internal/timescale"
)

// Source is one time-series feeding an evaluation, as seen by the scale checks.
type Source struct {
	Label string
	// Declared is the time scale the user declared for the source, if any.
	Declared *timescale.TimeScale
	// Existing is the time scale reported for the data by retrieval.
	Existing timescale.TimeScale
	// TimeStep is the spacing between consecutive values.
	TimeStep time.Duration
}

// DeclaredTimeScale implements rescale.Declaration.
func (s Source) DeclaredTimeScale() (timescale.TimeScale, bool) {
	if s.Declared == nil || s.Declared.IsZero() {
		return timescale.TimeScale{}, false
	}
	return *s.Declared, true
}

// ValidationRequest asks whether every source can be rescaled to a common desired time scale.
type ValidationRequest struct {
	RunID string
	// Desired is the declared desired time scale. When nil the least common
	// time scale of the sources is used.
	Desired *timescale.TimeScale
	Sources []Source
}
