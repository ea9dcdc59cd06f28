package models

import (
	"time"

	"github.com/miradorstack/scalegate/internal/timescale"
	"github.com/miradorstack/scalegate/internal/validation"
)

// SourceReport holds the findings for one source.
type SourceReport struct {
	Label          string
	Existing       timescale.TimeScale
	ChangeRequired bool
	Events         []validation.Event
}

// ValidationReport summarises a validation run across all sources.
type ValidationReport struct {
	RunID   string
	Desired timescale.TimeScale
	// DesiredDeclared is false when Desired was derived from the sources.
	DesiredDeclared bool
	// CommonTimeScale is the least common time scale of the existing scales.
	// It is unset when the sources cannot be reconciled.
	CommonTimeScale timescale.TimeScale
	Sources         []SourceReport
	Events          []validation.Event
	CreatedAt       time.Time
}

// AllEvents returns run-level events followed by each source's events.
func (r ValidationReport) AllEvents() []validation.Event {
	all := append([]validation.Event(nil), r.Events...)
	for _, src := range r.Sources {
		all = append(all, src.Events...)
	}
	return all
}

// HasErrors reports whether any ERROR was found.
func (r ValidationReport) HasErrors() bool {
	return validation.HasEvent(r.AllEvents(), validation.Error)
}

// Valid is true when no ERROR was found.
func (r ValidationReport) Valid() bool {
	return !r.HasErrors()
}
