package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/miradorstack/scalegate/internal/models"
	"github.com/miradorstack/scalegate/internal/timescale"
	"github.com/miradorstack/scalegate/internal/validation"
)

// TimeScale is the wire form of a time scale. Period uses Go duration syntax ("6h", "90m").
type TimeScale struct {
	Period        string `json:"period"`
	Function      string `json:"function,omitempty"`
	Instantaneous bool   `json:"instantaneous,omitempty"`
	Display       string `json:"display,omitempty"`
}

// Source is the wire form of a source to validate.
type Source struct {
	Label             string     `json:"label"`
	TimeScale         *TimeScale `json:"timeScale,omitempty"`
	ExistingTimeScale *TimeScale `json:"existingTimeScale"`
	TimeStep          string     `json:"timeStep"`
}

// ValidateRequest asks for every source to be checked against the desired time scale.
type ValidateRequest struct {
	RunID     string     `json:"runId,omitempty"`
	TimeScale *TimeScale `json:"timeScale,omitempty"`
	Sources   []Source   `json:"sources"`
}

// Event is the wire form of a validation event.
type Event struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// SourceReport is the wire form of a per-source result.
type SourceReport struct {
	Label             string    `json:"label"`
	ExistingTimeScale TimeScale `json:"existingTimeScale"`
	ChangeRequired    bool      `json:"changeRequired"`
	Events            []Event   `json:"events"`
}

// ValidateResponse is the wire form of a validation report.
type ValidateResponse struct {
	RunID           string         `json:"runId"`
	Valid           bool           `json:"valid"`
	TimeScale       TimeScale      `json:"timeScale"`
	TimeScaleSource string         `json:"timeScaleSource"`
	CommonTimeScale *TimeScale     `json:"commonTimeScale,omitempty"`
	Events          []Event        `json:"events"`
	Sources         []SourceReport `json:"sources"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// CommonScaleRequest asks for the least common time scale of several scales.
type CommonScaleRequest struct {
	TimeScales []TimeScale `json:"timeScales"`
}

// CommonScaleResponse carries the least common time scale.
type CommonScaleResponse struct {
	TimeScale TimeScale `json:"timeScale"`
}

// ToDomain parses the wire form into a time scale.
func (t TimeScale) ToDomain() (timescale.TimeScale, error) {
	if strings.TrimSpace(t.Period) == "" {
		return timescale.TimeScale{}, fmt.Errorf("%w: period is required", timescale.ErrInvalidArgument)
	}
	period, err := time.ParseDuration(strings.TrimSpace(t.Period))
	if err != nil {
		return timescale.TimeScale{}, fmt.Errorf("%w: period: %v", timescale.ErrInvalidArgument, err)
	}
	fn, err := timescale.ParseFunction(t.Function)
	if err != nil {
		return timescale.TimeScale{}, err
	}
	return timescale.NewWithFunction(period, fn)
}

// FromTimeScale renders a time scale in wire form.
func FromTimeScale(ts timescale.TimeScale) TimeScale {
	return TimeScale{
		Period:        ts.Period().String(),
		Function:      ts.Function().String(),
		Instantaneous: ts.IsInstantaneous(),
		Display:       ts.String(),
	}
}

// FromValidateRequest maps the wire request into a domain request.
func FromValidateRequest(req ValidateRequest) (models.ValidationRequest, error) {
	out := models.ValidationRequest{RunID: req.RunID}
	if req.TimeScale != nil {
		desired, err := req.TimeScale.ToDomain()
		if err != nil {
			return out, fmt.Errorf("timeScale: %w", err)
		}
		out.Desired = &desired
	}
	if len(req.Sources) == 0 {
		return out, fmt.Errorf("%w: sources are required", timescale.ErrInvalidArgument)
	}

	for i, src := range req.Sources {
		if src.ExistingTimeScale == nil {
			return out, fmt.Errorf("%w: sources[%d].existingTimeScale is required", timescale.ErrInvalidArgument, i)
		}
		existing, err := src.ExistingTimeScale.ToDomain()
		if err != nil {
			return out, fmt.Errorf("sources[%d].existingTimeScale: %w", i, err)
		}
		step, err := time.ParseDuration(strings.TrimSpace(src.TimeStep))
		if err != nil {
			return out, fmt.Errorf("%w: sources[%d].timeStep: %v", timescale.ErrInvalidArgument, i, err)
		}

		source := models.Source{Label: src.Label, Existing: existing, TimeStep: step}
		if src.TimeScale != nil {
			declared, err := src.TimeScale.ToDomain()
			if err != nil {
				return out, fmt.Errorf("sources[%d].timeScale: %w", i, err)
			}
			source.Declared = &declared
		}
		out.Sources = append(out.Sources, source)
	}
	return out, nil
}

// ToValidateResponse converts a domain report into the wire representation.
func ToValidateResponse(report models.ValidationReport) ValidateResponse {
	resp := ValidateResponse{
		RunID:           report.RunID,
		Valid:           report.Valid(),
		TimeScaleSource: "declared",
		Events:          toEvents(report.Events),
		Sources:         make([]SourceReport, 0, len(report.Sources)),
		CreatedAt:       report.CreatedAt,
	}
	if !report.Desired.IsZero() {
		resp.TimeScale = FromTimeScale(report.Desired)
	}
	if !report.DesiredDeclared {
		resp.TimeScaleSource = "derived"
	}
	if !report.CommonTimeScale.IsZero() {
		common := FromTimeScale(report.CommonTimeScale)
		resp.CommonTimeScale = &common
	}
	for _, src := range report.Sources {
		resp.Sources = append(resp.Sources, SourceReport{
			Label:             src.Label,
			ExistingTimeScale: FromTimeScale(src.Existing),
			ChangeRequired:    src.ChangeRequired,
			Events:            toEvents(src.Events),
		})
	}
	return resp
}

// FromCommonScaleRequest maps the wire request into domain time scales.
func FromCommonScaleRequest(req CommonScaleRequest) ([]timescale.TimeScale, error) {
	scales := make([]timescale.TimeScale, 0, len(req.TimeScales))
	for i, ts := range req.TimeScales {
		scale, err := ts.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("timeScales[%d]: %w", i, err)
		}
		scales = append(scales, scale)
	}
	return scales, nil
}

func toEvents(events []validation.Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		out = append(out, Event{Type: e.Type.String(), Message: e.Message})
	}
	return out
}
