package api

import (
	"errors"
	"testing"
	"time"

	"github.com/miradorstack/scalegate/internal/models"
	"github.com/miradorstack/scalegate/internal/timescale"
	"github.com/miradorstack/scalegate/internal/validation"
)

func TestFromValidateRequest(t *testing.T) {
	req := ValidateRequest{
		RunID:     "run-1",
		TimeScale: &TimeScale{Period: "6h", Function: "total"},
		Sources: []Source{
			{
				Label:             "observed",
				TimeScale:         &TimeScale{Period: "1h", Function: "TOTAL"},
				ExistingTimeScale: &TimeScale{Period: "1h", Function: "TOTAL"},
				TimeStep:          "1h",
			},
		},
	}

	got, err := FromValidateRequest(req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.RunID != "run-1" {
		t.Fatalf("unexpected run id: %s", got.RunID)
	}
	if got.Desired == nil || *got.Desired != timescale.MustNew(6*time.Hour, timescale.FunctionTotal) {
		t.Fatalf("unexpected desired scale: %v", got.Desired)
	}
	if len(got.Sources) != 1 || got.Sources[0].TimeStep != time.Hour {
		t.Fatalf("unexpected sources: %+v", got.Sources)
	}
	if declared, ok := got.Sources[0].DeclaredTimeScale(); !ok || declared.Period() != time.Hour {
		t.Fatalf("expected the declared scale to be carried, got %v %v", declared, ok)
	}
}

func TestFromValidateRequestRejectsMalformedInput(t *testing.T) {
	existing := &TimeScale{Period: "1h", Function: "MEAN"}
	tests := []struct {
		name string
		req  ValidateRequest
	}{
		{name: "no sources", req: ValidateRequest{}},
		{name: "bad desired period", req: ValidateRequest{
			TimeScale: &TimeScale{Period: "six hours"},
			Sources:   []Source{{Label: "a", ExistingTimeScale: existing, TimeStep: "1h"}},
		}},
		{name: "missing existing", req: ValidateRequest{
			Sources: []Source{{Label: "a", TimeStep: "1h"}},
		}},
		{name: "bad function", req: ValidateRequest{
			Sources: []Source{{Label: "a", ExistingTimeScale: &TimeScale{Period: "1h", Function: "median"}, TimeStep: "1h"}},
		}},
		{name: "bad time step", req: ValidateRequest{
			Sources: []Source{{Label: "a", ExistingTimeScale: existing, TimeStep: ""}},
		}},
		{name: "zero period", req: ValidateRequest{
			Sources: []Source{{Label: "a", ExistingTimeScale: &TimeScale{Period: "0s"}, TimeStep: "1h"}},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromValidateRequest(tc.req)
			if !errors.Is(err, timescale.ErrInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestToValidateResponse(t *testing.T) {
	now := time.Now().UTC()
	report := models.ValidationReport{
		RunID:           "run-2",
		Desired:         timescale.MustNew(6*time.Hour, timescale.FunctionMean),
		CommonTimeScale: timescale.MustNew(6*time.Hour, timescale.FunctionMean),
		Events:          []validation.Event{validation.InfoEvent("derived")},
		Sources: []models.SourceReport{
			{
				Label:          "a",
				Existing:       timescale.MustNew(2*time.Hour, timescale.FunctionMean),
				ChangeRequired: true,
				Events:         []validation.Event{validation.WarnEvent("careful")},
			},
		},
		CreatedAt: now,
	}

	resp := ToValidateResponse(report)
	if !resp.Valid {
		t.Fatalf("expected a valid response")
	}
	if resp.TimeScaleSource != "derived" {
		t.Fatalf("unexpected time scale source: %s", resp.TimeScaleSource)
	}
	if resp.TimeScale.Period != "6h0m0s" || resp.TimeScale.Function != "MEAN" || resp.TimeScale.Display != "[PT6H,MEAN]" {
		t.Fatalf("unexpected time scale: %+v", resp.TimeScale)
	}
	if resp.CommonTimeScale == nil {
		t.Fatalf("expected a common time scale")
	}
	if len(resp.Sources) != 1 || resp.Sources[0].Events[0].Type != "WARN" {
		t.Fatalf("unexpected sources: %+v", resp.Sources)
	}
	if len(resp.Events) != 1 || resp.Events[0].Type != "INFO" {
		t.Fatalf("unexpected events: %+v", resp.Events)
	}

	report.Sources[0].Events = append(report.Sources[0].Events, validation.ErrorEvent("broken"))
	report.CommonTimeScale = timescale.TimeScale{}
	report.DesiredDeclared = true
	resp = ToValidateResponse(report)
	if resp.Valid || resp.CommonTimeScale != nil || resp.TimeScaleSource != "declared" {
		t.Fatalf("unexpected response for an invalid report: %+v", resp)
	}
}

func TestFromTimeScaleInstantaneous(t *testing.T) {
	wire := FromTimeScale(timescale.MustNew(time.Minute, timescale.FunctionUnknown))
	if !wire.Instantaneous || wire.Display != "[INSTANTANEOUS]" {
		t.Fatalf("unexpected wire scale: %+v", wire)
	}

	back, err := wire.ToDomain()
	if err != nil || !back.IsInstantaneous() {
		t.Fatalf("expected an instantaneous scale, got %v %v", back, err)
	}
}

func TestFromCommonScaleRequest(t *testing.T) {
	scales, err := FromCommonScaleRequest(CommonScaleRequest{TimeScales: []TimeScale{
		{Period: "1h", Function: "mean"},
		{Period: "90m", Function: "mean"},
	}})
	if err != nil || len(scales) != 2 {
		t.Fatalf("unexpected result %v, %v", scales, err)
	}

	if _, err := FromCommonScaleRequest(CommonScaleRequest{TimeScales: []TimeScale{{Period: "-1h"}}}); !errors.Is(err, timescale.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
