package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/miradorstack/scalegate/internal/metrics"
	"github.com/miradorstack/scalegate/internal/models"
	"github.com/miradorstack/scalegate/internal/rescale"
	"github.com/miradorstack/scalegate/internal/timescale"
	"github.com/miradorstack/scalegate/internal/utils"
	"github.com/miradorstack/scalegate/internal/validation"
)

// ErrRescalingFailure is wrapped when at least one source cannot be rescaled.
var ErrRescalingFailure = errors.New("rescaling failure")

// ScaleService runs the scale checks for an evaluation and applies the abort policy.
type ScaleService struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewScaleService constructs the service facade.
func NewScaleService(logger *slog.Logger) *ScaleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScaleService{
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Validate checks every source against the desired time scale. The report is
// always returned once the request is well formed; the error wraps
// ErrRescalingFailure when the report contains an ERROR, after every warning
// has been logged.
func (s *ScaleService) Validate(ctx context.Context, req models.ValidationRequest) (models.ValidationReport, error) {
	start := time.Now()
	report, err := s.validate(ctx, req)
	duration := time.Since(start)

	switch {
	case err != nil:
		metrics.ObserveValidation(duration, metrics.OutcomeError)
		return report, err
	case report.HasErrors():
		metrics.ObserveValidation(duration, metrics.OutcomeInvalid)
	default:
		metrics.ObserveValidation(duration, metrics.OutcomeValid)
	}

	all := report.AllEvents()
	metrics.ObserveEvents(all)
	s.logEvents(ctx, report)

	if n := validation.Count(all, validation.Error); n > 0 {
		return report, utils.NewRunError("validate", report.RunID,
			fmt.Sprintf("found %d error(s) while validating the time scales", n), ErrRescalingFailure)
	}
	s.logger.Debug("time scales validated",
		slog.String("run_id", report.RunID),
		slog.String("desired", report.Desired.String()),
		slog.Duration("elapsed", duration))
	return report, nil
}

func (s *ScaleService) validate(ctx context.Context, req models.ValidationRequest) (models.ValidationReport, error) {
	report := models.ValidationReport{RunID: req.RunID, CreatedAt: s.now()}
	if report.RunID == "" {
		report.RunID = uuid.NewString()
	}
	if len(req.Sources) == 0 {
		return report, utils.NewRunError("validate", report.RunID, "at least one source is required",
			fmt.Errorf("%w: no sources", timescale.ErrInvalidArgument))
	}

	existing := make([]timescale.TimeScale, 0, len(req.Sources))
	for _, src := range req.Sources {
		existing = append(existing, src.Existing)
	}

	common, commonErr := timescale.LeastCommonTimeScale(existing)
	metrics.ObserveCommonScale(commonErr)
	if errors.Is(commonErr, timescale.ErrInvalidArgument) {
		return report, utils.NewRunError("validate", report.RunID, "every source needs an existing time scale", commonErr)
	}
	if commonErr == nil {
		report.CommonTimeScale = common
	}

	report.DesiredDeclared = req.Desired != nil && !req.Desired.IsZero()
	if !report.DesiredDeclared && commonErr != nil {
		report.Events = append(report.Events, validation.Newf(validation.Error,
			"No desired time scale was declared and the existing time scales of the sources cannot be reconciled "+
				"to a common time scale: %v. Declare a desired time scale.", commonErr))
		return report, nil
	}
	if commonErr != nil {
		report.Events = append(report.Events, validation.Newf(validation.Warn,
			"The existing time scales of the sources cannot be reconciled to a common time scale: %v.", commonErr))
	}

	desired, err := rescale.ResolveDesiredTimeScale(req.Desired, existing)
	if err != nil {
		return report, utils.NewRunError("validate", report.RunID, "could not resolve the desired time scale", err)
	}
	report.Desired = desired
	if !report.DesiredDeclared {
		report.Events = append(report.Events, validation.Newf(validation.Info,
			"No desired time scale was declared. Using the least common time scale of the sources, %s.", desired))
	}

	sources, err := s.validateSources(ctx, req.Sources, desired)
	if err != nil {
		return report, err
	}
	report.Sources = sources
	return report, nil
}

// validateSources checks each source in its own goroutine. Results keep the
// order of the input.
func (s *ScaleService) validateSources(ctx context.Context, sources []models.Source, desired timescale.TimeScale) ([]models.SourceReport, error) {
	results := make([]models.SourceReport, len(sources))
	errs := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src models.Source) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			events, err := rescale.ValidateScaleInformation(src, src.Existing, desired, src.TimeStep, src.Label)
			if err != nil {
				errs[i] = utils.NewAppError("validate", fmt.Sprintf("invalid source %q", src.Label), err)
				return
			}
			results[i] = models.SourceReport{
				Label:          src.Label,
				Existing:       src.Existing,
				ChangeRequired: rescale.IsChangeOfScaleRequired(src.Existing, desired),
				Events:         events,
			}
		}(i, src)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

// LeastCommonTimeScale reconciles the existing time scales of pooled sources.
func (s *ScaleService) LeastCommonTimeScale(ctx context.Context, scales []timescale.TimeScale) (timescale.TimeScale, error) {
	common, err := timescale.LeastCommonTimeScale(scales)
	metrics.ObserveCommonScale(err)
	if err != nil {
		s.logger.Warn("least common time scale failed", slog.Int("scales", len(scales)), slog.Any("error", err))
		return timescale.TimeScale{}, err
	}
	s.logger.Debug("least common time scale", slog.Int("scales", len(scales)), slog.String("common", common.String()))
	return common, nil
}

func (s *ScaleService) logEvents(ctx context.Context, report models.ValidationReport) {
	run := slog.String("run_id", report.RunID)
	for _, e := range report.Events {
		s.logEvent(ctx, e, run)
	}
	for _, src := range report.Sources {
		for _, e := range src.Events {
			s.logEvent(ctx, e, run, slog.String("source", src.Label))
		}
	}
}

func (s *ScaleService) logEvent(ctx context.Context, e validation.Event, attrs ...slog.Attr) {
	level := slog.LevelInfo
	switch e.Type {
	case validation.Warn:
		level = slog.LevelWarn
	case validation.Error:
		level = slog.LevelError
	case validation.Debug:
		level = slog.LevelDebug
	}
	s.logger.LogAttrs(ctx, level, e.Message, attrs...)
}
