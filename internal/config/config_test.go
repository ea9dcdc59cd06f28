package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/miradorstack/scalegate/internal/timescale"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scalegate.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SCALEGATE_CONFIG", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Address != ":50061" || cfg.Server.HTTPAddress != ":8080" {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.JSON {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadEvaluation(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":9000"
logging:
  level: debug
evaluation:
  timeScale:
    period: 6h
    function: mean
  sources:
    - label: observed
      timeScale: {period: 1h, function: mean}
      existingTimeScale: {period: 1h, function: mean}
      timeStep: 1h
    - label: predicted
      existingTimeScale: {period: 3h, function: mean}
      timeStep: 3h
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Address != ":9000" || cfg.Server.HTTPAddress != ":8080" {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}

	req, err := cfg.Evaluation.ValidationRequest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Desired == nil || *req.Desired != timescale.MustNew(6*time.Hour, timescale.FunctionMean) {
		t.Fatalf("unexpected desired scale: %v", req.Desired)
	}
	if len(req.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(req.Sources))
	}
	if _, ok := req.Sources[0].DeclaredTimeScale(); !ok {
		t.Fatalf("expected a declared scale for the first source")
	}
	if _, ok := req.Sources[1].DeclaredTimeScale(); ok {
		t.Fatalf("did not expect a declared scale for the second source")
	}
	if req.Sources[1].TimeStep != 3*time.Hour {
		t.Fatalf("unexpected time-step %s", req.Sources[1].TimeStep)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SCALEGATE_SERVER_ADDRESS", ":7000")
	t.Setenv("SCALEGATE_LOG_LEVEL", "warn")
	t.Setenv("SCALEGATE_LOG_FORMAT", "json")
	t.Setenv("SCALEGATE_GRACEFUL_TIMEOUT", "3s")

	cfg, err := Load(writeConfig(t, "server:\n  address: \":9000\"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Address != ":7000" {
		t.Fatalf("expected env override, got %s", cfg.Server.Address)
	}
	if cfg.Logging.Level != "warn" || !cfg.Logging.JSON {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Server.GracefulTimeout != 3*time.Second {
		t.Fatalf("unexpected graceful timeout: %s", cfg.Server.GracefulTimeout)
	}
}

func TestValidationRequestErrors(t *testing.T) {
	tests := []struct {
		name     string
		eval     EvaluationConfig
		fragment string
	}{
		{"no sources", EvaluationConfig{}, "at least one source"},
		{"missing label", EvaluationConfig{Sources: []SourceConfig{{}}}, "label is required"},
		{"missing existing", EvaluationConfig{Sources: []SourceConfig{{Label: "a"}}}, "existingTimeScale is required"},
		{"duplicate label", EvaluationConfig{Sources: []SourceConfig{
			{Label: "a", ExistingTimeScale: &TimeScaleConfig{Period: time.Hour}},
			{Label: "a", ExistingTimeScale: &TimeScaleConfig{Period: time.Hour}},
		}}, "duplicate label"},
		{"bad function", EvaluationConfig{
			TimeScale: &TimeScaleConfig{Period: time.Hour, Function: "median"},
			Sources:   []SourceConfig{{Label: "a", ExistingTimeScale: &TimeScaleConfig{Period: time.Hour}}},
		}, "evaluation.timeScale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.eval.ValidationRequest()
			if err == nil || !strings.Contains(err.Error(), tt.fragment) {
				t.Fatalf("expected error containing %q, got %v", tt.fragment, err)
			}
		})
	}
}

func TestTimeScaleConfigRejectsZeroPeriod(t *testing.T) {
	_, err := TimeScaleConfig{Function: "total"}.ToTimeScale()
	if !errors.Is(err, timescale.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
