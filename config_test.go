package analytical

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MeanTolerance != 1e-13 {
		t.Fatalf("mean tolerance invalid: %g", cfg.MeanTolerance)
	}
	if cfg.MeanMaxIterations != 200 {
		t.Fatalf("iteration cap invalid: %d", cfg.MeanMaxIterations)
	}
	if cfg.ExtrapolationThreshold != time.Second {
		t.Fatalf("extrapolation threshold invalid: %s", cfg.ExtrapolationThreshold)
	}
	if cfg.DifferenceStep != 10.0 {
		t.Fatalf("difference step invalid: %g", cfg.DifferenceStep)
	}
	if err := cfg.validate(); err != nil {
		t.Fatalf("defaults must validate: %s", err)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("missing file must not fail: %s", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("missing file must yield defaults, got %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	toml := `[mean]
tolerance = 1e-10
max_iterations = 50

[ephemeris]
extrapolation_threshold = "30s"

[harvester]
difference_step = 25.0
`
	if err := os.WriteFile(filepath.Join(dir, "analytical.toml"), []byte(toml), 0o644); err != nil {
		t.Fatalf("could not write config: %s", err)
	}
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("loading failed: %s", err)
	}
	if cfg.MeanTolerance != 1e-10 || cfg.MeanMaxIterations != 50 {
		t.Fatalf("mean section not honored: %+v", cfg)
	}
	if cfg.ExtrapolationThreshold != 30*time.Second {
		t.Fatalf("threshold not honored: %s", cfg.ExtrapolationThreshold)
	}
	if cfg.DifferenceStep != 25.0 {
		t.Fatalf("difference step not honored: %g", cfg.DifferenceStep)
	}
}

func TestConfigValidation(t *testing.T) {
	for _, cfg := range []Config{
		{MeanTolerance: 0, MeanMaxIterations: 200, DifferenceStep: 10},
		{MeanTolerance: 1e-13, MeanMaxIterations: 0, DifferenceStep: 10},
		{MeanTolerance: 1e-13, MeanMaxIterations: 200, DifferenceStep: -1},
	} {
		if err := cfg.validate(); err == nil {
			t.Fatalf("config %+v must be rejected", cfg)
		}
	}
	// NewPropagator runs the same validation.
	if _, err := NewPropagator(NewKeplerian(), leoOrbit(), Osculating, nil, 100, Config{}); err == nil {
		t.Fatal("zero config must be rejected by the propagator")
	}
}
