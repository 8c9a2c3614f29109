package analytical

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config gathers the numerical defaults of the kernel. It is an explicit
// value threaded through constructors; there is no process-wide state.
type Config struct {
	// MeanTolerance is the relative element-wise convergence threshold of the
	// mean-from-osculating solver.
	MeanTolerance float64
	// MeanMaxIterations caps the mean-from-osculating solver.
	MeanMaxIterations int
	// ExtrapolationThreshold is the slack allowed when querying a bounded
	// ephemeris slightly outside its recorded span.
	ExtrapolationThreshold time.Duration
	// DifferenceStep is the position shift, in meters, used by the matrices
	// harvester finite-difference stencil. Velocity shifts are derived from
	// it through the orbital rate.
	DifferenceStep float64
}

// DefaultConfig returns the kernel defaults.
func DefaultConfig() Config {
	return Config{
		MeanTolerance:          1e-13,
		MeanMaxIterations:      200,
		ExtrapolationThreshold: time.Second,
		DifferenceStep:         10.0,
	}
}

// LoadConfig reads an `analytical.toml` file from the provided directory and
// returns the resulting Config. Missing keys fall back to DefaultConfig.
func LoadConfig(dir string) (Config, error) {
	def := DefaultConfig()
	v := viper.New()
	v.SetConfigName("analytical")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	v.SetDefault("mean.tolerance", def.MeanTolerance)
	v.SetDefault("mean.max_iterations", def.MeanMaxIterations)
	v.SetDefault("ephemeris.extrapolation_threshold", def.ExtrapolationThreshold.String())
	v.SetDefault("harvester.difference_step", def.DifferenceStep)
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return def, errors.Wrap(err, "reading analytical.toml")
		}
		// No file is fine, the defaults stand.
	}
	threshold, err := time.ParseDuration(v.GetString("ephemeris.extrapolation_threshold"))
	if err != nil {
		return def, errors.Wrap(err, "parsing ephemeris.extrapolation_threshold")
	}
	cfg := Config{
		MeanTolerance:          v.GetFloat64("mean.tolerance"),
		MeanMaxIterations:      v.GetInt("mean.max_iterations"),
		ExtrapolationThreshold: threshold,
		DifferenceStep:         v.GetFloat64("harvester.difference_step"),
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.MeanTolerance <= 0 {
		return errors.Errorf("mean tolerance must be positive, got %g", c.MeanTolerance)
	}
	if c.MeanMaxIterations <= 0 {
		return errors.Errorf("mean iteration cap must be positive, got %d", c.MeanMaxIterations)
	}
	if c.DifferenceStep <= 0 {
		return errors.Errorf("difference step must be positive, got %g", c.DifferenceStep)
	}
	return nil
}
