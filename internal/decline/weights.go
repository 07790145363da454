package decline

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v2"
)

// Weights defines the contribution of each decline sub-signal to the
// aggregate risk score. Weights must sum to 1.
type Weights struct {
	Engagement float64 `yaml:"engagement"` // Default: 0.35
	Velocity   float64 `yaml:"velocity"`   // Default: 0.25
	Creator    float64 `yaml:"creator"`    // Default: 0.20
	Quality    float64 `yaml:"quality"`    // Default: 0.20
}

// ExtrapolationConfig controls the time-to-die estimate
type ExtrapolationConfig struct {
	NearZeroFloor  float64 `yaml:"near_zero_floor"` // Default: 5.0 interest points
	SustainedDecay float64 `yaml:"sustained_decay"` // Default: 0.5
}

// WeightsConfig is the on-disk decline configuration
type WeightsConfig struct {
	Weights       Weights             `yaml:"weights"`
	Extrapolation ExtrapolationConfig `yaml:"extrapolation"`
	SumTolerance  float64             `yaml:"sum_tolerance"` // Default: 0.001
}

// DefaultWeights returns the documented production weight allocation
func DefaultWeights() Weights {
	return Weights{Engagement: 0.35, Velocity: 0.25, Creator: 0.20, Quality: 0.20}
}

// DefaultExtrapolation returns the production extrapolation settings
func DefaultExtrapolation() ExtrapolationConfig {
	return ExtrapolationConfig{NearZeroFloor: 5.0, SustainedDecay: 0.5}
}

// WeightsLoader handles loading and validation of decline weights
type WeightsLoader struct {
	config *WeightsConfig
}

// NewWeightsLoader creates a new weights loader
func NewWeightsLoader() *WeightsLoader {
	return &WeightsLoader{}
}

// LoadFromFile loads decline weights from a YAML configuration file
func (wl *WeightsLoader) LoadFromFile(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config WeightsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if config.SumTolerance == 0 {
		config.SumTolerance = 0.001
	}

	if err := validateWeights(config.Weights, config.SumTolerance); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	wl.config = &config
	return nil
}

// LoadDefault loads the default decline configuration
func (wl *WeightsLoader) LoadDefault() error {
	wl.config = &WeightsConfig{
		Weights:       DefaultWeights(),
		Extrapolation: DefaultExtrapolation(),
		SumTolerance:  0.001,
	}
	return nil
}

// Config returns the loaded configuration
func (wl *WeightsLoader) Config() *WeightsConfig {
	return wl.config
}

// validateWeights ensures each weight is within [0,1] and the set sums to 1
func validateWeights(w Weights, tolerance float64) error {
	for name, val := range map[string]float64{
		"engagement": w.Engagement,
		"velocity":   w.Velocity,
		"creator":    w.Creator,
		"quality":    w.Quality,
	} {
		if val < 0 || val > 1 {
			return fmt.Errorf("weight %s out of range: %f", name, val)
		}
	}

	sum := w.Engagement + w.Velocity + w.Creator + w.Quality
	if math.Abs(sum-1.0) > tolerance {
		return fmt.Errorf("weights must sum to 1.0, got %f", sum)
	}
	return nil
}
