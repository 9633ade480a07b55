package config

import (
	"fmt"
	"os"
)

// KnownMotionModels enumerates the supported motion model kinds.
var KnownMotionModels = map[string]bool{
	"DiffDrive": true,
	"Omni":      true,
	"Ackermann": true,
}

// KnownCritics enumerates the critics that can appear in the pipeline.
var KnownCritics = map[string]bool{
	"GoalCritic":          true,
	"GoalAngleCritic":     true,
	"PathFollowCritic":    true,
	"PreferForwardCritic": true,
}

// LoadConfig loads, defaults and validates a configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if err := validateOptimizer(&cfg.Optimizer); err != nil {
		return fmt.Errorf("optimizer validation failed: %w", err)
	}
	if err := validateNoise(&cfg.Noise); err != nil {
		return fmt.Errorf("noise validation failed: %w", err)
	}
	if err := validateCritics(cfg.Critics); err != nil {
		return fmt.Errorf("critics validation failed: %w", err)
	}

	if cfg.CAN != nil && cfg.CAN.Enabled && cfg.CAN.Interface == "" {
		return fmt.Errorf("can interface cannot be empty when the CAN sink is enabled")
	}
	if cfg.Viz != nil && cfg.Viz.Enabled && cfg.Viz.OutputDir == "" {
		return fmt.Errorf("viz output_dir cannot be empty when viz is enabled")
	}

	return nil
}

// validateOptimizer validates the optimizer settings
func validateOptimizer(o *OptimizerSettings) error {
	if o.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", o.BatchSize)
	}
	if o.TimeSteps <= 0 {
		return fmt.Errorf("time_steps must be positive, got %d", o.TimeSteps)
	}
	if o.ModelDT <= 0 {
		return fmt.Errorf("model_dt must be positive, got %f", o.ModelDT)
	}
	if o.IterationCount <= 0 {
		return fmt.Errorf("iteration_count must be positive, got %d", o.IterationCount)
	}
	if o.Temperature <= 0 {
		return fmt.Errorf("temperature must be positive, got %f", o.Temperature)
	}
	if !KnownMotionModels[o.MotionModel] {
		return fmt.Errorf("unknown motion_model: %s (must be DiffDrive, Omni, or Ackermann)", o.MotionModel)
	}
	if o.VxMax <= o.VxMin {
		return fmt.Errorf("vx_max (%f) must be greater than vx_min (%f)", o.VxMax, o.VxMin)
	}
	if o.VyMax < 0 {
		return fmt.Errorf("vy_max cannot be negative, got %f", o.VyMax)
	}
	if o.WzMax <= 0 {
		return fmt.Errorf("wz_max must be positive, got %f", o.WzMax)
	}
	if o.AxMax < 0 || o.AyMax < 0 || o.AwMax < 0 {
		return fmt.Errorf("acceleration limits cannot be negative")
	}
	if o.MotionModel == "Ackermann" && o.MinTurningRadius <= 0 {
		return fmt.Errorf("min_turning_radius must be positive for the Ackermann model, got %f", o.MinTurningRadius)
	}
	if o.SamplingStd.VX < 0 || o.SamplingStd.VY < 0 || o.SamplingStd.WZ < 0 {
		return fmt.Errorf("sampling_std values cannot be negative")
	}
	return nil
}

// validateNoise validates the noise generation settings
func validateNoise(n *NoiseSettings) error {
	if n.PregenerateSize < 0 {
		return fmt.Errorf("noise_pregenerate_size cannot be negative, got %d", n.PregenerateSize)
	}
	if n.PregenerateSize > 0 && n.RegenerateNoises {
		return fmt.Errorf("noise_pregenerate_size and regenerate_noises are mutually exclusive")
	}
	return nil
}

// validateCritics validates the critic pipeline settings
func validateCritics(critics []CriticSettings) error {
	seen := make(map[string]bool)
	for i, c := range critics {
		if c.Name == "" {
			return fmt.Errorf("critic %d: name cannot be empty", i)
		}
		if !KnownCritics[c.Name] {
			return fmt.Errorf("critic %d: unknown critic: %s", i, c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate critic: %s", c.Name)
		}
		seen[c.Name] = true
		if c.CostWeight < 0 {
			return fmt.Errorf("critic %s: cost_weight cannot be negative, got %f", c.Name, c.CostWeight)
		}
		if c.CostPower < 0 {
			return fmt.Errorf("critic %s: cost_power cannot be negative, got %d", c.Name, c.CostPower)
		}
		if c.ThresholdToConsider < 0 {
			return fmt.Errorf("critic %s: threshold_to_consider cannot be negative, got %f", c.Name, c.ThresholdToConsider)
		}
		if c.OffsetFromFurthest < 0 {
			return fmt.Errorf("critic %s: offset_from_furthest cannot be negative, got %d", c.Name, c.OffsetFromFurthest)
		}
	}
	return nil
}

// HandoffWarnings reports configuration smells in complementary critic
// thresholds. A path-following critic is expected to hand off to the goal
// critic near the goal; if the goal critic activates at a smaller distance
// than the path critic deactivates, there is a band where neither scores.
// These are warnings, not errors: threshold consistency is a configuration
// invariant the operator owns.
func (c *Config) HandoffWarnings() []string {
	thresholds := make(map[string]float64)
	for _, cs := range c.Critics {
		if cs.IsEnabled() && cs.ThresholdToConsider > 0 {
			thresholds[cs.Name] = cs.ThresholdToConsider
		}
	}

	var warnings []string
	goalT, hasGoal := thresholds["GoalCritic"]
	pathT, hasPath := thresholds["PathFollowCritic"]
	if hasGoal && hasPath && goalT < pathT {
		warnings = append(warnings, fmt.Sprintf(
			"GoalCritic activates at %.2fm but PathFollowCritic deactivates at %.2fm; no critic scores progress in between",
			goalT, pathT))
	}
	return warnings
}
