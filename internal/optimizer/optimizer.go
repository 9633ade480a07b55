// Package optimizer implements the MPPI control loop: sample perturbed
// control sequences, roll them forward through a motion model, score them
// with the critic pipeline, and fold them back into the running mean control
// via importance weighting.
package optimizer

import (
	"fmt"
	"log/slog"

	"github.com/aosmw/navigation2/internal/critics"
	"github.com/aosmw/navigation2/internal/motion"
	"github.com/aosmw/navigation2/internal/noise"
	"github.com/aosmw/navigation2/pkg/config"
	"github.com/aosmw/navigation2/pkg/logger"
	"github.com/aosmw/navigation2/pkg/models"
	"github.com/aosmw/navigation2/pkg/utils"
)

// Optimizer owns the control sequence and all working buffers exclusively.
// One instance serves one control loop; it is single-writer and must not be
// called concurrently.
type Optimizer struct {
	settings config.OptimizerSettings
	log      *slog.Logger

	model    motion.Model
	gen      *noise.Generator
	pipeline []critics.Critic

	// control is the warm-started mean estimate persisted across cycles.
	control *models.ControlSequence
	state   models.State
	traj    models.Trajectories
	costs   []float64
	weights []float64

	// meanState is a batch-1 scratch buffer for constraining the updated
	// mean with the same motion model code the samples go through.
	meanState models.State

	lastPose models.Pose
}

// New builds an optimizer from a validated configuration. Construction fails
// on any invalid parameter; nothing degrades silently.
func New(cfg *config.Config, log *slog.Logger) (*Optimizer, error) {
	if log == nil {
		log = logger.Default
	}

	model, err := motion.NewModel(cfg.Optimizer)
	if err != nil {
		return nil, fmt.Errorf("failed to create motion model: %w", err)
	}

	pipeline, err := critics.BuildPipeline(cfg.Critics, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build critic pipeline: %w", err)
	}

	o := &Optimizer{
		settings: cfg.Optimizer,
		log:      log,
		model:    model,
		pipeline: pipeline,
		control:  models.NewControlSequence(cfg.Optimizer.TimeSteps),
		costs:    make([]float64, cfg.Optimizer.BatchSize),
		weights:  make([]float64, cfg.Optimizer.BatchSize),
	}
	o.state.Reset(cfg.Optimizer.BatchSize, cfg.Optimizer.TimeSteps)
	o.traj.Reset(cfg.Optimizer.BatchSize, cfg.Optimizer.TimeSteps)
	o.meanState.Reset(1, cfg.Optimizer.TimeSteps)
	o.gen = noise.New(cfg.Noise, cfg.Optimizer, model.IsHolonomic(), log)

	o.log.Info("optimizer initialized",
		"motion_model", model.Name(),
		"batch_size", cfg.Optimizer.BatchSize,
		"time_steps", cfg.Optimizer.TimeSteps,
		"iteration_count", cfg.Optimizer.IterationCount,
		"critics", len(pipeline))
	return o, nil
}

// EvalControl runs one full control cycle and returns the velocity command
// for the first time step. On a numeric anomaly the optimizer falls back to
// a zero command and resets itself; the host simply re-invokes next cycle.
func (o *Optimizer) EvalControl(pose models.Pose, speed models.Twist, path *models.Path) models.Twist {
	o.state.Pose = pose
	o.state.Speed = speed
	o.lastPose = pose

	for it := 0; it < o.settings.IterationCount; it++ {
		o.iterate(path)
	}

	if !utils.AllFinite(o.control.VX, o.control.VY, o.control.WZ) {
		o.log.Error("non-finite control sequence produced, falling back to zero command")
		o.Reset()
		return models.Twist{}
	}

	cmd := models.Twist{
		VX: o.control.VX[0],
		VY: o.control.VY[0],
		WZ: o.control.WZ[0],
	}
	o.log.Debug("control cycle complete", "vx", cmd.VX, "vy", cmd.VY, "wz", cmd.WZ)
	return cmd
}

// iterate runs one sample-score-update pass.
func (o *Optimizer) iterate(path *models.Path) {
	nb := o.gen.Draw()
	o.applyNoise(nb)
	o.applyControlLimits()
	o.model.ApplyConstraints(&o.state)

	motion.Rollout(o.model, &o.state, o.settings.ModelDT, &o.traj)

	for i := range o.costs {
		o.costs[i] = 0
	}
	data := &critics.Data{
		State:        &o.state,
		Trajectories: &o.traj,
		Path:         path,
		ModelDT:      o.settings.ModelDT,
		Costs:        o.costs,
	}
	for _, c := range o.pipeline {
		c.Score(data)
	}

	o.updateControlSequence()
	o.applyControlSequenceConstraints()
}

// Trajectory re-rolls the current mean control with zero noise from the last
// evaluated pose, for diagnostics and visualization.
func (o *Optimizer) Trajectory() []models.Pose {
	steps := o.settings.TimeSteps
	var s models.State
	s.Reset(1, steps)
	s.Pose = o.lastPose
	copy(s.CVX, o.control.VX)
	copy(s.CVY, o.control.VY)
	copy(s.CWZ, o.control.WZ)

	var traj models.Trajectories
	traj.Reset(1, steps)
	motion.Rollout(o.model, &s, o.settings.ModelDT, &traj)
	return traj.Poses(0)
}

// CandidateTrajectories exposes the last iteration's sampled rollouts.
// Read-only diagnostic view; valid until the next EvalControl call.
func (o *Optimizer) CandidateTrajectories() *models.Trajectories {
	return &o.traj
}

// ControlSequence returns a copy of the current mean control estimate.
func (o *Optimizer) ControlSequence() *models.ControlSequence {
	c := models.NewControlSequence(o.settings.TimeSteps)
	copy(c.VX, o.control.VX)
	copy(c.VY, o.control.VY)
	copy(c.WZ, o.control.WZ)
	return c
}

// Reset zeroes the control sequence and all noise and working buffers.
// Called on new goals, recovery, and numeric fallback.
func (o *Optimizer) Reset() {
	o.control.Reset(o.settings.TimeSteps)
	o.state.Reset(o.settings.BatchSize, o.settings.TimeSteps)
	o.traj.Reset(o.settings.BatchSize, o.settings.TimeSteps)
	o.meanState.Reset(1, o.settings.TimeSteps)
	for i := range o.costs {
		o.costs[i] = 0
		o.weights[i] = 0
	}
	o.gen.Reset(o.settings, o.model.IsHolonomic())
	o.log.Info("optimizer reset")
}

// Shutdown stops the background noise producer, if one is running.
func (o *Optimizer) Shutdown() {
	o.gen.Shutdown()
}
