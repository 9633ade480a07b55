// Package motion holds the kinematic model variants used to roll perturbed
// control sequences forward into predicted pose trajectories.
package motion

import (
	"fmt"
	"math"

	"github.com/aosmw/navigation2/pkg/config"
	"github.com/aosmw/navigation2/pkg/models"
)

// Model is one kinematic variant. Implementations are stateless; constraint
// application mutates the sampled controls in place, never rejecting a sample.
type Model interface {
	Name() string
	// IsHolonomic reports whether the model permits independent lateral motion.
	IsHolonomic() bool
	// ApplyConstraints clamps sampled controls that violate the model's hard
	// kinematic constraints (infeasible values are clamped, not errors).
	ApplyConstraints(s *models.State)
}

// NewModel builds the model named by the optimizer settings.
func NewModel(opt config.OptimizerSettings) (Model, error) {
	switch opt.MotionModel {
	case "DiffDrive":
		return &DiffDrive{}, nil
	case "Omni":
		return &Omni{}, nil
	case "Ackermann":
		if opt.MinTurningRadius <= 0 {
			return nil, fmt.Errorf("ackermann model requires a positive min_turning_radius, got %f", opt.MinTurningRadius)
		}
		return &Ackermann{MinTurningRadius: opt.MinTurningRadius}, nil
	default:
		return nil, fmt.Errorf("unknown motion model: %s", opt.MotionModel)
	}
}

// Rollout integrates every sampled control sequence from the state's start
// pose using forward Euler with step dt. The heading is advanced first, so
// the first trajectory point is already one step ahead of the start pose.
// Pure function of its inputs; trajectories are only written, never read.
func Rollout(m Model, s *models.State, dt float64, traj *models.Trajectories) {
	traj.Batch = s.Batch
	traj.Steps = s.Steps
	holonomic := m.IsHolonomic()

	for i := 0; i < s.Batch; i++ {
		x, y, yaw := s.Pose.X, s.Pose.Y, s.Pose.Yaw
		base := i * s.Steps
		for t := 0; t < s.Steps; t++ {
			k := base + t
			yaw += s.CWZ[k] * dt
			cos, sin := math.Cos(yaw), math.Sin(yaw)
			if holonomic {
				x += (s.CVX[k]*cos - s.CVY[k]*sin) * dt
				y += (s.CVX[k]*sin + s.CVY[k]*cos) * dt
			} else {
				x += s.CVX[k] * cos * dt
				y += s.CVX[k] * sin * dt
			}
			traj.X[k] = x
			traj.Y[k] = y
			traj.Yaw[k] = yaw
		}
	}
}
