package motion

import (
	"github.com/aosmw/navigation2/pkg/models"
)

// Omni models omnidirectional kinematics: vx, vy and wz apply independently
// in the robot frame.
type Omni struct{}

// Name returns the model kind.
func (o *Omni) Name() string { return "Omni" }

// IsHolonomic reports true.
func (o *Omni) IsHolonomic() bool { return true }

// ApplyConstraints is a no-op: the omni model has no hard kinematic coupling.
func (o *Omni) ApplyConstraints(s *models.State) {}
