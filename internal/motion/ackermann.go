package motion

import (
	"math"

	"github.com/aosmw/navigation2/pkg/models"
)

// Ackermann models car-like kinematics: no lateral motion, and the angular
// rate is limited so the implied turning radius never drops below the
// configured minimum.
type Ackermann struct {
	MinTurningRadius float64
}

// Name returns the model kind.
func (a *Ackermann) Name() string { return "Ackermann" }

// IsHolonomic reports false.
func (a *Ackermann) IsHolonomic() bool { return false }

// ApplyConstraints forces vy to zero and clamps wz so that
// |vx / wz| >= MinTurningRadius. Infeasible samples are clamped, not rejected.
func (a *Ackermann) ApplyConstraints(s *models.State) {
	for i := range s.CVY {
		s.CVY[i] = 0
	}
	for i := range s.CWZ {
		maxWZ := math.Abs(s.CVX[i]) / a.MinTurningRadius
		if s.CWZ[i] > maxWZ {
			s.CWZ[i] = maxWZ
		} else if s.CWZ[i] < -maxWZ {
			s.CWZ[i] = -maxWZ
		}
	}
}
