package motion

import (
	"github.com/aosmw/navigation2/pkg/models"
)

// DiffDrive models differential-drive kinematics: no lateral motion.
type DiffDrive struct{}

// Name returns the model kind.
func (d *DiffDrive) Name() string { return "DiffDrive" }

// IsHolonomic reports false: a differential drive cannot translate sideways.
func (d *DiffDrive) IsHolonomic() bool { return false }

// ApplyConstraints forces vy to zero regardless of input.
func (d *DiffDrive) ApplyConstraints(s *models.State) {
	for i := range s.CVY {
		s.CVY[i] = 0
	}
}
