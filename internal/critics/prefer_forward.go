package critics

import (
	"log/slog"
	"math"

	"github.com/aosmw/navigation2/pkg/config"
	"github.com/aosmw/navigation2/pkg/logger"
)

func init() {
	Register("PreferForwardCritic", func() Critic { return &PreferForwardCritic{} })
}

// PreferForwardCritic penalizes time spent reversing. It deactivates near
// the goal so final alignment maneuvers are free to back up.
type PreferForwardCritic struct {
	log       *slog.Logger
	weight    float64
	power     int
	threshold float64
}

// Name returns the registered critic name.
func (c *PreferForwardCritic) Name() string { return "PreferForwardCritic" }

// Initialize applies configuration, falling back to the documented defaults.
func (c *PreferForwardCritic) Initialize(cfg config.CriticSettings, log *slog.Logger) error {
	if log == nil {
		log = logger.Default
	}
	c.log = log
	c.weight = cfg.CostWeight
	if c.weight == 0 {
		c.weight = 5.0
	}
	c.power = cfg.CostPower
	if c.power == 0 {
		c.power = 1
	}
	c.threshold = cfg.ThresholdToConsider
	if c.threshold == 0 {
		c.threshold = 0.5
	}

	c.log.Info("critic initialized", "critic", c.Name(), "power", c.power, "weight", c.weight)
	return nil
}

// Score integrates the reverse-velocity magnitude over the horizon, weighted.
func (c *PreferForwardCritic) Score(d *Data) {
	if withinGoalTolerance(c.threshold, d.State.Pose, d.Path) {
		return
	}

	s := d.State
	for i := 0; i < s.Batch; i++ {
		sum := 0.0
		for t := 0; t < s.Steps; t++ {
			if v := s.CVX[s.Idx(i, t)]; v < 0 {
				sum += -v * d.ModelDT
			}
		}
		cost := c.weight * sum
		if c.power > 1 {
			cost = math.Pow(cost, float64(c.power))
		}
		d.Costs[i] += cost
	}
}
