package critics

import (
	"log/slog"
	"math"

	"github.com/aosmw/navigation2/pkg/config"
	"github.com/aosmw/navigation2/pkg/logger"
	"github.com/aosmw/navigation2/pkg/utils"
)

func init() {
	Register("GoalAngleCritic", func() Critic { return &GoalAngleCritic{} })
}

// GoalAngleCritic aligns the final approach heading with the goal heading.
// Like the goal critic, it only scores near the goal.
type GoalAngleCritic struct {
	log       *slog.Logger
	weight    float64
	power     int
	threshold float64
}

// Name returns the registered critic name.
func (c *GoalAngleCritic) Name() string { return "GoalAngleCritic" }

// Initialize applies configuration, falling back to the documented defaults.
func (c *GoalAngleCritic) Initialize(cfg config.CriticSettings, log *slog.Logger) error {
	if log == nil {
		log = logger.Default
	}
	c.log = log
	c.weight = cfg.CostWeight
	if c.weight == 0 {
		c.weight = 3.0
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

// Score adds the weighted mean absolute heading error to the goal yaw.
func (c *GoalAngleCritic) Score(d *Data) {
	goal, ok := d.Path.Goal()
	if !ok {
		return
	}
	if !withinGoalTolerance(c.threshold, d.State.Pose, d.Path) {
		return
	}

	traj := d.Trajectories
	for i := 0; i < traj.Batch; i++ {
		sum := 0.0
		for t := 0; t < traj.Steps; t++ {
			sum += math.Abs(utils.ShortestAngularDistance(traj.Yaw[traj.Idx(i, t)], goal.Yaw))
		}
		cost := c.weight * sum / float64(traj.Steps)
		if c.power > 1 {
			cost = math.Pow(cost, float64(c.power))
		}
		d.Costs[i] += cost
	}
}
