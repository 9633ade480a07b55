package critics

import (
	"log/slog"
	"math"

	"github.com/aosmw/navigation2/pkg/config"
	"github.com/aosmw/navigation2/pkg/logger"
)

func init() {
	Register("GoalCritic", func() Critic { return &GoalCritic{} })
}

// GoalCritic drives trajectories toward the final path point. It activates
// only once the robot is within threshold distance of the goal, where the
// path-following critic hands off.
type GoalCritic struct {
	log       *slog.Logger
	weight    float64
	power     int
	threshold float64
}

// Name returns the registered critic name.
func (c *GoalCritic) Name() string { return "GoalCritic" }

// Initialize applies configuration, falling back to the documented defaults.
func (c *GoalCritic) Initialize(cfg config.CriticSettings, log *slog.Logger) error {
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
		c.threshold = 1.4
	}

	c.log.Info("critic initialized", "critic", c.Name(), "power", c.power, "weight", c.weight)
	return nil
}

// Score adds, per trajectory, the weighted mean distance of its points to
// the goal. Inactive when the robot is still farther than the threshold.
func (c *GoalCritic) Score(d *Data) {
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
			k := traj.Idx(i, t)
			sum += math.Hypot(traj.X[k]-goal.X, traj.Y[k]-goal.Y)
		}
		cost := c.weight * sum / float64(traj.Steps)
		if c.power > 1 {
			cost = math.Pow(cost, float64(c.power))
		}
		d.Costs[i] += cost
	}
}
