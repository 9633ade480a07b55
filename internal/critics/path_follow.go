package critics

import (
	"log/slog"
	"math"

	"github.com/aosmw/navigation2/pkg/config"
	"github.com/aosmw/navigation2/pkg/logger"
	"github.com/aosmw/navigation2/pkg/utils"
)

func init() {
	Register("PathFollowCritic", func() Critic { return &PathFollowCritic{} })
}

// PathFollowCritic pulls each trajectory's endpoint toward a path point a
// configured offset ahead of the robot's nearest path point. It deactivates
// within threshold distance of the goal, where the goal critics take over.
type PathFollowCritic struct {
	log       *slog.Logger
	weight    float64
	power     int
	threshold float64
	offset    int
}

// Name returns the registered critic name.
func (c *PathFollowCritic) Name() string { return "PathFollowCritic" }

// Initialize applies configuration, falling back to the documented defaults.
func (c *PathFollowCritic) Initialize(cfg config.CriticSettings, log *slog.Logger) error {
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
	c.offset = cfg.OffsetFromFurthest
	if c.offset == 0 {
		c.offset = 6
	}

	c.log.Info("critic initialized", "critic", c.Name(), "power", c.power, "weight", c.weight, "offset", c.offset)
	return nil
}

// Score adds the weighted distance from each trajectory's final point to the
// tracked path point. No-ops on degenerate paths (fewer than two points) and
// near the goal.
func (c *PathFollowCritic) Score(d *Data) {
	if d.Path.Len() < 2 {
		return
	}
	if withinGoalTolerance(c.threshold, d.State.Pose, d.Path) {
		return
	}

	nearest := nearestPathPoint(d.State.Pose, d.Path)
	target := nearest + c.offset
	if target > d.Path.Len()-1 {
		target = d.Path.Len() - 1
	}
	tx, ty := d.Path.X[target], d.Path.Y[target]

	traj := d.Trajectories
	for i := 0; i < traj.Batch; i++ {
		k := traj.Idx(i, traj.Steps-1)
		cost := c.weight * utils.EuclideanDistance(traj.X[k], traj.Y[k], tx, ty)
		if c.power > 1 {
			cost = math.Pow(cost, float64(c.power))
		}
		d.Costs[i] += cost
	}
}
