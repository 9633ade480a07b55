// Package critics implements the pluggable cost functions that score sampled
// trajectories. Critics are registered by name in a dispatch table; each one
// accumulates a nonnegative cost per trajectory into the shared cost vector
// and must no-op on inputs it cannot score.
package critics

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/aosmw/navigation2/pkg/config"
	"github.com/aosmw/navigation2/pkg/models"
	"github.com/aosmw/navigation2/pkg/utils"
)

// Data bundles everything a critic may read while scoring one iteration.
// Critics read trajectories and state, and only ever add into Costs.
type Data struct {
	State        *models.State
	Trajectories *models.Trajectories
	Path         *models.Path
	ModelDT      float64

	// Costs has one nonnegative accumulated entry per sampled trajectory.
	Costs []float64
}

// Critic scores trajectories. Implementations are configured once via
// Initialize and then invoked every iteration.
type Critic interface {
	Name() string
	Initialize(cfg config.CriticSettings, log *slog.Logger) error
	Score(d *Data)
}

var registry = make(map[string]func() Critic)

// Register adds a critic constructor to the dispatch table. Called from
// init functions; duplicate registration panics.
func Register(name string, ctor func() Critic) {
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("critic already registered: %s", name))
	}
	registry[name] = ctor
}

// New constructs the critic registered under name.
func New(name string) (Critic, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown critic: %s", name)
	}
	return ctor(), nil
}

// Known returns the sorted registered critic names.
func Known() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildPipeline constructs and initializes the enabled critics in the
// configured order.
func BuildPipeline(settings []config.CriticSettings, log *slog.Logger) ([]Critic, error) {
	pipeline := make([]Critic, 0, len(settings))
	for _, cs := range settings {
		if !cs.IsEnabled() {
			continue
		}
		c, err := New(cs.Name)
		if err != nil {
			return nil, err
		}
		if err := c.Initialize(cs, log); err != nil {
			return nil, fmt.Errorf("failed to initialize critic %s: %w", cs.Name, err)
		}
		pipeline = append(pipeline, c)
	}
	return pipeline, nil
}

// withinGoalTolerance reports whether the robot is within tolerance of the
// path's final point. A path without a goal never satisfies the tolerance.
func withinGoalTolerance(tolerance float64, robot models.Pose, path *models.Path) bool {
	goal, ok := path.Goal()
	if !ok {
		return false
	}
	dx := robot.X - goal.X
	dy := robot.Y - goal.Y
	return dx*dx+dy*dy < tolerance*tolerance
}

// nearestPathPoint returns the index of the path point closest to the pose.
func nearestPathPoint(robot models.Pose, path *models.Path) int {
	best := 0
	bestDist := utils.EuclideanDistance(robot.X, robot.Y, path.X[0], path.Y[0])
	for i := 1; i < path.Len(); i++ {
		d := utils.EuclideanDistance(robot.X, robot.Y, path.X[i], path.Y[i])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
