package critics

import (
	"math"
	"testing"

	"github.com/aosmw/navigation2/pkg/config"
	"github.com/aosmw/navigation2/pkg/models"
)

func newData(batch, steps int, path *models.Path) *Data {
	var s models.State
	s.Reset(batch, steps)
	var traj models.Trajectories
	traj.Reset(batch, steps)
	return &Data{
		State:        &s,
		Trajectories: &traj,
		Path:         path,
		ModelDT:      0.1,
		Costs:        make([]float64, batch),
	}
}

func straightPath(n int, step float64) *models.Path {
	p := &models.Path{
		X:   make([]float64, n),
		Y:   make([]float64, n),
		Yaw: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		p.X[i] = float64(i) * step
	}
	return p
}

func TestRegistryKnownNames(t *testing.T) {
	for _, name := range []string{"GoalCritic", "GoalAngleCritic", "PathFollowCritic", "PreferForwardCritic"} {
		c, err := New(name)
		if err != nil {
			t.Fatalf("New(%s): %v", name, err)
		}
		if c.Name() != name {
			t.Errorf("Name() = %s, want %s", c.Name(), name)
		}
	}
}

func TestRegistryUnknownName(t *testing.T) {
	if _, err := New("TeleportCritic"); err == nil {
		t.Fatalf("expected error for unknown critic")
	}
}

func TestBuildPipelineSkipsDisabled(t *testing.T) {
	disabled := false
	settings := []config.CriticSettings{
		{Name: "GoalCritic"},
		{Name: "PathFollowCritic", Enabled: &disabled},
	}
	pipeline, err := BuildPipeline(settings, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pipeline) != 1 || pipeline[0].Name() != "GoalCritic" {
		t.Fatalf("expected only GoalCritic in pipeline, got %d critics", len(pipeline))
	}
}

func TestBuildPipelineUnknownCritic(t *testing.T) {
	if _, err := BuildPipeline([]config.CriticSettings{{Name: "TeleportCritic"}}, nil); err == nil {
		t.Fatalf("expected error for unknown critic in pipeline")
	}
}

func TestGoalCriticAtGoalContributesZero(t *testing.T) {
	// Robot and all trajectory points exactly at the goal: distance 0.
	c := &GoalCritic{}
	if err := c.Initialize(config.CriticSettings{CostWeight: 5.0, CostPower: 1, ThresholdToConsider: 1.4}, nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	path := &models.Path{X: []float64{0}, Y: []float64{0}, Yaw: []float64{0}}
	d := newData(3, 4, path)
	c.Score(d)

	for i, cost := range d.Costs {
		if cost != 0 {
			t.Errorf("cost[%d] = %v, want 0", i, cost)
		}
	}
}

func TestGoalCriticInactiveFarFromGoal(t *testing.T) {
	c := &GoalCritic{}
	if err := c.Initialize(config.CriticSettings{CostWeight: 5.0, CostPower: 1, ThresholdToConsider: 1.4}, nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	// Goal 10m away: farther than the 1.4m threshold, critic must no-op
	// regardless of trajectory shape.
	path := &models.Path{X: []float64{0, 10}, Y: []float64{0, 0}, Yaw: []float64{0, 0}}
	d := newData(2, 3, path)
	for i := range d.Trajectories.X {
		d.Trajectories.X[i] = 42
	}
	c.Score(d)

	for i, cost := range d.Costs {
		if cost != 0 {
			t.Errorf("cost[%d] = %v, want 0 while inactive", i, cost)
		}
	}
}

func TestGoalCriticScoresNearGoal(t *testing.T) {
	c := &GoalCritic{}
	if err := c.Initialize(config.CriticSettings{CostWeight: 5.0, CostPower: 1, ThresholdToConsider: 1.4}, nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	path := &models.Path{X: []float64{0, 1}, Y: []float64{0, 0}, Yaw: []float64{0, 0}}
	d := newData(1, 2, path)
	// Both trajectory points sit 1m from the goal at (1, 0).
	d.Trajectories.X[0] = 0
	d.Trajectories.X[1] = 2

	c.Score(d)
	if math.Abs(d.Costs[0]-5.0) > 1e-9 {
		t.Errorf("cost = %v, want 5.0 (weight * mean distance 1.0)", d.Costs[0])
	}
}

func TestGoalCriticPower(t *testing.T) {
	c := &GoalCritic{}
	if err := c.Initialize(config.CriticSettings{CostWeight: 2.0, CostPower: 2, ThresholdToConsider: 1.4}, nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	path := &models.Path{X: []float64{0, 1}, Y: []float64{0, 0}, Yaw: []float64{0, 0}}
	d := newData(1, 1, path)
	// Single point 1m from goal: base cost 2.0, squared to 4.0.
	d.Trajectories.X[0] = 0

	c.Score(d)
	if math.Abs(d.Costs[0]-4.0) > 1e-9 {
		t.Errorf("cost = %v, want 4.0", d.Costs[0])
	}
}

func TestGoalCriticEmptyPath(t *testing.T) {
	c := &GoalCritic{}
	if err := c.Initialize(config.CriticSettings{}, nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	d := newData(2, 2, &models.Path{})
	c.Score(d)
	for _, cost := range d.Costs {
		if cost != 0 {
			t.Fatalf("expected no-op on empty path")
		}
	}
}

func TestGoalAngleCritic(t *testing.T) {
	c := &GoalAngleCritic{}
	if err := c.Initialize(config.CriticSettings{CostWeight: 3.0, CostPower: 1, ThresholdToConsider: 1.0}, nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	path := &models.Path{X: []float64{0}, Y: []float64{0}, Yaw: []float64{math.Pi / 2}}
	d := newData(1, 2, path)
	// Trajectory heading is 0 everywhere: error pi/2 per step.
	c.Score(d)

	want := 3.0 * math.Pi / 2
	if math.Abs(d.Costs[0]-want) > 1e-9 {
		t.Errorf("cost = %v, want %v", d.Costs[0], want)
	}
}

func TestPathFollowCriticDeactivatesNearGoal(t *testing.T) {
	c := &PathFollowCritic{}
	if err := c.Initialize(config.CriticSettings{CostWeight: 5.0, ThresholdToConsider: 1.4}, nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	// Goal 1m away: inside the threshold, so the critic hands off.
	path := straightPath(11, 0.1)
	d := newData(1, 2, path)
	d.Trajectories.X[0] = 5
	c.Score(d)
	if d.Costs[0] != 0 {
		t.Errorf("expected hand-off near goal, got cost %v", d.Costs[0])
	}
}

func TestPathFollowCriticTracksOffsetPoint(t *testing.T) {
	c := &PathFollowCritic{}
	if err := c.Initialize(config.CriticSettings{CostWeight: 1.0, ThresholdToConsider: 0.5, OffsetFromFurthest: 3}, nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	// 1m-spaced path out to 10m; robot at origin, nearest index 0, target
	// index 3 at (3, 0).
	path := straightPath(11, 1.0)
	d := newData(1, 2, path)
	// Final trajectory point at (1, 0): distance 2 to target.
	d.Trajectories.X[d.Trajectories.Idx(0, 1)] = 1

	c.Score(d)
	if math.Abs(d.Costs[0]-2.0) > 1e-9 {
		t.Errorf("cost = %v, want 2.0", d.Costs[0])
	}
}

func TestPathFollowCriticDegeneratePath(t *testing.T) {
	c := &PathFollowCritic{}
	if err := c.Initialize(config.CriticSettings{}, nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	d := newData(1, 2, &models.Path{X: []float64{5}, Y: []float64{5}, Yaw: []float64{0}})
	c.Score(d)
	if d.Costs[0] != 0 {
		t.Errorf("expected no-op on single-point path, got %v", d.Costs[0])
	}
}

func TestPreferForwardCriticPenalizesReverse(t *testing.T) {
	c := &PreferForwardCritic{}
	if err := c.Initialize(config.CriticSettings{CostWeight: 10.0, ThresholdToConsider: 0.5}, nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	path := straightPath(11, 1.0)
	d := newData(2, 5, path)
	// Trajectory 0 reverses at 0.2 m/s the whole horizon, trajectory 1
	// drives forward.
	for t0 := 0; t0 < 5; t0++ {
		d.State.CVX[d.State.Idx(0, t0)] = -0.2
		d.State.CVX[d.State.Idx(1, t0)] = 0.2
	}

	c.Score(d)
	want := 10.0 * 0.2 * 0.1 * 5
	if math.Abs(d.Costs[0]-want) > 1e-9 {
		t.Errorf("reverse cost = %v, want %v", d.Costs[0], want)
	}
	if d.Costs[1] != 0 {
		t.Errorf("forward trajectory cost = %v, want 0", d.Costs[1])
	}
}

func TestCriticsAccumulateNotOverwrite(t *testing.T) {
	c := &GoalCritic{}
	if err := c.Initialize(config.CriticSettings{CostWeight: 5.0, ThresholdToConsider: 1.4}, nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	path := &models.Path{X: []float64{0, 1}, Y: []float64{0, 0}, Yaw: []float64{0, 0}}
	d := newData(1, 2, path)
	d.Trajectories.X[0] = 0
	d.Trajectories.X[1] = 2
	d.Costs[0] = 7.5

	c.Score(d)
	if math.Abs(d.Costs[0]-12.5) > 1e-9 {
		t.Errorf("cost = %v, want 12.5 (7.5 preserved + 5.0 added)", d.Costs[0])
	}
}
