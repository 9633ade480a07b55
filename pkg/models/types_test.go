package models

import (
	"math"
	"testing"
)

func TestPathGoal(t *testing.T) {
	p := &Path{
		X:   []float64{0, 1, 2},
		Y:   []float64{0, 0.5, 1},
		Yaw: []float64{0, 0.1, 0.2},
	}

	goal, ok := p.Goal()
	if !ok {
		t.Fatalf("expected goal for non-empty path")
	}
	if goal.X != 2 || goal.Y != 1 || goal.Yaw != 0.2 {
		t.Fatalf("unexpected goal pose: %+v", goal)
	}
}

func TestPathGoalEmpty(t *testing.T) {
	p := &Path{}
	if _, ok := p.Goal(); ok {
		t.Fatalf("expected no goal for empty path")
	}
}

func TestPathGoalSinglePoint(t *testing.T) {
	p := &Path{X: []float64{3}, Y: []float64{4}, Yaw: []float64{math.Pi}}
	goal, ok := p.Goal()
	if !ok {
		t.Fatalf("expected goal for single-point path")
	}
	if goal.X != 3 || goal.Y != 4 || goal.Yaw != math.Pi {
		t.Fatalf("unexpected goal pose: %+v", goal)
	}
}

func TestPathFromPoses(t *testing.T) {
	poses := []Pose{{X: 1, Y: 2, Yaw: 3}, {X: 4, Y: 5, Yaw: 6}}
	p := PathFromPoses(poses)
	if p.Len() != 2 {
		t.Fatalf("expected length 2, got %d", p.Len())
	}
	if p.X[1] != 4 || p.Y[1] != 5 || p.Yaw[1] != 6 {
		t.Fatalf("unexpected second pose: %v %v %v", p.X[1], p.Y[1], p.Yaw[1])
	}
}

func TestControlSequenceReset(t *testing.T) {
	c := NewControlSequence(4)
	c.VX[0] = 1.5
	c.WZ[3] = -0.4

	c.Reset(4)
	for i := 0; i < 4; i++ {
		if c.VX[i] != 0 || c.VY[i] != 0 || c.WZ[i] != 0 {
			t.Fatalf("expected zeroed sequence at step %d", i)
		}
	}

	// Horizon change must reallocate to the new length.
	c.Reset(8)
	if len(c.VX) != 8 || len(c.VY) != 8 || len(c.WZ) != 8 {
		t.Fatalf("expected reallocated horizon 8, got %d", len(c.VX))
	}
}

func TestStateShapes(t *testing.T) {
	var s State
	s.Reset(10, 7)
	if len(s.CVX) != 70 || len(s.CVY) != 70 || len(s.CWZ) != 70 {
		t.Fatalf("expected 70 entries per axis, got %d", len(s.CVX))
	}
	if s.Idx(3, 2) != 3*7+2 {
		t.Fatalf("unexpected flat index: %d", s.Idx(3, 2))
	}
}

func TestTrajectoriesPoses(t *testing.T) {
	var tr Trajectories
	tr.Reset(2, 3)
	tr.X[tr.Idx(1, 2)] = 9
	tr.Yaw[tr.Idx(1, 2)] = 0.5

	poses := tr.Poses(1)
	if len(poses) != 3 {
		t.Fatalf("expected 3 poses, got %d", len(poses))
	}
	if poses[2].X != 9 || poses[2].Yaw != 0.5 {
		t.Fatalf("unexpected final pose: %+v", poses[2])
	}
}
