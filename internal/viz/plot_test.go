package viz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aosmw/navigation2/pkg/models"
)

func TestDumpCycle(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDumper(filepath.Join(dir, "plots"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var traj models.Trajectories
	traj.Reset(4, 5)
	for i := 0; i < 4; i++ {
		for step := 0; step < 5; step++ {
			k := traj.Idx(i, step)
			traj.X[k] = float64(step) * 0.1
			traj.Y[k] = float64(i) * 0.05
		}
	}
	path := &models.Path{X: []float64{0, 0.5, 1}, Y: []float64{0, 0, 0}, Yaw: []float64{0, 0, 0}}
	optimized := []models.Pose{{X: 0.1}, {X: 0.2}, {X: 0.3}}

	name, err := d.DumpCycle(&traj, path, optimized)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(name)
	if err != nil {
		t.Fatalf("plot file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("plot file is empty")
	}

	// Cycles are numbered sequentially.
	second, err := d.DumpCycle(&traj, path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second == name {
		t.Fatalf("expected a new file per cycle")
	}
}

func TestDumpCycleEmptyPath(t *testing.T) {
	d, err := NewDumper(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var traj models.Trajectories
	traj.Reset(1, 2)
	if _, err := d.DumpCycle(&traj, &models.Path{}, nil); err != nil {
		t.Fatalf("expected empty path to be drawable, got %v", err)
	}
}
