// Package viz renders control-cycle diagnostics as PNG plots: the reference
// path, a subset of sampled candidate trajectories, and the optimized
// trajectory. It is a debug aid, not part of the control contract.
package viz

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/aosmw/navigation2/pkg/models"
)

// maxCandidates bounds how many sampled trajectories are drawn per cycle.
const maxCandidates = 25

// Dumper writes one numbered plot per control cycle into a directory.
type Dumper struct {
	dir     string
	counter int
}

// NewDumper creates the output directory if needed.
func NewDumper(dir string) (*Dumper, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create viz output dir %s: %w", dir, err)
	}
	return &Dumper{dir: dir}, nil
}

// DumpCycle renders one cycle and returns the written file path.
func (d *Dumper) DumpCycle(candidates *models.Trajectories, path *models.Path, optimized []models.Pose) (string, error) {
	p := plot.New()
	p.Title.Text = "mppi control cycle"
	p.X.Label.Text = "x [m]"
	p.Y.Label.Text = "y [m]"

	if path.Len() > 0 {
		line, err := plotter.NewLine(pathXYs(path))
		if err != nil {
			return "", fmt.Errorf("failed to plot path: %w", err)
		}
		line.Color = color.RGBA{B: 255, A: 255}
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add("path", line)
	}

	stride := 1
	if candidates.Batch > maxCandidates {
		stride = candidates.Batch / maxCandidates
	}
	for i := 0; i < candidates.Batch; i += stride {
		line, err := plotter.NewLine(trajectoryXYs(candidates, i))
		if err != nil {
			return "", fmt.Errorf("failed to plot candidate %d: %w", i, err)
		}
		line.Color = color.RGBA{R: 200, G: 200, B: 200, A: 120}
		p.Add(line)
	}

	if len(optimized) > 0 {
		line, err := plotter.NewLine(posesXYs(optimized))
		if err != nil {
			return "", fmt.Errorf("failed to plot optimized trajectory: %w", err)
		}
		line.Color = color.RGBA{R: 255, A: 255}
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add("optimized", line)
	}

	d.counter++
	name := filepath.Join(d.dir, fmt.Sprintf("mppi_cycle_%04d.png", d.counter))
	if err := p.Save(6*vg.Inch, 6*vg.Inch, name); err != nil {
		return "", fmt.Errorf("failed to save plot: %w", err)
	}
	return name, nil
}

func pathXYs(path *models.Path) plotter.XYs {
	xys := make(plotter.XYs, path.Len())
	for i := range xys {
		xys[i].X = path.X[i]
		xys[i].Y = path.Y[i]
	}
	return xys
}

func trajectoryXYs(traj *models.Trajectories, i int) plotter.XYs {
	xys := make(plotter.XYs, traj.Steps)
	for t := 0; t < traj.Steps; t++ {
		k := traj.Idx(i, t)
		xys[t].X = traj.X[k]
		xys[t].Y = traj.Y[k]
	}
	return xys
}

func posesXYs(poses []models.Pose) plotter.XYs {
	xys := make(plotter.XYs, len(poses))
	for i, pose := range poses {
		xys[i].X = pose.X
		xys[i].Y = pose.Y
	}
	return xys
}
