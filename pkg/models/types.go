package models

// Pose is a planar robot pose: position in meters, heading in radians.
type Pose struct {
	X   float64 `json:"x" yaml:"x"`
	Y   float64 `json:"y" yaml:"y"`
	Yaw float64 `json:"yaw" yaml:"yaw"`
}

// Twist is a planar velocity command: linear x/y in m/s, angular z in rad/s.
type Twist struct {
	VX float64 `json:"vx" yaml:"vx"`
	VY float64 `json:"vy" yaml:"vy"`
	WZ float64 `json:"wz" yaml:"wz"`
}

// Path is a reference path in column layout: X[i], Y[i], Yaw[i] form pose i.
// A path may be degenerate (length 0 or 1); consumers must guard for that.
type Path struct {
	X   []float64 `json:"x"`
	Y   []float64 `json:"y"`
	Yaw []float64 `json:"yaw"`
}

// Len returns the number of poses in the path.
func (p *Path) Len() int {
	return len(p.X)
}

// Goal returns the final pose of the path and whether one exists.
func (p *Path) Goal() (Pose, bool) {
	n := p.Len()
	if n == 0 {
		return Pose{}, false
	}
	g := Pose{X: p.X[n-1], Y: p.Y[n-1]}
	if len(p.Yaw) == n {
		g.Yaw = p.Yaw[n-1]
	}
	return g, true
}

// PathFromPoses converts a pose list into column layout.
func PathFromPoses(poses []Pose) *Path {
	p := &Path{
		X:   make([]float64, len(poses)),
		Y:   make([]float64, len(poses)),
		Yaw: make([]float64, len(poses)),
	}
	for i, pose := range poses {
		p.X[i] = pose.X
		p.Y[i] = pose.Y
		p.Yaw[i] = pose.Yaw
	}
	return p
}

// ControlSequence is the running mean control estimate over the horizon,
// one value per time step per axis. It is the quantity the optimizer refines.
type ControlSequence struct {
	VX []float64
	VY []float64
	WZ []float64
}

// NewControlSequence allocates a zeroed sequence for the given horizon.
func NewControlSequence(timeSteps int) *ControlSequence {
	return &ControlSequence{
		VX: make([]float64, timeSteps),
		VY: make([]float64, timeSteps),
		WZ: make([]float64, timeSteps),
	}
}

// Reset zeroes the sequence in place, reallocating if the horizon changed.
func (c *ControlSequence) Reset(timeSteps int) {
	if len(c.VX) != timeSteps {
		c.VX = make([]float64, timeSteps)
		c.VY = make([]float64, timeSteps)
		c.WZ = make([]float64, timeSteps)
		return
	}
	for i := range c.VX {
		c.VX[i] = 0
		c.VY[i] = 0
		c.WZ[i] = 0
	}
}

// NoiseBatch holds one iteration's Gaussian perturbations per control axis,
// flattened row-major: value for trajectory i at step t is at index i*Steps+t.
type NoiseBatch struct {
	VX    []float64
	VY    []float64
	WZ    []float64
	Batch int
	Steps int
}

// NewNoiseBatch allocates a zeroed batch.
func NewNoiseBatch(batch, steps int) *NoiseBatch {
	n := batch * steps
	return &NoiseBatch{
		VX:    make([]float64, n),
		VY:    make([]float64, n),
		WZ:    make([]float64, n),
		Batch: batch,
		Steps: steps,
	}
}

// State carries the per-iteration working buffers: the perturbed and clamped
// control samples (CVX/CVY/CWZ, flattened batch×steps) plus the robot pose and
// measured twist the rollout starts from.
type State struct {
	CVX []float64
	CVY []float64
	CWZ []float64

	Pose  Pose
	Speed Twist

	Batch int
	Steps int
}

// Reset zeroes all control buffers and the start pose/speed.
func (s *State) Reset(batch, steps int) {
	n := batch * steps
	if len(s.CVX) != n {
		s.CVX = make([]float64, n)
		s.CVY = make([]float64, n)
		s.CWZ = make([]float64, n)
	} else {
		for i := range s.CVX {
			s.CVX[i] = 0
			s.CVY[i] = 0
			s.CWZ[i] = 0
		}
	}
	s.Pose = Pose{}
	s.Speed = Twist{}
	s.Batch = batch
	s.Steps = steps
}

// Idx returns the flat index of trajectory i, step t.
func (s *State) Idx(i, t int) int {
	return i*s.Steps + t
}

// Trajectories holds the predicted poses for every sampled trajectory,
// flattened row-major like State.
type Trajectories struct {
	X   []float64
	Y   []float64
	Yaw []float64

	Batch int
	Steps int
}

// Reset zeroes the trajectory buffers, reallocating on shape change.
func (t *Trajectories) Reset(batch, steps int) {
	n := batch * steps
	if len(t.X) != n {
		t.X = make([]float64, n)
		t.Y = make([]float64, n)
		t.Yaw = make([]float64, n)
	} else {
		for i := range t.X {
			t.X[i] = 0
			t.Y[i] = 0
			t.Yaw[i] = 0
		}
	}
	t.Batch = batch
	t.Steps = steps
}

// Idx returns the flat index of trajectory i, step j.
func (t *Trajectories) Idx(i, j int) int {
	return i*t.Steps + j
}

// Poses extracts trajectory i as a pose list.
func (t *Trajectories) Poses(i int) []Pose {
	out := make([]Pose, t.Steps)
	for j := 0; j < t.Steps; j++ {
		k := t.Idx(i, j)
		out[j] = Pose{X: t.X[k], Y: t.Y[k], Yaw: t.Yaw[k]}
	}
	return out
}
