package optimizer

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/aosmw/navigation2/pkg/models"
	"github.com/aosmw/navigation2/pkg/utils"
)

// applyNoise sets the sampled controls to mean + perturbation for every
// trajectory and step.
func (o *Optimizer) applyNoise(nb *models.NoiseBatch) {
	steps := o.settings.TimeSteps
	for i := 0; i < o.settings.BatchSize; i++ {
		base := i * steps
		for t := 0; t < steps; t++ {
			o.state.CVX[base+t] = o.control.VX[t] + nb.VX[base+t]
			o.state.CVY[base+t] = o.control.VY[t] + nb.VY[base+t]
			o.state.CWZ[base+t] = o.control.WZ[t] + nb.WZ[base+t]
		}
	}
}

// applyControlLimits clamps every sampled control to the configured velocity
// bounds and, when acceleration limits are set, bounds the step-to-step
// change per axis. The measured speed anchors the first step.
func (o *Optimizer) applyControlLimits() {
	s := &o.settings
	for i := range o.state.CVX {
		o.state.CVX[i] = utils.Clamp(o.state.CVX[i], s.VxMin, s.VxMax)
		o.state.CVY[i] = utils.Clamp(o.state.CVY[i], -s.VyMax, s.VyMax)
		o.state.CWZ[i] = utils.Clamp(o.state.CWZ[i], -s.WzMax, s.WzMax)
	}

	if s.AxMax > 0 {
		o.applyAccelerationLimit(o.state.CVX, o.state.Speed.VX, s.AxMax)
	}
	if s.AyMax > 0 {
		o.applyAccelerationLimit(o.state.CVY, o.state.Speed.VY, s.AyMax)
	}
	if s.AwMax > 0 {
		o.applyAccelerationLimit(o.state.CWZ, o.state.Speed.WZ, s.AwMax)
	}
}

// applyAccelerationLimit bounds per-step velocity change on one axis to
// limit * dt, anchored at the currently measured velocity.
func (o *Optimizer) applyAccelerationLimit(axis []float64, measured, limit float64) {
	maxDelta := limit * o.settings.ModelDT
	steps := o.settings.TimeSteps
	for i := 0; i < o.settings.BatchSize; i++ {
		prev := measured
		base := i * steps
		for t := 0; t < steps; t++ {
			axis[base+t] = utils.Clamp(axis[base+t], prev-maxDelta, prev+maxDelta)
			prev = axis[base+t]
		}
	}
}

// updateControlSequence folds the scored samples back into the mean:
// softmax importance weights over costs, then a convex combination of the
// clamped sampled controls per time step per axis.
func (o *Optimizer) updateControlSequence() {
	softmaxWeights(o.costs, o.settings.Temperature, o.weights)

	steps := o.settings.TimeSteps
	for t := 0; t < steps; t++ {
		var vx, vy, wz float64
		for i := 0; i < o.settings.BatchSize; i++ {
			k := i*steps + t
			w := o.weights[i]
			vx += w * o.state.CVX[k]
			vy += w * o.state.CVY[k]
			wz += w * o.state.CWZ[k]
		}
		o.control.VX[t] = vx
		o.control.VY[t] = vy
		o.control.WZ[t] = wz
	}
}

// applyControlSequenceConstraints clamps the updated mean to the velocity
// bounds and re-applies the motion model's kinematic coupling. A convex
// combination of clamped samples stays inside the per-axis box, but coupled
// constraints (Ackermann wz vs vx) do not survive averaging.
func (o *Optimizer) applyControlSequenceConstraints() {
	s := &o.settings
	for t := range o.control.VX {
		o.control.VX[t] = utils.Clamp(o.control.VX[t], s.VxMin, s.VxMax)
		o.control.VY[t] = utils.Clamp(o.control.VY[t], -s.VyMax, s.VyMax)
		o.control.WZ[t] = utils.Clamp(o.control.WZ[t], -s.WzMax, s.WzMax)
	}

	o.meanState.Pose = o.state.Pose
	o.meanState.Speed = o.state.Speed
	copy(o.meanState.CVX, o.control.VX)
	copy(o.meanState.CVY, o.control.VY)
	copy(o.meanState.CWZ, o.control.WZ)
	o.model.ApplyConstraints(&o.meanState)
	copy(o.control.VX, o.meanState.CVX)
	copy(o.control.VY, o.meanState.CVY)
	copy(o.control.WZ, o.meanState.CWZ)
}

// softmaxWeights writes normalized importance weights into out:
// w_i = exp(-(cost_i - min(cost)) / temperature), normalized to sum 1.
// Subtracting the minimum keeps the exponents bounded, and equal costs
// degrade to uniform weights.
func softmaxWeights(costs []float64, temperature float64, out []float64) {
	minCost := floats.Min(costs)
	for i, c := range costs {
		out[i] = math.Exp(-(c - minCost) / temperature)
	}
	total := floats.Sum(out)
	floats.Scale(1/total, out)
}
