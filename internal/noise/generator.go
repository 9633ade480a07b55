// Package noise supplies the Gaussian control perturbations consumed by the
// sampling optimizer. A generator runs in one of three mutually exclusive
// modes: synchronous draws on the calling goroutine, a background producer
// goroutine that overlaps generation with the current control cycle, or a
// fixed pool generated once up front and consumed round-robin.
package noise

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aosmw/navigation2/pkg/config"
	"github.com/aosmw/navigation2/pkg/logger"
	"github.com/aosmw/navigation2/pkg/models"
)

// Mode selects how batches are produced.
type Mode int

const (
	// ModeSync draws a fresh batch on every call, on the calling goroutine.
	ModeSync Mode = iota
	// ModeBackground precomputes the next batch on a producer goroutine
	// while the current one is consumed. At most one completed batch is
	// buffered at a time.
	ModeBackground
	// ModePool fills a fixed pool once at initialization and serves slots
	// via rotating per-axis indices, wrapping modulo the pool size.
	ModePool
)

// Generator produces noise batches for the optimizer. It is owned by a single
// optimizer instance; Draw is not safe for concurrent callers.
type Generator struct {
	log       *slog.Logger
	batch     int
	steps     int
	std       config.SamplingStd
	holonomic bool
	mode      Mode

	rng    *rand.Rand
	normVX distuv.Normal
	normVY distuv.Normal
	normWZ distuv.Normal

	// Pool state. The rotating indices are guarded by mu together with the
	// pool buffers so a refill never races a read.
	mu       sync.Mutex
	poolSize int
	poolVX   []float64
	poolVY   []float64
	poolWZ   []float64
	idxVX    int
	idxVY    int
	idxWZ    int

	// Background producer state.
	next chan *models.NoiseBatch
	stop chan struct{}
	wg   sync.WaitGroup

	dumpNoises bool
	dumpDir    string
}

// New creates a generator for the given noise and optimizer settings. The
// holonomic flag controls whether the vy axis is sampled at all.
func New(ns config.NoiseSettings, opt config.OptimizerSettings, holonomic bool, log *slog.Logger) *Generator {
	if log == nil {
		log = logger.Default
	}

	g := &Generator{
		log:        log,
		batch:      opt.BatchSize,
		steps:      opt.TimeSteps,
		std:        opt.SamplingStd,
		holonomic:  holonomic,
		poolSize:   ns.PregenerateSize,
		dumpNoises: ns.DumpNoises,
		dumpDir:    ns.DumpDir,
	}

	seed := ns.Seed
	if seed == 0 {
		seed = int64(rand.Uint64())
	}
	g.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	g.normVX = distuv.Normal{Mu: 0, Sigma: opt.SamplingStd.VX, Src: g.rng}
	g.normVY = distuv.Normal{Mu: 0, Sigma: opt.SamplingStd.VY, Src: g.rng}
	g.normWZ = distuv.Normal{Mu: 0, Sigma: opt.SamplingStd.WZ, Src: g.rng}

	switch {
	case g.poolSize > 0:
		g.mode = ModePool
		g.fillPool()
	case ns.RegenerateNoises:
		g.mode = ModeBackground
		g.startProducer()
	default:
		g.mode = ModeSync
	}

	g.log.Info("noise generator initialized",
		"mode", g.mode.String(),
		"batch_size", g.batch,
		"time_steps", g.steps,
		"pool_size", g.poolSize,
		"seed", seed)
	return g
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeSync:
		return "sync"
	case ModeBackground:
		return "background"
	case ModePool:
		return "pool"
	}
	return "unknown"
}

// Mode returns the generator's active mode.
func (g *Generator) Mode() Mode {
	return g.mode
}

// Draw returns the next noise batch. In background mode it blocks only when
// no batch has been completed yet; in pool mode it returns views into the
// pool advanced by exactly one slot per axis.
func (g *Generator) Draw() *models.NoiseBatch {
	switch g.mode {
	case ModePool:
		return g.drawFromPool()
	case ModeBackground:
		return <-g.next
	default:
		return g.generate()
	}
}

// Reset reconfigures the generator for new optimizer settings and discards
// any batch prepared against the old ones. Used on external reset
// (new goal, recovery, fallback).
func (g *Generator) Reset(opt config.OptimizerSettings, holonomic bool) {
	if g.mode == ModeBackground {
		g.stopProducer()
	}

	g.mu.Lock()
	g.batch = opt.BatchSize
	g.steps = opt.TimeSteps
	g.std = opt.SamplingStd
	g.holonomic = holonomic
	g.normVX.Sigma = opt.SamplingStd.VX
	g.normVY.Sigma = opt.SamplingStd.VY
	g.normWZ.Sigma = opt.SamplingStd.WZ
	g.mu.Unlock()

	switch g.mode {
	case ModePool:
		g.fillPool()
	case ModeBackground:
		g.startProducer()
	}
}

// Shutdown deterministically stops the background producer, if any. It is
// safe to call more than once.
func (g *Generator) Shutdown() {
	if g.mode == ModeBackground {
		g.stopProducer()
	}
}

func (g *Generator) startProducer() {
	g.next = make(chan *models.NoiseBatch, 1)
	g.stop = make(chan struct{})
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		for {
			b := g.generate()
			select {
			case g.next <- b:
			case <-g.stop:
				return
			}
		}
	}()
}

func (g *Generator) stopProducer() {
	if g.stop == nil {
		return
	}
	close(g.stop)
	g.wg.Wait()
	// Discard a batch completed before the producer observed the stop.
	select {
	case <-g.next:
	default:
	}
	g.stop = nil
	g.next = nil
}

// generate draws a fresh batch with the configured per-axis deviations.
// The vy axis is sampled only for holonomic models.
func (g *Generator) generate() *models.NoiseBatch {
	b := models.NewNoiseBatch(g.batch, g.steps)
	for i := range b.VX {
		b.VX[i] = g.normVX.Rand()
	}
	for i := range b.WZ {
		b.WZ[i] = g.normWZ.Rand()
	}
	if g.holonomic {
		for i := range b.VY {
			b.VY[i] = g.normVY.Rand()
		}
	}
	g.maybeDump(b)
	return b
}

// fillPool generates poolSize batches per axis in one pass. Each axis pool is
// filled with that axis's own standard deviation; the indices rewind to the
// first slot.
func (g *Generator) fillPool() {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.poolSize * g.batch * g.steps
	g.poolVX = make([]float64, n)
	g.poolWZ = make([]float64, n)
	for i := range g.poolVX {
		g.poolVX[i] = g.normVX.Rand()
	}
	for i := range g.poolWZ {
		g.poolWZ[i] = g.normWZ.Rand()
	}
	if g.holonomic {
		g.poolVY = make([]float64, n)
		for i := range g.poolVY {
			g.poolVY[i] = g.normVY.Rand()
		}
	} else {
		g.poolVY = nil
	}
	g.idxVX = 0
	g.idxVY = 0
	g.idxWZ = 0
}

func (g *Generator) drawFromPool() *models.NoiseBatch {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot := g.batch * g.steps
	b := &models.NoiseBatch{
		Batch: g.batch,
		Steps: g.steps,
		VX:    g.poolVX[g.idxVX*slot : (g.idxVX+1)*slot],
		WZ:    g.poolWZ[g.idxWZ*slot : (g.idxWZ+1)*slot],
	}
	g.idxVX = (g.idxVX + 1) % g.poolSize
	g.idxWZ = (g.idxWZ + 1) % g.poolSize
	if g.holonomic {
		b.VY = g.poolVY[g.idxVY*slot : (g.idxVY+1)*slot]
		g.idxVY = (g.idxVY + 1) % g.poolSize
	} else {
		b.VY = make([]float64, slot)
	}

	g.maybeDump(b)
	return b
}

// maybeDump writes the vx axis of one batch as CSV for offline inspection,
// then disables itself for the lifetime of the instance.
func (g *Generator) maybeDump(b *models.NoiseBatch) {
	if !g.dumpNoises {
		return
	}
	g.dumpNoises = false

	name := filepath.Join(g.dumpDir, fmt.Sprintf("mppi_noises_vx_%v.csv", g.std.VX))
	f, err := os.Create(name)
	if err != nil {
		g.log.Warn("noise dump failed", "path", name, "error", err)
		return
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := make([]string, g.steps)
	for i := 0; i < g.batch; i++ {
		for t := 0; t < g.steps; t++ {
			row[t] = strconv.FormatFloat(b.VX[i*g.steps+t], 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			g.log.Warn("noise dump failed", "path", name, "error", err)
			return
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		g.log.Warn("noise dump failed", "path", name, "error", err)
		return
	}
	g.log.Info("noise batch dumped", "path", name)
}
