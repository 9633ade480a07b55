package config

// Config is the full controller configuration bundle.
type Config struct {
	LogLevel  string            `yaml:"log_level"`
	HTTPAddr  string            `yaml:"http_addr"`
	Optimizer OptimizerSettings `yaml:"optimizer"`
	Noise     NoiseSettings     `yaml:"noise"`
	Critics   []CriticSettings  `yaml:"critics"`
	Viz       *VizSettings      `yaml:"viz,omitempty"`
	CAN       *CANSettings      `yaml:"can,omitempty"`
}

// SamplingStd holds the per-axis standard deviation used when sampling
// control perturbations.
type SamplingStd struct {
	VX float64 `yaml:"vx"`
	VY float64 `yaml:"vy"`
	WZ float64 `yaml:"wz"`
}

// OptimizerSettings configures the sampling optimizer and motion model.
// The struct is immutable during a control cycle; it is only replaced
// wholesale on reset.
type OptimizerSettings struct {
	BatchSize      int     `yaml:"batch_size"`
	TimeSteps      int     `yaml:"time_steps"`
	ModelDT        float64 `yaml:"model_dt"`
	IterationCount int     `yaml:"iteration_count"`
	Temperature    float64 `yaml:"temperature"`
	MotionModel    string  `yaml:"motion_model"`

	VxMax float64 `yaml:"vx_max"`
	VxMin float64 `yaml:"vx_min"`
	VyMax float64 `yaml:"vy_max"`
	WzMax float64 `yaml:"wz_max"`

	// Acceleration limits per axis; zero disables the limit.
	AxMax float64 `yaml:"ax_max"`
	AyMax float64 `yaml:"ay_max"`
	AwMax float64 `yaml:"aw_max"`

	// MinTurningRadius applies to the Ackermann motion model only.
	MinTurningRadius float64 `yaml:"min_turning_radius"`

	SamplingStd SamplingStd `yaml:"sampling_std"`
}

// NoiseSettings configures the noise generation subsystem.
type NoiseSettings struct {
	// Seed seeds the generator when non-zero; zero means a random seed.
	Seed int64 `yaml:"noise_seed"`
	// PregenerateSize selects the pregenerated-pool mode when non-zero:
	// the pool holds this many batches per axis, consumed round-robin.
	PregenerateSize int `yaml:"noise_pregenerate_size"`
	// RegenerateNoises selects the background-goroutine mode: the next
	// batch is computed while the current cycle runs. Ignored when a
	// pool is configured.
	RegenerateNoises bool `yaml:"regenerate_noises"`
	// DumpNoises writes one generated vx batch as CSV, once per instance.
	DumpNoises bool   `yaml:"dump_noises"`
	DumpDir    string `yaml:"dump_dir"`
}

// CriticSettings configures one critic in pipeline order.
type CriticSettings struct {
	Name                string  `yaml:"name"`
	Enabled             *bool   `yaml:"enabled,omitempty"`
	CostWeight          float64 `yaml:"cost_weight"`
	CostPower           int     `yaml:"cost_power"`
	ThresholdToConsider float64 `yaml:"threshold_to_consider"`
	OffsetFromFurthest  int     `yaml:"offset_from_furthest"`
}

// IsEnabled reports whether the critic should run; unset means enabled.
func (c *CriticSettings) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// VizSettings configures the optional trajectory plot dump.
type VizSettings struct {
	Enabled   bool   `yaml:"enabled"`
	OutputDir string `yaml:"output_dir"`
}

// CANSettings configures the optional CAN bus command sink.
type CANSettings struct {
	Enabled   bool   `yaml:"enabled"`
	Interface string `yaml:"interface"`
	FrameID   uint32 `yaml:"frame_id"`
}

// Default values for the controller parameters.
const (
	DefaultBatchSize       = 1000
	DefaultTimeSteps       = 56
	DefaultModelDT         = 0.05
	DefaultIterationCount  = 1
	DefaultTemperature     = 0.3
	DefaultMotionModel     = "DiffDrive"
	DefaultVxMax           = 0.5
	DefaultVxMin           = -0.35
	DefaultVyMax           = 0.5
	DefaultWzMax           = 1.9
	DefaultVxStd           = 0.2
	DefaultVyStd           = 0.2
	DefaultWzStd           = 0.4
	DefaultDumpDir         = "/tmp"
	DefaultHTTPAddr        = ":8080"
	DefaultLogLevel        = "info"
)

// ApplyDefaults fills unset fields with the documented defaults. It is
// called by the parser before validation; zero values for fields with
// non-zero defaults are treated as unset.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = DefaultHTTPAddr
	}

	o := &c.Optimizer
	if o.BatchSize == 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.TimeSteps == 0 {
		o.TimeSteps = DefaultTimeSteps
	}
	if o.ModelDT == 0 {
		o.ModelDT = DefaultModelDT
	}
	if o.IterationCount == 0 {
		o.IterationCount = DefaultIterationCount
	}
	if o.Temperature == 0 {
		o.Temperature = DefaultTemperature
	}
	if o.MotionModel == "" {
		o.MotionModel = DefaultMotionModel
	}
	if o.VxMax == 0 {
		o.VxMax = DefaultVxMax
	}
	if o.VxMin == 0 {
		o.VxMin = DefaultVxMin
	}
	if o.VyMax == 0 {
		o.VyMax = DefaultVyMax
	}
	if o.WzMax == 0 {
		o.WzMax = DefaultWzMax
	}
	if o.SamplingStd.VX == 0 {
		o.SamplingStd.VX = DefaultVxStd
	}
	if o.SamplingStd.VY == 0 {
		o.SamplingStd.VY = DefaultVyStd
	}
	if o.SamplingStd.WZ == 0 {
		o.SamplingStd.WZ = DefaultWzStd
	}

	if c.Noise.DumpDir == "" {
		c.Noise.DumpDir = DefaultDumpDir
	}
}
