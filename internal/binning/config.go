package binning

// Config carries the engine defaults. It is passed explicitly to New;
// there is no module-level mutable state.
type Config struct {
	// DefaultBins is the bin count used when a target requests automatic
	// binning without an explicit count, step, or edges.
	DefaultBins int
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{DefaultBins: 256}
}

// Engine is the binning and bin-remapping engine. A zero-cost value type;
// all state lives in the inputs.
type Engine struct {
	cfg Config
}

// New creates an Engine with the given configuration.
func New(cfg Config) *Engine {
	if cfg.DefaultBins <= 0 {
		cfg.DefaultBins = DefaultConfig().DefaultBins
	}
	return &Engine{cfg: cfg}
}
