package config

import "runtime"

// ApplyAdaptiveDefaults fills settings left at zero with values derived
// from the host. Only Concurrency is adaptive today.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.Concurrency == 0 {
		cfg.Concurrency = EstimateConcurrency()
	}
	return cfg
}

// EstimateConcurrency picks how many pairs to diff at once: at most one per
// core, never more than 16.
func EstimateConcurrency() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 2:
		return 1
	case numCPU <= 8:
		return numCPU - 1
	case numCPU <= 32:
		return numCPU / 2
	default:
		return 16
	}
}
