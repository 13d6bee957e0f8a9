package config

import (
	"github.com/FerroO2000/blockring/internal"
)

// Validator is an utility struct for validating a configuration.
// Every anomaly is logged as a warning through the stage telemetry.
type Validator struct {
	tel *internal.Telemetry

	anomalyCollector *AnomalyCollector
}

// NewValidator returns a new validator.
func NewValidator(tel *internal.Telemetry) *Validator {
	return &Validator{
		tel: tel,

		anomalyCollector: NewAnomalyCollector(),
	}
}

// Validate validates the given configuration.
// It returns the number of anomalies found.
func (v *Validator) Validate(cfg Config) int {
	v.anomalyCollector.reset()

	cfg.Validate(v.anomalyCollector)

	for an := range v.anomalyCollector.iter() {
		v.handleAnomaly(an)
	}

	return v.anomalyCollector.Len()
}

func (v *Validator) handleAnomaly(an *anomaly) {
	v.tel.LogWarn("config anomaly",
		"field", an.field, "reason", an.reason,
		"actual", an.actual, "fallback", an.fallback)
}
