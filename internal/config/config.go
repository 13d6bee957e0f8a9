// Package config contains utility structs/functions and types
// for validating the stage configurations across the library.
package config

// Config defines the minimal interface for a configuration
// in order to be validated.
type Config interface {
	// Validate checks the configuration.
	// Invalid fields are reported to the anomaly collector
	// and replaced with their fallback value.
	Validate(ac *AnomalyCollector)
}
