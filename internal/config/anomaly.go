package config

import (
	"iter"
	"slices"
)

// anomaly is an invalid configuration field that has been
// replaced with its fallback value.
type anomaly struct {
	field    string
	reason   string
	actual   any
	fallback any
}

// AnomalyCollector collects the anomalies found while validating a configuration.
type AnomalyCollector struct {
	anomalies []*anomaly
}

// NewAnomalyCollector returns an empty anomaly collector.
func NewAnomalyCollector() *AnomalyCollector {
	return &AnomalyCollector{
		anomalies: []*anomaly{},
	}
}

func (ac *AnomalyCollector) add(field, reason string, actual, fallback any) {
	ac.anomalies = append(ac.anomalies, &anomaly{
		field:    field,
		reason:   reason,
		actual:   actual,
		fallback: fallback,
	})
}

// Len returns the number of collected anomalies.
func (ac *AnomalyCollector) Len() int {
	return len(ac.anomalies)
}

// Fields returns the names of the fields with an anomaly, in order of detection.
func (ac *AnomalyCollector) Fields() []string {
	fields := make([]string, 0, len(ac.anomalies))
	for an := range ac.iter() {
		fields = append(fields, an.field)
	}
	return fields
}

func (ac *AnomalyCollector) iter() iter.Seq[*anomaly] {
	return slices.Values(ac.anomalies)
}

func (ac *AnomalyCollector) reset() {
	ac.anomalies = ac.anomalies[:0]
}
