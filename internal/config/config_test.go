package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/FerroO2000/blockring/internal"
	"github.com/stretchr/testify/assert"
)

type testConfig struct {
	Interval time.Duration
	Burst    int
	Ratio    float64
}

func (c *testConfig) Validate(ac *AnomalyCollector) {
	CheckPositive(ac, "Interval", &c.Interval, time.Second)
	CheckPositive(ac, "Burst", &c.Burst, 1)
	CheckNotGreater(ac, "Ratio", &c.Ratio, 1)
}

func Test_Checks(t *testing.T) {
	suite := []struct {
		name     string
		cfg      testConfig
		expected testConfig
		fields   []string
	}{
		{
			name:     "valid",
			cfg:      testConfig{Interval: time.Millisecond, Burst: 4, Ratio: 0.5},
			expected: testConfig{Interval: time.Millisecond, Burst: 4, Ratio: 0.5},
			fields:   []string{},
		},
		{
			name:     "zero",
			cfg:      testConfig{},
			expected: testConfig{Interval: time.Second, Burst: 1},
			fields:   []string{"Interval", "Burst"},
		},
		{
			name:     "negative",
			cfg:      testConfig{Interval: -time.Second, Burst: -2, Ratio: 3},
			expected: testConfig{Interval: time.Second, Burst: 1, Ratio: 1},
			fields:   []string{"Interval", "Burst", "Ratio"},
		},
	}

	for _, tCase := range suite {
		t.Run(tCase.name, func(t *testing.T) {
			assert := assert.New(t)

			ac := NewAnomalyCollector()
			cfg := tCase.cfg
			cfg.Validate(ac)

			assert.Equal(tCase.expected, cfg)
			assert.Equal(tCase.fields, ac.Fields())
			assert.Equal(len(tCase.fields), ac.Len())
		})
	}
}

func Test_Validator(t *testing.T) {
	assert := assert.New(t)

	buf := &bytes.Buffer{}

	prevLogger := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, nil)))
	defer slog.SetDefault(prevLogger)

	validator := NewValidator(internal.NewTelemetry("test", "validator"))

	cfg := &testConfig{Interval: -time.Second, Burst: 2}
	assert.Equal(1, validator.Validate(cfg))
	assert.Equal(time.Second, cfg.Interval)

	assert.Contains(buf.String(), "config anomaly")
	assert.Contains(buf.String(), "field=Interval")
	assert.Contains(buf.String(), `reason="cannot be negative"`)

	// The collector starts from scratch on every validation
	assert.Equal(0, validator.Validate(cfg))
}
