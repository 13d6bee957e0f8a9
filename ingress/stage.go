package ingress

import (
	"context"

	"github.com/FerroO2000/blockring/internal"
	"github.com/FerroO2000/blockring/internal/config"
)

type source interface {
	setTelemetry(tel *internal.Telemetry)
	run(ctx context.Context, outConn blockConn)
}

type stage[Cfg cfg] struct {
	tel *internal.Telemetry

	cfg Cfg

	source source

	outputConnector blockConn
}

func newStage[Cfg cfg](name string, source source, outConn blockConn, cfg Cfg) *stage[Cfg] {
	tel := internal.NewTelemetry("ingress", name)
	source.setTelemetry(tel)

	return &stage[Cfg]{
		tel: tel,

		cfg: cfg,

		source: source,

		outputConnector: outConn,
	}
}

// Init validates the configuration of the stage.
func (s *stage[Cfg]) Init(_ context.Context) error {
	s.tel.LogInfo("initializing")

	configValidator := config.NewValidator(s.tel)
	configValidator.Validate(s.cfg)

	return nil
}

// Run runs the stage until the context is cancelled.
func (s *stage[Cfg]) Run(ctx context.Context) {
	s.tel.LogInfo("running")

	s.source.run(ctx, s.outputConnector)
}

// Close closes the stage.
// The output connector is left untouched, a consumer may still drain it.
func (s *stage[Cfg]) Close() {
	s.tel.LogInfo("closing")
}
