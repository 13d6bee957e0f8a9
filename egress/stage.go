package egress

import (
	"github.com/FerroO2000/blockring/internal"
	"github.com/FerroO2000/blockring/internal/config"
)

type stageBase[Cfg cfg] struct {
	tel *internal.Telemetry

	cfg Cfg

	inputConnector blockConn
}

func newStageBase[Cfg cfg](name string, inConn blockConn, cfg Cfg) *stageBase[Cfg] {
	return &stageBase[Cfg]{
		tel: internal.NewTelemetry("egress", name),

		cfg: cfg,

		inputConnector: inConn,
	}
}

func (s *stageBase[Cfg]) init() {
	s.tel.LogInfo("initializing")

	configValidator := config.NewValidator(s.tel)
	configValidator.Validate(s.cfg)
}

func (s *stageBase[Cfg]) run() {
	s.tel.LogInfo("running")
}

func (s *stageBase[Cfg]) close() {
	s.tel.LogInfo("closing")
}
