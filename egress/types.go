// Package egress contains the egress stages, i.e. the consumers
// reading blocks out of a connector.
package egress

import (
	"github.com/FerroO2000/blockring/connector"
	"github.com/FerroO2000/blockring/internal/config"
)

type blockConn = connector.Connector

type cfg = config.Config
