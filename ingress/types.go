// Package ingress contains the ingress stages, i.e. the producers
// offering blocks into a connector.
package ingress

import (
	"github.com/FerroO2000/blockring/connector"
	"github.com/FerroO2000/blockring/internal/config"
)

type blockConn = connector.Connector

type cfg = config.Config
