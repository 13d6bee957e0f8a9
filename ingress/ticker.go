package ingress

import (
	"context"
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/FerroO2000/blockring/internal"
	"github.com/FerroO2000/blockring/internal/config"
	"go.opentelemetry.io/otel/attribute"
)

//////////////
//  CONFIG  //
//////////////

// Default values for the Ticker stage configuration.
const (
	DefaultTickerConfigInterval = 100 * time.Millisecond
	DefaultTickerConfigBurst    = 1
)

// FillFunc writes the content of the block with the given
// sequence number, triggered at the given time.
// The block is reused across calls, it must be fully overwritten.
type FillFunc func(seq uint64, triggerTime time.Time, block []byte)

// TickerConfig structs contains the configuration for the Ticker stage.
type TickerConfig struct {
	// Interval is the duration between ticks.
	//
	// Default: 100ms
	Interval time.Duration

	// Burst is the number of blocks offered on every tick.
	//
	// Default: 1
	Burst int

	// Fill builds the offered blocks.
	//
	// Default: FillTickerBlock
	Fill FillFunc
}

// NewTickerConfig returns the default configuration for the Ticker stage.
func NewTickerConfig() *TickerConfig {
	return &TickerConfig{
		Interval: DefaultTickerConfigInterval,
		Burst:    DefaultTickerConfigBurst,
		Fill:     FillTickerBlock,
	}
}

// Validate checks the configuration.
func (c *TickerConfig) Validate(ac *config.AnomalyCollector) {
	config.CheckPositive(ac, "Interval", &c.Interval, DefaultTickerConfigInterval)
	config.CheckPositive(ac, "Burst", &c.Burst, DefaultTickerConfigBurst)

	if c.Fill == nil {
		c.Fill = FillTickerBlock
	}
}

/////////////
//  BLOCK  //
/////////////

// TickerBlockHeaderSize is the size of the header written by FillTickerBlock:
// the big-endian sequence number followed by the big-endian unix nano timestamp.
const TickerBlockHeaderSize = 16

// FillTickerBlock is the default FillFunc.
// The header is truncated if the block is shorter than TickerBlockHeaderSize,
// the bytes after the header are set to the low byte of the sequence number.
func FillTickerBlock(seq uint64, triggerTime time.Time, block []byte) {
	var header [TickerBlockHeaderSize]byte
	binary.BigEndian.PutUint64(header[:8], seq)
	binary.BigEndian.PutUint64(header[8:], uint64(triggerTime.UnixNano()))

	n := copy(block, header[:])
	for idx := n; idx < len(block); idx++ {
		block[idx] = byte(seq)
	}
}

// DecodeTickerBlock returns the sequence number and the trigger time
// of a block built by FillTickerBlock.
// It returns false if the block is too short to contain the header.
func DecodeTickerBlock(block []byte) (uint64, time.Time, bool) {
	if len(block) < TickerBlockHeaderSize {
		return 0, time.Time{}, false
	}

	seq := binary.BigEndian.Uint64(block[:8])
	triggerTime := time.Unix(0, int64(binary.BigEndian.Uint64(block[8:16])))

	return seq, triggerTime, true
}

//////////////
//  SOURCE  //
//////////////

var _ source = (*tickerSource)(nil)

type tickerSource struct {
	tel *internal.Telemetry

	ticker *time.Ticker

	burst int
	fill  FillFunc

	// scratch is the block passed to the connector, which copies it
	scratch []byte
	seq     uint64

	// Metrics
	offeredBlocks atomic.Int64
}

func newTickerSource() *tickerSource {
	return &tickerSource{}
}

func (ts *tickerSource) setTelemetry(tel *internal.Telemetry) {
	ts.tel = tel
}

func (ts *tickerSource) init(cfg *TickerConfig, blockSize int) {
	ts.ticker = time.NewTicker(cfg.Interval)

	ts.burst = cfg.Burst
	ts.fill = cfg.Fill

	ts.scratch = make([]byte, blockSize)
}

func (ts *tickerSource) run(ctx context.Context, outConn blockConn) {
	defer ts.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case triggerTime := <-ts.ticker.C:
			ts.handleTrigger(ctx, outConn, triggerTime)
		}
	}
}

func (ts *tickerSource) handleTrigger(ctx context.Context, outConn blockConn, triggerTime time.Time) {
	_, span := ts.tel.NewTrace(ctx, "offer ticker blocks")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("sequence_number", int64(ts.seq)),
		attribute.Int("burst", ts.burst),
	)

	for range ts.burst {
		ts.fill(ts.seq, triggerTime, ts.scratch)
		outConn.Offer(ts.scratch)

		ts.seq++
		ts.offeredBlocks.Add(1)
	}
}

/////////////
//  STAGE  //
/////////////

// TickerStage is an ingress stage that periodically offers blocks
// into the output connector, like an interrupt handler would.
// It never waits for the consumer: when the connector is full
// the oldest blocks are dropped.
type TickerStage struct {
	*stage[*TickerConfig]

	source *tickerSource
}

// NewTickerStage returns a new Ticker stage.
func NewTickerStage(outConnector blockConn, cfg *TickerConfig) *TickerStage {
	source := newTickerSource()

	return &TickerStage{
		stage: newStage("ticker", source, outConnector, cfg),

		source: source,
	}
}

// Init initializes the stage.
func (s *TickerStage) Init(ctx context.Context) error {
	if err := s.stage.Init(ctx); err != nil {
		return err
	}

	s.source.init(s.cfg, s.outputConnector.BlockSize())

	s.initMetrics()

	return nil
}

func (s *TickerStage) initMetrics() {
	s.tel.NewCounter("offered_blocks", func() int64 { return s.source.offeredBlocks.Load() })

	outConn := s.outputConnector
	s.tel.NewCounter("dropped_blocks", func() int64 { return int64(outConn.DroppedBlocks()) })
	s.tel.NewUpDownCounter("available_blocks", func() int64 { return int64(outConn.AvailableBlocks()) })
}

// OfferedBlocks returns the number of blocks offered so far.
func (s *TickerStage) OfferedBlocks() int64 {
	return s.source.offeredBlocks.Load()
}
