package egress

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/FerroO2000/blockring/connector"
	"github.com/FerroO2000/blockring/internal/config"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

//////////////
//  CONFIG  //
//////////////

// Default values for the Reader stage configuration.
const (
	DefaultReaderConfigReadTimeout = 100 * time.Millisecond
)

// ReaderConfig structs contains the configuration for the Reader stage.
type ReaderConfig struct {
	// ReadTimeout is the maximum time a single read waits for a block.
	// It also bounds the time the stage takes to notice a cancelled context.
	//
	// Default: 100ms
	ReadTimeout time.Duration
}

// NewReaderConfig returns the default configuration for the Reader stage.
func NewReaderConfig() *ReaderConfig {
	return &ReaderConfig{
		ReadTimeout: DefaultReaderConfigReadTimeout,
	}
}

// Validate checks the configuration.
func (c *ReaderConfig) Validate(ac *config.AnomalyCollector) {
	config.CheckPositive(ac, "ReadTimeout", &c.ReadTimeout, DefaultReaderConfigReadTimeout)
}

/////////////
//  STAGE  //
/////////////

// ReaderStage is an egress stage that reads the blocks from
// the input connector and passes them to a handler.
// Read timeouts are expected, the stage logs them and keeps reading.
type ReaderStage struct {
	*stageBase[*ReaderConfig]

	handler Handler

	readWait metric.Int64Histogram

	// Metrics
	readBlocks    atomic.Int64
	readTimeouts  atomic.Int64
	handlerErrors atomic.Int64
}

// NewReaderStage returns a new Reader egress stage.
func NewReaderStage(inputConnector blockConn, handler Handler, cfg *ReaderConfig) *ReaderStage {
	return &ReaderStage{
		stageBase: newStageBase("reader", inputConnector, cfg),

		handler: handler,
	}
}

// Init initializes the stage.
func (rs *ReaderStage) Init(_ context.Context) error {
	rs.stageBase.init()

	if rs.handler == nil {
		return errors.New("no handler specified")
	}

	rs.initMetrics()

	return nil
}

func (rs *ReaderStage) initMetrics() {
	rs.tel.NewCounter("read_blocks", func() int64 { return rs.readBlocks.Load() })
	rs.tel.NewCounter("read_timeouts", func() int64 { return rs.readTimeouts.Load() })
	rs.tel.NewCounter("handler_errors", func() int64 { return rs.handlerErrors.Load() })

	rs.readWait = rs.tel.NewHistogram("read_wait", "ms")
}

// Run runs the stage until the context is cancelled.
func (rs *ReaderStage) Run(ctx context.Context) {
	rs.stageBase.run()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		readStart := time.Now()
		block, err := rs.inputConnector.ReadBlock(rs.cfg.ReadTimeout)
		rs.readWait.Record(ctx, time.Since(readStart).Milliseconds())

		if err != nil {
			if errors.Is(err, connector.ErrTimeout) {
				rs.readTimeouts.Add(1)
				rs.tel.LogDebug("no block within read timeout", "timeout", rs.cfg.ReadTimeout)
				continue
			}

			rs.tel.LogError("failed to read from input connector", err)
			continue
		}

		rs.readBlocks.Add(1)

		rs.handle(ctx, block)
	}
}

func (rs *ReaderStage) handle(ctx context.Context, block []byte) {
	ctx, span := rs.tel.NewTrace(ctx, "handle block")
	defer span.End()

	span.SetAttributes(attribute.Int("block_size", len(block)))

	if err := rs.handler.Handle(ctx, block); err != nil {
		rs.handlerErrors.Add(1)

		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to handle block")

		rs.tel.LogError("failed to handle block", err)
	}
}

// Close closes the stage.
func (rs *ReaderStage) Close() {
	rs.stageBase.close()
}

// ReadBlocks returns the number of blocks read so far.
func (rs *ReaderStage) ReadBlocks() int64 {
	return rs.readBlocks.Load()
}

// ReadTimeouts returns the number of reads that timed out.
func (rs *ReaderStage) ReadTimeouts() int64 {
	return rs.readTimeouts.Load()
}

// HandlerErrors returns the number of blocks the handler failed to handle.
func (rs *ReaderStage) HandlerErrors() int64 {
	return rs.handlerErrors.Load()
}
