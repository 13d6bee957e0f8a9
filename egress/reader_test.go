package egress

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/FerroO2000/blockring/connector"
	"github.com/stretchr/testify/assert"
)

func Test_ReaderStage(t *testing.T) {
	assert := assert.New(t)

	const blockCount = 16

	conn, err := connector.NewBlockRing(4, blockCount)
	assert.NoError(err)

	for val := range blockCount {
		conn.Offer([]byte{byte(val), 0, 0, 0})
	}

	ctx, cancelCtx := context.WithCancel(t.Context())

	received := [][]byte{}
	handler := HandlerFunc(func(_ context.Context, block []byte) error {
		received = append(received, block)
		if len(received) == blockCount {
			cancelCtx()
		}
		return nil
	})

	cfg := NewReaderConfig()
	cfg.ReadTimeout = 10 * time.Millisecond

	stage := NewReaderStage(conn, handler, cfg)
	assert.NoError(stage.Init(t.Context()))

	stage.Run(ctx)
	stage.Close()

	assert.Len(received, blockCount)
	for idx, block := range received {
		assert.Equal(byte(idx), block[0])
	}

	assert.Equal(int64(blockCount), stage.ReadBlocks())
	assert.Equal(int64(0), stage.HandlerErrors())
}

func Test_ReaderStage_Timeouts(t *testing.T) {
	assert := assert.New(t)

	conn, err := connector.NewBlockRing(4, 4)
	assert.NoError(err)

	cfg := NewReaderConfig()
	cfg.ReadTimeout = 5 * time.Millisecond

	stage := NewReaderStage(conn, DiscardHandler, cfg)
	assert.NoError(stage.Init(t.Context()))

	ctx, cancelCtx := context.WithTimeout(t.Context(), 60*time.Millisecond)
	defer cancelCtx()

	// An empty connector only produces timeouts, the stage keeps going
	stage.Run(ctx)
	stage.Close()

	assert.Greater(stage.ReadTimeouts(), int64(1))
	assert.Equal(int64(0), stage.ReadBlocks())
}

func Test_ReaderStage_HandlerErrors(t *testing.T) {
	assert := assert.New(t)

	conn, err := connector.NewBlockRing(2, 8)
	assert.NoError(err)

	for val := range 4 {
		conn.Offer([]byte{byte(val), 0})
	}

	ctx, cancelCtx := context.WithCancel(t.Context())

	calls := 0
	handler := HandlerFunc(func(_ context.Context, block []byte) error {
		calls++
		if calls == 4 {
			cancelCtx()
		}

		if block[0]%2 == 0 {
			return errors.New("even block")
		}
		return nil
	})

	stage := NewReaderStage(conn, handler, NewReaderConfig())
	assert.NoError(stage.Init(t.Context()))

	stage.Run(ctx)
	stage.Close()

	assert.Equal(int64(4), stage.ReadBlocks())
	assert.Equal(int64(2), stage.HandlerErrors())
}

func Test_ReaderStage_Init(t *testing.T) {
	assert := assert.New(t)

	conn, err := connector.NewBlockRing(2, 8)
	assert.NoError(err)

	cfg := &ReaderConfig{}
	assert.Error(NewReaderStage(conn, nil, cfg).Init(t.Context()))
	assert.Equal(DefaultReaderConfigReadTimeout, cfg.ReadTimeout)
}

func Test_ReaderStage_Producer(t *testing.T) {
	assert := assert.New(t)

	const items = 1000

	conn, err := connector.NewBlockRing(8, items)
	assert.NoError(err)

	ctx, cancelCtx := context.WithCancel(t.Context())

	var received []byte
	handler := HandlerFunc(func(_ context.Context, block []byte) error {
		received = append(received, block[0])
		if len(received) == items {
			cancelCtx()
		}
		return nil
	})

	stage := NewReaderStage(conn, handler, NewReaderConfig())
	assert.NoError(stage.Init(t.Context()))

	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()

		block := make([]byte, 8)
		for val := range items {
			block[0] = byte(val)
			conn.Offer(block)
		}
	}()

	stage.Run(ctx)
	wg.Wait()
	stage.Close()

	if assert.Len(received, items) {
		for idx, val := range received {
			assert.Equal(byte(idx), val)
		}
	}
	assert.Equal(uint64(0), conn.DroppedBlocks())
}

func Test_PrintHandler(t *testing.T) {
	assert := assert.New(t)

	buf := &bytes.Buffer{}
	handler := NewPrintHandler(buf)

	assert.NoError(handler.Handle(t.Context(), []byte{0x01, 0xab}))
	assert.NoError(handler.Handle(t.Context(), []byte{0xff, 0x00}))

	assert.Equal("0 01 ab\n1 ff 00\n", buf.String())
}
