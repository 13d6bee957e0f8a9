package egress

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Handler handles the blocks read by an egress stage.
// The block is owned by the handler.
type Handler interface {
	Handle(ctx context.Context, block []byte) error
}

// HandlerFunc is an adapter to use ordinary functions as handlers.
type HandlerFunc func(ctx context.Context, block []byte) error

// Handle calls f(ctx, block).
func (f HandlerFunc) Handle(ctx context.Context, block []byte) error {
	return f(ctx, block)
}

// DiscardHandler drops every block.
var DiscardHandler Handler = HandlerFunc(func(_ context.Context, _ []byte) error { return nil })

// PrintHandler writes every block as a line containing
// its ordinal number and its hex encoded content.
type PrintHandler struct {
	mux *sync.Mutex

	w     io.Writer
	count uint64
}

// NewPrintHandler returns a new print handler writing into w.
func NewPrintHandler(w io.Writer) *PrintHandler {
	return &PrintHandler{
		mux: &sync.Mutex{},

		w: w,
	}
}

// Handle writes the block.
func (ph *PrintHandler) Handle(_ context.Context, block []byte) error {
	ph.mux.Lock()
	defer ph.mux.Unlock()

	if _, err := fmt.Fprintf(ph.w, "%d % x\n", ph.count, block); err != nil {
		return err
	}

	ph.count++

	return nil
}
