// Package blockring provides the main entrypoint for the blockring library.
//
// A pipeline links an ingress stage, offering fixed-size blocks into a
// connector.BlockRing without ever blocking, with an egress stage
// reading them back with a timeout.
package blockring

import (
	"context"
	"fmt"
	"sync"

	"github.com/FerroO2000/blockring/connector"
)

// Stage defines the interface for a generic stage.
type Stage interface {
	// Init initializes the stage.
	Init(ctx context.Context) error
	// Run runs the stage until the context is cancelled.
	Run(ctx context.Context)
	// Close closes (forever) the stage.
	Close()
}

// Connector represents the interface used for connecting the stages.
type Connector = connector.Connector

// Pipeline represents a generic pipeline.
// It is the entrypoint for the stages.
type Pipeline struct {
	stages []Stage

	wg        *sync.WaitGroup
	mux       *sync.Mutex
	isRunning bool
}

// NewPipeline returns a new pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		stages: []Stage{},

		wg:  &sync.WaitGroup{},
		mux: &sync.Mutex{},
	}
}

// AddStage adds a stage to the pipeline.
// Stages added while the pipeline is running are ignored.
func (p *Pipeline) AddStage(stage Stage) {
	p.mux.Lock()
	defer p.mux.Unlock()

	if p.isRunning {
		return
	}

	p.stages = append(p.stages, stage)
}

// Init initializes all the stages in order.
// It stops at the first stage returning an error.
func (p *Pipeline) Init(ctx context.Context) error {
	for idx, stage := range p.stages {
		if err := stage.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize stage %d: %w", idx, err)
		}
	}

	return nil
}

// Run runs all the stages.
// It will spawn a goroutine for each stage.
func (p *Pipeline) Run(ctx context.Context) {
	p.mux.Lock()
	defer p.mux.Unlock()

	if p.isRunning {
		return
	}
	p.isRunning = true

	p.wg.Add(len(p.stages))

	for _, stage := range p.stages {
		go func() {
			defer p.wg.Done()
			stage.Run(ctx)
		}()
	}
}

// Close closes all the stages.
// It blocks until all the stages have returned from Run,
// so the context passed to Run must be cancelled first.
func (p *Pipeline) Close() {
	for _, stage := range p.stages {
		stage.Close()
	}

	p.wg.Wait()

	p.mux.Lock()
	p.isRunning = false
	p.mux.Unlock()
}
