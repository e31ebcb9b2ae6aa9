package main

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrDatasetUnavailable marks a missing or unreadable dataset file for
	// the requested format.
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	// ErrEngine marks a failure inside the dataframe library or worker
	// while loading or computing.
	ErrEngine = errors.New("engine failure")
)

// Output is the materialized result of one workload run. Rows is the size of
// the final aggregation and must be identical across all configurations.
type Output struct {
	Rows int
}

type Engine interface {
	Name() string
	Run(ctx context.Context, dataset *Dataset, format Format) (Output, error)
}

type EngineProvider interface {
	Engine(config Config) (Engine, error)
}

// Registry maps configurations to engines: pandas runs in process on gota
// frames, polars configurations run external worker commands.
type Registry struct {
	workers map[string][]string
}

func NewRegistry(workers map[string][]string) *Registry {
	return &Registry{workers: workers}
}

func (r *Registry) Engine(config Config) (Engine, error) {
	switch config.Library {
	case LibraryPandas:
		return &FrameEngine{}, nil
	case LibraryPolars:
		argv, ok := r.workers[config.Name()]
		if !ok || len(argv) == 0 {
			return nil, fmt.Errorf("%w: no worker command configured for %v", ErrEngine, config.Name())
		}
		return &WorkerEngine{name: config.Name(), argv: argv}, nil
	}
	return nil, fmt.Errorf("%w: unknown library %v", ErrEngine, config.Library)
}
