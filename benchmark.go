package main

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"
)

type Benchmark struct {
	Warmup      int
	Repetitions int
	ClearCaches bool
}

func dropCaches() error {
	switch runtime.GOOS {
	case "linux":
		if err := exec.Command("sync").Run(); err != nil {
			return err
		}
		if err := exec.Command("sh", "-c", "echo 3 | sudo tee /proc/sys/vm/drop_caches").Run(); err != nil {
			return err
		}
		return nil
	case "darwin":
		if err := exec.Command("sync").Run(); err != nil {
			return err
		}
		if err := exec.Command("purge").Run(); err != nil {
			return err
		}
		return nil
	}
	return fmt.Errorf("unable to drop caches for platform '%v'", runtime.GOOS)
}

func (b *Benchmark) prepare() error {
	if !b.ClearCaches {
		return nil
	}
	Logger.Info("dropping filesystem caches")
	return dropCaches()
}

func (b *Benchmark) Warm(ctx context.Context, engine Engine, dataset *Dataset, format Format) error {
	for i := 0; i < b.Warmup; i++ {
		Logger.Infof("running warmup #%v/%v for %v", i+1, b.Warmup, engine.Name())
		if _, err := engine.Run(ctx, dataset, format); err != nil {
			return fmt.Errorf("warmup #%v failed: %w", i+1, err)
		}
	}
	return nil
}

// Time runs the workload once and measures it with the monotonic clock.
// Elapsed time is reported only for successful runs.
func (b *Benchmark) Time(ctx context.Context, engine Engine, dataset *Dataset, format Format) (time.Duration, Output, error) {
	if err := b.prepare(); err != nil {
		return 0, Output{}, err
	}
	start := time.Now()
	output, err := engine.Run(ctx, dataset, format)
	elapsed := time.Since(start)
	if err != nil {
		return 0, Output{}, err
	}
	return elapsed, output, nil
}
