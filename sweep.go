package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

type SysInfo struct {
	Arch     string
	Hostname string
	Platform string
	CPUCount int
	CPUFreq  float64
	RAM      float64
}

func HostStat() SysInfo {
	hostStat, _ := host.Info()
	cpuStat, _ := cpu.Info()
	vmStat, _ := mem.VirtualMemory()
	totalFreq := 0.0
	for _, cpu := range cpuStat {
		totalFreq += cpu.Mhz
	}
	info := SysInfo{
		Arch:     runtime.GOARCH,
		Hostname: hostStat.Hostname,
		Platform: hostStat.Platform,
		CPUCount: len(cpuStat),
		CPUFreq:  totalFreq / float64(len(cpuStat)) * 1000,
		RAM:      float64(vmStat.Total) / 1024 / 1024 / 1024,
	}
	return info
}

// Measurement records one workload run under one configuration. Measurements
// are appended in issue order and never mutated.
type Measurement struct {
	Config         Config
	Repetition     int
	ElapsedSeconds float64
	Rows           int
	Timestamp      time.Time
	Failed         bool
	Error          string
}

// MismatchError means a configuration computed a different result than the
// reference configuration, which invalidates every timing collected so far.
type MismatchError struct {
	Config Config
	Rows   int
	Want   int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("workload mismatch for %v: got %v result rows, reference computed %v", e.Config.Name(), e.Rows, e.Want)
}

type Sweep struct {
	Engines   EngineProvider
	Benchmark Benchmark
	Dataset   *Dataset
}

func failed(config Config, repetition int, err error) Measurement {
	return Measurement{
		Config:     config,
		Repetition: repetition,
		Timestamp:  time.Now(),
		Failed:     true,
		Error:      err.Error(),
	}
}

// Run executes the workload for every configuration in matrix order,
// Repetitions times each, strictly sequentially. Dataset and engine failures
// are recorded against the configuration and the sweep continues; a result
// mismatch halts the sweep immediately. Measurements collected before a halt
// are returned alongside the error.
func (s *Sweep) Run(ctx context.Context, matrix []Config) ([]Measurement, error) {
	if len(matrix) == 0 {
		return nil, fmt.Errorf("matrix must be non-empty")
	}
	if s.Benchmark.Repetitions < 1 {
		return nil, fmt.Errorf("repetitions must be positive, got %v", s.Benchmark.Repetitions)
	}
	for _, config := range matrix {
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration %+v: %w", config, err)
		}
	}

	reference := -1
	results := make([]Measurement, 0, len(matrix)*s.Benchmark.Repetitions)
	for _, config := range matrix {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		Logger.Infof("running configuration %v", config.Name())

		engine, err := s.Engines.Engine(config)
		if err != nil {
			Logger.Errorf("failed to initialize engine for %v: %v", config.Name(), err)
			results = append(results, failed(config, 0, err))
			continue
		}
		if err := s.Benchmark.Warm(ctx, engine, s.Dataset, config.Format); err != nil {
			Logger.Errorf("failed to warm up %v: %v", config.Name(), err)
			results = append(results, failed(config, 0, err))
			continue
		}

		for repetition := 0; repetition < s.Benchmark.Repetitions; repetition++ {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			Logger.Infof("running workload #%v/%v for %v", repetition+1, s.Benchmark.Repetitions, config.Name())
			elapsed, output, err := s.Benchmark.Time(ctx, engine, s.Dataset, config.Format)
			if err != nil {
				Logger.Errorf("failed to run %v: %v", config.Name(), err)
				// no retries, remaining repetitions are skipped
				results = append(results, failed(config, repetition, err))
				break
			}
			measurement := Measurement{
				Config:         config,
				Repetition:     repetition,
				ElapsedSeconds: elapsed.Seconds(),
				Rows:           output.Rows,
				Timestamp:      time.Now(),
			}
			results = append(results, measurement)
			if reference == -1 {
				reference = output.Rows
			} else if output.Rows != reference {
				return results, &MismatchError{Config: config, Rows: output.Rows, Want: reference}
			}
		}
	}
	return results, nil
}

// Failures lists the configurations that did not complete, so a partial
// sweep is distinguishable from a full one.
func Failures(measurements []Measurement) []Measurement {
	failures := make([]Measurement, 0)
	for _, measurement := range measurements {
		if measurement.Failed {
			failures = append(failures, measurement)
		}
	}
	return failures
}
