package main

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// WorkerEngine runs the workload through an external worker command, one per
// polars configuration. The argv template may reference {dataset} and
// {format}; the worker reports the final aggregation size on stdout as a
// line of the form "rows <n>".
type WorkerEngine struct {
	name string
	argv []string
}

func (e *WorkerEngine) Name() string { return e.name }

func (e *WorkerEngine) Cmd(dataset *Dataset, format Format) []string {
	argv := make([]string, len(e.argv))
	for i, arg := range e.argv {
		arg = strings.ReplaceAll(arg, "{dataset}", dataset.Dir)
		arg = strings.ReplaceAll(arg, "{format}", string(format))
		argv[i] = arg
	}
	return argv
}

func parseWorkerRows(lines []string) (int, error) {
	for _, line := range lines {
		if value, ok := strings.CutPrefix(strings.TrimSpace(line), "rows "); ok {
			rows, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return 0, fmt.Errorf("malformed rows line '%v': %w", line, err)
			}
			return rows, nil
		}
	}
	return 0, fmt.Errorf("no rows line in worker output")
}

func (e *WorkerEngine) Run(ctx context.Context, dataset *Dataset, format Format) (Output, error) {
	argv := e.Cmd(dataset, format)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Output{}, fmt.Errorf("%w: worker %v failed: err=%v, out=%v", ErrEngine, e.name, err, string(output))
	}
	rows, err := parseWorkerRows(strings.Split(string(output), "\n"))
	if err != nil {
		return Output{}, fmt.Errorf("%w: worker %v: %v, out=%v", ErrEngine, e.name, err, string(output))
	}
	return Output{Rows: rows}, nil
}
