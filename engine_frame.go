package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/parquet-go/parquet-go"
)

var workloadColumns = []string{"A", "I", "P"}

// FrameEngine executes the workload in process on gota dataframes: read
// every table, keep columns A, I and P, stack the tables, left join the key
// table on A = key, group by A and take the mean of every numeric column.
// Each Run loads the dataset from disk again, nothing is cached between runs.
type FrameEngine struct{}

func (e *FrameEngine) Name() string { return "frame" }

func readFrame(path string, format Format, rows any) (dataframe.DataFrame, error) {
	if _, err := os.Stat(path); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	var frame dataframe.DataFrame
	switch format {
	case FormatCsv:
		file, err := os.Open(path)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
		}
		defer file.Close()
		frame = dataframe.ReadCSV(file)
	case FormatParquet:
		frame = readParquetFrame(path, rows)
	default:
		return dataframe.DataFrame{}, fmt.Errorf("%w: unknown format %v", ErrEngine, format)
	}
	if frame.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: failed to read %v: %v", ErrEngine, path, frame.Err)
	}
	return frame, nil
}

func readParquetFrame(path string, rows any) dataframe.DataFrame {
	switch rows.(type) {
	case tableRow:
		records, err := parquet.ReadFile[tableRow](path)
		if err != nil {
			return dataframe.DataFrame{Err: err}
		}
		return dataframe.LoadStructs(records)
	case keyRow:
		records, err := parquet.ReadFile[keyRow](path)
		if err != nil {
			return dataframe.DataFrame{Err: err}
		}
		return dataframe.LoadStructs(records)
	}
	return dataframe.DataFrame{Err: fmt.Errorf("unknown row type %T", rows)}
}

func (e *FrameEngine) Run(ctx context.Context, dataset *Dataset, format Format) (Output, error) {
	keys, err := readFrame(dataset.KeyPath(format), format, keyRow{})
	if err != nil {
		return Output{}, err
	}
	keys = keys.Rename("A", "key")
	if keys.Err != nil {
		return Output{}, fmt.Errorf("%w: %v", ErrEngine, keys.Err)
	}

	var all dataframe.DataFrame
	for i, path := range dataset.TablePaths(format) {
		if err := ctx.Err(); err != nil {
			return Output{}, err
		}
		frame, err := readFrame(path, format, tableRow{})
		if err != nil {
			return Output{}, err
		}
		frame = frame.Select(workloadColumns)
		if frame.Err != nil {
			return Output{}, fmt.Errorf("%w: failed to select columns in %v: %v", ErrEngine, path, frame.Err)
		}
		if i == 0 {
			all = frame
		} else {
			all = all.RBind(frame)
		}
		if all.Err != nil {
			return Output{}, fmt.Errorf("%w: failed to stack %v: %v", ErrEngine, path, all.Err)
		}
	}

	joined := all.LeftJoin(keys, "A")
	if joined.Err != nil {
		return Output{}, fmt.Errorf("%w: failed to join key table: %v", ErrEngine, joined.Err)
	}

	groups := joined.GroupBy("A")
	if groups.Err != nil {
		return Output{}, fmt.Errorf("%w: failed to group by A: %v", ErrEngine, groups.Err)
	}
	columns := make([]string, 0)
	for _, name := range joined.Names() {
		if name != "A" {
			columns = append(columns, name)
		}
	}
	aggregations := make([]dataframe.AggregationType, len(columns))
	for i := range aggregations {
		aggregations[i] = dataframe.Aggregation_MEAN
	}
	means := groups.Aggregation(aggregations, columns)
	if means.Err != nil {
		return Output{}, fmt.Errorf("%w: failed to aggregate: %v", ErrEngine, means.Err)
	}
	return Output{Rows: means.Nrow()}, nil
}
