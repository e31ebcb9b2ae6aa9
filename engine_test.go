package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameEngineComputesSameResultForBothFormats(t *testing.T) {
	dataset := testDataset(t)
	engine := &FrameEngine{}

	csv, err := engine.Run(context.Background(), dataset, FormatCsv)
	require.Nil(t, err)
	require.Equal(t, dataset.Letters, csv.Rows)

	parquet, err := engine.Run(context.Background(), dataset, FormatParquet)
	require.Nil(t, err)
	require.Equal(t, csv.Rows, parquet.Rows)
}

func TestFrameEngineMissingDataset(t *testing.T) {
	dataset := &Dataset{Dir: t.TempDir(), Tables: 1, Rows: 10, Letters: 5, Seed: 1}
	engine := &FrameEngine{}

	_, err := engine.Run(context.Background(), dataset, FormatCsv)
	require.ErrorIs(t, err, ErrDatasetUnavailable)
}

func TestWorkerCmdSubstitution(t *testing.T) {
	engine := &WorkerEngine{
		name: "polars:python:lazy:csv",
		argv: []string{"python", "workers/polars.py", "--lazy", "{dataset}", "{format}"},
	}
	dataset := &Dataset{Dir: "/tmp/tables"}
	require.Equal(t,
		[]string{"python", "workers/polars.py", "--lazy", "/tmp/tables", "csv"},
		engine.Cmd(dataset, FormatCsv),
	)
}

func TestParseWorkerRows(t *testing.T) {
	rows, err := parseWorkerRows([]string{"loading tables", "rows 26", ""})
	require.Nil(t, err)
	require.Equal(t, 26, rows)

	_, err = parseWorkerRows([]string{"rows twenty"})
	require.NotNil(t, err)

	_, err = parseWorkerRows([]string{"done"})
	require.NotNil(t, err)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(map[string][]string{
		"polars:rust:eager:parquet": {"workers/polars-rust", "{dataset}", "{format}"},
	})

	engine, err := registry.Engine(Config{Library: LibraryPandas, Language: LanguageNone, Mode: ModeNone, Format: FormatCsv})
	require.Nil(t, err)
	require.IsType(t, &FrameEngine{}, engine)

	engine, err = registry.Engine(Config{Library: LibraryPolars, Language: LanguageRust, Mode: ModeEager, Format: FormatParquet})
	require.Nil(t, err)
	require.IsType(t, &WorkerEngine{}, engine)

	_, err = registry.Engine(Config{Library: LibraryPolars, Language: LanguagePython, Mode: ModeLazy, Format: FormatCsv})
	require.ErrorIs(t, err, ErrEngine)
}
