package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	rows int
	err  error
}

func (e *stubEngine) Name() string { return "stub" }
func (e *stubEngine) Run(_ context.Context, _ *Dataset, _ Format) (Output, error) {
	if e.err != nil {
		return Output{}, e.err
	}
	return Output{Rows: e.rows}, nil
}

type stubEngines map[Config]Engine

func (s stubEngines) Engine(config Config) (Engine, error) {
	engine, ok := s[config]
	if !ok {
		return nil, fmt.Errorf("%w: no stub for %v", ErrEngine, config.Name())
	}
	return engine, nil
}

var (
	pandasCsv     = Config{Library: LibraryPandas, Language: LanguageNone, Mode: ModeNone, Format: FormatCsv}
	pandasParquet = Config{Library: LibraryPandas, Language: LanguageNone, Mode: ModeNone, Format: FormatParquet}
	polarsLazyCsv = Config{Library: LibraryPolars, Language: LanguageRust, Mode: ModeLazy, Format: FormatCsv}
)

func TestSweepProducesOrderedMeasurements(t *testing.T) {
	matrix := []Config{pandasCsv, polarsLazyCsv}
	sweep := &Sweep{
		Engines: stubEngines{
			pandasCsv:     &stubEngine{rows: 7},
			polarsLazyCsv: &stubEngine{rows: 7},
		},
		Benchmark: Benchmark{Repetitions: 3},
	}

	measurements, err := sweep.Run(context.Background(), matrix)
	require.Nil(t, err)
	require.Len(t, measurements, 6)
	for i, measurement := range measurements {
		require.Equal(t, matrix[i/3], measurement.Config)
		require.Equal(t, i%3, measurement.Repetition)
		require.False(t, measurement.Failed)
		require.Equal(t, 7, measurement.Rows)
		require.GreaterOrEqual(t, measurement.ElapsedSeconds, 0.0)
		require.False(t, math.IsInf(measurement.ElapsedSeconds, 0))
		require.False(t, measurement.Timestamp.IsZero())
	}
}

func TestSweepMismatchHalts(t *testing.T) {
	matrix := []Config{pandasCsv, polarsLazyCsv}
	sweep := &Sweep{
		Engines: stubEngines{
			pandasCsv:     &stubEngine{rows: 5},
			polarsLazyCsv: &stubEngine{rows: 6},
		},
		Benchmark: Benchmark{Repetitions: 2},
	}

	measurements, err := sweep.Run(context.Background(), matrix)
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, polarsLazyCsv, mismatch.Config)
	require.Equal(t, 6, mismatch.Rows)
	require.Equal(t, 5, mismatch.Want)
	// everything collected before the halt is still retrievable
	require.Len(t, measurements, 3)
	require.Equal(t, pandasCsv, measurements[0].Config)
	require.Equal(t, polarsLazyCsv, measurements[2].Config)
}

func TestSweepDatasetUnavailableContinues(t *testing.T) {
	matrix := []Config{pandasParquet, pandasCsv}
	sweep := &Sweep{
		Engines: stubEngines{
			pandasParquet: &stubEngine{err: fmt.Errorf("%w: no parquet files", ErrDatasetUnavailable)},
			pandasCsv:     &stubEngine{rows: 5},
		},
		Benchmark: Benchmark{Repetitions: 2},
	}

	measurements, err := sweep.Run(context.Background(), matrix)
	require.Nil(t, err)
	require.Len(t, measurements, 3)
	require.True(t, measurements[0].Failed)
	require.Contains(t, measurements[0].Error, "dataset unavailable")
	require.False(t, measurements[1].Failed)
	require.False(t, measurements[2].Failed)
	require.Len(t, Failures(measurements), 1)
}

func TestSweepEngineFailureContinues(t *testing.T) {
	matrix := []Config{polarsLazyCsv, pandasCsv}
	sweep := &Sweep{
		Engines: stubEngines{
			polarsLazyCsv: &stubEngine{err: fmt.Errorf("%w: worker crashed", ErrEngine)},
			pandasCsv:     &stubEngine{rows: 5},
		},
		Benchmark: Benchmark{Repetitions: 1},
	}

	measurements, err := sweep.Run(context.Background(), matrix)
	require.Nil(t, err)
	require.Len(t, measurements, 2)
	require.True(t, measurements[0].Failed)
	require.False(t, measurements[1].Failed)
}

func TestSweepInputValidation(t *testing.T) {
	sweep := &Sweep{Engines: stubEngines{}, Benchmark: Benchmark{Repetitions: 1}}
	_, err := sweep.Run(context.Background(), nil)
	require.NotNil(t, err)

	sweep = &Sweep{Engines: stubEngines{}, Benchmark: Benchmark{Repetitions: 0}}
	_, err = sweep.Run(context.Background(), []Config{pandasCsv})
	require.NotNil(t, err)

	invalid := Config{Library: LibraryPandas, Language: LanguageRust, Mode: ModeNone, Format: FormatCsv}
	sweep = &Sweep{Engines: stubEngines{}, Benchmark: Benchmark{Repetitions: 1}}
	_, err = sweep.Run(context.Background(), []Config{invalid})
	require.NotNil(t, err)
}

func TestSweepFrameEngines(t *testing.T) {
	dataset := testDataset(t)
	sweep := &Sweep{
		Engines:   NewRegistry(nil),
		Benchmark: Benchmark{Repetitions: 1},
		Dataset:   dataset,
	}

	measurements, err := sweep.Run(context.Background(), []Config{pandasCsv, pandasParquet})
	require.Nil(t, err)
	require.Len(t, measurements, 2)
	for _, measurement := range measurements {
		require.False(t, measurement.Failed)
		require.Equal(t, dataset.Letters, measurement.Rows)
	}
}

func TestSweepFrameEngineMissingFormat(t *testing.T) {
	dataset := testDataset(t)
	for i := 0; i < dataset.Tables; i++ {
		require.Nil(t, os.Remove(dataset.TablePath(i, FormatParquet)))
	}

	sweep := &Sweep{
		Engines:   NewRegistry(nil),
		Benchmark: Benchmark{Repetitions: 1},
		Dataset:   dataset,
	}

	measurements, err := sweep.Run(context.Background(), []Config{pandasParquet, pandasCsv})
	require.Nil(t, err)
	require.Len(t, measurements, 2)
	require.True(t, measurements[0].Failed)
	require.Contains(t, measurements[0].Error, "dataset unavailable")
	require.False(t, measurements[1].Failed)
	require.Equal(t, dataset.Letters, measurements[1].Rows)
}
