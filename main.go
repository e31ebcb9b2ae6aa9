package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

func StringEnv(key string, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func IntEnv(key string, def int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func BoolEnv(key string, def bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

func workerEnvKey(config Config) string {
	return "WORKER_" + strings.ToUpper(strings.ReplaceAll(config.Name(), ":", "_"))
}

// WorkersFromEnv collects worker command templates for the polars
// configurations in the matrix, e.g.
// WORKER_POLARS_RUST_LAZY_PARQUET="workers/polars-lazy {dataset} {format}".
func WorkersFromEnv(matrix []Config) map[string][]string {
	workers := make(map[string][]string)
	for _, config := range matrix {
		if config.Library != LibraryPolars {
			continue
		}
		if raw, ok := os.LookupEnv(workerEnvKey(config)); ok {
			workers[config.Name()] = strings.Fields(raw)
		}
	}
	return workers
}

func main() {
	_ = godotenv.Load()

	var (
		datasetDir     = StringEnv("DATASET_DIR", "data")
		datasetTables  = IntEnv("DATASET_TABLES", 100)
		datasetRows    = IntEnv("DATASET_ROWS", 100_000)
		datasetLetters = IntEnv("DATASET_LETTERS", 26)
		datasetSeed    = IntEnv("DATASET_SEED", 20230415)
		configs        = StringEnv("BENCHMARK_CONFIGS", "")
		repetitions    = IntEnv("BENCHMARK_REPETITIONS", 3)
		warmup         = IntEnv("BENCHMARK_WARMUP", 0)
		clearCaches    = BoolEnv("BENCHMARK_CLEAR_CACHES", false)
		resultsPath    = StringEnv("RESULTS_PATH", "results.csv")
		resultsDbUrl   = StringEnv("RESULTS_DB_URL", "")
	)

	matrix := DefaultMatrix()
	if configs != "" {
		parsed, err := ParseConfigs(configs)
		if err != nil {
			Logger.Fatalf("failed to parse BENCHMARK_CONFIGS: %v", err)
		}
		matrix = parsed
	}
	Logger.Infof("start benchmark: %v configurations, %v repetitions", len(matrix), repetitions)

	info := HostStat()
	Logger.Infof("host stat: %+v", info)

	dataset := &Dataset{
		Dir:     datasetDir,
		Tables:  datasetTables,
		Rows:    datasetRows,
		Letters: datasetLetters,
		Seed:    int64(datasetSeed),
	}
	if err := dataset.Generate(); err != nil {
		Logger.Fatalf("failed to generate dataset: %v", err)
	}

	sweep := &Sweep{
		Engines: NewRegistry(WorkersFromEnv(matrix)),
		Benchmark: Benchmark{
			Warmup:      warmup,
			Repetitions: repetitions,
			ClearCaches: clearCaches,
		},
		Dataset: dataset,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	measurements, runErr := sweep.Run(ctx, matrix)
	if runErr != nil {
		Logger.Errorf("sweep halted: %v", runErr)
	}

	if len(measurements) > 0 {
		if err := SaveResults(resultsPath, measurements); err != nil {
			Logger.Fatalf("failed to save results to %v: %v", resultsPath, err)
		}
		Logger.Infof("saved %v measurements to %v", len(measurements), resultsPath)

		if resultsDbUrl != "" {
			storage := &Storage{Url: resultsDbUrl}
			db, err := storage.Connect()
			if err != nil {
				Logger.Fatalf("failed to connect to results db: %v", err)
			}
			defer db.Close()
			err = storage.Init(db, map[string]any{
				"arch":     info.Arch,
				"hostname": info.Hostname,
				"platform": info.Platform,
				"ram":      info.RAM,
				"cpu":      info.CPUCount,
				"freq":     info.CPUFreq,
				"tables":   datasetTables,
				"rows":     datasetRows,
			})
			if err != nil {
				Logger.Fatalf("failed to initialize results db: %v", err)
			}
			if err := storage.Upload(db, measurements); err != nil {
				Logger.Fatalf("failed to upload results: %v", err)
			}
			Logger.Infof("uploaded %v measurements", len(measurements))
		}

		if err := Summary(os.Stdout, measurements); err != nil {
			Logger.Errorf("failed to render summary: %v", err)
		}
	}

	if runErr != nil || len(Failures(measurements)) > 0 {
		os.Exit(1)
	}
}
