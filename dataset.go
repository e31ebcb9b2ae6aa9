package main

import (
	"fmt"
	"math/rand"
	"os"
	"path"

	"github.com/go-gota/gota/dataframe"
	"github.com/parquet-go/parquet-go"
)

// tableRow is one record of a data table: five letter columns, five integer
// columns and ten float columns, named A through T.
type tableRow struct {
	A string  `dataframe:"A" parquet:"A"`
	B string  `dataframe:"B" parquet:"B"`
	C string  `dataframe:"C" parquet:"C"`
	D string  `dataframe:"D" parquet:"D"`
	E string  `dataframe:"E" parquet:"E"`
	F int64   `dataframe:"F" parquet:"F"`
	G int64   `dataframe:"G" parquet:"G"`
	H int64   `dataframe:"H" parquet:"H"`
	I int64   `dataframe:"I" parquet:"I"`
	J int64   `dataframe:"J" parquet:"J"`
	K float64 `dataframe:"K" parquet:"K"`
	L float64 `dataframe:"L" parquet:"L"`
	M float64 `dataframe:"M" parquet:"M"`
	N float64 `dataframe:"N" parquet:"N"`
	O float64 `dataframe:"O" parquet:"O"`
	P float64 `dataframe:"P" parquet:"P"`
	Q float64 `dataframe:"Q" parquet:"Q"`
	R float64 `dataframe:"R" parquet:"R"`
	S float64 `dataframe:"S" parquet:"S"`
	T float64 `dataframe:"T" parquet:"T"`
}

// keyRow is one record of the key table joined to the data tables on A = key.
type keyRow struct {
	Key string `dataframe:"key" parquet:"key"`
	K0  int64  `dataframe:"k0" parquet:"k0"`
	K1  int64  `dataframe:"k1" parquet:"k1"`
	K2  int64  `dataframe:"k2" parquet:"k2"`
}

// Dataset describes the synthetic tables on disk. Every table exists in both
// encodings so that all configurations compute over the same logical data.
type Dataset struct {
	Dir     string
	Tables  int
	Rows    int
	Letters int
	Seed    int64
}

func (d *Dataset) TablePath(i int, format Format) string {
	return path.Join(d.Dir, fmt.Sprintf("table_%v%v", i, format.Extension()))
}

func (d *Dataset) TablePaths(format Format) []string {
	paths := make([]string, 0, d.Tables)
	for i := 0; i < d.Tables; i++ {
		paths = append(paths, d.TablePath(i, format))
	}
	return paths
}

func (d *Dataset) KeyPath(format Format) string {
	return path.Join(d.Dir, "key_table"+format.Extension())
}

func (d *Dataset) letter(rng *rand.Rand) string {
	return string(rune('a' + rng.Intn(d.Letters)))
}

func (d *Dataset) tableRows(rng *rand.Rand) []tableRow {
	rows := make([]tableRow, d.Rows)
	for i := range rows {
		rows[i] = tableRow{
			A: d.letter(rng),
			B: d.letter(rng),
			C: d.letter(rng),
			D: d.letter(rng),
			E: d.letter(rng),
			F: 1 + rng.Int63n(int64(d.Letters)),
			G: 1 + rng.Int63n(int64(d.Letters)),
			H: 1 + rng.Int63n(int64(d.Letters)),
			I: 1 + rng.Int63n(int64(d.Letters)),
			J: 1 + rng.Int63n(int64(d.Letters)),
			K: rng.Float64(),
			L: rng.Float64(),
			M: rng.Float64(),
			N: rng.Float64(),
			O: rng.Float64(),
			P: rng.Float64(),
			Q: rng.Float64(),
			R: rng.Float64(),
			S: rng.Float64(),
			T: rng.Float64(),
		}
	}
	return rows
}

func (d *Dataset) keyRows(rng *rand.Rand) []keyRow {
	rows := make([]keyRow, d.Letters)
	for i := range rows {
		rows[i] = keyRow{
			Key: string(rune('a' + i)),
			K0:  -5 + rng.Int63n(4),
			K1:  -5 + rng.Int63n(4),
			K2:  -5 + rng.Int63n(4),
		}
	}
	return rows
}

func writeCsv[R any](filename string, rows []R) error {
	frame := dataframe.LoadStructs(rows)
	if frame.Err != nil {
		return fmt.Errorf("failed to build frame for %v: %w", filename, frame.Err)
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return frame.WriteCSV(file)
}

// Generate writes the synthetic tables in both encodings. Generation is
// deterministic for a fixed seed and skipped entirely when the dataset is
// already present (the key table parquet file is written last and acts as
// the completion marker).
func (d *Dataset) Generate() error {
	if _, err := os.Stat(d.KeyPath(FormatParquet)); err == nil {
		Logger.Infof("dataset at %v already exists, skip generation", d.Dir)
		return nil
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return err
	}
	Logger.Infof("generating dataset at %v: %v tables x %v rows, %v letters", d.Dir, d.Tables, d.Rows, d.Letters)
	rng := rand.New(rand.NewSource(d.Seed))
	for i := 0; i < d.Tables; i++ {
		rows := d.tableRows(rng)
		if err := writeCsv(d.TablePath(i, FormatCsv), rows); err != nil {
			return fmt.Errorf("failed to write table %v: %w", i, err)
		}
		if err := parquet.WriteFile(d.TablePath(i, FormatParquet), rows); err != nil {
			return fmt.Errorf("failed to write table %v: %w", i, err)
		}
	}
	keys := d.keyRows(rng)
	if err := writeCsv(d.KeyPath(FormatCsv), keys); err != nil {
		return fmt.Errorf("failed to write key table: %w", err)
	}
	if err := parquet.WriteFile(d.KeyPath(FormatParquet), keys); err != nil {
		return fmt.Errorf("failed to write key table: %w", err)
	}
	Logger.Infof("finished dataset generation at %v", d.Dir)
	return nil
}
