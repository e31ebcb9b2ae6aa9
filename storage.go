package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

var resultColumns = []string{
	"library",
	"language",
	"execution_mode",
	"file_format",
	"repetition_index",
	"elapsed_seconds",
	"row_count_result",
	"timestamp",
	"status",
	"error",
}

func measurementRecord(m Measurement) []string {
	status := "ok"
	if m.Failed {
		status = "failed"
	}
	return []string{
		string(m.Config.Library),
		string(m.Config.Language),
		string(m.Config.Mode),
		string(m.Config.Format),
		strconv.Itoa(m.Repetition),
		strconv.FormatFloat(m.ElapsedSeconds, 'f', -1, 64),
		strconv.Itoa(m.Rows),
		m.Timestamp.UTC().Format(time.RFC3339Nano),
		status,
		m.Error,
	}
}

// WriteResults writes the measurement sequence as the tabular artifact
// consumed by the reporting step, one record per run in issue order.
func WriteResults(w io.Writer, measurements []Measurement) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(resultColumns); err != nil {
		return err
	}
	for _, measurement := range measurements {
		if err := writer.Write(measurementRecord(measurement)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func SaveResults(filename string, measurements []Measurement) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteResults(file, measurements)
}

// Storage uploads a finished sweep into a libsql database for long term
// tracking next to previous sweeps.
type Storage struct {
	Url string
}

func (s *Storage) Connect() (*sql.DB, error) {
	return sql.Open("libsql", s.Url)
}

func (s *Storage) Init(db *sql.DB, meta map[string]any) error {
	_, err := db.Exec("CREATE TABLE IF NOT EXISTS parameters (name TEXT PRIMARY KEY, value)")
	if err != nil {
		return err
	}
	parameters := make([]any, 0)
	parameters = append(parameters, "time", time.Now().Format("2006-01-02 15:04:05"))
	for key, value := range meta {
		parameters = append(parameters, key, fmt.Sprintf("%v", value))
	}
	placeholders := strings.Join(slices.Repeat([]string{"(?, ?)"}, len(parameters)/2), ", ")
	_, err = db.Exec(
		fmt.Sprintf("INSERT INTO parameters VALUES %v ON CONFLICT DO NOTHING", placeholders),
		parameters...,
	)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS measurements (
		library TEXT,
		language TEXT,
		execution_mode TEXT,
		file_format TEXT,
		repetition INTEGER,
		elapsed_seconds REAL,
		row_count INTEGER,
		timestamp TEXT,
		status TEXT,
		error TEXT,
		PRIMARY KEY (library, language, execution_mode, file_format, repetition)
	)`)
	if err != nil {
		return err
	}
	Logger.Infof("initialized results database with meta %v", meta)
	return nil
}

func (s *Storage) Upload(db *sql.DB, measurements []Measurement) error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	for _, measurement := range measurements {
		record := measurementRecord(measurement)
		args := make([]any, len(record))
		for i, field := range record {
			args[i] = field
		}
		_, err = tx.Exec("INSERT INTO measurements VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", args...)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}
