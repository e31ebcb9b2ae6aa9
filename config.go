package main

import (
	"fmt"
	"strings"
)

type Library string

const (
	LibraryPandas Library = "pandas"
	LibraryPolars Library = "polars"
)

type Language string

const (
	LanguagePython Language = "python"
	LanguageRust   Language = "rust"
	LanguageNone   Language = "-"
)

type Mode string

const (
	ModeEager Mode = "eager"
	ModeLazy  Mode = "lazy"
	ModeNone  Mode = "-"
)

type Format string

const (
	FormatCsv     Format = "csv"
	FormatParquet Format = "parquet"
)

func (f Format) Extension() string { return "." + string(f) }

// Config identifies one benchmark condition. Language and Mode carry the
// "-" sentinel for pandas, which runs in a single language and only eagerly.
type Config struct {
	Library  Library
	Language Language
	Mode     Mode
	Format   Format
}

func (c Config) Name() string {
	if c.Library == LibraryPandas {
		return fmt.Sprintf("%v:%v", c.Library, c.Format)
	}
	return fmt.Sprintf("%v:%v:%v:%v", c.Library, c.Language, c.Mode, c.Format)
}

func (c Config) Validate() error {
	if c.Format != FormatCsv && c.Format != FormatParquet {
		return fmt.Errorf("unknown format '%v'", c.Format)
	}
	switch c.Library {
	case LibraryPandas:
		if c.Language != LanguageNone || c.Mode != ModeNone {
			return fmt.Errorf("language and mode are not applicable for %v", c.Library)
		}
	case LibraryPolars:
		if c.Language != LanguagePython && c.Language != LanguageRust {
			return fmt.Errorf("unknown language '%v'", c.Language)
		}
		if c.Mode != ModeEager && c.Mode != ModeLazy {
			return fmt.Errorf("unknown mode '%v'", c.Mode)
		}
	default:
		return fmt.Errorf("unknown library '%v'", c.Library)
	}
	return nil
}

func parseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatCsv:
		return FormatCsv, nil
	case FormatParquet:
		return FormatParquet, nil
	}
	return "", fmt.Errorf("unknown format '%v'", raw)
}

// ParseConfig parses a single spec like "pandas:csv" or "polars:rust:lazy:parquet".
func ParseConfig(spec string) (Config, error) {
	parts := strings.Split(strings.TrimSpace(spec), ":")
	switch {
	case len(parts) == 2 && parts[0] == string(LibraryPandas):
		format, err := parseFormat(parts[1])
		if err != nil {
			return Config{}, fmt.Errorf("invalid config '%v': %w", spec, err)
		}
		return Config{Library: LibraryPandas, Language: LanguageNone, Mode: ModeNone, Format: format}, nil
	case len(parts) == 4 && parts[0] == string(LibraryPolars):
		format, err := parseFormat(parts[3])
		if err != nil {
			return Config{}, fmt.Errorf("invalid config '%v': %w", spec, err)
		}
		config := Config{Library: LibraryPolars, Language: Language(parts[1]), Mode: Mode(parts[2]), Format: format}
		if err := config.Validate(); err != nil {
			return Config{}, fmt.Errorf("invalid config '%v': %w", spec, err)
		}
		return config, nil
	}
	return Config{}, fmt.Errorf("invalid config '%v': expected pandas:<format> or polars:<language>:<mode>:<format>", spec)
}

// ParseConfigs parses a comma separated list of config specs, preserving order.
func ParseConfigs(specs string) ([]Config, error) {
	matrix := make([]Config, 0)
	for _, spec := range strings.Split(specs, ",") {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		config, err := ParseConfig(spec)
		if err != nil {
			return nil, err
		}
		matrix = append(matrix, config)
	}
	return matrix, nil
}

// DefaultMatrix is the full cross product: pandas over both formats plus
// polars over both languages, both modes and both formats.
func DefaultMatrix() []Config {
	matrix := make([]Config, 0, 10)
	for _, format := range []Format{FormatCsv, FormatParquet} {
		matrix = append(matrix, Config{Library: LibraryPandas, Language: LanguageNone, Mode: ModeNone, Format: format})
	}
	for _, language := range []Language{LanguagePython, LanguageRust} {
		for _, mode := range []Mode{ModeEager, ModeLazy} {
			for _, format := range []Format{FormatCsv, FormatParquet} {
				matrix = append(matrix, Config{Library: LibraryPolars, Language: language, Mode: mode, Format: format})
			}
		}
	}
	return matrix
}
