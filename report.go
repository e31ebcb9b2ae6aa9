package main

import (
	"fmt"
	"io"
	"math"
)

type configSummary struct {
	config   Config
	elapsed  []float64
	rows     int
	failures []string
}

func (s *configSummary) min() float64 {
	best := math.Inf(1)
	for _, e := range s.elapsed {
		best = math.Min(best, e)
	}
	return best
}

func (s *configSummary) mean() float64 {
	total := 0.0
	for _, e := range s.elapsed {
		total += e
	}
	return total / float64(len(s.elapsed))
}

func summarize(measurements []Measurement) []*configSummary {
	order := make([]*configSummary, 0)
	index := make(map[Config]*configSummary)
	for _, measurement := range measurements {
		summary, ok := index[measurement.Config]
		if !ok {
			summary = &configSummary{config: measurement.Config}
			index[measurement.Config] = summary
			order = append(order, summary)
		}
		if measurement.Failed {
			summary.failures = append(summary.failures, measurement.Error)
		} else {
			summary.elapsed = append(summary.elapsed, measurement.ElapsedSeconds)
			summary.rows = measurement.Rows
		}
	}
	return order
}

// Summary renders the end of sweep table: best and mean time per
// configuration, slowdown relative to the fastest one, and the reason for
// every configuration that did not complete.
func Summary(w io.Writer, measurements []Measurement) error {
	if len(measurements) == 0 {
		return fmt.Errorf("no measurements to summarize")
	}
	summaries := summarize(measurements)

	fastest := math.Inf(1)
	for _, summary := range summaries {
		if len(summary.elapsed) > 0 {
			fastest = math.Min(fastest, summary.min())
		}
	}

	fmt.Fprintln(w, "| configuration | runs | min | mean | rows | vs fastest | status |")
	fmt.Fprintln(w, "|---------------|------|-----|------|------|------------|--------|")
	for _, summary := range summaries {
		if len(summary.elapsed) == 0 {
			fmt.Fprintf(w, "| %v | 0 | - | - | - | - | failed |\n", summary.config.Name())
			continue
		}
		status := "ok"
		if len(summary.failures) > 0 {
			status = "partial"
		}
		fmt.Fprintf(w, "| %v | %v | %.3fs | %.3fs | %v | %.2fx | %v |\n",
			summary.config.Name(),
			len(summary.elapsed),
			summary.min(),
			summary.mean(),
			summary.rows,
			summary.min()/fastest,
			status,
		)
	}
	for _, summary := range summaries {
		for _, failure := range summary.failures {
			fmt.Fprintf(w, "\n%v failed: %v\n", summary.config.Name(), failure)
		}
	}
	return nil
}
