package cli

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
)

type sampleKey struct {
	name    string
	reading string
}

// sampleSet collects the numeric readings of several rounds, in first seen order.
type sampleSet struct {
	order  []sampleKey
	values map[sampleKey]stats.Float64Data
}

func newSampleSet() *sampleSet {
	return &sampleSet{values: map[sampleKey]stats.Float64Data{}}
}

// add records every numeric value of rows laid out as Name, API, Reading, Value.
func (s *sampleSet) add(rows []table.Row) {
	for _, row := range rows {
		if len(row) != 4 {
			continue
		}
		v, ok := asFloat(row[3])
		if !ok {
			continue
		}
		key := sampleKey{name: row[0].(string), reading: row[2].(string)}
		if _, seen := s.values[key]; !seen {
			s.order = append(s.order, key)
		}
		s.values[key] = append(s.values[key], v)
	}
}

func (s *sampleSet) render(w io.Writer) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("summary")
	t.AppendHeader(table.Row{"Name", "Reading", "Samples", "Mean", "Min", "Max", "Std Dev"})
	for _, key := range s.order {
		data := s.values[key]
		mean, err := stats.Mean(data)
		if err != nil {
			return err
		}
		lo, err := stats.Min(data)
		if err != nil {
			return err
		}
		hi, err := stats.Max(data)
		if err != nil {
			return err
		}
		stdDev, err := stats.StandardDeviation(data)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{key.name, key.reading, data.Len(), mean, lo, hi, stdDev})
	}
	t.Render()
	return nil
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
