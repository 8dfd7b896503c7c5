// Package trajio reads and writes the CSV formats used by the
// clustering tools: coordinate files (lon,lat per row), series files
// (one trajectory per row), and label output files.
package trajio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/banshee-data/trajectory.report/internal/surge"
)

// LoadCoordinates reads an N-row CSV of "lon,lat" pairs. A header row
// is detected by a non-numeric first field and skipped.
func LoadCoordinates(path string) ([][2]float64, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}

	coords := make([][2]float64, 0, len(records))
	for i, rec := range records {
		if len(rec) != 2 {
			return nil, fmt.Errorf("%s: row %d has %d fields, want 2", path, i+1, len(rec))
		}
		lon, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("%s: row %d: failed to parse longitude: %w", path, i+1, err)
		}
		lat, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: failed to parse latitude: %w", path, i+1, err)
		}
		coords = append(coords, [2]float64{lon, lat})
	}
	return coords, nil
}

// LoadSeries reads an N-row CSV of time series, one trajectory per row.
// All rows must carry the same number of fields.
func LoadSeries(path string) ([][]float64, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}

	series := make([][]float64, 0, len(records))
	for i, rec := range records {
		row := make([]float64, len(rec))
		skip := false
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				if i == 0 {
					skip = true
					break
				}
				return nil, fmt.Errorf("%s: row %d field %d: %w", path, i+1, j+1, err)
			}
			row[j] = v
		}
		if skip {
			continue
		}
		if len(series) > 0 && len(row) != len(series[0]) {
			return nil, fmt.Errorf("%s: row %d has %d fields, want %d", path, i+1, len(row), len(series[0]))
		}
		series = append(series, row)
	}
	return series, nil
}

// WriteLabels writes per-point cluster assignments alongside their
// coordinates, one row per point with a header.
func WriteLabels(path string, coords [][2]float64, labels []int) error {
	if len(coords) != len(labels) {
		return fmt.Errorf("%d coordinates but %d labels", len(coords), len(labels))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"lon", "lat", "cluster"}); err != nil {
		return err
	}
	for i, c := range coords {
		rec := []string{
			strconv.FormatFloat(c[0], 'g', -1, 64),
			strconv.FormatFloat(c[1], 'g', -1, 64),
			strconv.Itoa(labels[i]),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteCurves writes generated curves as a series CSV, one curve per
// row of y values. All curves must share a measurement count.
func WriteCurves(path string, curves []surge.Curve) error {
	if len(curves) == 0 {
		return fmt.Errorf("no curves to write")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	m := len(curves[0].Y)
	rec := make([]string, m)
	for ci, c := range curves {
		if len(c.Y) != m {
			return fmt.Errorf("curve %d has %d points, want %d", ci, len(c.Y), m)
		}
		for j, y := range c.Y {
			rec[j] = strconv.FormatFloat(y, 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func readRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}
