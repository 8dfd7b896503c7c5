// Package report renders clustering results and generated curves for
// offline inspection: an HTML scatter of labelled points via go-echarts
// and PNG curve plots via gonum/plot.
package report

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/trajectory.report/internal/stdbscan"
)

// WriteClusterScatter renders an HTML scatter chart of the labelled
// points, one series per cluster id plus one for noise.
func WriteClusterScatter(path, title string, coords [][2]float64, labels []int) error {
	if len(coords) != len(labels) {
		return fmt.Errorf("report: %d coordinates but %d labels", len(coords), len(labels))
	}

	byCluster := make(map[int][]opts.ScatterData)
	for i, c := range coords {
		byCluster[labels[i]] = append(byCluster[labels[i]], opts.ScatterData{
			Value: []interface{}{c[0], c[1]},
		})
	}
	ids := make([]int, 0, len(byCluster))
	for id := range byCluster {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	clusters := 0
	for _, id := range ids {
		if id >= 0 {
			clusters++
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("points=%d clusters=%d", len(coords), clusters)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "longitude", NameLocation: "middle", NameGap: 25, Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "latitude", NameLocation: "middle", NameGap: 30, Scale: opts.Bool(true)}),
	)

	for _, id := range ids {
		name := fmt.Sprintf("cluster %d", id)
		size := 6
		if id == stdbscan.Noise {
			name = "noise"
			size = 3
		}
		scatter.AddSeries(name, byCluster[id], charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: size}))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("failed to render scatter: %w", err)
	}
	return nil
}
