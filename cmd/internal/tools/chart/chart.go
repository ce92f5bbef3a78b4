package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathanhack/fecsim/cmd/internal/tools"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var OutputFile string

var ChartRun = func(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("requires at least one RESULTS_JSON")
		return
	}

	// loop through all the results files and collect data needed for displaying

	results := make([]*tools.SweepResults, len(args))
	var err error
	percentagesFloats := make(map[float64]bool)
	for i, resultFile := range args {
		results[i], err = tools.LoadResults(resultFile)
		if err != nil {
			fmt.Println(err)
			return
		}
		if results[i] == nil {
			fmt.Printf("results file %v does not exist\n", resultFile)
			return
		}
		for p := range results[i].Records {
			percentagesFloats[p] = true
		}
	}

	xvalues, xnames := xAxisAndValues(percentagesFloats)

	f, err := os.Create(OutputFile)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer f.Close()

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Results",
			Subtitle: "Residual Bit Error Rates",
			Left:     "20%",
		}),
		charts.WithLegendOpts(opts.Legend{Show: true,
			Orient: "vertical",
			Right:  "0",
			Top:    "top",
			Type:   "scroll",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Error Probability",
			SplitLine: &opts.SplitLine{Show: true},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Residual Error",
			SplitLine: &opts.SplitLine{Show: true},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)

	bar.SetXAxis(xnames)

	for i, r := range results {
		prefix := strings.TrimSuffix(filepath.Base(args[i]), filepath.Ext(args[i]))
		for _, pair := range r.Pairs() {
			bar.AddSeries(prefix+" "+pair, Series(r, pair, xvalues))
		}
	}

	if err := bar.Render(f); err != nil {
		fmt.Println(err)
	}
}

func xAxisAndValues(percentagesFloats map[float64]bool) ([]float64, []string) {
	nums := maps.Keys(percentagesFloats)
	slices.Sort(nums)

	strs := make([]string, 0, len(nums))
	for _, n := range nums {
		strs = append(strs, fmt.Sprint(n))
	}

	return nums, strs
}

// Series is the residual error rate of pair at each value, with a null bar
// where the results have no record.
func Series(r *tools.SweepResults, pair string, values []float64) []opts.BarData {
	results := make([]opts.BarData, len(values))
	null := opts.BarData{Value: nil}
	for i, v := range values {
		x, has := r.Records[v].Pairs[pair]
		if !has {
			results[i] = null
			continue
		}

		results[i] = opts.BarData{
			Value: x.ErrorRate,
		}
	}
	return results
}
