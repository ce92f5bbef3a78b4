package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathanhack/fecsim/benchmarking"
	"github.com/nathanhack/fecsim/cmd/internal/tools"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

var OutputFile string
var BlockErrors bool
var DistributionFile string

// BlockMeanStdDev is the mean and standard deviation of residual errors per
// block, weighted by the histogram counts.
func BlockMeanStdDev(s benchmarking.Stats) (mean, std float64) {
	if len(s.Histogram) == 0 {
		return 0, 0
	}
	errs := maps.Keys(s.Histogram)
	slices.Sort(errs)
	x := make([]float64, len(errs))
	weights := make([]float64, len(errs))
	for i, e := range errs {
		x[i] = float64(e)
		weights[i] = float64(s.Histogram[e])
	}
	return stat.MeanStdDev(x, weights)
}

func name(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func load(args []string) ([]*tools.SweepResults, []float64, error) {
	results := make([]*tools.SweepResults, len(args))
	percentagesFloats := make(map[float64]bool)
	for i, resultFile := range args {
		r, err := tools.LoadResults(resultFile)
		if err != nil {
			return nil, nil, err
		}
		if r == nil {
			return nil, nil, fmt.Errorf("results file %v does not exist", resultFile)
		}
		results[i] = r
		for p := range r.Records {
			percentagesFloats[p] = true
		}
	}
	percentagesList := maps.Keys(percentagesFloats)
	slices.Sort(percentagesList)
	return results, percentagesList, nil
}

// Summary writes one row per results file and pair with a column per error
// probability.
func Summary(w *csv.Writer, names []string, results []*tools.SweepResults, percentagesList []float64, blockErrors bool) error {
	header := []string{"Results File", "Pair"}
	for _, p := range percentagesList {
		header = append(header, fmt.Sprintf("%v", p))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, r := range results {
		for _, pair := range r.Pairs() {
			record := make([]string, len(header))
			record[0] = names[i]
			record[1] = pair
			for j, p := range percentagesList {
				v, has := r.Records[p].Pairs[pair]
				if !has {
					continue
				}
				if blockErrors {
					mean, std := BlockMeanStdDev(v)
					record[j+2] = fmt.Sprintf("%v(+/-%v)", mean, std)
				} else {
					record[j+2] = fmt.Sprintf("%v", v.ErrorRate)
				}
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// Distribution writes one row per residual error count observed for every
// results file, probability and pair.
func Distribution(w *csv.Writer, names []string, results []*tools.SweepResults) error {
	if err := w.Write([]string{"Results File", "Probability", "Pair", "Errors", "Blocks"}); err != nil {
		return err
	}
	for i, r := range results {
		for _, p := range r.Probabilities() {
			record := r.Records[p]
			pairs := maps.Keys(record.Pairs)
			slices.Sort(pairs)
			for _, pair := range pairs {
				histogram := record.Pairs[pair].Histogram
				errs := maps.Keys(histogram)
				slices.Sort(errs)
				for _, e := range errs {
					row := []string{names[i], fmt.Sprintf("%v", p), pair, fmt.Sprintf("%v", e), fmt.Sprintf("%v", histogram[e])}
					if err := w.Write(row); err != nil {
						return err
					}
				}
			}
		}
	}
	w.Flush()
	return w.Error()
}

func writeFile(path string, fn func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(csv.NewWriter(f))
}

var CSVRun = func(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("requires at least one RESULTS_JSON")
		return
	}

	results, percentagesList, err := load(args)
	if err != nil {
		fmt.Println(err)
		return
	}
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = name(a)
	}

	err = writeFile(OutputFile, func(w *csv.Writer) error {
		return Summary(w, names, results, percentagesList, BlockErrors)
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	if DistributionFile == "" {
		return
	}
	err = writeFile(DistributionFile, func(w *csv.Writer) error {
		return Distribution(w, names, results)
	})
	if err != nil {
		fmt.Println(err)
	}
}
