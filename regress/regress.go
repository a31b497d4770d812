// Package regress fits, per transcription factor, a linear model of gene
// expression against the strength of the factor's binding motifs.
package regress

import (
	"fmt"
	"io"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/brentp/xopen"
	"github.com/fraenkel-lab/garnet/mapper"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinObservations is the smallest group a line is fit to. With two free
// parameters a fit on fewer points is meaningless.
const MinObservations = 5

// TFResult is the fitted model for one transcription factor.
type TFResult struct {
	TF    string
	Slope float64
	P     float64
}

// RegressionFailure reports a numeric failure for a single factor. The
// factor is skipped with a warning; the batch continues.
type RegressionFailure struct {
	TF     string
	N      int
	Reason string
}

func (e *RegressionFailure) Error() string {
	return fmt.Sprintf("regress: %s (n=%d): %s", e.TF, e.N, e.Reason)
}

// Options configures a Run. The zero value fits with no plots and logs to
// the default logger.
type Options struct {
	// OutputDir, when set, receives per-factor plots under
	// regression_plots/ and a summary.html.
	OutputDir string
	Log       *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Log != nil {
		return o.Log
	}
	return log.Default()
}

// ParseExpression reads a two-column tab-delimited stream of
// geneSymbol, expressionScore.
func ParseExpression(path string) (map[string]float64, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	expression := make(map[string]float64, 1000)
	ln := 0
	for {
		line, err := fh.ReadString('\n')
		if err == io.EOF && line == "" {
			break
		}
		if err != nil && err != io.EOF {
			return nil, err
		}
		ln++
		line = strings.TrimSuffix(line, "\n")
		if line == "" {
			continue
		}
		toks := strings.SplitN(line, "\t", 3)
		if len(toks) < 2 {
			return nil, fmt.Errorf("regress: %s:%d: expected 2 columns", path, ln)
		}
		v, perr := strconv.ParseFloat(toks[1], 64)
		if perr != nil {
			return nil, fmt.Errorf("regress: %s:%d: non-numeric expression %q", path, ln, toks[1])
		}
		expression[toks[0]] = v
		if err == io.EOF {
			break
		}
	}
	return expression, nil
}

type group struct {
	scores []float64
	exprs  []float64
}

// Run joins mapped rows with expression on geneSymbol, collapses duplicate
// (geneSymbol, motifID) aliases, groups by motif name, and fits
// expression ~ motifScore per factor. Factors with fewer than
// MinObservations rows are skipped silently; numeric failures are warned
// and skipped.
func Run(rows []mapper.MotifGene, expression map[string]float64, opts Options) ([]TFResult, error) {
	logger := opts.logger()

	// A gene may appear under several aliases; expression is per symbol,
	// so duplicate (symbol, motif) rows would inflate the sample size.
	seen := make(map[string]bool, len(rows))
	groups := make(map[string]*group)
	for _, r := range rows {
		e, ok := expression[r.GeneSymbol]
		if !ok {
			continue
		}
		key := r.GeneSymbol + "\x00" + r.MotifID
		if seen[key] {
			continue
		}
		seen[key] = true
		g, ok := groups[r.MotifName]
		if !ok {
			g = &group{}
			groups[r.MotifName] = g
		}
		g.scores = append(g.scores, r.MotifScore)
		g.exprs = append(g.exprs, e)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	logger.Printf("performing linear regression on %d transcription factor expression profiles", len(names))

	var results []TFResult
	for _, name := range names {
		g := groups[name]
		if len(g.scores) < MinObservations {
			continue
		}
		res, err := fit(name, g.scores, g.exprs)
		if err != nil {
			logger.Printf("warning: skipping factor: %v", err)
			continue
		}
		if opts.OutputDir != "" {
			if err := writePlot(opts.OutputDir, name, g.scores, g.exprs, res); err != nil {
				return nil, err
			}
		}
		results = append(results, res)
	}
	return results, nil
}

// fit runs ordinary least squares and derives the slope p-value from the
// Students-t distribution with n-2 degrees of freedom.
func fit(name string, xs, ys []float64) (TFResult, error) {
	n := len(xs)
	xmean := stat.Mean(xs, nil)
	var sxx float64
	for _, x := range xs {
		d := x - xmean
		sxx += d * d
	}
	if sxx == 0 {
		return TFResult{}, &RegressionFailure{TF: name, N: n, Reason: "constant motif score"}
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return TFResult{}, &RegressionFailure{TF: name, N: n, Reason: "singular fit"}
	}
	var rss float64
	for i, x := range xs {
		r := ys[i] - (alpha + beta*x)
		rss += r * r
	}
	p := 0.0
	if se := math.Sqrt(rss / float64(n-2) / sxx); se > 0 {
		t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
		p = 2 * t.CDF(-math.Abs(beta/se))
	}
	return TFResult{TF: name, Slope: beta, P: p}, nil
}

// SortByP orders results by ascending p-value for reporting.
func SortByP(results []TFResult) {
	sort.SliceStable(results, func(i, j int) bool { return results[i].P < results[j].P })
}

// WriteResults writes the factor table as a TSV. path may be "-" for
// stdout.
func WriteResults(path string, results []TFResult) error {
	w, err := xopen.Wopen(path)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Transcription Factor\tSlope\tP-Value")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%g\t%g\n", r.TF, r.Slope, r.P)
	}
	return w.Close()
}
