package regress

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/fraenkel-lab/garnet/mapper"
)

func row(tf, motifID, symbol string, score float64) mapper.MotifGene {
	return mapper.MotifGene{
		Chrom: "chr1", MotifStart: 100, MotifEnd: 110, MotifID: motifID, MotifName: tf,
		MotifScore: score, GeneName: "NM_" + symbol, GeneSymbol: symbol,
		GeneStart: 50, GeneEnd: 500, PeakName: "p1",
	}
}

// factorRows builds n rows for one factor with expression = slope*score + 1.
func factorRows(tf string, n int, slope float64, expression map[string]float64) []mapper.MotifGene {
	rows := make([]mapper.MotifGene, 0, n)
	for i := 0; i < n; i++ {
		symbol := fmt.Sprintf("%s_G%d", tf, i)
		score := float64(i + 1)
		expression[symbol] = slope*score + 1
		rows = append(rows, row(tf, fmt.Sprintf("%s_M%d", tf, i), symbol, score))
	}
	return rows
}

func quiet() Options {
	return Options{Log: log.New(io.Discard, "", 0)}
}

func TestMinimumSamplePolicy(t *testing.T) {
	expression := make(map[string]float64)
	rows := factorRows("SMALL", 4, 2, expression)
	rows = append(rows, factorRows("BIG", 5, 2, expression)...)

	results, err := Run(rows, expression, quiet())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].TF != "BIG" {
		t.Fatalf("expected only BIG (5 observations), got %+v", results)
	}
}

func TestKnownSlope(t *testing.T) {
	expression := make(map[string]float64)
	rows := factorRows("TF1", 6, 2, expression)

	results, err := Run(rows, expression, quiet())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if math.Abs(results[0].Slope-2) > 1e-9 {
		t.Errorf("expected slope 2, got %g", results[0].Slope)
	}
	// a perfect fit has no residual variance.
	if results[0].P != 0 {
		t.Errorf("expected p 0 for exact fit, got %g", results[0].P)
	}
}

func TestNoisySlopePValue(t *testing.T) {
	expression := map[string]float64{}
	var rows []mapper.MotifGene
	ys := []float64{3.1, 4.9, 7.2, 8.8, 11.1, 12.9}
	for i, y := range ys {
		symbol := fmt.Sprintf("G%d", i)
		expression[symbol] = y
		rows = append(rows, row("TF1", fmt.Sprintf("M%d", i), symbol, float64(i+1)))
	}
	results, err := Run(rows, expression, quiet())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if math.Abs(r.Slope-2) > 0.1 {
		t.Errorf("expected slope near 2, got %g", r.Slope)
	}
	if r.P <= 0 || r.P >= 1e-3 {
		t.Errorf("expected a tiny nonzero p, got %g", r.P)
	}
}

func TestDuplicateAliasDedup(t *testing.T) {
	expression := make(map[string]float64)
	rows := factorRows("TF1", 5, 2, expression)
	// same (geneSymbol, motifID) under a different gene name must
	// collapse, leaving the factor at 5 observations, not 6.
	dup := rows[0]
	dup.GeneName = "ALIAS_OF_G0"
	rows = append(rows, dup)

	results, err := Run(rows, expression, quiet())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %+v", results)
	}

	// with the duplicate making the difference between 4 and 5 unique
	// rows, the factor must be skipped.
	rows = factorRows("TF2", 4, 2, expression)
	dup = rows[0]
	dup.GeneName = "ALIAS"
	rows = append(rows, dup)
	results, err = Run(rows, expression, quiet())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expected dedup to drop TF2 below the minimum, got %+v", results)
	}
}

func TestUnexpressedGenesExcluded(t *testing.T) {
	expression := make(map[string]float64)
	rows := factorRows("TF1", 5, 2, expression)
	// a gene with no expression entry leaves only 4 usable rows.
	delete(expression, "TF1_G0")
	results, err := Run(rows, expression, quiet())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expected factor skipped after join, got %+v", results)
	}
}

func TestConstantScoreSkipped(t *testing.T) {
	expression := make(map[string]float64)
	var rows []mapper.MotifGene
	for i := 0; i < 5; i++ {
		symbol := fmt.Sprintf("G%d", i)
		expression[symbol] = float64(i)
		rows = append(rows, row("FLAT", fmt.Sprintf("M%d", i), symbol, 3.0))
	}
	rows = append(rows, factorRows("OK", 5, 2, expression)...)

	results, err := Run(rows, expression, quiet())
	if err != nil {
		t.Fatal(err)
	}
	// FLAT fails its fit but the batch continues.
	if len(results) != 1 || results[0].TF != "OK" {
		t.Fatalf("expected only OK, got %+v", results)
	}
}

func TestSortByP(t *testing.T) {
	results := []TFResult{
		{TF: "b", P: 0.5},
		{TF: "a", P: 0.001},
		{TF: "c", P: 0.1},
	}
	SortByP(results)
	if results[0].TF != "a" || results[1].TF != "c" || results[2].TF != "b" {
		t.Errorf("bad order: %+v", results)
	}
}

func TestParseExpression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expr.tsv")
	if err := os.WriteFile(path, []byte("G1\t1.5\nG2\t-0.25\n"), 0644); err != nil {
		t.Fatal(err)
	}
	expression, err := ParseExpression(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(expression) != 2 || expression["G1"] != 1.5 || expression["G2"] != -0.25 {
		t.Errorf("bad expression map: %v", expression)
	}
}

func TestParseExpressionBadValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expr.tsv")
	if err := os.WriteFile(path, []byte("G1\thigh\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseExpression(path); err == nil {
		t.Error("expected error for non-numeric expression")
	}
}

func TestWriteResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.tsv")
	results := []TFResult{{TF: "TF1", Slope: 2, P: 0.01}}
	if err := WriteResults(path, results); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Transcription Factor\tSlope\tP-Value\nTF1\t2\t0.01\n"
	if string(b) != want {
		t.Errorf("expected %q, got %q", want, string(b))
	}
}
