package regress

import (
	"fmt"
	"log"
	"os"

	arg "github.com/alexflint/go-arg"
	"github.com/fatih/color"
	"github.com/fraenkel-lab/garnet/mapper"
)

var cli = struct {
	Expression string `arg:"-e,required,help:two-column tsv of geneSymbol and expression score"`
	PlotDir    string `arg:"-d,help:directory for per-factor plots and an html summary"`
	Out        string `arg:"-o,help:path for the regression tsv (- for stdout)"`
	Mapped     string `arg:"positional,required,help:motifs and genes tsv from 'garnet map'"`
}{Out: "-"}

func fatal(format string, args ...interface{}) {
	c := color.New(color.BgRed).Add(color.Bold)
	fmt.Fprintf(os.Stderr, "%s\n", c.SprintFunc()(fmt.Sprintf(format, args...)))
	os.Exit(1)
}

// Main is run from the dispatcher.
func Main() {
	arg.MustParse(&cli)

	rows, err := mapper.ReadRows(cli.Mapped)
	if err != nil {
		fatal("error reading mapped rows: %v", err)
	}
	expression, err := ParseExpression(cli.Expression)
	if err != nil {
		fatal("error reading expression: %v", err)
	}
	log.Printf("read %d mapped rows and %d expression scores", len(rows), len(expression))

	results, err := Run(rows, expression, Options{OutputDir: cli.PlotDir})
	if err != nil {
		fatal("regression failed: %v", err)
	}
	SortByP(results)
	if err := WriteResults(cli.Out, results); err != nil {
		fatal("error writing results: %v", err)
	}
	if cli.PlotDir != "" {
		if err := Report(cli.PlotDir, results); err != nil {
			fatal("error writing summary: %v", err)
		}
		log.Printf("wrote %d factor fits, plots and summary under %s", len(results), cli.PlotDir)
	} else {
		log.Printf("wrote %d factor fits", len(results))
	}
}
