package mapper

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	arg "github.com/alexflint/go-arg"
	"github.com/fatih/color"
	"github.com/fraenkel-lab/garnet/garnetdb"
)

var cli = struct {
	Garnet string   `arg:"-g,required,help:genome index built by 'garnet index'"`
	Relate bool     `arg:"-r,help:add a peakType column classifying each peak relative to its gene"`
	Prefix string   `arg:"-p,help:prefix for output files"`
	Peaks  []string `arg:"positional,required,help:BED file(s) of peaks"`
}{Prefix: "garnet"}

func fatal(format string, args ...interface{}) {
	c := color.New(color.BgRed).Add(color.Bold)
	fmt.Fprintf(os.Stderr, "%s\n", c.SprintFunc()(fmt.Sprintf(format, args...)))
	os.Exit(1)
}

func outPath(prefix, peaksPath string) string {
	base := filepath.Base(peaksPath)
	base = strings.TrimSuffix(base, ".gz")
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return fmt.Sprintf("%s.%s.motifs_genes.tsv", prefix, base)
}

// Main is run from the dispatcher. One output TSV is written per peaks
// file.
func Main() {
	arg.MustParse(&cli)

	genome, err := garnetdb.Load(cli.Garnet)
	if err != nil {
		fatal("%v", err)
	}
	log.Printf("loaded genome index: %d genes, %d motifs over %d chromosomes",
		genome.Genes.Len(), genome.Motifs.Len(), len(genome.Genes.Chroms()))

	for _, peaksPath := range cli.Peaks {
		rows, err := MapPeaks(genome, peaksPath, cli.Relate)
		if err != nil {
			fatal("error mapping %s: %v", peaksPath, err)
		}
		SortRows(rows)
		out := outPath(cli.Prefix, peaksPath)
		if err := WriteTSV(out, rows, cli.Relate); err != nil {
			fatal("error writing %s: %v", out, err)
		}
		log.Printf("%s: %d motif/gene rows -> %s", peaksPath, len(rows), out)
	}
}
