package garnetdb

import (
	"fmt"
	"log"
	"os"

	arg "github.com/alexflint/go-arg"
	"github.com/fatih/color"
)

var cli = struct {
	Genes  string `arg:"-g,required,help:tab-delimited gene annotation (chrom geneStart geneEnd geneName geneSymbol geneStrand)"`
	Motifs string `arg:"-m,required,help:tab-delimited motif annotation (chrom motifStart motifEnd motifID motifName motifScore)"`
	Out    string `arg:"positional,required,help:path for the gob genome index"`
}{}

func fatal(format string, args ...interface{}) {
	c := color.New(color.BgRed).Add(color.Bold)
	fmt.Fprintf(os.Stderr, "%s\n", c.SprintFunc()(fmt.Sprintf(format, args...)))
	os.Exit(1)
}

// Main is run from the dispatcher.
func Main() {
	arg.MustParse(&cli)

	genes, err := ReadGenes(cli.Genes)
	if err != nil {
		fatal("error reading genes: %v", err)
	}
	log.Printf("read %d gene intervals from %s", len(genes), cli.Genes)

	motifs, err := ReadMotifs(cli.Motifs)
	if err != nil {
		fatal("error reading motifs: %v", err)
	}
	log.Printf("read %d motif intervals from %s", len(motifs), cli.Motifs)

	if err := Save(cli.Out, genes, motifs); err != nil {
		fatal("error writing index: %v", err)
	}
	log.Printf("wrote genome index to %s", cli.Out)
}
