package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"

	"github.com/fraenkel-lab/garnet/garnetdb"
	"github.com/fraenkel-lab/garnet/mapper"
	"github.com/fraenkel-lab/garnet/regress"
)

const Version = "0.1.0"

type progPair struct {
	help string
	main func()
}

var progs = map[string]progPair{
	"index":   progPair{"build a genome annotation index from gene and motif files", garnetdb.Main},
	"map":     progPair{"map peaks to motifs and genes found near them", mapper.Main},
	"regress": progPair{"regress gene expression against motif scores per transcription factor", regress.Main},
}

func printProgs() {

	var wtr io.Writer = os.Stdout

	fmt.Fprintf(wtr, "garnet Version: %s\n\n", Version)
	var keys []string
	l := 5
	for k := range progs {
		keys = append(keys, k)
		if len(k) > l {
			l = len(k)
		}
	}
	fmtr := "%-" + strconv.Itoa(l) + "s : %s\n"
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(wtr, fmtr, k, progs[k].help)

	}
	os.Exit(1)

}

func main() {

	if len(os.Args) < 2 {
		printProgs()
	}
	var p progPair
	var ok bool
	if p, ok = progs[os.Args[1]]; !ok {
		printProgs()
	}
	log.SetFlags(log.Ltime)
	log.SetPrefix("garnet: ")
	// remove the prog name from the call
	os.Args = append(os.Args[:1], os.Args[2:]...)
	p.main()
}
