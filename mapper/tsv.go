package mapper

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brentp/xopen"
	"github.com/fraenkel-lab/garnet/relate"
	"go4.org/sort"
)

var outCols = []string{"chrom", "motifStart", "motifEnd", "motifID", "motifName", "motifScore",
	"geneName", "geneSymbol", "geneStart", "geneEnd", "peakName"}

// SortRows orders rows by locus then gene then peak. Mapped output can run
// to millions of rows so this uses the parallel sort.
func SortRows(rows []MotifGene) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Chrom != b.Chrom {
			return a.Chrom < b.Chrom
		}
		if a.MotifStart != b.MotifStart {
			return a.MotifStart < b.MotifStart
		}
		if a.GeneSymbol != b.GeneSymbol {
			return a.GeneSymbol < b.GeneSymbol
		}
		return a.PeakName < b.PeakName
	})
}

// WriteTSV writes rows with a header. The peakType column appears only when
// withType is set.
func WriteTSV(path string, rows []MotifGene, withType bool) error {
	w, err := xopen.Wopen(path)
	if err != nil {
		return err
	}
	header := strings.Join(outCols, "\t")
	if withType {
		header += "\tpeakType"
	}
	fmt.Fprintln(w, header)
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s",
			r.Chrom, r.MotifStart, r.MotifEnd, r.MotifID, r.MotifName,
			strconv.FormatFloat(r.MotifScore, 'g', -1, 64),
			r.GeneName, r.GeneSymbol, r.GeneStart, r.GeneEnd, r.PeakName)
		if withType {
			fmt.Fprintf(w, "\t%s", r.PeakType)
		}
		fmt.Fprintln(w)
	}
	return w.Close()
}

// ReadRows parses a TSV written by WriteTSV back into rows, for the
// regression stage.
func ReadRows(path string) ([]MotifGene, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var rows []MotifGene
	ln := 0
	withType := false
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
		toks := strings.Split(line, "\t")
		if ln == 1 {
			if toks[0] != "chrom" {
				return nil, fmt.Errorf("mapper: %s: missing header line", path)
			}
			withType = len(toks) > len(outCols) && toks[len(outCols)] == "peakType"
			continue
		}
		want := len(outCols)
		if withType {
			want++
		}
		if len(toks) < want {
			return nil, fmt.Errorf("mapper: %s:%d: expected %d columns, got %d", path, ln, want, len(toks))
		}
		ms, e1 := strconv.Atoi(toks[1])
		me, e2 := strconv.Atoi(toks[2])
		score, e3 := strconv.ParseFloat(toks[5], 64)
		gs, e4 := strconv.Atoi(toks[8])
		ge, e5 := strconv.Atoi(toks[9])
		for _, e := range []error{e1, e2, e3, e4, e5} {
			if e != nil {
				return nil, fmt.Errorf("mapper: %s:%d: %v", path, ln, e)
			}
		}
		row := MotifGene{
			Chrom: toks[0], MotifStart: ms, MotifEnd: me, MotifID: toks[3], MotifName: toks[4],
			MotifScore: score, GeneName: toks[6], GeneSymbol: toks[7], GeneStart: gs, GeneEnd: ge,
			PeakName: toks[10],
		}
		if withType {
			row.PeakType = relate.Relation(toks[11])
		}
		rows = append(rows, row)
		if err == io.EOF {
			break
		}
	}
	return rows, nil
}
