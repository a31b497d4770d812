// Package mapper joins peaks from an epigenomics assay with the motifs
// under them and the genes around them.
package mapper

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brentp/xopen"
	"github.com/fraenkel-lab/garnet/garnetdb"
	"github.com/fraenkel-lab/garnet/intervals"
	"github.com/fraenkel-lab/garnet/relate"
)

// MotifGene is one flattened output row: a motif and a gene that were both
// found local to the same peak.
type MotifGene struct {
	Chrom      string
	MotifStart int
	MotifEnd   int
	MotifID    string
	MotifName  string
	MotifScore float64
	GeneName   string
	GeneSymbol string
	GeneStart  int
	GeneEnd    int
	PeakName   string
	// PeakType is only set when relationship classification is requested.
	PeakType relate.Relation
}

// 12-column BED layout; only the first five are semantically required.
var peakCols = []string{"chrom", "peakStart", "peakEnd", "peakName", "peakScore", "peakStrand",
	"thickStart", "thickEnd", "itemRgb", "blockCount", "blockSizes", "blockStarts"}

// ParsePeaks reads a BED-like peaks file into records ready for indexing.
func ParsePeaks(path string) ([]intervals.Record, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var records []intervals.Record
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
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		toks := strings.Split(line, "\t")
		if len(toks) < 5 {
			return nil, fmt.Errorf("mapper: %s:%d: expected at least 5 columns, got %d", path, ln, len(toks))
		}
		payload := make(intervals.Payload, 6)
		for i, c := range peakCols {
			if i >= len(toks) {
				break
			}
			payload[c] = toks[i]
		}
		start, serr := strconv.Atoi(toks[1])
		end, eerr := strconv.Atoi(toks[2])
		if serr != nil || eerr != nil {
			return nil, fmt.Errorf("mapper: %s:%d: non-numeric coordinates %q %q", path, ln, toks[1], toks[2])
		}
		records = append(records, intervals.Record{Chrom: toks[0], Start: start, End: end, Payload: payload})
		if err == io.EOF {
			break
		}
	}
	return records, nil
}

// MapPeaks indexes the peaks in path and returns every (motif, gene) pair
// found local to the same peak. With classify set, each row also carries
// the strand-aware peak/gene relationship.
func MapPeaks(g *garnetdb.Genome, path string, classify bool) ([]MotifGene, error) {
	records, err := ParsePeaks(path)
	if err != nil {
		return nil, err
	}
	peaks, err := intervals.Build(records)
	if err != nil {
		return nil, err
	}
	return flatten(peaks, g, classify)
}

// flatten runs both intersections off the same peak index and takes, per
// peak, the cross product of its gene matches and motif matches. A peak
// overlapping 2 genes and 3 motifs yields exactly 6 rows.
func flatten(peaks *intervals.ChromIndex, g *garnetdb.Genome, classify bool) ([]MotifGene, error) {
	genesByPeak := make(map[uintptr][]intervals.Interval)
	for _, ov := range intervals.Intersect(peaks, g.Genes) {
		if len(ov.B) > 0 {
			genesByPeak[ov.A.UID] = ov.B
		}
	}

	var rows []MotifGene
	for _, ov := range intervals.Intersect(peaks, g.Motifs) {
		genes, ok := genesByPeak[ov.A.UID]
		if !ok || len(ov.B) == 0 {
			continue
		}
		for _, gene := range genes {
			for _, motif := range ov.B {
				score, err := strconv.ParseFloat(motif.Payload["motifScore"], 64)
				if err != nil {
					return nil, fmt.Errorf("mapper: motif %s has non-numeric score %q",
						motif.Payload["motifID"], motif.Payload["motifScore"])
				}
				row := MotifGene{
					Chrom:      motif.Payload["chrom"],
					MotifStart: motif.Start,
					MotifEnd:   motif.End,
					MotifID:    motif.Payload["motifID"],
					MotifName:  motif.Payload["motifName"],
					MotifScore: score,
					GeneName:   gene.Payload["geneName"],
					GeneSymbol: gene.Payload["geneSymbol"],
					GeneStart:  gene.Start,
					GeneEnd:    gene.End,
					PeakName:   ov.A.Payload["peakName"],
				}
				if classify {
					rel, err := relate.Classify(ov.A.Start, ov.A.End, gene.Start, gene.End, gene.Payload["geneStrand"])
					if err != nil {
						return nil, err
					}
					row.PeakType = rel
				}
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}
