// Package relate labels the spatial relationship between a peak and a gene.
package relate

import "fmt"

// Relation names where a peak sits relative to a gene's transcription start.
type Relation string

const (
	Upstream   Relation = "upstream"
	Promoter   Relation = "promoter"
	Downstream Relation = "downstream"
	// Intergenic is never produced by Classify: the strand partitions
	// below cover all integer distances. It exists for callers that
	// persist relations from older data.
	Intergenic Relation = "intergenic"
)

// PromoterWindow is the distance in bases from the gene start within which
// a peak counts as promoter-proximal.
const PromoterWindow = 2000

// InvalidStrandError reports a gene strand other than "+" or "-".
type InvalidStrandError struct {
	Strand string
}

func (e *InvalidStrandError) Error() string {
	return fmt.Sprintf("relate: invalid gene strand %q (want + or -)", e.Strand)
}

// Classify labels a peak relative to a gene on the given strand.
// For "+" the distance is peakStart - geneStart: upstream at or beyond
// -PromoterWindow, promoter inside (-PromoterWindow, 0), downstream at or
// past 0. For "-" the mirror using peakEnd - geneEnd.
func Classify(peakStart, peakEnd, geneStart, geneEnd int, strand string) (Relation, error) {
	switch strand {
	case "+":
		d := peakStart - geneStart
		if d <= -PromoterWindow {
			return Upstream, nil
		}
		if d < 0 {
			return Promoter, nil
		}
		return Downstream, nil
	case "-":
		d := peakEnd - geneEnd
		if d >= PromoterWindow {
			return Upstream, nil
		}
		if d > 0 {
			return Promoter, nil
		}
		return Downstream, nil
	}
	return "", &InvalidStrandError{Strand: strand}
}
