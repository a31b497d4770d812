// Package garnetdb builds, persists, and loads the genome annotation index:
// gene and motif intervals partitioned by chromosome.
package garnetdb

import (
	"encoding/gob"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brentp/xopen"
	"github.com/fraenkel-lab/garnet/intervals"
)

// Genome is the loaded annotation: one index over genes, one over motifs.
// Built once, loaded many times, never mutated in place.
type Genome struct {
	Genes  *intervals.ChromIndex
	Motifs *intervals.ChromIndex
}

// genomeFile is the on-disk form. Records are stored flat and the trees
// rebuilt at load; gob cannot see into the balanced tree nodes and the
// rebuild is a small fraction of the original parse cost.
type genomeFile struct {
	Genes  []intervals.Record
	Motifs []intervals.Record
}

// LoadError reports a missing or corrupt genome index. Fatal to the run.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("garnetdb: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Save writes the gene and motif records to path as a gob blob.
func Save(path string, genes, motifs []intervals.Record) error {
	w, err := xopen.Wopen(path)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(w).Encode(genomeFile{Genes: genes, Motifs: motifs}); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Load reads a genome index written by Save and rebuilds the per-chromosome
// trees. Any failure, from a missing file to a truncated blob, is a
// LoadError.
func Load(path string) (*Genome, error) {
	r, err := xopen.Ropen(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer r.Close()
	var gf genomeFile
	if err := gob.NewDecoder(r).Decode(&gf); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	genes, err := intervals.Build(gf.Genes)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	motifs, err := intervals.Build(gf.Motifs)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return &Genome{Genes: genes, Motifs: motifs}, nil
}

var geneCols = []string{"chrom", "geneStart", "geneEnd", "geneName", "geneSymbol", "geneStrand"}
var motifCols = []string{"chrom", "motifStart", "motifEnd", "motifID", "motifName", "motifScore"}

// ReadGenes parses a tab-delimited gene annotation with columns
// chrom, geneStart, geneEnd, geneName, geneSymbol, geneStrand.
func ReadGenes(path string) ([]intervals.Record, error) {
	return readAnnotation(path, geneCols, nil)
}

// ReadMotifs parses a tab-delimited motif annotation with columns
// chrom, motifStart, motifEnd, motifID, motifName, motifScore. The score
// must parse as a float so the regression stage never sees a bad value.
func ReadMotifs(path string) ([]intervals.Record, error) {
	return readAnnotation(path, motifCols, func(p intervals.Payload) error {
		_, err := strconv.ParseFloat(p["motifScore"], 64)
		return err
	})
}

func readAnnotation(path string, cols []string, check func(intervals.Payload) error) ([]intervals.Record, error) {
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
		if len(toks) < len(cols) {
			return nil, fmt.Errorf("garnetdb: %s:%d: expected %d columns, got %d", path, ln, len(cols), len(toks))
		}
		payload := make(intervals.Payload, len(cols))
		for i, c := range cols {
			payload[c] = toks[i]
		}
		start, serr := strconv.Atoi(toks[1])
		end, eerr := strconv.Atoi(toks[2])
		if serr != nil || eerr != nil {
			return nil, fmt.Errorf("garnetdb: %s:%d: non-numeric coordinates %q %q", path, ln, toks[1], toks[2])
		}
		if check != nil {
			if cerr := check(payload); cerr != nil {
				return nil, fmt.Errorf("garnetdb: %s:%d: %v", path, ln, cerr)
			}
		}
		records = append(records, intervals.Record{Chrom: toks[0], Start: start, End: end, Payload: payload})
		if err == io.EOF {
			break
		}
	}
	return records, nil
}
