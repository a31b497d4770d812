// Package intervals holds the chromosome-partitioned interval index and the
// intersection engine that joins two indexes on genomic overlap.
package intervals

import (
	"fmt"
	"sort"

	"github.com/biogo/store/interval"
)

// Payload is the source record carried through the engine unmodified. The
// engine never looks inside it except to hand it back in results.
type Payload map[string]string

// Interval is one stored genomic interval.
type Interval struct {
	Start, End int
	UID        uintptr
	Payload    Payload
}

// Overlap uses closed coordinates: [1,5] and [5,9] overlap.
func (i Interval) Overlap(b interval.IntRange) bool {
	return i.End >= b.Start && i.Start <= b.End
}
func (i Interval) ID() uintptr              { return i.UID }
func (i Interval) Range() interval.IntRange { return interval.IntRange{Start: i.Start, End: i.End} }

// Tree stores the intervals of a single chromosome.
type Tree struct {
	t *interval.IntTree
	n uintptr
}

func NewTree() *Tree {
	return &Tree{t: &interval.IntTree{}}
}

// Insert adds one interval. Duplicate ranges are legal and all retained.
func (t *Tree) Insert(start, end int, payload Payload) error {
	if start > end {
		return fmt.Errorf("intervals: insert: start %d > end %d", start, end)
	}
	iv := Interval{Start: start, End: end, UID: t.n, Payload: payload}
	t.n++
	return t.t.Insert(iv, false)
}

// insertAt defers range adjustment; callers must adjustRanges when done.
// The uid comes from the enclosing index so it is unique index-wide, not
// just within this tree.
func (t *Tree) insertAt(uid uintptr, start, end int, payload Payload) error {
	iv := Interval{Start: start, End: end, UID: uid, Payload: payload}
	if uid >= t.n {
		t.n = uid + 1
	}
	return t.t.Insert(iv, true)
}

func (t *Tree) adjustRanges() {
	t.t.AdjustRanges()
}

// Search returns every stored interval overlapping [start, end]. Order is
// unspecified. A nil or empty tree returns nil.
func (t *Tree) Search(start, end int) []Interval {
	if t == nil || t.t == nil || t.t.Len() == 0 {
		return nil
	}
	q := Interval{Start: start, End: end, UID: t.n}
	var hits []Interval
	t.t.DoMatching(func(iv interval.IntInterface) bool {
		hits = append(hits, iv.(Interval))
		return false
	}, q)
	return hits
}

// Do calls fn for every stored interval in position order.
func (t *Tree) Do(fn func(Interval)) {
	if t == nil || t.t == nil {
		return
	}
	t.t.Do(func(iv interval.IntInterface) bool {
		fn(iv.(Interval))
		return false
	})
}

func (t *Tree) Len() int {
	if t == nil || t.t == nil {
		return 0
	}
	return t.t.Len()
}

// Record is one interval-bearing input row, already typed.
type Record struct {
	Chrom      string
	Start, End int
	Payload    Payload
}

// MalformedRecordError reports a record that cannot be indexed.
type MalformedRecordError struct {
	Index      int
	Chrom      string
	Start, End int
}

func (e *MalformedRecordError) Error() string {
	if e.Chrom == "" {
		return fmt.Sprintf("intervals: record %d has no chromosome", e.Index)
	}
	return fmt.Sprintf("intervals: record %d (%s:%d-%d) has start > end", e.Index, e.Chrom, e.Start, e.End)
}

// ChromIndex partitions a record collection by chromosome, one Tree each.
// Immutable once built.
type ChromIndex struct {
	trees map[string]*Tree
}

// Build indexes records by their Chrom field. The whole batch is rejected
// with a MalformedRecordError if any record has an empty chromosome or
// start > end. Interval UIDs are unique across the whole index, so callers
// can use them to correlate results from separate Intersect calls.
func Build(records []Record) (*ChromIndex, error) {
	ci := &ChromIndex{trees: make(map[string]*Tree, 25)}
	for k, r := range records {
		if r.Chrom == "" || r.Start > r.End {
			return nil, &MalformedRecordError{Index: k, Chrom: r.Chrom, Start: r.Start, End: r.End}
		}
		t, ok := ci.trees[r.Chrom]
		if !ok {
			t = NewTree()
			ci.trees[r.Chrom] = t
		}
		if err := t.insertAt(uintptr(k), r.Start, r.End, r.Payload); err != nil {
			return nil, err
		}
	}
	for _, t := range ci.trees {
		t.adjustRanges()
	}
	return ci, nil
}

// Chroms returns the distinct chromosome names present, sorted.
func (ci *ChromIndex) Chroms() []string {
	names := make([]string, 0, len(ci.trees))
	for c := range ci.trees {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}

// TreeFor returns the tree for chrom, or an empty tree if absent.
func (ci *ChromIndex) TreeFor(chrom string) *Tree {
	if t, ok := ci.trees[chrom]; ok {
		return t
	}
	return NewTree()
}

// Len is the total interval count across all chromosomes.
func (ci *ChromIndex) Len() int {
	n := 0
	for _, t := range ci.trees {
		n += t.Len()
	}
	return n
}

// Overlap pairs one A-side interval with every B-side interval it overlaps.
type Overlap struct {
	A Interval
	B []Interval
}

// Intersect computes, for every interval of a, the overlapping intervals of
// b, visiting only chromosomes present in both indexes. Intervals on
// chromosomes unique to one side simply contribute nothing. A-intervals
// with no B overlaps are emitted with a nil B so callers can decide whether
// to keep them. Pure function of its inputs.
func Intersect(a, b *ChromIndex) []Overlap {
	var out []Overlap
	for _, chrom := range a.Chroms() {
		bt, ok := b.trees[chrom]
		if !ok {
			continue
		}
		a.trees[chrom].Do(func(iv Interval) {
			out = append(out, Overlap{A: iv, B: bt.Search(iv.Start, iv.End)})
		})
	}
	return out
}
