// Copyright ©2016 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package feature provides a queryable annotation index over GFF
// features.
package feature

import (
	"fmt"
	"io"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/store/interval"
)

// Annotation is the summary retained for a single GFF feature. Start
// and End are zero-based half-open as read by the gff package. A
// Strand of seq.None indicates the feature's strand is not known.
type Annotation struct {
	Type   string
	Start  int
	End    int
	Strand seq.Strand
}

// Index answers range overlap queries against a set of annotated
// features grouped by sequence name. The zero value is not usable;
// obtain an Index from ReadIndex.
type Index struct {
	trees map[string]*interval.IntTree
	n     int
}

// ReadIndex consumes the GFF stream in r to completion and returns an
// Index over its features. Features must have start not after end.
func ReadIndex(r io.Reader) (*Index, error) {
	x := &Index{trees: make(map[string]*interval.IntTree)}
	sc := featio.NewScanner(gff.NewReader(r))
	for sc.Next() {
		f := sc.Feat().(*gff.Feature)
		err := x.insert(f)
		if err != nil {
			return nil, err
		}
	}
	err := sc.Error()
	if err != nil {
		return nil, err
	}
	for _, t := range x.trees {
		t.AdjustRanges()
	}
	return x, nil
}

func (x *Index) insert(f *gff.Feature) error {
	if f.FeatEnd < f.FeatStart {
		return fmt.Errorf("feature: invalid range for feature on %q: [%d,%d)", f.SeqName, f.FeatStart, f.FeatEnd)
	}
	t, ok := x.trees[f.SeqName]
	if !ok {
		t = &interval.IntTree{}
		x.trees[f.SeqName] = t
	}
	x.n++
	return t.Insert(annotation{
		Annotation: Annotation{
			Type:   f.Feature,
			Start:  f.FeatStart,
			End:    f.FeatEnd,
			Strand: f.FeatStrand,
		},
		id: uintptr(x.n),
	}, true)
}

// Len returns the number of indexed features.
func (x *Index) Len() int { return x.n }

// Query returns the annotations on seqid that intersect the half-open
// range [start,end). A seqid absent from the index is not an error and
// returns no annotations. Query panics if start is greater than end.
func (x *Index) Query(seqid string, start, end int) []Annotation {
	if start > end {
		panic("feature: invalid query range")
	}
	t, ok := x.trees[seqid]
	if !ok {
		return nil
	}
	var anns []Annotation
	for _, h := range t.Get(annotation{Annotation: Annotation{Start: start, End: end}}) {
		anns = append(anns, h.(annotation).Annotation)
	}
	return anns
}

type annotation struct {
	Annotation
	id uintptr
}

func (a annotation) ID() uintptr { return a.id }
func (a annotation) Range() interval.IntRange {
	return interval.IntRange{Start: a.Start, End: a.End}
}
func (a annotation) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return a.End > b.Start && a.Start < b.End
}
