// Copyright ©2016 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package annotate links aggregated read spans to overlapping
// annotated features and reconciles read orientation against the
// strand recorded in the annotation.
package annotate

import (
	"sort"

	"github.com/biogo/biogo/seq"

	"github.com/kortschak/tack/feature"
	"github.com/kortschak/tack/group"
)

// Direction is the resolved biological direction of a read's mapping
// to one reference sequence.
type Direction int8

const (
	DirAmbiguous Direction = iota
	DirForward
	DirReverse
)

func (d Direction) String() string {
	switch d {
	case DirForward:
		return "+"
	case DirReverse:
		return "-"
	default:
		return "ambiguous"
	}
}

// Strand returns the seq.Strand corresponding to the direction,
// seq.None for DirAmbiguous.
func (d Direction) Strand() seq.Strand {
	switch d {
	case DirForward:
		return seq.Plus
	case DirReverse:
		return seq.Minus
	default:
		return seq.None
	}
}

// Types returns the distinct feature types in anns, sorted. A nil
// return means the queried range is unannotated.
func Types(anns []feature.Annotation) []string {
	if len(anns) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var types []string
	for _, a := range anns {
		if seen[a.Type] {
			continue
		}
		seen[a.Type] = true
		types = append(types, a.Type)
	}
	sort.Strings(types)
	return types
}

// Called returns the majority strand over the span's votes. An even
// split returns seq.None; it is not broken arbitrarily.
func Called(s *group.Span) seq.Strand {
	switch {
	case s.Fwd > s.Rev:
		return seq.Plus
	case s.Rev > s.Fwd:
		return seq.Minus
	default:
		return seq.None
	}
}

// FeatureStrand returns the strand agreed on by all stranded
// annotations in anns. Disagreement between features returns seq.None
// rather than a majority; features without a known strand do not vote.
func FeatureStrand(anns []feature.Annotation) seq.Strand {
	strand := seq.None
	for _, a := range anns {
		switch {
		case a.Strand == seq.None:
		case strand == seq.None:
			strand = a.Strand
		case strand != a.Strand:
			return seq.None
		}
	}
	return strand
}

// Verdict is the reconciliation of a span's called strand with the
// strand of the features overlapping its range. Discordant records
// that both strands were known and differed.
type Verdict struct {
	Called     seq.Strand
	Feature    seq.Strand
	Direction  Direction
	Discordant bool
}

// Resolve reconciles the span's strand votes with the annotations
// overlapping its range. The annotation is authoritative: a known
// feature strand decides the direction, with Discordant set when the
// alignment disagrees. An unknown feature strand or a tied strand vote
// leaves the direction ambiguous.
func Resolve(s *group.Span, anns []feature.Annotation) Verdict {
	v := Verdict{Called: Called(s), Feature: FeatureStrand(anns)}
	if v.Called == seq.None || v.Feature == seq.None {
		v.Direction = DirAmbiguous
		return v
	}
	if v.Feature == seq.Plus {
		v.Direction = DirForward
	} else {
		v.Direction = DirReverse
	}
	v.Discordant = v.Called != v.Feature
	return v
}

// Locality classifies the placement of the span relative to its
// overlapping annotations: the type of a feature wholly containing the
// span, "combo" when the span straddles the boundary of every
// overlapping feature, or "intergenic" when nothing overlaps. When
// more than one feature contains the span the lexically first type is
// reported.
func Locality(s *group.Span, anns []feature.Annotation) string {
	if len(anns) == 0 {
		return "intergenic"
	}
	var within []string
	for _, a := range anns {
		if a.Start <= s.Start && s.End <= a.End {
			within = append(within, a.Type)
		}
	}
	if len(within) == 0 {
		return "combo"
	}
	sort.Strings(within)
	return within[0]
}
