// Copyright ©2016 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package group aggregates SAM alignment records by read name.
package group

import (
	"fmt"

	"github.com/biogo/hts/sam"
)

// Span summarises the alignment lines for one read on one reference
// sequence. Start and End are the zero-based half-open extent covering
// all contributing lines. Fwd and Rev count the strand of each line.
type Span struct {
	Lines int
	Start int
	End   int
	Fwd   int
	Rev   int
}

// Group summarises all alignment lines sharing a read name. Unmapped
// lines count toward Lines and Unmapped but contribute no span, so
// Lines is always Unmapped plus the sum of span line counts.
type Group struct {
	Name     string
	Lines    int
	Unmapped int

	// Spans holds the per-reference summaries, keyed by reference
	// name. Rnames records the keys in first-seen order.
	Spans  map[string]*Span
	Rnames []string
}

func newGroup(name string) *Group {
	return &Group{Name: name, Spans: make(map[string]*Span)}
}

func (g *Group) add(r *sam.Record) {
	g.Lines++
	if r.Flags&sam.Unmapped != 0 || r.Ref == nil {
		g.Unmapped++
		return
	}
	start := r.Start()
	end := r.End()
	if end == start {
		// No reference-consuming CIGAR operation is available,
		// so take the stored sequence length.
		end = start + r.Seq.Length
	}
	rname := r.Ref.Name()
	s, ok := g.Spans[rname]
	if !ok {
		s = &Span{Start: start, End: end}
		g.Spans[rname] = s
		g.Rnames = append(g.Rnames, rname)
	}
	s.Lines++
	if start < s.Start {
		s.Start = start
	}
	if s.End < end {
		s.End = end
	}
	if r.Strand() < 0 {
		s.Rev++
	} else {
		s.Fwd++
	}
}

// Aggregator folds a stream of SAM records into one Group per read
// name, passing each completed Group to an emit function.
//
// In grouped mode the input must present all lines for a read
// contiguously, as in query name-sorted SAM output. A group is then
// finalised and emitted as soon as a line for a different read is
// seen, so only one open group is held at a time. A read name that
// reappears after its group has been emitted is an input ordering
// error. In ungrouped mode no ordering is assumed; all groups are held
// until Flush and emitted in first-seen order.
type Aggregator struct {
	emit    func(*Group) error
	grouped bool

	open *Group
	done map[string]bool

	groups map[string]*Group
	order  []string
}

// NewAggregator returns an Aggregator calling emit for each completed
// Group. If grouped is true the input is assumed to be grouped by read
// name and groups are emitted as the stream is consumed.
func NewAggregator(emit func(*Group) error, grouped bool) *Aggregator {
	a := &Aggregator{emit: emit, grouped: grouped}
	if grouped {
		a.done = make(map[string]bool)
	} else {
		a.groups = make(map[string]*Group)
	}
	return a
}

// Add folds the record into the group for its read name.
func (a *Aggregator) Add(r *sam.Record) error {
	if !a.grouped {
		g, ok := a.groups[r.Name]
		if !ok {
			g = newGroup(r.Name)
			a.groups[r.Name] = g
			a.order = append(a.order, r.Name)
		}
		g.add(r)
		return nil
	}
	if a.open != nil && a.open.Name != r.Name {
		err := a.finalise()
		if err != nil {
			return err
		}
	}
	if a.open == nil {
		if a.done[r.Name] {
			return fmt.Errorf("group: input not grouped by name: %q reappeared", r.Name)
		}
		a.open = newGroup(r.Name)
	}
	a.open.add(r)
	return nil
}

// Flush finalises and emits all held groups. It must be called after
// the last record has been added.
func (a *Aggregator) Flush() error {
	if a.grouped {
		if a.open == nil {
			return nil
		}
		return a.finalise()
	}
	for _, name := range a.order {
		err := a.emit(a.groups[name])
		if err != nil {
			return err
		}
	}
	a.groups = make(map[string]*Group)
	a.order = a.order[:0]
	return nil
}

func (a *Aggregator) finalise() error {
	g := a.open
	a.open = nil
	a.done[g.Name] = true
	return a.emit(g)
}
