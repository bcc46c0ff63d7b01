// Copyright ©2016 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package group

import (
	"io"
	"strings"
	"testing"

	"github.com/biogo/hts/sam"
	"gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

const samData = `@HD	VN:1.5	SO:queryname
@SQ	SN:R1	LN:1000
@SQ	SN:R2	LN:1000
Q1	0	R1	100	60	51M	*	0	0	*	*
Q1	0	R1	140	60	21M	*	0	0	*	*
Q1	16	R2	500	60	21M	*	0	0	*	*
Q2	4	*	0	0	*	*	0	0	*	*
Q3	16	R1	200	60	10M	*	0	0	*	*
Q3	0	R1	205	60	10M	*	0	0	*	*
`

func records(c *check.C, data string) []*sam.Record {
	sr, err := sam.NewReader(strings.NewReader(data))
	c.Assert(err, check.Equals, nil)
	var recs []*sam.Record
	for {
		r, err := sr.Read()
		if err == io.EOF {
			break
		}
		c.Assert(err, check.Equals, nil)
		recs = append(recs, r)
	}
	return recs
}

func aggregate(c *check.C, recs []*sam.Record, grouped bool) []*Group {
	var got []*Group
	a := NewAggregator(func(g *Group) error {
		got = append(got, g)
		return nil
	}, grouped)
	for _, r := range recs {
		c.Assert(a.Add(r), check.Equals, nil)
	}
	c.Assert(a.Flush(), check.Equals, nil)
	return got
}

var wantGroups = []*Group{
	{
		Name: "Q1", Lines: 3,
		Spans: map[string]*Span{
			"R1": {Lines: 2, Start: 99, End: 160, Fwd: 2},
			"R2": {Lines: 1, Start: 499, End: 520, Rev: 1},
		},
		Rnames: []string{"R1", "R2"},
	},
	{
		Name: "Q2", Lines: 1, Unmapped: 1,
		Spans: map[string]*Span{},
	},
	{
		Name: "Q3", Lines: 2,
		Spans: map[string]*Span{
			"R1": {Lines: 2, Start: 199, End: 215, Fwd: 1, Rev: 1},
		},
		Rnames: []string{"R1"},
	},
}

func (s *S) TestAggregateGrouped(c *check.C) {
	got := aggregate(c, records(c, samData), true)
	c.Check(got, check.DeepEquals, wantGroups)
}

func (s *S) TestAggregateBuffered(c *check.C) {
	got := aggregate(c, records(c, samData), false)
	c.Check(got, check.DeepEquals, wantGroups)
}

func (s *S) TestLineCountInvariant(c *check.C) {
	for _, grouped := range []bool{true, false} {
		for _, g := range aggregate(c, records(c, samData), grouped) {
			n := g.Unmapped
			for _, sp := range g.Spans {
				n += sp.Lines
				c.Check(sp.Start < sp.End, check.Equals, true)
			}
			c.Check(g.Lines, check.Equals, n)
			c.Check(len(g.Rnames), check.Equals, len(g.Spans))
		}
	}
}

func (s *S) TestUngroupedInputRejected(c *check.C) {
	recs := records(c, samData)
	a := NewAggregator(func(*Group) error { return nil }, true)
	c.Check(a.Add(recs[0]), check.Equals, nil) // Q1
	c.Check(a.Add(recs[3]), check.Equals, nil) // Q2
	err := a.Add(recs[1]) // Q1 again
	c.Check(err, check.ErrorMatches, `group: input not grouped by name: "Q1" reappeared`)
}

func (s *S) TestIdempotent(c *check.C) {
	first := aggregate(c, records(c, samData), true)
	second := aggregate(c, records(c, samData), true)
	c.Check(second, check.DeepEquals, first)
}

func (s *S) TestEmptyInput(c *check.C) {
	var got []*Group
	a := NewAggregator(func(g *Group) error {
		got = append(got, g)
		return nil
	}, true)
	c.Check(a.Flush(), check.Equals, nil)
	c.Check(len(got), check.Equals, 0)
}
