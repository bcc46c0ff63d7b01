// Copyright ©2016 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// tack summarises the alignments in a SAM file on a per-read basis and
// reconciles each read's mapped orientation against the strand of
// overlapping GFF features to recover the read's true direction.
//
// The SAM input is expected to be grouped by query name; pass -buffered
// for input in any other order.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/hts/sam"

	"github.com/kortschak/tack/annotate"
	"github.com/kortschak/tack/feature"
	"github.com/kortschak/tack/group"
)

var (
	samFile = flag.String("sam", "", "input SAM alignment file name (required)")
	gffFile = flag.String("gff", "", "input GFF annotation file name (required)")

	buffered = flag.Bool("buffered", false, `hold all read groups in memory until end of input
    	required when the SAM input is not grouped by read name`)

	gffOut  = flag.String("gffout", "", "output GFF file of resolved read spans")
	outFile = flag.String("out", "", "output file name (default to stdout)")
	errFile = flag.String("err", "", "log file name (default to stderr)")
)

const header = "# qname\tlines\tunmapped\trnames\trname\tstart\tend\tfeatures\tlocality\tcalled\tfeature_strand\tdirection\tconcordance"

func main() {
	flag.Parse()
	if *samFile == "" || *gffFile == "" {
		fmt.Fprintln(os.Stderr, "invalid argument: must have sam and gff set")
		flag.Usage()
		os.Exit(1)
	}

	if *errFile != "" {
		w, err := os.Create(*errFile)
		if err != nil {
			// Oh, the irony.
			log.Fatalf("failed to create log file: %v", err)
		}
		defer w.Close()
		log.SetOutput(w)
	}
	outStream := io.Writer(os.Stdout)
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			log.Fatalf("failed to create out file: %v", err)
		}
		defer f.Close()
		outStream = f
	}

	f, err := os.Open(*gffFile)
	if err != nil {
		log.Fatalf("failed to open %q: %v", *gffFile, err)
	}
	idx, err := feature.ReadIndex(f)
	f.Close()
	if err != nil {
		log.Fatalf("failed to read annotations from %q: %v", *gffFile, err)
	}
	if idx.Len() == 0 {
		log.Printf("no features in %q: all spans will be unannotated", *gffFile)
	} else {
		log.Printf("indexed %d features from %q", idx.Len(), *gffFile)
	}

	var gw *gff.Writer
	if *gffOut != "" {
		gf, err := os.Create(*gffOut)
		if err != nil {
			log.Fatalf("failed to create GFF outfile: %q", *gffOut)
		}
		defer gf.Close()
		gw = gff.NewWriter(gf, 60, true)
	}

	bw := bufio.NewWriter(outStream)
	defer bw.Flush()
	fmt.Fprintln(bw, header)

	sum := summariser{idx: idx, w: bw, gff: gw}
	a := group.NewAggregator(sum.summarise, !*buffered)

	sf, err := os.Open(*samFile)
	if err != nil {
		log.Fatalf("failed to open %q: %v", *samFile, err)
	}
	defer sf.Close()
	sr, err := sam.NewReader(sf)
	if err != nil {
		log.Fatalf("failed to open SAM input %q: %v", *samFile, err)
	}
	var n int
	for {
		r, err := sr.Read()
		if err != nil {
			if err != io.EOF {
				log.Fatalf("unexpected error reading SAM: %v", err)
			}
			break
		}
		n++
		err = a.Add(r)
		if err != nil {
			log.Fatalf("failed aggregation: %v (re-run with -buffered)", err)
		}
	}
	err = a.Flush()
	if err != nil {
		log.Fatalf("failed aggregation: %v", err)
	}
	log.Printf("summarised %d alignment lines from %q", n, *samFile)
}

type summariser struct {
	idx *feature.Index
	w   io.Writer
	gff *gff.Writer
}

// summarise writes one tab-delimited line for each reference sequence
// the group's read maps to, with coordinates converted back to
// one-based inclusive for presentation. A read with no mapped lines is
// reported on a single line with a "*" reference.
func (s *summariser) summarise(g *group.Group) error {
	if len(g.Rnames) == 0 {
		_, err := fmt.Fprintf(s.w, "%s\t%d\t%d\t0\t*\t.\t.\t.\t.\t.\t.\t%v\t.\n",
			g.Name, g.Lines, g.Unmapped, annotate.DirAmbiguous)
		return err
	}
	for _, rname := range g.Rnames {
		sp := g.Spans[rname]
		anns := s.idx.Query(rname, sp.Start, sp.End)
		v := annotate.Resolve(sp, anns)

		types := "."
		if t := annotate.Types(anns); len(t) != 0 {
			types = strings.Join(t, ",")
		}
		concord := "."
		if v.Direction != annotate.DirAmbiguous {
			if v.Discordant {
				concord = "discordant"
			} else {
				concord = "concordant"
			}
		}
		_, err := fmt.Fprintf(s.w, "%s\t%d\t%d\t%d\t%s\t%d\t%d\t%s\t%s\t%s\t%s\t%v\t%s\n",
			g.Name, g.Lines, g.Unmapped, len(g.Rnames), rname,
			feat.ZeroToOne(sp.Start), sp.End,
			types, annotate.Locality(sp, anns),
			strand(v.Called), strand(v.Feature), v.Direction, concord,
		)
		if err != nil {
			return err
		}
		if s.gff != nil {
			_, err = s.gff.Write(&gff.Feature{
				SeqName:    rname,
				Source:     "tack",
				Feature:    "read_span",
				FeatStart:  sp.Start,
				FeatEnd:    sp.End,
				FeatStrand: v.Direction.Strand(),
				FeatFrame:  gff.NoFrame,
				FeatAttributes: gff.Attributes{
					{Tag: "Read", Value: fmt.Sprintf("%s %d", g.Name, sp.Lines)},
				},
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func strand(s seq.Strand) string {
	switch s {
	case seq.Plus:
		return "+"
	case seq.Minus:
		return "-"
	default:
		return "."
	}
}
