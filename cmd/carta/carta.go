// Copyright ©2016 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// carta draws a histogram of alignment lines per read from a SAM file.
package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/biogo/hts/sam"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	in   = flag.String("sam", "", "input SAM alignment file name (required)")
	out  = flag.String("out", "carta.png", "output image file name (format by extension)")
	bins = flag.Int("bins", 20, "number of histogram bins")
)

func main() {
	flag.Parse()
	if *in == "" {
		flag.Usage()
		os.Exit(1)
	}

	f, err := os.Open(*in)
	if err != nil {
		log.Fatalf("failed to open %q: %v", *in, err)
	}
	defer f.Close()
	sr, err := sam.NewReader(f)
	if err != nil {
		log.Fatalf("failed to open SAM input %q: %v", *in, err)
	}

	lines := make(map[string]int)
	for {
		r, err := sr.Read()
		if err != nil {
			if err != io.EOF {
				log.Fatalf("unexpected error reading SAM: %v", err)
			}
			break
		}
		lines[r.Name]++
	}
	if len(lines) == 0 {
		log.Fatalf("no alignment lines in %q", *in)
	}

	var v plotter.Values
	for _, n := range lines {
		v = append(v, float64(n))
	}

	p, err := plot.New()
	if err != nil {
		log.Fatalf("failed to create plot: %v", err)
	}
	p.Title.Text = "alignment lines per read"
	p.X.Label.Text = "lines"
	p.Y.Label.Text = "reads"
	h, err := plotter.NewHist(v, *bins)
	if err != nil {
		log.Fatalf("failed to create histogram: %v", err)
	}
	p.Add(h)

	err = p.Save(6*vg.Inch, 4*vg.Inch, *out)
	if err != nil {
		log.Fatalf("failed to save plot: %v", err)
	}
}
