// Copyright ©2016 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// sound reports distribution statistics for alignment lines per read
// in a SAM file.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/biogo/hts/sam"
	"gonum.org/v1/gonum/stat"
)

var in = flag.String("sam", "", "input SAM alignment file name (required)")

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
	var mapped, unmapped int
	for {
		r, err := sr.Read()
		if err != nil {
			if err != io.EOF {
				log.Fatalf("unexpected error reading SAM: %v", err)
			}
			break
		}
		lines[r.Name]++
		if r.Flags&sam.Unmapped != 0 || r.Ref == nil {
			unmapped++
		} else {
			mapped++
		}
	}

	fmt.Printf("reads\t%d\n", len(lines))
	fmt.Printf("lines\t%d\n", mapped+unmapped)
	fmt.Printf("mapped\t%d\n", mapped)
	fmt.Printf("unmapped\t%d\n", unmapped)
	if len(lines) == 0 {
		return
	}

	counts := make([]float64, 0, len(lines))
	for _, n := range lines {
		counts = append(counts, float64(n))
	}
	sort.Float64s(counts)

	mean, std := stat.MeanStdDev(counts, nil)
	fmt.Printf("mean lines/read\t%.4f\n", mean)
	fmt.Printf("stddev lines/read\t%.4f\n", std)
	for _, q := range []float64{0.25, 0.5, 0.75} {
		fmt.Printf("q%.0f lines/read\t%v\n", q*100, stat.Quantile(q, stat.Empirical, counts, nil))
	}
}
