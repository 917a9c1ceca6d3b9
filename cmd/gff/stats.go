package main

import (
	"fmt"
	"io"
	"log"
	"math"
	"sort"

	"github.com/mingzhi/gff"
	"github.com/mingzhi/gff/calc"
	"github.com/montanaflynn/stats"
)

type cmdStats struct {
	gffFile string
	outFile string
}

func (c *cmdStats) run() {
	in := openInput(c.gffFile)
	defer in.Close()

	counts := make(map[string]int)
	lengths := calc.NewGroupedMeanVar()
	scores := make(map[string][]float64)
	var numDirectives, numComments, numSequences int

	// One feature can hang below several parents; count its lines once.
	seen := make(map[*gff.Feature]bool)
	countLines := func(f *gff.Feature) {
		for _, line := range f.Lines {
			t := "."
			if line.Type != nil {
				t = *line.Type
			}
			counts[t]++
			if line.Start != nil && line.End != nil {
				lengths.Increment(t, float64(*line.End-*line.Start+1))
			}
			if line.Score != nil {
				scores[t] = append(scores[t], *line.Score)
			}
		}
	}

	opts := gff.Options{Features: true, Directives: true, Comments: true, Sequences: true}
	reader := gff.NewReaderOptions(in, opts)
	for {
		item, err := reader.Read()
		if err != nil {
			if err != io.EOF {
				raiseError(err)
			}
			break
		}

		switch v := item.(type) {
		case *gff.Feature:
			walkFeature(v, countLines, seen)
		case *gff.Directive:
			numDirectives++
		case *gff.Comment:
			numComments++
		case *gff.Sequence:
			numSequences++
		}
	}

	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	w := createOutput(c.outFile)
	defer w.Close()

	w.WriteString("type,count,mean_length,var_length,median_score\n")
	for _, t := range types {
		medianScore := math.NaN()
		if len(scores[t]) > 0 {
			medianScore, _ = stats.Median(scores[t])
		}
		w.WriteString(fmt.Sprintf("%s,%d,%g,%g,%g\n",
			t, counts[t], lengths.Mean(t), lengths.Var(t), medianScore))
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	log.Printf("Processed %d feature lines, %d directives, %d comments, %d sequences\n",
		total, numDirectives, numComments, numSequences)
}
