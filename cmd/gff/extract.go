package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/mingzhi/biogo/seq"
	"github.com/mingzhi/gff"
	"github.com/mingzhi/ncbiftp/taxonomy"
)

type cmdExtract struct {
	gffFile   string
	fnaFile   string
	outFile   string
	featType  string
	translate bool
	codonID   string
}

// extractRecord is one feature to pull out of the genome. Multi-location
// features keep one segment per location; segments are spliced together
// in coordinate order before any reverse complement.
type extractRecord struct {
	id       string
	seqid    string
	minus    bool
	segments [][2]int // 1-based inclusive start and end
}

func (c *cmdExtract) run() {
	genomes := make(map[string][]byte)
	if c.fnaFile != "" {
		genomes = readGenomes(c.fnaFile)
	}

	in := openInput(c.gffFile)
	defer in.Close()

	var wanted []extractRecord
	seen := make(map[*gff.Feature]bool)
	collect := func(f *gff.Feature) {
		if f.Type() != c.featType {
			return
		}
		var rec extractRecord
		rec.id = f.ID()
		for _, line := range f.Lines {
			if line.SeqID == nil || line.Start == nil || line.End == nil {
				continue
			}
			if rec.seqid == "" {
				rec.seqid = *line.SeqID
			}
			if line.Strand != nil && *line.Strand == "-" {
				rec.minus = true
			}
			rec.segments = append(rec.segments, [2]int{*line.Start, *line.End})
		}
		if len(rec.segments) == 0 {
			return
		}
		sort.Slice(rec.segments, func(i, j int) bool { return rec.segments[i][0] < rec.segments[j][0] })
		if rec.id == "" {
			rec.id = fmt.Sprintf("%s:%d..%d", rec.seqid, rec.segments[0][0], rec.segments[len(rec.segments)-1][1])
		}
		wanted = append(wanted, rec)
	}

	// The embedded ##FASTA section follows all feature lines, so every
	// record is collected before its genome is needed.
	opts := gff.Options{Features: true, Sequences: true}
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
			walkFeature(v, collect, seen)
		case *gff.Sequence:
			if c.fnaFile == "" {
				genomes[v.ID] = bytes.ToUpper([]byte(v.Seq))
			}
		}
	}

	var gc *taxonomy.GeneticCode
	if c.translate {
		gc = taxonomy.GeneticCodes()[c.codonID]
		if gc == nil {
			log.Fatalf("unknown codon table %s\n", c.codonID)
		}
	}

	out := createOutput(c.outFile)
	defer out.Close()
	w := bufio.NewWriter(out)
	defer w.Flush()

	var numWritten, numSkipped int
	for _, rec := range wanted {
		genome, found := genomes[rec.seqid]
		if !found {
			numSkipped++
			if *debug {
				log.Printf("no sequence for %s, skipping %s\n", rec.seqid, rec.id)
			}
			continue
		}
		s := spliceSegments(genome, rec.segments)
		if s == nil {
			numSkipped++
			if *debug {
				log.Printf("%s out of range on %s\n", rec.id, rec.seqid)
			}
			continue
		}
		if rec.minus {
			s = revcomp(s)
		}
		if c.translate {
			s = translateSeq(s, gc)
		}
		fmt.Fprintf(w, ">%s %s\n%s\n", rec.id, rec.seqid, s)
		numWritten++
	}

	log.Printf("Extracted %d sequences, skipped %d\n", numWritten, numSkipped)
}

// readGenomes reads a FASTA genome file keyed by the first word of each
// defline.
func readGenomes(filename string) map[string][]byte {
	f := openFile(filename)
	defer f.Close()

	fastaReader := seq.NewFastaReader(f)
	fastaReader.DeflineParser = func(s string) string { return strings.Split(strings.TrimSpace(s), " ")[0] }
	m := make(map[string][]byte)
	sequences, err := fastaReader.ReadAll()
	raiseError(err)
	for _, s := range sequences {
		m[s.Id] = bytes.ToUpper(s.Seq)
	}
	return m
}

// spliceSegments concatenates 1-based inclusive genome segments,
// returning nil when any segment falls outside the sequence.
func spliceSegments(genome []byte, segments [][2]int) []byte {
	var s []byte
	for _, seg := range segments {
		start, end := seg[0], seg[1]
		if start < 1 || end > len(genome) || start > end {
			return nil
		}
		s = append(s, genome[start-1:end]...)
	}
	return s
}

// translateSeq translates a nucleotide sequence codon by codon. Unknown
// codons and a trailing partial codon become 'X'.
func translateSeq(s []byte, gc *taxonomy.GeneticCode) []byte {
	var prot []byte
	for i := 0; i+3 <= len(s); i += 3 {
		aa := gc.Table[string(s[i:i+3])]
		if aa == 0 {
			aa = 'X'
		}
		prot = append(prot, aa)
	}
	if len(s)%3 != 0 {
		prot = append(prot, 'X')
	}
	return prot
}

// revcomp returns the reverse complement of a nucleotide sequence.
func revcomp(s []byte) []byte {
	rc := make([]byte, len(s))
	for i := range s {
		rc[i] = comp(s[len(s)-1-i])
	}
	return rc
}

func comp(a byte) byte {
	switch a {
	case 'A', 'a':
		return 'T'
	case 'T', 't':
		return 'A'
	case 'G', 'g':
		return 'C'
	case 'C', 'c':
		return 'G'
	}
	return 'N'
}
