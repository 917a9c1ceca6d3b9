package main

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/boltdb/bolt"
	"github.com/mingzhi/gff"
	"github.com/montanaflynn/stats"
	"gopkg.in/vmihailenco/msgpack.v2"
)

type cmdDepth struct {
	bamFile  string
	gffFile  string
	dbPath   string
	outFile  string
	minMapQ  int
	featType string
}

// featureSpan is one profiled feature location with its accumulated
// read counts.
type featureSpan struct {
	ID    string
	SeqID string
	Start int // 1-based inclusive
	End   int

	Reads int
	Bases int
}

type featureSpans []*featureSpan

func (s featureSpans) Len() int      { return len(s) }
func (s featureSpans) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

type byEnd struct{ featureSpans }

func (s byEnd) Less(i, j int) bool { return s.featureSpans[i].End < s.featureSpans[j].End }

// contigSpans holds one landmark sequence's spans sorted by end
// coordinate. maxLen bounds the overlap scan.
type contigSpans struct {
	spans  featureSpans
	maxLen int
}

// overlapping returns every span overlapping the 1-based inclusive read
// interval. A span ending beyond end+maxLen must also start beyond the
// read, so the scan stops there.
func (cs *contigSpans) overlapping(start, end int) []*featureSpan {
	var out []*featureSpan
	spans := cs.spans
	i := sort.Search(len(spans), func(i int) bool { return spans[i].End >= start })
	for ; i < len(spans) && spans[i].End <= end+cs.maxLen; i++ {
		if spans[i].Start <= end {
			out = append(out, spans[i])
		}
	}
	return out
}

// DepthRecord is the stored per-feature coverage summary.
type DepthRecord struct {
	ID        string
	SeqID     string
	Start     int
	End       int
	Length    int
	Reads     int
	Bases     int
	MeanDepth float64
}

func (c *cmdDepth) run() {
	contigs := c.readFeatureSpans()

	readChan := readAlignments(c.bamFile)
	filteredChan := filterAlignments(readChan, c.minMapQ)

	for r := range filteredChan {
		cs, found := contigs[r.Ref.Name()]
		if !found {
			continue
		}
		start := r.Start() + 1
		end := r.End()
		for _, span := range cs.overlapping(start, end) {
			span.Reads++
			span.Bases += overlapLen(span, start, end)
		}
	}

	records := collectDepthRecords(contigs)
	c.store(records)
	c.report(records)
}

func (c *cmdDepth) readFeatureSpans() map[string]*contigSpans {
	in := openInput(c.gffFile)
	defer in.Close()

	contigs := make(map[string]*contigSpans)
	seen := make(map[*gff.Feature]bool)
	collect := func(f *gff.Feature) {
		if f.Type() != c.featType {
			return
		}
		id := f.ID()
		for i, line := range f.Lines {
			if line.SeqID == nil || line.Start == nil || line.End == nil {
				continue
			}
			if *line.Start > *line.End {
				continue
			}
			spanID := id
			if spanID == "" {
				spanID = fmt.Sprintf("%s:%d..%d", *line.SeqID, *line.Start, *line.End)
			} else if len(f.Lines) > 1 {
				spanID = fmt.Sprintf("%s.%d", id, i+1)
			}
			cs := contigs[*line.SeqID]
			if cs == nil {
				cs = &contigSpans{}
				contigs[*line.SeqID] = cs
			}
			cs.spans = append(cs.spans, &featureSpan{
				ID:    spanID,
				SeqID: *line.SeqID,
				Start: *line.Start,
				End:   *line.End,
			})
		}
	}

	reader := gff.NewReaderOptions(in, gff.Options{Features: true})
	for {
		item, err := reader.Read()
		if err != nil {
			if err != io.EOF {
				raiseError(err)
			}
			break
		}
		if f, ok := item.(*gff.Feature); ok {
			walkFeature(f, collect, seen)
		}
	}

	var numSpans int
	for _, cs := range contigs {
		sort.Sort(byEnd{cs.spans})
		for _, s := range cs.spans {
			if l := s.End - s.Start + 1; l > cs.maxLen {
				cs.maxLen = l
			}
		}
		numSpans += len(cs.spans)
	}
	log.Printf("Profiling %d %s features on %d sequences\n", numSpans, c.featType, len(contigs))

	return contigs
}

func overlapLen(s *featureSpan, start, end int) int {
	lo := s.Start
	if start > lo {
		lo = start
	}
	hi := s.End
	if end < hi {
		hi = end
	}
	return hi - lo + 1
}

func collectDepthRecords(contigs map[string]*contigSpans) []DepthRecord {
	names := make([]string, 0, len(contigs))
	for name := range contigs {
		names = append(names, name)
	}
	sort.Strings(names)

	var records []DepthRecord
	for _, name := range names {
		for _, s := range contigs[name].spans {
			length := s.End - s.Start + 1
			records = append(records, DepthRecord{
				ID:        s.ID,
				SeqID:     s.SeqID,
				Start:     s.Start,
				End:       s.End,
				Length:    length,
				Reads:     s.Reads,
				Bases:     s.Bases,
				MeanDepth: float64(s.Bases) / float64(length),
			})
		}
	}
	return records
}

func (c *cmdDepth) store(records []DepthRecord) {
	db, err := bolt.Open(c.dbPath, 0600, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	raiseError(db.Update(createBucket("depth")))

	for i := 0; i < len(records); i += 1000 {
		j := i + 1000
		if j > len(records) {
			j = len(records)
		}
		batch := records[i:j]
		err := db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte("depth"))
			for _, rec := range batch {
				value, err := msgpack.Marshal(rec)
				if err != nil {
					return err
				}
				if err := b.Put([]byte(rec.ID), value); err != nil {
					return err
				}
			}
			return nil
		})
		raiseError(err)
	}

	db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte("depth"))
		s := b.Stats()
		log.Printf("Wrote %d records\n", s.KeyN)
		return nil
	})
}

func (c *cmdDepth) report(records []DepthRecord) {
	w := createOutput(c.outFile)
	defer w.Close()

	w.WriteString("id,seqid,start,end,length,reads,mean_depth\n")
	depthArr := []float64{}
	for _, rec := range records {
		depthArr = append(depthArr, rec.MeanDepth)
		w.WriteString(fmt.Sprintf("%s,%s,%d,%d,%d,%d,%g\n",
			rec.ID, rec.SeqID, rec.Start, rec.End, rec.Length, rec.Reads, rec.MeanDepth))
	}

	depthMedian, _ := stats.Median(depthArr)
	log.Printf("Median depth across %d features: %g\n", len(records), depthMedian)
}

func createBucket(name string) func(tx *bolt.Tx) error {
	return func(tx *bolt.Tx) error {
		_, err := tx.CreateBucket([]byte(name))
		if err != nil {
			if err == bolt.ErrBucketExists {
				if err := tx.DeleteBucket([]byte(name)); err != nil {
					return err
				}
				_, err = tx.CreateBucket([]byte(name))
				return err
			}
			return err
		}
		return nil
	}
}

// readAlignments streams records from a bam or sam file.
func readAlignments(fileName string) chan *sam.Record {
	c := make(chan *sam.Record)

	go func() {
		defer close(c)

		f := openFile(fileName)
		defer f.Close()

		type SamReader interface {
			Header() *sam.Header
			Read() (*sam.Record, error)
		}

		var reader SamReader
		if strings.HasSuffix(fileName, "bam") {
			bamReader, err := bam.NewReader(f, 0)
			raiseError(err)
			defer bamReader.Close()
			reader = bamReader
		} else {
			samReader, err := sam.NewReader(f)
			raiseError(err)
			reader = samReader
		}

		for {
			rec, err := reader.Read()
			if err != nil {
				if err != io.EOF {
					raiseError(err)
				}
				break
			}
			c <- rec
		}
		if *debug {
			log.Println("Finished reading bam file!")
		}
	}()

	return c
}

// filterAlignments discards reads with low or missing mapping quality.
func filterAlignments(readChan chan *sam.Record, minMapQ int) chan *sam.Record {
	c := make(chan *sam.Record)
	go func() {
		defer close(c)
		var goodReads, badReads int
		for r := range readChan {
			mapQ := int(r.MapQ)
			if mapQ <= minMapQ || mapQ == 255 {
				badReads++
			} else {
				goodReads++
				c <- r
			}
		}

		if *debug {
			log.Printf("Total used reads: %d\n", goodReads)
			log.Printf("Total discard reads: %d\n", badReads)
		}
	}()

	return c
}
