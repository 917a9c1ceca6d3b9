package main

import (
	"io"
	"log"
	"strings"

	"github.com/bmatsuo/lmdb-go/lmdb"
	"github.com/mingzhi/gff"
	"gopkg.in/vmihailenco/msgpack.v2"
)

// FeatureRecord is the indexed form of one feature: its identifying
// columns plus the GFF3 text of its own locations.
type FeatureRecord struct {
	ID      string
	SeqID   string
	Type    string
	Strand  string
	Start   int
	End     int
	Parents []string
	Lines   []string
}

// RegionRecord mirrors a ##sequence-region directive.
type RegionRecord struct {
	SeqID string
	Start string
	End   string
}

type cmdIndex struct {
	gffFile string
	dbPath  string

	env    *lmdb.Env
	sizeDB int64
}

func (c *cmdIndex) run() {
	var numDB int = 10
	c.sizeDB = 1 * 1024 * 1024 * 1024
	var err error
	c.env, err = createEnv(c.dbPath, numDB, c.sizeDB)
	for lmdb.IsMapFull(err) {
		c.sizeDB *= 2
		c.env, err = createEnv(c.dbPath, numDB, c.sizeDB)
	}
	raiseError(err)
	defer c.env.Close()

	raiseError(createDBI(c.env, "feature"))
	raiseError(createDBI(c.env, "seqid"))
	raiseError(createDBI(c.env, "region"))

	in := openInput(c.gffFile)
	defer in.Close()

	seqidIndex := make(map[string][]string)
	var regions []RegionRecord
	var batch []KeyValue
	var numIndexed int

	// Features reachable through several parents are indexed once.
	seen := make(map[*gff.Feature]bool)
	collect := func(f *gff.Feature) {
		rec, ok := newFeatureRecord(f)
		if !ok {
			return
		}
		value, err := msgpack.Marshal(rec)
		raiseError(err)
		batch = append(batch, KeyValue{Key: []byte(rec.ID), Value: value})
		if rec.SeqID != "" {
			seqidIndex[rec.SeqID] = append(seqidIndex[rec.SeqID], rec.ID)
		}
		numIndexed++
	}

	opts := gff.Options{Features: true, Directives: true}
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
		case *gff.Directive:
			if v.Name == "sequence-region" && v.SeqID != "" {
				regions = append(regions, RegionRecord{SeqID: v.SeqID, Start: v.Start, End: v.End})
			}
		}

		if len(batch) >= 1000 {
			c.load("feature", batch)
			batch = nil
		}
	}
	if len(batch) > 0 {
		c.load("feature", batch)
	}

	var seqidKVs []KeyValue
	for seqid, ids := range seqidIndex {
		value, err := msgpack.Marshal(ids)
		raiseError(err)
		seqidKVs = append(seqidKVs, KeyValue{Key: []byte(seqid), Value: value})
	}
	c.load("seqid", seqidKVs)

	var regionKVs []KeyValue
	for _, region := range regions {
		value, err := msgpack.Marshal(region)
		raiseError(err)
		regionKVs = append(regionKVs, KeyValue{Key: []byte(region.SeqID), Value: value})
	}
	c.load("region", regionKVs)

	log.Printf("Indexed %d features on %d landmark sequences\n", numIndexed, len(seqidIndex))
}

// load writes one batch of key-value pairs into the named database,
// doubling the map size whenever the write transaction runs out of room.
func (c *cmdIndex) load(dbiName string, kvs []KeyValue) {
	if len(kvs) == 0 {
		return
	}
	fn := func(txn *lmdb.Txn) error {
		dbi, err := txn.OpenDBI(dbiName, 0)
		if err != nil {
			return err
		}
		for _, kv := range kvs {
			if err := txn.Put(dbi, kv.Key, kv.Value, 0); err != nil {
				return err
			}
		}
		return nil
	}

retry:
	err := c.env.Update(fn)
	if lmdb.IsMapFull(err) {
		c.sizeDB = c.sizeDB * 2
		err = c.env.SetMapSize(c.sizeDB)
		raiseError(err)
		if *debug {
			log.Printf("increase max database size to %.2f G\n", float64(c.sizeDB)/(1024*1024*1024.0))
		}
		goto retry
	}
	raiseError(err)
}

func newFeatureRecord(f *gff.Feature) (FeatureRecord, bool) {
	id := f.ID()
	if id == "" || len(f.Lines) == 0 {
		return FeatureRecord{}, false
	}

	first := f.Lines[0]
	rec := FeatureRecord{
		ID:      id,
		Type:    f.Type(),
		Parents: first.Parents(),
		Lines:   ownLines(f),
	}
	if first.SeqID != nil {
		rec.SeqID = *first.SeqID
	}
	if first.Strand != nil {
		rec.Strand = *first.Strand
	}
	for _, line := range f.Lines {
		if line.Start != nil && (rec.Start == 0 || *line.Start < rec.Start) {
			rec.Start = *line.Start
		}
		if line.End != nil && *line.End > rec.End {
			rec.End = *line.End
		}
	}

	return rec, true
}

// ownLines renders the feature's own locations as GFF3 lines, without
// descending into children.
func ownLines(f *gff.Feature) []string {
	lines := make([]string, 0, len(f.Lines))
	for _, l := range f.Lines {
		bare := *l
		bare.Children = nil
		bare.Derived = nil
		one := gff.Feature{Lines: []*gff.FeatureLine{&bare}}
		lines = append(lines, strings.TrimSuffix(gff.FormatFeature(&one), "\n"))
	}
	return lines
}
