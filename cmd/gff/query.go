package main

import (
	"fmt"
	"log"

	"github.com/bmatsuo/lmdb-go/lmdb"
	"gopkg.in/vmihailenco/msgpack.v2"
)

type cmdQuery struct {
	dbPath string
	id     string
	seqID  string
}

func (c *cmdQuery) run() {
	var numDB int = 10
	var sizeDB int64 = 1 * 1024 * 1024 * 1024
	env := createReadOnlyEnv(c.dbPath, numDB, sizeDB)
	defer env.Close()

	switch {
	case c.id != "":
		printRecord(getFeatureRecord(env, c.id))
	case c.seqID != "":
		if region, ok := getRegionRecord(env, c.seqID); ok {
			fmt.Printf("##sequence-region %s %s %s\n", region.SeqID, region.Start, region.End)
		}
		for _, id := range getSeqidIDs(env, c.seqID) {
			printRecord(getFeatureRecord(env, id))
		}
	default:
		for rec := range readFeatureRecords(env) {
			printRecord(rec)
		}
	}
}

func printRecord(rec FeatureRecord) {
	for _, line := range rec.Lines {
		fmt.Println(line)
	}
}

func getFeatureRecord(env *lmdb.Env, id string) FeatureRecord {
	var rec FeatureRecord
	fn := func(txn *lmdb.Txn) error {
		dbi, err := txn.OpenDBI("feature", 0)
		if err != nil {
			return err
		}
		value, err := txn.Get(dbi, []byte(id))
		if err != nil {
			return err
		}
		return msgpack.Unmarshal(value, &rec)
	}
	err := env.View(fn)
	if lmdb.IsNotFound(err) {
		log.Fatalf("feature %s not found\n", id)
	}
	raiseError(err)
	return rec
}

// getSeqidIDs returns the IDs of all indexed features on a landmark
// sequence, in file order.
func getSeqidIDs(env *lmdb.Env, seqID string) []string {
	var ids []string
	fn := func(txn *lmdb.Txn) error {
		dbi, err := txn.OpenDBI("seqid", 0)
		if err != nil {
			return err
		}
		value, err := txn.Get(dbi, []byte(seqID))
		if err != nil {
			return err
		}
		return msgpack.Unmarshal(value, &ids)
	}
	err := env.View(fn)
	if lmdb.IsNotFound(err) {
		log.Fatalf("no features found on %s\n", seqID)
	}
	raiseError(err)
	return ids
}

func getRegionRecord(env *lmdb.Env, seqID string) (RegionRecord, bool) {
	var rec RegionRecord
	fn := func(txn *lmdb.Txn) error {
		dbi, err := txn.OpenDBI("region", 0)
		if err != nil {
			return err
		}
		value, err := txn.Get(dbi, []byte(seqID))
		if err != nil {
			return err
		}
		return msgpack.Unmarshal(value, &rec)
	}
	err := env.View(fn)
	if lmdb.IsNotFound(err) {
		return rec, false
	}
	raiseError(err)
	return rec, true
}

// readFeatureRecords streams every indexed feature through a channel,
// in key order.
func readFeatureRecords(env *lmdb.Env) chan FeatureRecord {
	ch := make(chan FeatureRecord)
	go func() {
		defer close(ch)
		fn := func(txn *lmdb.Txn) error {
			dbi, err := txn.OpenDBI("feature", 0)
			if err != nil {
				return err
			}
			cur, err := txn.OpenCursor(dbi)
			if err != nil {
				return err
			}
			defer cur.Close()

			for {
				_, v, err := cur.Get(nil, nil, lmdb.Next)
				if lmdb.IsNotFound(err) {
					return nil
				}
				if err != nil {
					return err
				}
				var rec FeatureRecord
				if err := msgpack.Unmarshal(v, &rec); err != nil {
					return err
				}
				ch <- rec
			}
		}
		raiseError(env.View(fn))
	}()
	return ch
}
