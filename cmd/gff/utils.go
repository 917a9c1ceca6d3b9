package main

import (
	"compress/gzip"
	"io"
	"log"
	"os"
	"strings"

	"github.com/bmatsuo/lmdb-go/lmdb"
	"github.com/mingzhi/gff"
)

type KeyValue struct {
	Key, Value []byte
}

func newEnv(numDB int, sizeDB int64) *lmdb.Env {
	env, err := lmdb.NewEnv()
	raiseError(err)
	err = env.SetMaxDBs(numDB)
	raiseError(err)

	err = env.SetMapSize(sizeDB)
	raiseError(err)

	return env
}

func createReadOnlyEnv(path string, numDB int, sizeDB int64) *lmdb.Env {
	env := newEnv(numDB, sizeDB)
	err := env.Open(path, lmdb.Readonly, 0644)
	raiseError(err)
	return env
}

func createEnv(path string, numDB int, sizeDB int64) (env *lmdb.Env, err error) {
	env = newEnv(numDB, sizeDB)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			os.Mkdir(path, 0755)
		} else {
			raiseError(err)
		}
	}
	err = env.Open(path, 0, 0644)
	return
}

func createDBI(env *lmdb.Env, name string) error {
	fn := func(txn *lmdb.Txn) error {
		var dbi lmdb.DBI
		var err error
		var del bool = false

		if dbi, err = txn.CreateDBI(name); err != nil {
			return err
		}

		if err = txn.Drop(dbi, del); err != nil {
			return err
		}

		return nil
	}

	err := env.Update(fn)
	return err
}

func openFile(filename string) *os.File {
	f, err := os.Open(filename)
	raiseError(err)

	return f
}

func createFile(filename string) *os.File {
	f, err := os.Create(filename)
	raiseError(err)

	return f
}

// openInput opens a GFF3 input stream. "-" reads stdin; gzip inputs are
// recognized by their magic bytes or a .gz suffix.
func openInput(filename string) io.ReadCloser {
	if filename == "-" {
		return io.NopCloser(os.Stdin)
	}

	f := openFile(filename)
	magic := make([]byte, 2)
	n, _ := io.ReadFull(f, magic)
	_, err := f.Seek(0, io.SeekStart)
	raiseError(err)

	gzipped := n == 2 && magic[0] == 0x1f && magic[1] == 0x8b
	if gzipped || strings.HasSuffix(filename, ".gz") {
		gz, err := gzip.NewReader(f)
		raiseError(err)
		return &gzipReadCloser{Reader: gz, file: f}
	}

	return f
}

type gzipReadCloser struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Close() error {
	g.Reader.Close()
	return g.file.Close()
}

// createOutput creates the named output file, or returns stdout when the
// name is empty.
func createOutput(filename string) *os.File {
	if filename == "" {
		return os.Stdout
	}
	return createFile(filename)
}

// walkFeature visits every feature of a tree not yet in seen. Callers
// share one seen map across trees, since a feature with several parents
// is reachable from more than one top-level item.
func walkFeature(f *gff.Feature, visit func(*gff.Feature), seen map[*gff.Feature]bool) {
	if seen[f] {
		return
	}
	seen[f] = true
	visit(f)
	for _, line := range f.Lines {
		for _, child := range line.Children {
			walkFeature(child, visit, seen)
		}
		for _, derived := range line.Derived {
			walkFeature(derived, visit, seen)
		}
	}
}

func raiseError(err error) {
	if err != nil {
		if *debug {
			log.Panic(err)
		} else {
			log.Fatalln(err)
		}
	}
}
