package main

import (
	"io"
	"log"

	"github.com/mingzhi/gff"
)

type cmdReformat struct {
	inFile    string
	outFile   string
	syncLines int
	noVersion bool
}

func (c *cmdReformat) run() {
	in := openInput(c.inFile)
	defer in.Close()

	out := createOutput(c.outFile)
	defer out.Close()

	opts := gff.Options{Features: true, Directives: true, Comments: true, Sequences: true}
	reader := gff.NewReaderOptions(in, opts)

	w := gff.NewWriter(out)
	w.MinSyncLines = c.syncLines
	w.InsertVersionDirective = !c.noVersion

	var numItems int
	for {
		item, err := reader.Read()
		if err != nil {
			if err != io.EOF {
				raiseError(err)
			}
			break
		}
		raiseError(w.Write(item))
		numItems++
	}
	raiseError(w.Flush())

	log.Printf("Wrote %d items\n", numItems)
}
