package main

import (
	"os"
	"runtime"

	"github.com/alecthomas/kingpin"
)

var (
	app   = kingpin.New("gff", "A command-line application for working with GFF3 annotation files.")
	debug = app.Flag("debug", "Enable debug mode.").Bool()
	ncpu  = app.Flag("ncpu", "number of CPUs for using.").Default("0").Int()

	statsApp = app.Command("stats", "report per-type feature statistics.")
	statsIn  = statsApp.Arg("gff_file", "GFF3 file ('-' for stdin, .gz accepted).").Required().String()
	statsOut = statsApp.Flag("out", "output csv file.").Short('o').String()

	indexApp = app.Command("index", "index features into a key-value db.")
	indexIn  = indexApp.Arg("gff_file", "GFF3 file ('-' for stdin, .gz accepted).").Required().String()
	indexDb  = indexApp.Arg("db_path", "db directory path.").Required().String()

	queryApp   = app.Command("query", "query an indexed db.")
	queryDb    = queryApp.Arg("db_path", "db directory path.").Required().String()
	queryID    = queryApp.Flag("id", "feature ID to look up.").String()
	querySeqID = queryApp.Flag("seqid", "list features on a landmark sequence.").String()

	reformatApp       = app.Command("reformat", "reparse and canonically rewrite a GFF3 file.")
	reformatIn        = reformatApp.Arg("gff_file", "GFF3 file ('-' for stdin, .gz accepted).").Required().String()
	reformatOut       = reformatApp.Flag("out", "output file.").Short('o').String()
	reformatSync      = reformatApp.Flag("sync-lines", "minimum lines between ### marks.").Default("100").Int()
	reformatNoVersion = reformatApp.Flag("no-version", "do not insert a gff-version directive.").Bool()

	extractApp    = app.Command("extract", "extract feature sequences to FASTA.")
	extractGff    = extractApp.Arg("gff_file", "GFF3 file ('-' for stdin, .gz accepted).").Required().String()
	extractOut    = extractApp.Flag("out", "output FASTA file.").Short('o').String()
	extractFna    = extractApp.Flag("fna", "reference genome FASTA; defaults to the embedded ##FASTA section.").String()
	extractType   = extractApp.Flag("type", "feature type to extract.").Default("CDS").String()
	extractTrans  = extractApp.Flag("translate", "translate extracted sequences.").Bool()
	extractCodonT = extractApp.Flag("codon", "codon table id.").Default("11").String()

	depthApp     = app.Command("depth", "per-feature read depth from a bam/sam file.")
	depthBam     = depthApp.Arg("bam_file", "bam or sam file.").Required().String()
	depthGff     = depthApp.Arg("gff_file", "GFF3 file ('-' for stdin, .gz accepted).").Required().String()
	depthDb      = depthApp.Arg("results_db_path", "results db path.").Required().String()
	depthOut     = depthApp.Flag("out", "output csv file.").Short('o').String()
	depthMinMapQ = depthApp.Flag("min-mq", "minimum mapping quality.").Default("30").Int()
	depthType    = depthApp.Flag("type", "feature type to profile.").Default("gene").String()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))
	runtime.GOMAXPROCS(*ncpu)

	switch command {
	case statsApp.FullCommand():
		statscmd := cmdStats{
			gffFile: *statsIn,
			outFile: *statsOut,
		}
		statscmd.run()
	case indexApp.FullCommand():
		indexcmd := cmdIndex{
			gffFile: *indexIn,
			dbPath:  *indexDb,
		}
		indexcmd.run()
	case queryApp.FullCommand():
		querycmd := cmdQuery{
			dbPath: *queryDb,
			id:     *queryID,
			seqID:  *querySeqID,
		}
		querycmd.run()
	case reformatApp.FullCommand():
		reformatcmd := cmdReformat{
			inFile:    *reformatIn,
			outFile:   *reformatOut,
			syncLines: *reformatSync,
			noVersion: *reformatNoVersion,
		}
		reformatcmd.run()
	case extractApp.FullCommand():
		extractcmd := cmdExtract{
			gffFile:   *extractGff,
			fnaFile:   *extractFna,
			outFile:   *extractOut,
			featType:  *extractType,
			translate: *extractTrans,
			codonID:   *extractCodonT,
		}
		extractcmd.run()
	case depthApp.FullCommand():
		depthcmd := cmdDepth{
			bamFile:  *depthBam,
			gffFile:  *depthGff,
			dbPath:   *depthDb,
			outFile:  *depthOut,
			minMapQ:  *depthMinMapQ,
			featType: *depthType,
		}
		depthcmd.run()
	}
}
