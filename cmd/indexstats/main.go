// Command indexstats inspects the term dictionary of an index directory
// and reports vocabulary statistics and the highest-frequency terms.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/irsearch/platform/internal/index"
)

func main() {
	top := flag.Int("top", 20, "number of top doc-frequency terms to print")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: indexstats [-top n] <index_dir>")
		os.Exit(1)
	}
	dictPath := filepath.Join(flag.Arg(0), "index.dict")

	records, err := index.ReadDict(dictPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading dictionary: %v\n", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Println("empty dictionary")
		return
	}

	totalLen := 0
	var totalPostings uint64
	for _, rec := range records {
		totalLen += len(rec.Term)
		totalPostings += uint64(rec.DocFreq)
	}

	fmt.Printf("terms:            %d\n", len(records))
	fmt.Printf("avg term length:  %.2f\n", float64(totalLen)/float64(len(records)))
	fmt.Printf("postings entries: %d\n", totalPostings)

	sort.Slice(records, func(i, j int) bool {
		if records[i].DocFreq != records[j].DocFreq {
			return records[i].DocFreq > records[j].DocFreq
		}
		return records[i].Term < records[j].Term
	})
	if *top > len(records) {
		*top = len(records)
	}
	fmt.Printf("\ntop %d terms by doc frequency:\n", *top)
	for i := 0; i < *top; i++ {
		fmt.Printf("%8d  %s\n", records[i].DocFreq, records[i].Term)
	}
}
