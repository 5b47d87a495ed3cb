// Command search loads an index directory and answers boolean queries read
// line by line from stdin. The stdout protocol is fixed: `Ready` once after
// loading, then per query `Found <N> docs.`, up to 50 result rows, and the
// `__END_QUERY__` sentinel. All diagnostics go to stderr.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/irsearch/platform/internal/index"
	"github.com/irsearch/platform/internal/search"
	"github.com/irsearch/platform/pkg/config"
	"github.com/irsearch/platform/pkg/logger"
)

const maxResultRows = 50

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: search [-config file] <index_dir>")
		os.Exit(1)
	}
	indexDir := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ix, err := index.Load(indexDir)
	if err != nil {
		slog.Error("loading index failed", "dir", indexDir, "error", err)
		os.Exit(1)
	}

	out := bufio.NewWriter(os.Stdout)
	fmt.Fprintln(out, "Ready")
	out.Flush()
	slog.Info("ready for queries", "docs", ix.DocCount(), "terms", ix.TermCount())

	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for in.Scan() {
		line := in.Text()
		if line == "exit" {
			break
		}
		if line == "" {
			continue
		}
		runQuery(out, ix, line)
	}
	if err := in.Err(); err != nil {
		slog.Error("reading queries failed", "error", err)
		os.Exit(1)
	}
}

// runQuery evaluates one query and writes the response block. Evaluation
// errors are isolated: the query reports zero results and the loop goes on.
func runQuery(out *bufio.Writer, ix *index.Index, query string) {
	ids, err := search.Evaluate(ix, query)
	if err != nil {
		slog.Error("query failed", "query", query, "error", err)
		ids = nil
	}

	fmt.Fprintf(out, "Found %d docs.\n", len(ids))
	for i, id := range ids {
		if i >= maxResultRows {
			break
		}
		doc, err := ix.Doc(id)
		if err != nil {
			slog.Error("result doc lookup failed", "doc_id", id, "error", err)
			continue
		}
		fmt.Fprintf(out, "%s (%s)\n", doc.Title, doc.URL)
	}
	fmt.Fprintln(out, "__END_QUERY__")
	out.Flush()
}
