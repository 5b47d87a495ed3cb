// Command indexer builds the three on-disk index files from a document
// stream. By default it reads tab-separated `url \t title \t body` lines
// from stdin; with -source=postgres it streams the corpus out of the
// document store instead.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/irsearch/platform/internal/docstore"
	"github.com/irsearch/platform/internal/index"
	"github.com/irsearch/platform/pkg/config"
	"github.com/irsearch/platform/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	source := flag.String("source", "stdin", "document source: stdin or postgres")
	limit := flag.Int("limit", 0, "max documents to index from postgres (0 = all)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: indexer [-config file] [-source stdin|postgres] [-limit n] <out_dir>")
		os.Exit(1)
	}
	outDir := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	builder := index.NewBuilder()
	switch *source {
	case "stdin":
		err = ingestStdin(builder)
	case "postgres":
		err = ingestPostgres(builder, cfg, *limit)
	default:
		fmt.Fprintln(os.Stderr, "Usage: indexer [-config file] [-source stdin|postgres] [-limit n] <out_dir>")
		os.Exit(1)
	}
	if err != nil {
		slog.Error("ingest failed", "source", *source, "error", err)
		os.Exit(1)
	}

	if err := builder.Write(outDir); err != nil {
		slog.Error("writing index failed", "dir", outDir, "error", err)
		os.Exit(1)
	}
	slog.Info("indexing complete",
		"docs", builder.DocCount(),
		"terms", builder.TermCount(),
		"dir", outDir,
	)
}

// ingestStdin reads tab-separated documents from stdin. Lines without two
// tabs are skipped.
func ingestStdin(builder *index.Builder) error {
	r := bufio.NewReaderSize(os.Stdin, 1<<20)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			addLine(builder, line)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}
}

func addLine(builder *index.Builder, line string) {
	if line == "" {
		return
	}
	tab1 := strings.IndexByte(line, '\t')
	if tab1 < 0 {
		return
	}
	rest := line[tab1+1:]
	tab2 := strings.IndexByte(rest, '\t')
	if tab2 < 0 {
		return
	}
	builder.AddDocument(line[:tab1], rest[:tab2], rest[tab2+1:])
}

// ingestPostgres streams documents from the store in insertion order, which
// fixes the assigned doc ids.
func ingestPostgres(builder *index.Builder, cfg *config.Config, limit int) error {
	store, err := docstore.Open(cfg.Postgres)
	if err != nil {
		return fmt.Errorf("connecting to document store: %w", err)
	}
	defer store.Close()

	return store.Stream(context.Background(), limit, func(doc docstore.Document) error {
		builder.AddDocument(
			sanitizeField(doc.URL),
			sanitizeField(doc.Title),
			doc.Body,
		)
		return nil
	})
}

// sanitizeField keeps stored fields single-line so TSV round trips of the
// corpus stay well formed.
func sanitizeField(s string) string {
	if !strings.ContainsAny(s, "\t\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
