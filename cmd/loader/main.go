// Command loader bulk-loads tab-separated corpus files into the PostgreSQL
// document store, from which the indexer can later stream them.
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
	"time"

	"github.com/irsearch/platform/internal/docstore"
	"github.com/irsearch/platform/pkg/config"
	"github.com/irsearch/platform/pkg/logger"
)

const (
	batchSize    = 500
	saveAttempts = 3
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: loader [-config file] <corpus.tsv> [more.tsv ...]  (use - for stdin)")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	store, err := docstore.Open(cfg.Postgres)
	if err != nil {
		slog.Error("connecting to document store failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	schemaCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = store.EnsureSchema(schemaCtx)
	cancel()
	if err != nil {
		slog.Error("preparing schema failed", "error", err)
		os.Exit(1)
	}

	total := 0
	for _, path := range flag.Args() {
		n, err := loadFile(ctx, store, path)
		if err != nil {
			slog.Error("loading corpus file failed", "file", path, "error", err)
			os.Exit(1)
		}
		total += n
	}

	count, err := store.Count(ctx)
	if err != nil {
		slog.Error("counting documents failed", "error", err)
		os.Exit(1)
	}
	slog.Info("corpus loaded", "loaded", total, "stored_total", count)
}

func loadFile(ctx context.Context, store *docstore.Store, path string) (int, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return 0, fmt.Errorf("opening corpus file: %w", err)
		}
		defer f.Close()
		r = f
	}

	br := bufio.NewReaderSize(r, 1<<20)
	batch := make([]docstore.Document, 0, batchSize)
	total := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := saveWithRetry(ctx, store, batch); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			if doc, ok := parseLine(line); ok {
				batch = append(batch, doc)
				if len(batch) >= batchSize {
					if err := flush(); err != nil {
						return total, err
					}
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, fmt.Errorf("reading corpus file: %w", err)
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

// saveWithRetry retries a failed batch insert with doubling backoff. Batch
// upserts are idempotent, so a retry after a half-applied transaction is
// safe.
func saveWithRetry(ctx context.Context, store *docstore.Store, docs []docstore.Document) error {
	delay := 200 * time.Millisecond
	var err error
	for attempt := 1; attempt <= saveAttempts; attempt++ {
		if err = store.SaveBatch(ctx, docs); err == nil {
			return nil
		}
		if attempt == saveAttempts {
			break
		}
		slog.Warn("batch insert failed, retrying",
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}
	return fmt.Errorf("saving batch after %d attempts: %w", saveAttempts, err)
}

func parseLine(line string) (docstore.Document, bool) {
	if line == "" {
		return docstore.Document{}, false
	}
	tab1 := strings.IndexByte(line, '\t')
	if tab1 < 0 {
		return docstore.Document{}, false
	}
	rest := line[tab1+1:]
	tab2 := strings.IndexByte(rest, '\t')
	if tab2 < 0 {
		return docstore.Document{}, false
	}
	return docstore.Document{
		URL:   line[:tab1],
		Title: rest[:tab2],
		Body:  rest[tab2+1:],
	}, true
}
