// SPDX-License-Identifier: MIT

// Command mediascan extracts MediaRSS metadata from RSS documents and emits
// a JSON report, optionally persisting every media object to a SQLite index.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"golang.org/x/sync/errgroup"

	"github.com/feedkit/mediascan/internal/config"
	mlog "github.com/feedkit/mediascan/internal/log"
	"github.com/feedkit/mediascan/internal/scan"
	"github.com/feedkit/mediascan/internal/store"
	"github.com/feedkit/mediascan/internal/xmlio"
)

var (
	version   = "v0.3.0"
	commit    = "none"
	buildDate = "unknown"
)

// documentReport is the per-input slice of the JSON report.
type documentReport struct {
	Path  string      `json:"path"`
	Items []scan.Item `json:"items"`
}

type report struct {
	Version   string           `json:"version"`
	Documents []documentReport `json:"documents"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("mediascan", flag.ContinueOnError)
	showVersion := fs.Bool("version", false, "print version and exit")
	configPath := fs.String("config", "", "path to config file (YAML)")
	outPath := fs.String("o", "", "write the JSON report to this file instead of stdout")
	dbPath := fs.String("db", "", "index extracted media into this SQLite database")
	plain := fs.Bool("plain", false, "flatten HTML titles, descriptions and captions to plain text")
	workers := fs.Int("workers", 0, "number of documents scanned concurrently (overrides config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s (commit: %s, built: %s)\n", version, commit, buildDate)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mediascan: %v\n", err)
		return 1
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	mlog.Configure(mlog.Config{Level: cfg.LogLevel, Service: "mediascan"})
	logger := mlog.WithComponent("mediascan")

	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: mediascan [flags] feed.xml [feed.xml ...]")
		return 2
	}

	lim := xmlio.Limits{
		MaxDocumentBytes: cfg.MaxDocumentBytes,
		MaxDepth:         cfg.MaxDepth,
	}

	started := time.Now()
	results := make([][]scan.Item, len(files))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(cfg.Workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items, err := scanFile(path, lim)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if *plain {
				for j := range items {
					scan.FlattenItem(&items[j])
				}
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("scan failed")
		return 1
	}

	rep := report{Version: version}
	for i, path := range files {
		rep.Documents = append(rep.Documents, documentReport{Path: path, Items: results[i]})
		total := 0
		for _, it := range results[i] {
			total += len(it.Media)
		}
		logger.Info().
			Str(mlog.FieldPath, path).
			Int(mlog.FieldItems, len(results[i])).
			Int(mlog.FieldMedia, total).
			Msg("document scanned")
	}
	logger.Info().
		Dur(mlog.FieldDuration, time.Since(started)).
		Msg("scan complete")

	if cfg.DBPath != "" {
		if err := indexReport(context.Background(), cfg.DBPath, rep); err != nil {
			logger.Error().Err(err).Str(mlog.FieldDB, cfg.DBPath).Msg("indexing failed")
			return 1
		}
		logger.Info().Str(mlog.FieldDB, cfg.DBPath).Msg("media indexed")
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		logger.Error().Err(err).Msg("encode report")
		return 1
	}
	data = append(data, '\n')

	if *outPath != "" {
		if err := renameio.WriteFile(filepath.Clean(*outPath), data, 0o644); err != nil {
			logger.Error().Err(err).Str(mlog.FieldOutput, *outPath).Msg("write report")
			return 1
		}
		return 0
	}

	if _, err := stdout.Write(data); err != nil {
		return 1
	}
	return 0
}

func scanFile(path string, lim xmlio.Limits) ([]scan.Item, error) {
	f, err := os.Open(filepath.Clean(path)) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return scan.Document(f, lim)
}

func indexReport(ctx context.Context, dbPath string, rep report) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = st.Close()
	}()
	logger := mlog.WithComponent("indexer")

	for _, doc := range rep.Documents {
		docID, err := st.RecordDocument(ctx, doc.Path)
		if err != nil {
			return err
		}
		for _, item := range doc.Items {
			for _, obj := range item.Media {
				if _, err := st.RecordMedia(ctx, docID, item, obj); err != nil {
					return err
				}
				if obj.Content != nil {
					logger.Debug().Str(mlog.FieldURL, obj.Content.URL).Msg("media record indexed")
				}
			}
		}
	}
	return nil
}
