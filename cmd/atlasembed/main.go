// Copyright 2025 the Embedding Atlas Agent authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dataelvisliang/Embedding-Atlas-Agent/ai"
	"github.com/dataelvisliang/Embedding-Atlas-Agent/ai/local"
	"github.com/dataelvisliang/Embedding-Atlas-Agent/ai/openrouter"
	"github.com/dataelvisliang/Embedding-Atlas-Agent/core"
	"github.com/dataelvisliang/Embedding-Atlas-Agent/export"
	"github.com/dataelvisliang/Embedding-Atlas-Agent/ingest"
	"github.com/dataelvisliang/Embedding-Atlas-Agent/pipeline"
	"github.com/dataelvisliang/Embedding-Atlas-Agent/storage"
	badgerstore "github.com/dataelvisliang/Embedding-Atlas-Agent/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "atlasembed",
		Usage: "Batch embedding generation for text corpora",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "embed",
				Usage:  "Embed a CSV corpus and write vectors to Parquet",
				Action: embedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "csv",
						Aliases:  []string{"i"},
						Usage:    "Path to the input CSV file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "column",
						Usage: "CSV column containing the text to embed",
						Value: "Review",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output directory for Parquet files",
						Value:   "embeddings",
					},
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Embedding provider (openrouter, local)",
						Value: "openrouter",
					},
					&cli.StringFlag{
						Name:  "base-url",
						Usage: "Embedding service base URL (defaults to the provider's)",
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "Embedding model name",
						Value: "qwen/qwen3-embedding-4b",
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "API key for the embedding service",
						EnvVars: []string{"OPENROUTER_API_KEY"},
					},
					&cli.Float64Flag{
						Name:  "rpm",
						Usage: "Client-side request rate limit per minute (0 = unlimited)",
					},
					&cli.BoolFlag{
						Name:  "breaker",
						Usage: "Wrap the embedder in a circuit breaker",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to embed per request",
						Value: 20,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per batch",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for retry backoff",
						Value: 1 * time.Second,
					},
					&cli.IntFlag{
						Name:  "max-failed-batches",
						Usage: "Abort the run when more batches than this fail",
						Value: 5,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of batches embedded concurrently",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
					&cli.StringFlag{
						Name:  "checkpoint-db",
						Usage: "Path to a BadgerDB directory for resumable runs",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func embedCommand(c *cli.Context) error {
	ctx := context.Background()

	records, err := ingest.LoadCSV(c.String("csv"), c.String("column"))
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no usable rows in %s", c.String("csv"))
	}

	embedder, err := buildEmbedder(c)
	if err != nil {
		return err
	}
	if c.Bool("breaker") {
		embedder = ai.NewBreakerEmbedder(embedder, c.String("provider"))
	}

	config := &pipeline.Config{
		BatchSize:        c.Int("batch-size"),
		MaxRetries:       c.Int("max-retries"),
		RetryDelay:       c.Duration("retry-delay"),
		MaxFailedBatches: c.Int("max-failed-batches"),
		Workers:          c.Int("workers"),
		ReportInterval:   c.Int("report-interval"),
	}

	opts := []pipeline.Option{pipeline.WithProgress(os.Stderr)}
	if dbPath := c.String("checkpoint-db"); dbPath != "" {
		var store storage.RunStore
		store, err = badgerstore.NewRunStore(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open checkpoint database: %w", err)
		}
		defer store.Close()
		opts = append(opts, pipeline.WithStore(store))
	}

	driver, err := pipeline.New(embedder, config, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Corpus: %s (%d records)\n", c.String("csv"), len(records))
	fmt.Fprintf(os.Stderr, "Model: %s\n", c.String("model"))
	fmt.Fprintln(os.Stderr)

	result, err := driver.Run(ctx, records)
	if err != nil {
		var abort *core.AbortError
		if errors.As(err, &abort) {
			return fmt.Errorf("run aborted: %s (%d batches failed)", abort.Reason, len(abort.Failures))
		}
		return fmt.Errorf("embedding failed: %w", err)
	}

	if err := export.WriteResult(c.String("out"), records, result); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %d vectors (%d dimensions) to %s\n",
		len(result.Vectors), result.Dimensions, c.String("out"))
	if len(result.Failures) > 0 {
		fmt.Fprintf(os.Stderr, "%d batches failed; see %s\n",
			len(result.Failures), export.FailuresFile)
	}

	return nil
}

func buildEmbedder(c *cli.Context) (ai.Embedder, error) {
	opts := []ai.ConfigOption{
		ai.WithModel(c.String("model")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithRequestsPerMinute(c.Float64("rpm")),
	}
	if c.String("base-url") != "" {
		opts = append(opts, ai.WithBaseURL(c.String("base-url")))
	}

	provider := strings.ToLower(c.String("provider"))
	switch provider {
	case "openrouter":
		config := ai.NewConfig(opts...)
		if config.APIKey == "" {
			return nil, fmt.Errorf("api-key is required for the openrouter provider")
		}
		return openrouter.NewEmbedder(config)
	case "local":
		config := ai.NewConfig(opts...)
		if c.String("base-url") == "" {
			config.BaseURL = "http://localhost:11434/v1"
		}
		return local.NewEmbedder(config)
	default:
		return nil, fmt.Errorf("unknown provider %q: must be openrouter or local", provider)
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
