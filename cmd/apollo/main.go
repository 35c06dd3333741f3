// Copyright 2025 Poiesic Systems
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	apollo "github.com/poiesic/apollo"
	"github.com/poiesic/apollo/ai"
	"github.com/poiesic/apollo/ai/openai"
	"github.com/poiesic/apollo/httpapi"
	"github.com/poiesic/apollo/reembed"
	"github.com/poiesic/apollo/storage/badger"
	"github.com/poiesic/apollo/workflow"
)

func main() {
	// Optional .env next to the binary; flags and real env win.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "apollo",
		Usage: "Apollo 11 mission transcript archive with semantic search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"APOLLO_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "load",
				Usage:  "Load the mission transcript and derive summaries and questions",
				Action: loadCommand,
				Flags: append(dbAndAIFlags(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory holding the mission row files",
						Value:   "data",
						EnvVars: []string{"APOLLO_DATA_DIR"},
					},
					&cli.StringFlag{
						Name:    "images-dir",
						Usage:   "Directory holding the mission photograph files",
						Value:   "static/images/apollo11",
						EnvVars: []string{"APOLLO_IMAGES_DIR"},
					},
					&cli.BoolFlag{
						Name:  "overwrite",
						Usage: "Regenerate groupings, summaries and questions that already exist",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for the enrichment workflows (0 = auto)",
					},
				),
			},
			{
				Name:   "serve",
				Usage:  "Serve the search API over HTTP",
				Action: serveCommand,
				Flags: append(dbAndAIFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address",
						Value:   ":8080",
						EnvVars: []string{"APOLLO_ADDR"},
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all utterances with new embeddings",
				Action: reembedCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:    "embedding-host",
						Usage:   "Embedding service host URL",
						Value:   "http://localhost:11434/v1",
						EnvVars: []string{"APOLLO_EMBEDDING_HOST"},
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
						EnvVars:  []string{"APOLLO_EMBEDDING_MODEL"},
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of utterances to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N utterances",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "clear-cache",
				Usage:  "Remove every entry from the semantic answer cache",
				Action: clearCacheCommand,
				Flags:  []cli.Flag{dbFlag()},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
		EnvVars:  []string{"APOLLO_DB"},
	}
}

func dbAndAIFlags() []cli.Flag {
	return []cli.Flag{
		dbFlag(),
		&cli.StringFlag{
			Name:    "ai-host",
			Usage:   "OpenAI-compatible service host URL for embeddings and chat",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"APOLLO_AI_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "embeddinggemma",
			EnvVars: []string{"APOLLO_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "chat-model",
			Usage:   "Chat model name for summarization, questions and RAG",
			Value:   "qwen2.5:3b",
			EnvVars: []string{"APOLLO_CHAT_MODEL"},
		},
		&cli.StringFlag{
			Name:    "image-host",
			Usage:   "Image embedding service host URL (empty disables image search)",
			EnvVars: []string{"APOLLO_IMAGE_HOST"},
		},
		&cli.StringFlag{
			Name:    "image-model",
			Usage:   "Image embedding model name",
			Value:   "clip-vit-base-patch32",
			EnvVars: []string{"APOLLO_IMAGE_MODEL"},
		},
	}
}

func aiConfigFromFlags(c *cli.Context) *ai.Config {
	opts := []ai.ConfigOption{
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
	}
	if host := c.String("image-host"); host != "" {
		opts = append(opts,
			ai.WithImageHost(host),
			ai.WithImageModel(c.String("image-model")),
		)
	}
	return ai.NewConfig(opts...)
}

func loadCommand(c *cli.Context) error {
	ctx := c.Context

	archive, err := apollo.NewArchive(c.String("db"),
		apollo.WithAIConfig(aiConfigFromFlags(c)),
		apollo.WithImagesDir(c.String("images-dir")),
	)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	var opts []workflow.Option
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, workflow.WithPoolSize(size))
	}

	runner, err := archive.NewPipelineRunner(c.Bool("overwrite"), opts...)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	dataDir := c.String("data-dir")
	return runner.Run(ctx, workflow.DataPaths{
		Utterances:  filepath.Join(dataDir, "gUtteranceData.json"),
		TOC:         filepath.Join(dataDir, "gTOCData.json"),
		Photographs: filepath.Join(dataDir, "gPhotoData.json"),
	})
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	archive, err := apollo.NewArchive(c.String("db"),
		apollo.WithAIConfig(aiConfigFromFlags(c)),
	)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	service, err := archive.NewSearchService()
	if err != nil {
		return fmt.Errorf("failed to build search service: %w", err)
	}

	server := httpapi.NewServer(c.String("addr"), httpapi.RouterConfig{
		SearchHandler: httpapi.NewSearchHandler(service),
	})
	return server.Run(ctx)
}

func reembedCommand(c *cli.Context) error {
	ctx := c.Context

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	repo := badger.NewUtteranceRepository(backend, embedder)
	defer repo.Close()

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(repo, embedder, reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func clearCacheCommand(c *cli.Context) error {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	cache := badger.NewCacheRepository(backend)
	defer cache.Close()

	if err := cache.Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Semantic cache cleared")
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
