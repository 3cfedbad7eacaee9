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
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/rankit"
	"github.com/poiesic/rankit/ai"
	"github.com/poiesic/rankit/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "rankit",
		Usage: "Two-stage document retrieval: BM25 candidates re-ranked by a relevance model",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add documents to the corpus (one per line from a file, or from stdin)",
				Action:    addCommand,
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to corpus store directory (overrides config)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the corpus",
				Action:    searchCommand,
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to corpus store directory (overrides config)",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Lexical candidate depth (overrides config)",
					},
					&cli.IntFlag{
						Name:  "top-n",
						Usage: "Final result count (overrides config)",
					},
					&cli.StringFlag{
						Name:  "scoring-host",
						Usage: "Relevance scoring service host URL (overrides config)",
					},
					&cli.StringFlag{
						Name:  "scoring-model",
						Usage: "Relevance scoring model name (overrides config)",
					},
				},
			},
			{
				Name:   "count",
				Usage:  "Print the number of stored documents",
				Action: countCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to corpus store directory (overrides config)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig merges the config file (if any) with command-line overrides.
func loadConfig(c *cli.Context) (*rankit.FileConfig, error) {
	cfg, err := rankit.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if v := c.String("db"); v != "" {
		cfg.Store.Path = v
	}
	if c.IsSet("top-k") {
		cfg.Search.TopKLexical = c.Int("top-k")
	}
	if c.IsSet("top-n") {
		cfg.Search.TopNFinal = c.Int("top-n")
	}
	if v := c.String("scoring-host"); v != "" {
		cfg.Scoring.Host = v
	}
	if v := c.String("scoring-model"); v != "" {
		cfg.Scoring.Model = v
	}
	return cfg, nil
}

func openEngine(cfg *rankit.FileConfig) (*rankit.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(cfg.Scoring.Host),
		ai.WithModel(cfg.Scoring.Model),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring configuration: %w", err)
	}

	return rankit.Open(cfg.Store.Path,
		rankit.WithAIConfig(aiConfig),
		rankit.WithSearcherOptions(
			search.WithRerankerOptions(
				search.WithBatchSize(cfg.Scoring.BatchSize),
				search.WithMaxConcurrentBatches(cfg.Scoring.MaxConcurrentBatches),
			),
		),
	)
}

func addCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	input := os.Stdin
	if c.Args().Len() > 0 {
		f, err := os.Open(c.Args().First())
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		input = f
	}

	var texts []string
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			texts = append(texts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if len(texts) == 0 {
		return fmt.Errorf("no documents to add")
	}

	engine, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	stored, err := engine.AddDocuments(context.Background(), texts...)
	if err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Added %d documents (%d lines read)\n", len(stored), len(texts))
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("query argument is required")
	}
	query := strings.Join(c.Args().Slice(), " ")

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.Search(context.Background(), query, cfg.Search.TopKLexical, cfg.Search.TopNFinal)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, "No results")
		return nil
	}

	for _, result := range results {
		doc, ok := engine.Document(result.DocID)
		if !ok {
			continue
		}
		fmt.Printf("%2d. [%.4f] %s\n", result.Rank, result.Score, doc.Text)
	}
	return nil
}

func countCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	count, err := engine.Corpus().CountDocuments(context.Background())
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}

	fmt.Println(count)
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
