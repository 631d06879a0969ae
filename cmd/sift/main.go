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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/sift"
	"github.com/poiesic/sift/corpus/files"
	"github.com/poiesic/sift/search"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "sift",
		Usage: "Hybrid keyword and semantic search over a directory of documents",
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
				Usage:   "Path to a TOML config file",
				EnvVars: []string{"SIFT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				EnvVars: []string{"SIFT_DB"},
			},
			&cli.StringFlag{
				Name:  "corpus",
				Usage: "Directory of documents to search",
				Value: ".",
			},
			&cli.StringSliceFlag{
				Name:  "ext",
				Usage: "File extensions to include in the corpus (repeatable)",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL",
				Value: "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
				Value: "embeddinggemma",
			},
			&cli.StringFlag{
				Name:  "generator-host",
				Usage: "Chat completion host URL for query expansion and relevance scoring",
				Value: "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:  "generator-model",
				Usage: "Chat model name",
				Value: "qwen2.5:3b",
			},
			&cli.StringFlag{
				Name:  "rerank-host",
				Usage: "Rerank service host URL (empty disables reranking)",
			},
			&cli.StringFlag{
				Name:  "rerank-model",
				Usage: "Rerank model name",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key sent to the AI services",
				EnvVars: []string{"SIFT_API_KEY"},
			},
			&cli.Float64Flag{
				Name:  "rps",
				Usage: "Maximum requests per second per AI service (0 disables throttling)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			indexCommand(),
			watchCommand(),
			searchCommand(),
			savedCommand(),
			historyCommand(),
			analyticsCommand(),
		},
	}
}

// openEngine resolves settings and opens an engine over the configured
// directory corpus.
func openEngine(c *cli.Context, extra ...sift.EngineOption) (*sift.Engine, error) {
	s, err := loadSettings(c)
	if err != nil {
		return nil, err
	}

	var corpusOpts []files.Option
	if len(s.Extensions) > 0 {
		corpusOpts = append(corpusOpts, files.WithExtensions(s.Extensions...))
	}
	docs, err := files.New(s.Corpus, corpusOpts...)
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}

	var searchOpts []search.Option
	if s.CacheTTL > 0 {
		searchOpts = append(searchOpts, search.WithCacheTTL(s.CacheTTL))
	}
	if s.HistoryLimit > 0 {
		searchOpts = append(searchOpts, search.WithHistoryLimit(s.HistoryLimit))
	}
	if s.ProviderTimeout > 0 {
		searchOpts = append(searchOpts, search.WithProviderTimeout(s.ProviderTimeout))
	}

	opts := []sift.EngineOption{
		sift.WithAIConfig(&s.AI),
		sift.WithIndexConfig(&s.Index),
		sift.WithSearchOptions(searchOpts...),
	}
	return sift.NewEngine(s.DB, docs, append(opts, extra...)...)
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

// parseDay parses a YYYY-MM-DD date in local time. With endOfDay set the
// last instant of that day is returned.
func parseDay(value string, endOfDay bool) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", value)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
