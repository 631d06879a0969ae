package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/sift"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/indexing"
	"github.com/urfave/cli/v2"
)

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:   "index",
		Usage:  "Embed new and changed documents and drop deleted ones from the vector index",
		Action: indexAction,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Number of documents to embed per request",
				Value: 32,
			},
			&cli.IntFlag{
				Name:  "report-interval",
				Usage: "Report progress every N documents",
				Value: 32,
			},
			&cli.IntFlag{
				Name:  "max-retries",
				Usage: "Maximum retry attempts for failed embedding requests",
				Value: 3,
			},
			&cli.DurationFlag{
				Name:  "retry-delay",
				Usage: "Base delay for exponential backoff",
				Value: 1 * time.Second,
			},
		},
	}
}

// indexConfigFrom applies index flags given on the command line to base.
func indexConfigFrom(c *cli.Context, base indexing.Config) *indexing.Config {
	if c.IsSet("batch-size") {
		base.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("report-interval") {
		base.ReportInterval = c.Int("report-interval")
	}
	if c.IsSet("max-retries") {
		base.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("retry-delay") {
		base.RetryDelay = c.Duration("retry-delay")
	}
	return &base
}

func indexAction(c *cli.Context) error {
	ctx, cancel := signalContext()
	defer cancel()

	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	cfg := indexConfigFrom(c, s.Index)
	if err := cfg.Validate(); err != nil {
		return err
	}

	engine, err := openEngine(c, sift.WithIndexConfig(cfg), sift.WithProgress(os.Stderr))
	if err != nil {
		return err
	}
	defer engine.Close()

	stats, err := engine.Sync(ctx)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	printStats(c.App.Writer, stats)
	return nil
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:   "watch",
		Usage:  "Index the corpus, then re-index whenever it changes",
		Action: watchAction,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period after the last change before re-indexing",
				Value: indexing.DefaultDebounce,
			},
		},
	}
}

func watchAction(c *cli.Context) error {
	ctx, cancel := signalContext()
	defer cancel()

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	stats, err := engine.Sync(ctx)
	switch {
	case errors.Is(err, sift.ErrIndexingUnavailable):
		fmt.Fprintln(c.App.ErrWriter, "no embedding service configured; only the search cache is refreshed on change")
	case err != nil:
		return fmt.Errorf("initial index failed: %w", err)
	default:
		printStats(c.App.Writer, stats)
	}

	fmt.Fprintln(c.App.ErrWriter, "watching for changes; press Ctrl-C to stop")
	return engine.Watch(ctx, "", indexing.WithDebounce(c.Duration("debounce")))
}

func searchFlags() []cli.Flag {
	types := make([]string, len(core.SearchTypes))
	for i, t := range core.SearchTypes {
		types[i] = string(t)
	}
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "Search strategy (" + strings.Join(types, ", ") + ")",
			Value:   string(core.SearchTypeHybrid),
		},
		&cli.IntFlag{
			Name:    "max",
			Aliases: []string{"n"},
			Usage:   "Maximum number of results",
			Value:   core.DefaultMaxResults,
		},
		&cli.BoolFlag{
			Name:  "rerank",
			Usage: "Rerank candidates with the rerank service",
		},
		&cli.Float64Flag{
			Name:  "threshold",
			Usage: "Minimum rerank score to keep a result",
			Value: core.DefaultRerankThreshold,
		},
		&cli.StringSliceFlag{
			Name:  "file-type",
			Usage: "Only return results with this extension (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "tag",
			Usage: "Only return results carrying this tag (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "folder",
			Usage: "Only return results under this path prefix (repeatable)",
		},
		&cli.StringFlag{
			Name:  "from",
			Usage: "Only return results modified on or after this date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "to",
			Usage: "Only return results modified on or before this date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "Sort by relevance, date, title or size",
			Value: string(core.SortByRelevance),
		},
		&cli.StringFlag{
			Name:  "order",
			Usage: "Sort order (asc, desc)",
			Value: string(core.SortDesc),
		},
		&cli.BoolFlag{
			Name:  "no-content",
			Usage: "Show a short preview instead of full content",
		},
	}
}

// searchOptionsFrom builds SearchOptions from the search flags and query.
func searchOptionsFrom(c *cli.Context, query string) (core.SearchOptions, error) {
	opts := core.DefaultSearchOptions(query)
	opts.SearchType = core.SearchType(strings.ToLower(c.String("type")))
	opts.MaxResults = c.Int("max")
	opts.UseRerank = c.Bool("rerank")
	opts.RerankThreshold = c.Float64("threshold")
	opts.IncludeContent = !c.Bool("no-content")
	opts.FileTypes = c.StringSlice("file-type")
	opts.Tags = c.StringSlice("tag")
	opts.Folders = c.StringSlice("folder")
	opts.SortBy = core.SortBy(strings.ToLower(c.String("sort")))
	opts.SortOrder = core.SortOrder(strings.ToLower(c.String("order")))

	if c.IsSet("from") || c.IsSet("to") {
		var dr core.DateRange
		var err error
		if v := c.String("from"); v != "" {
			if dr.Start, err = parseDay(v, false); err != nil {
				return opts, err
			}
		}
		if v := c.String("to"); v != "" {
			if dr.End, err = parseDay(v, true); err != nil {
				return opts, err
			}
		}
		opts.DateRange = &dr
	}

	normalized := opts.Normalized()
	if err := core.ValidateOptions(&normalized); err != nil {
		return opts, err
	}
	return normalized, nil
}

func queryArg(c *cli.Context) (string, error) {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return "", fmt.Errorf("a query is required")
	}
	return query, nil
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the corpus",
		ArgsUsage: "<query>",
		Action:    searchAction,
		Flags: append(searchFlags(), &cli.BoolFlag{
			Name:  "trace",
			Usage: "Print the result count after each pipeline stage",
		}),
	}
}

func searchAction(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}
	opts, err := searchOptionsFrom(c, query)
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	searcher := engine.Searcher()
	var results []core.SearchResult
	if c.Bool("trace") {
		results, err = searcher.SearchWithMonitor(c.Context, opts, newTraceMonitor(c.App.ErrWriter))
	} else {
		results, err = searcher.Search(c.Context, opts)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	printResults(c.App.Writer, results)
	return nil
}

func savedCommand() *cli.Command {
	return &cli.Command{
		Name:  "saved",
		Usage: "Manage saved searches",
		Subcommands: []*cli.Command{
			{
				Name:      "save",
				Usage:     "Save a search for later replay",
				ArgsUsage: "<query>",
				Action:    savedSaveAction,
				Flags: append(searchFlags(),
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Name of the saved search",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "filter",
						Usage: "Free-form filter label stored with the search (repeatable)",
					},
				),
			},
			{
				Name:   "list",
				Usage:  "List saved searches",
				Action: savedListAction,
			},
			{
				Name:      "run",
				Usage:     "Run a saved search",
				ArgsUsage: "<id>",
				Action:    savedRunAction,
			},
			{
				Name:      "delete",
				Usage:     "Delete a saved search",
				ArgsUsage: "<id>",
				Action:    savedDeleteAction,
			},
		},
	}
}

func savedSaveAction(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}
	opts, err := searchOptionsFrom(c, query)
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	saved, err := engine.Searcher().SaveSearch(c.Context, c.String("name"), opts, c.StringSlice("filter"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "saved %q as %s\n", saved.Name, saved.ID)
	return nil
}

func savedListAction(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	printSavedSearches(c.App.Writer, engine.Searcher().GetSavedSearches())
	return nil
}

func idArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("exactly one saved search id is required")
	}
	return c.Args().First(), nil
}

func savedRunAction(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.Searcher().ExecuteSavedSearch(c.Context, id)
	if err != nil {
		return err
	}
	printResults(c.App.Writer, results)
	return nil
}

func savedDeleteAction(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Searcher().DeleteSavedSearch(c.Context, id); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "deleted %s\n", id)
	return nil
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:   "history",
		Usage:  "Show recent searches",
		Action: historyAction,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "Clear the search history",
			},
		},
	}
}

func historyAction(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	searcher := engine.Searcher()
	if c.Bool("clear") {
		if err := searcher.ClearSearchHistory(c.Context); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "history cleared")
		return nil
	}
	printHistory(c.App.Writer, searcher.GetSearchHistory(), time.Now())
	return nil
}

func analyticsCommand() *cli.Command {
	return &cli.Command{
		Name:   "analytics",
		Usage:  "Summarize search history",
		Action: analyticsAction,
	}
}

func analyticsAction(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	printAnalytics(c.App.Writer, engine.Searcher().GetSearchAnalytics())
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
