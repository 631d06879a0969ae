package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/sift/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	newLoggerApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				err := newLoggerApp().Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newLoggerApp().Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestAppFlags(t *testing.T) {
	app := newApp()

	defaults := map[string]string{}
	for _, flag := range app.Flags {
		if f, ok := flag.(*cli.StringFlag); ok {
			defaults[f.Name] = f.Value
		}
	}
	assert.Equal(t, "info", defaults["log-level"])
	assert.Equal(t, "http://localhost:11434/v1", defaults["embedding-host"])
	assert.Equal(t, ".", defaults["corpus"])
	assert.Empty(t, defaults["db"])
	assert.Empty(t, defaults["rerank-host"])

	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"index", "watch", "search", "saved", "history", "analytics"}, names)
}

// resolveSettings runs the app with args followed by a settings command and
// returns what loadSettings resolved.
func resolveSettings(t *testing.T, args ...string) (*settings, error) {
	t.Helper()
	var (
		got     *settings
		loadErr error
	)
	app := newApp()
	app.Commands = append(app.Commands, &cli.Command{
		Name: "settings",
		Action: func(c *cli.Context) error {
			got, loadErr = loadSettings(c)
			return nil
		},
	})
	require.NoError(t, app.Run(append(append([]string{"sift"}, args...), "settings")))
	return got, loadErr
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sift.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadSettings(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s, err := resolveSettings(t, "--db", "/tmp/sift")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/sift", s.DB)
		assert.Equal(t, ".", s.Corpus)
		assert.Equal(t, "http://localhost:11434/v1", s.AI.EmbeddingHost)
		assert.Equal(t, "embeddinggemma", s.AI.EmbeddingModel)
		assert.Equal(t, 32, s.Index.BatchSize)
		assert.Zero(t, s.CacheTTL)
	})

	t.Run("database path is required", func(t *testing.T) {
		_, err := resolveSettings(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database path is required")
	})

	t.Run("config file values apply", func(t *testing.T) {
		path := writeConfig(t, `
db = "/data/from-file"
corpus = "notes"
extensions = ["md", "org"]

[ai]
embedding_model = "nomic-embed-text"
rerank_host = "http://rerank:8080"
requests_per_second = 2.5

[index]
batch_size = 8
retry_delay = "250ms"

[search]
cache_ttl = "1m"
history_limit = 20
`)
		s, err := resolveSettings(t, "--config", path)
		require.NoError(t, err)
		assert.Equal(t, "/data/from-file", s.DB)
		assert.Equal(t, "notes", s.Corpus)
		assert.Equal(t, []string{"md", "org"}, s.Extensions)
		assert.Equal(t, "nomic-embed-text", s.AI.EmbeddingModel)
		assert.Equal(t, "http://rerank:8080/v1", s.AI.RerankHost)
		assert.InDelta(t, 2.5, s.AI.RequestsPerSecond, 1e-9)
		assert.Equal(t, 8, s.Index.BatchSize)
		assert.Equal(t, 3, s.Index.MaxRetries)
		assert.Equal(t, 250*time.Millisecond, s.Index.RetryDelay)
		assert.Equal(t, time.Minute, s.CacheTTL)
		assert.Equal(t, 20, s.HistoryLimit)
	})

	t.Run("flags override config file", func(t *testing.T) {
		path := writeConfig(t, `
db = "/data/from-file"

[ai]
embedding_model = "nomic-embed-text"
`)
		s, err := resolveSettings(t, "--config", path, "--db", "/data/from-flag", "--embedding-model", "mxbai", "--ext", "txt")
		require.NoError(t, err)
		assert.Equal(t, "/data/from-flag", s.DB)
		assert.Equal(t, "mxbai", s.AI.EmbeddingModel)
		assert.Equal(t, []string{"txt"}, s.Extensions)
	})

	t.Run("invalid duration", func(t *testing.T) {
		path := writeConfig(t, `
db = "/data"

[index]
retry_delay = "soon"
`)
		_, err := resolveSettings(t, "--config", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "index.retry_delay")
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeConfig(t, "db = [")
		_, err := resolveSettings(t, "--config", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing config")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := resolveSettings(t, "--config", filepath.Join(t.TempDir(), "absent.toml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config")
	})

	t.Run("invalid ai config", func(t *testing.T) {
		_, err := resolveSettings(t, "--db", "/data", "--rps", "-1")
		require.Error(t, err)
	})
}

func TestSearchOptionsFrom(t *testing.T) {
	parse := func(t *testing.T, args ...string) (core.SearchOptions, error) {
		t.Helper()
		var (
			opts     core.SearchOptions
			parseErr error
		)
		app := &cli.App{
			Name: "test",
			Commands: []*cli.Command{{
				Name:  "search",
				Flags: searchFlags(),
				Action: func(c *cli.Context) error {
					opts, parseErr = searchOptionsFrom(c, "invoice")
					return nil
				},
			}},
		}
		require.NoError(t, app.Run(append([]string{"test", "search"}, args...)))
		return opts, parseErr
	}

	t.Run("defaults", func(t *testing.T) {
		opts, err := parse(t)
		require.NoError(t, err)
		assert.Equal(t, "invoice", opts.Query)
		assert.Equal(t, core.SearchTypeHybrid, opts.SearchType)
		assert.Equal(t, core.DefaultMaxResults, opts.MaxResults)
		assert.InDelta(t, core.DefaultRerankThreshold, opts.RerankThreshold, 1e-9)
		assert.True(t, opts.IncludeContent)
		assert.False(t, opts.UseRerank)
		assert.Equal(t, core.SortByRelevance, opts.SortBy)
		assert.Equal(t, core.SortDesc, opts.SortOrder)
		assert.Nil(t, opts.DateRange)
	})

	t.Run("all options", func(t *testing.T) {
		opts, err := parse(t,
			"-t", "Keyword", "-n", "5", "--rerank", "--threshold", "0.5",
			"--file-type", ".MD", "--tag", "finance", "--folder", "billing/",
			"--from", "2024-01-01", "--to", "2024-01-31",
			"--sort", "date", "--order", "asc", "--no-content")
		require.NoError(t, err)
		assert.Equal(t, core.SearchTypeKeyword, opts.SearchType)
		assert.Equal(t, 5, opts.MaxResults)
		assert.True(t, opts.UseRerank)
		assert.InDelta(t, 0.5, opts.RerankThreshold, 1e-9)
		assert.Equal(t, []string{"md"}, opts.FileTypes)
		assert.Equal(t, []string{"finance"}, opts.Tags)
		assert.Equal(t, []string{"billing/"}, opts.Folders)
		assert.Equal(t, core.SortByDate, opts.SortBy)
		assert.Equal(t, core.SortAsc, opts.SortOrder)
		assert.False(t, opts.IncludeContent)

		require.NotNil(t, opts.DateRange)
		assert.True(t, opts.DateRange.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)))
		assert.True(t, opts.DateRange.End.Equal(time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.Local)))
	})

	errCases := []struct {
		name string
		args []string
		want error
	}{
		{"unknown type", []string{"-t", "fuzzy"}, core.ErrInvalidSearchType},
		{"unknown sort", []string{"--sort", "color"}, core.ErrInvalidSortBy},
		{"unknown order", []string{"--order", "up"}, core.ErrInvalidSortOrder},
		{"threshold out of range", []string{"--threshold", "1.5"}, core.ErrInvalidThreshold},
		{"inverted dates", []string{"--from", "2024-02-01", "--to", "2024-01-01"}, core.ErrInvalidDateRange},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parse(t, tc.args...)
			require.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("malformed date", func(t *testing.T) {
		_, err := parse(t, "--from", "01/02/2024")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "YYYY-MM-DD")
	})
}

// runApp runs the CLI against a fresh corpus and database with the AI
// services disabled and returns stdout.
func runApp(t *testing.T, dbPath, corpusDir string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut

	base := []string{"sift", "--log-level", "error", "--db", dbPath, "--corpus", corpusDir,
		"--embedding-host", "", "--generator-host", ""}
	err := app.Run(append(base, args...))
	return out.String(), err
}

func TestCommands(t *testing.T) {
	corpusDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(corpusDir, "invoices.md"),
		[]byte("# Invoice guide\n\nHow to pay an invoice before the due date.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(corpusDir, "travel.md"),
		[]byte("# Travel policy\n\nBook flights two weeks ahead.\n"), 0o644))
	dbPath := filepath.Join(t.TempDir(), "db")

	out, err := runApp(t, dbPath, corpusDir, "search", "-t", "keyword", "invoice")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Invoice guide")
	assert.Contains(t, out, "invoices.md")
	assert.NotContains(t, out, "Travel policy")

	out, err = runApp(t, dbPath, corpusDir, "search", "-t", "keyword", "submarine")
	require.NoError(t, err)
	assert.Contains(t, out, "no results")

	_, err = runApp(t, dbPath, corpusDir, "search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a query is required")

	out, err = runApp(t, dbPath, corpusDir, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "invoice")
	assert.Contains(t, out, "submarine")

	out, err = runApp(t, dbPath, corpusDir, "analytics")
	require.NoError(t, err)
	assert.Contains(t, out, "total searches:  2")
	assert.Contains(t, out, "keyword")

	out, err = runApp(t, dbPath, corpusDir, "saved", "save", "--name", "bills", "-t", "keyword", "invoice")
	require.NoError(t, err)
	assert.Contains(t, out, `saved "bills" as `)

	out, err = runApp(t, dbPath, corpusDir, "saved", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "bills")
	assert.Contains(t, out, "last never")

	_, err = runApp(t, dbPath, corpusDir, "saved", "run", "no-such-id")
	require.Error(t, err)

	_, err = runApp(t, dbPath, corpusDir, "index")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "indexing unavailable")

	out, err = runApp(t, dbPath, corpusDir, "history", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "history cleared")

	out, err = runApp(t, dbPath, corpusDir, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "no search history")
}

func TestPrintHistory(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	history := []core.HistoryEntry{
		{Query: "older", SearchType: core.SearchTypeKeyword, Timestamp: now.Add(-2 * time.Hour), ResultCount: 3},
		{Query: "newer", SearchType: core.SearchTypeHybrid, Timestamp: now.Add(-time.Minute), ResultCount: 7},
	}

	var buf bytes.Buffer
	printHistory(&buf, history, now)
	out := buf.String()

	assert.Less(t, bytes.Index(buf.Bytes(), []byte("newer")), bytes.Index(buf.Bytes(), []byte("older")))
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "1 minute ago")
}
