package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/corpus"
)

// DefaultExtensions are the file types served when none are configured.
var DefaultExtensions = []string{"md", "markdown", "txt"}

// Corpus implements corpus.Corpus over a directory tree.
type Corpus struct {
	root       string
	extensions map[string]struct{}
	maxSize    int64
	logger     *slog.Logger
}

var _ corpus.Corpus = (*Corpus)(nil)

// Option configures a Corpus.
type Option func(*Corpus) error

// WithExtensions replaces the extension allow-list. Extensions may be
// given with or without the leading dot.
func WithExtensions(exts ...string) Option {
	return func(c *Corpus) error {
		c.extensions = make(map[string]struct{}, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
			if ext != "" {
				c.extensions[ext] = struct{}{}
			}
		}
		if len(c.extensions) == 0 {
			return fmt.Errorf("%w: no extensions", ErrInvalidOption)
		}
		return nil
	}
}

// WithMaxFileSize skips files larger than n bytes. Zero disables the limit.
func WithMaxFileSize(n int64) Option {
	return func(c *Corpus) error {
		if n < 0 {
			return fmt.Errorf("%w: negative max file size", ErrInvalidOption)
		}
		c.maxSize = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Corpus) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// ErrInvalidOption indicates a rejected Option value.
var ErrInvalidOption = errors.New("invalid corpus option")

// New creates a corpus rooted at root, which must be an existing directory.
func New(root string, opts ...Option) (*Corpus, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	c := &Corpus{
		root:    abs,
		maxSize: 10 << 20,
		logger:  slog.Default(),
	}
	if err := WithExtensions(DefaultExtensions...)(c); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "file-corpus", "root", abs)
	return c, nil
}

// Root returns the absolute corpus directory.
func (c *Corpus) Root() string {
	return c.root
}

// Accepts reports whether path has an allowed extension.
func (c *Corpus) Accepts(path string) bool {
	_, ok := c.extensions[core.ExtensionOf(path)]
	return ok
}

// ListDocuments walks the tree. Hidden directories and files are skipped.
// Paths are relative to the root and use forward slashes.
func (c *Corpus) ListDocuments(ctx context.Context) ([]core.DocumentRef, error) {
	var refs []core.DocumentRef
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == c.root {
				return err
			}
			c.logger.Warn("skipping unreadable path", "path", path, "err", err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		hidden := path != c.root && strings.HasPrefix(d.Name(), ".")
		if d.IsDir() {
			if hidden {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden || !d.Type().IsRegular() || !c.Accepts(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			c.logger.Warn("skipping file without stat info", "path", path, "err", err)
			return nil
		}
		if c.maxSize > 0 && info.Size() > c.maxSize {
			c.logger.Debug("skipping oversized file", "path", path, "size", info.Size())
			return nil
		}

		rel, err := filepath.Rel(c.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		refs = append(refs, core.DocumentRef{
			Path:       rel,
			Title:      titleFromName(rel),
			CreatedAt:  info.ModTime().UTC(),
			ModifiedAt: info.ModTime().UTC(),
			Extension:  core.ExtensionOf(rel),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Path < refs[j].Path })
	return refs, nil
}

// ReadDocument loads a document and parses its front matter.
func (c *Corpus) ReadDocument(ctx context.Context, ref core.DocumentRef) (*core.Document, error) {
	full, err := c.resolve(ref.Path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", corpus.ErrDocumentNotFound, ref.Path)
		}
		return nil, err
	}

	doc := &core.Document{DocumentRef: ref, Content: string(data)}
	if doc.Extension == "" {
		doc.Extension = core.ExtensionOf(ref.Path)
	}
	if doc.Title == "" {
		doc.Title = titleFromName(ref.Path)
	}
	if info, err := os.Stat(full); err == nil && doc.ModifiedAt.IsZero() {
		doc.ModifiedAt = info.ModTime().UTC()
		doc.CreatedAt = doc.ModifiedAt
	}

	if doc.Extension != "md" && doc.Extension != "markdown" {
		return doc, nil
	}

	meta, body, err := splitFrontMatter(doc.Content)
	if err != nil {
		c.logger.Warn("ignoring malformed front matter", "path", ref.Path, "err", err)
	}
	doc.Content = body

	switch {
	case meta.Title != "":
		doc.Title = meta.Title
	case heading(body) != "":
		doc.Title = heading(body)
	}
	switch {
	case !meta.Created.IsZero():
		doc.CreatedAt = meta.Created.UTC()
	case !meta.Date.IsZero():
		doc.CreatedAt = meta.Date.UTC()
	}
	doc.Tags = mergeTags(ref.Tags, meta.Tags, inlineTags(body))
	return doc, nil
}

// resolve maps a corpus-relative path to an absolute path inside the root.
func (c *Corpus) resolve(rel string) (string, error) {
	full := filepath.Join(c.root, filepath.FromSlash(rel))
	inside, err := filepath.Rel(c.root, full)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside the corpus", corpus.ErrDocumentNotFound, rel)
	}
	return full, nil
}

func titleFromName(p string) string {
	base := filepath.Base(filepath.FromSlash(p))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
