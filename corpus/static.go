package corpus

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/poiesic/sift/core"
)

// Static is an in-memory Corpus keyed by document path.
type Static struct {
	mu   sync.RWMutex
	docs map[string]core.Document
}

var _ Corpus = (*Static)(nil)

// NewStatic creates a corpus holding docs. A missing Extension is derived
// from the path.
func NewStatic(docs ...core.Document) *Static {
	s := &Static{docs: make(map[string]core.Document, len(docs))}
	s.Put(docs...)
	return s
}

// Put adds or replaces documents.
func (s *Static) Put(docs ...core.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		if d.Extension == "" {
			d.Extension = core.ExtensionOf(d.Path)
		}
		s.docs[d.Path] = d
	}
}

// Remove deletes documents by path.
func (s *Static) Remove(paths ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range paths {
		delete(s.docs, p)
	}
}

// ListDocuments returns all documents ordered by path.
func (s *Static) ListDocuments(ctx context.Context) ([]core.DocumentRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := make([]core.DocumentRef, 0, len(s.docs))
	for _, d := range s.docs {
		refs = append(refs, d.DocumentRef)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Path < refs[j].Path })
	return refs, nil
}

// ReadDocument returns a copy of the document at ref.Path.
func (s *Static) ReadDocument(ctx context.Context, ref core.DocumentRef) (*core.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[ref.Path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, ref.Path)
	}
	d.Tags = append([]string(nil), d.Tags...)
	return &d, nil
}
