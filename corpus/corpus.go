package corpus

import (
	"context"
	"errors"

	"github.com/poiesic/sift/core"
)

// ErrDocumentNotFound indicates a document listed earlier can no longer be read.
var ErrDocumentNotFound = errors.New("document not found")

// Corpus enumerates and reads source documents. Every call starts a fresh
// enumeration. Implementations must be thread-safe.
type Corpus interface {
	// ListDocuments returns every document without content. An error means
	// the corpus as a whole is unavailable.
	ListDocuments(ctx context.Context) ([]core.DocumentRef, error)

	// ReadDocument loads one document. Errors are per document.
	ReadDocument(ctx context.Context, ref core.DocumentRef) (*core.Document, error)
}
