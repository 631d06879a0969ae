package corpus

import (
	"context"
	"testing"

	"github.com/poiesic/sift/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(path, content string) core.Document {
	return core.Document{DocumentRef: core.DocumentRef{Path: path, Title: path}, Content: content}
}

func TestStatic(t *testing.T) {
	ctx := context.Background()
	s := NewStatic(doc("b.md", "beta"), doc("a.TXT", "alpha"))

	refs, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "a.TXT", refs[0].Path)
	assert.Equal(t, "txt", refs[0].Extension)

	d, err := s.ReadDocument(ctx, refs[1])
	require.NoError(t, err)
	assert.Equal(t, "beta", d.Content)

	s.Remove("b.md")
	_, err = s.ReadDocument(ctx, refs[1])
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	s.Put(doc("a.TXT", "changed"))
	d, err = s.ReadDocument(ctx, refs[0])
	require.NoError(t, err)
	assert.Equal(t, "changed", d.Content)
}
