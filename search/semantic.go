package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/sift/core"
)

// semanticSearch embeds the query once and maps the nearest vector-index
// entries to results. It overfetches 2×MaxResults so later filters still
// leave enough candidates.
func (s *Searcher) semanticSearch(ctx context.Context, opts core.SearchOptions) ([]core.SearchResult, error) {
	if s.embedder == nil {
		return nil, ErrEmbedderNotConfigured
	}
	if s.index == nil {
		return nil, ErrVectorIndexNotConfigured
	}

	callCtx, cancel := s.providerContext(ctx)
	embedding, err := s.embedder.EmbedText(callCtx, opts.Query)
	cancel()
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", opts.Query, "err", err)
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := s.index.Search(ctx, embedding, 2*opts.MaxResults)
	if err != nil {
		s.logger.Error("error querying vector index", "err", err)
		return nil, fmt.Errorf("querying vector index: %w", err)
	}

	patterns := wordPatterns(queryWords(opts.Query))
	results := make([]core.SearchResult, 0, len(matches))
	for _, m := range matches {
		p := m.Payload
		results = append(results, core.SearchResult{
			ID:      m.ID,
			Title:   p.Title,
			Content: p.Content,
			Origin:  core.OriginNode,
			Score:   m.Score,
			Metadata: core.ResultMetadata{
				Path:       p.Path,
				Tags:       p.Tags,
				CreatedAt:  p.CreatedAt,
				ModifiedAt: p.ModifiedAt,
				WordCount:  len(strings.Fields(p.Content)),
				Highlights: highlights(p.Content, patterns),
			},
		})
	}

	s.logger.Debug("semantic search complete", "hits", len(results))
	return results, nil
}
