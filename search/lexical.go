package search

import (
	"context"
	"fmt"

	"github.com/poiesic/sift/core"
)

// lexicalSearch scores every corpus document by query-word occurrences.
// The score is the total number of occurrences, inside longer words
// included, divided by the number of query words; documents without
// matches are left out. Highlights only use whole-word matches. An unreadable document is
// logged and skipped, while a corpus that cannot be listed fails the search.
func (s *Searcher) lexicalSearch(ctx context.Context, opts core.SearchOptions) ([]core.SearchResult, error) {
	words := queryWords(opts.Query)
	if len(words) == 0 {
		return []core.SearchResult{}, nil
	}
	counters := matchPatterns(words)
	patterns := wordPatterns(words)

	refs, err := s.corpus.ListDocuments(ctx)
	if err != nil {
		s.logger.Error("error listing corpus documents", "err", err)
		return nil, fmt.Errorf("listing corpus: %w", err)
	}

	results := make([]core.SearchResult, 0)
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := s.corpus.ReadDocument(ctx, ref)
		if err != nil {
			s.logger.Warn("skipping unreadable document", "path", ref.Path, "err", err)
			continue
		}

		matches := 0
		for _, re := range counters {
			matches += len(re.FindAllStringIndex(doc.Content, -1))
		}
		if matches == 0 {
			continue
		}

		results = append(results, core.SearchResult{
			ID:      core.IDFromPath(doc.Path),
			Title:   doc.Title,
			Content: doc.Content,
			Origin:  core.OriginFile,
			Score:   float64(matches) / float64(len(words)),
			Metadata: core.ResultMetadata{
				Path:       doc.Path,
				Tags:       doc.Tags,
				CreatedAt:  doc.CreatedAt,
				ModifiedAt: doc.ModifiedAt,
				WordCount:  doc.WordCount(),
				Highlights: highlights(doc.Content, patterns),
			},
		})
	}

	sortByRelevance(results)
	s.logger.Debug("lexical search complete", "documents", len(refs), "hits", len(results))
	return results, nil
}
