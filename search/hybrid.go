package search

import (
	"context"
	"errors"
	"sync"

	"github.com/poiesic/sift/core"
)

// hybridSearch runs lexical and semantic search concurrently and merges
// them by result ID with a fixed 70/30 semantic/lexical weighting.
// A semantic failure degrades to no semantic results; a lexical failure
// fails the search.
func (s *Searcher) hybridSearch(ctx context.Context, opts core.SearchOptions) ([]core.SearchResult, error) {
	var (
		wg                   sync.WaitGroup
		lexical, semantic    []core.SearchResult
		lexicalErr, semanErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		lexical, lexicalErr = s.lexicalSearch(ctx, opts)
	}()
	go func() {
		defer wg.Done()
		semantic, semanErr = s.semanticSearch(ctx, opts)
	}()
	wg.Wait()

	if lexicalErr != nil {
		return nil, lexicalErr
	}
	if semanErr != nil {
		if errors.Is(semanErr, ErrEmbedderNotConfigured) || errors.Is(semanErr, ErrVectorIndexNotConfigured) {
			s.logger.Debug("semantic search unavailable, using lexical results only", "err", semanErr)
		} else {
			s.logger.Warn("semantic search failed, using lexical results only", "err", semanErr)
		}
		semantic = nil
	}

	return mergeHybrid(semantic, lexical), nil
}

// mergeHybrid combines semantic and lexical results. A result found by
// both keeps the lexical result's file metadata, scores
// semantic×0.7 + lexical×0.3 and carries both highlight lists, capped.
func mergeHybrid(semantic, lexical []core.SearchResult) []core.SearchResult {
	merged := make([]core.SearchResult, 0, len(semantic)+len(lexical))
	position := make(map[string]int, len(semantic))
	semanticScore := make(map[string]float64, len(semantic))

	for _, r := range semantic {
		if _, dup := position[r.ID]; dup {
			continue
		}
		r = r.Clone()
		r.SetFinalScore(r.Score * semanticWeight)
		position[r.ID] = len(merged)
		semanticScore[r.ID] = r.Score
		merged = append(merged, r)
	}

	for _, r := range lexical {
		r = r.Clone()
		i, both := position[r.ID]
		if !both {
			r.SetFinalScore(r.Score * lexicalWeight)
			position[r.ID] = len(merged)
			merged = append(merged, r)
			continue
		}

		hl := append(merged[i].Metadata.Highlights, r.Metadata.Highlights...)
		if len(hl) > maxMergedHighlights {
			hl = hl[:maxMergedHighlights]
		}
		r.Metadata.Highlights = hl
		r.SetFinalScore(semanticScore[r.ID]*semanticWeight + r.Score*lexicalWeight)
		merged[i] = r
	}

	sortByRelevance(merged)
	return merged
}
