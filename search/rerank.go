package search

import (
	"context"

	"github.com/poiesic/sift/core"
)

// rerank rescores results with the cross-encoder. Scores below the
// threshold drop the result; survivors get
// finalScore = prior×0.3 + relevance×0.7. Any provider failure returns
// the input unchanged.
func (s *Searcher) rerank(ctx context.Context, opts core.SearchOptions, results []core.SearchResult) []core.SearchResult {
	if s.reranker == nil || len(results) == 0 {
		return results
	}

	documents := make([]string, len(results))
	for i := range results {
		documents[i] = results[i].Content
	}

	callCtx, cancel := s.providerContext(ctx)
	outcome, err := s.reranker.Rerank(callCtx, opts.Query, documents, opts.MaxResults)
	cancel()
	if err != nil {
		s.logger.Warn("rerank failed, keeping original ranking", "query", opts.Query, "err", err)
		return results
	}
	if dropped := outcome.Validate(len(results)); dropped > 0 {
		s.logger.Warn("rerank returned invalid scores", "dropped", dropped)
	}

	reranked := make([]core.SearchResult, 0, len(outcome.Scores))
	for _, score := range outcome.Scores {
		if score.RelevanceScore < opts.RerankThreshold {
			continue
		}
		r := results[score.Index].Clone()
		prior := r.Relevance()
		r.SetRerankScore(score.RelevanceScore)
		r.SetFinalScore(prior*rerankPriorWeight + score.RelevanceScore*rerankRelevanceWeight)
		reranked = append(reranked, r)
	}

	sortByRelevance(reranked)
	s.logger.Debug("rerank complete", "candidates", len(results), "kept", len(reranked))
	return reranked
}
