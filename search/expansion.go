package search

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/core"
)

const (
	expansionMaxTokens = 200
	relevanceMaxTokens = 8
)

var (
	listMarker   = regexp.MustCompile(`^\s*(?:[-*•]+|\d+[.)])\s*`)
	leadingScore = regexp.MustCompile(`^[-+]?(?:\d+\.?\d*|\.\d+)`)
)

// aiEnhancedSearch expands the query, runs hybrid search for the original
// and every expansion, dedupes the union and blends in an AI relevance
// score. Without a ready text generator it is plain hybrid search.
func (s *Searcher) aiEnhancedSearch(ctx context.Context, opts core.SearchOptions) ([]core.SearchResult, error) {
	if s.generator == nil || !s.generator.Ready() {
		s.logger.Debug("text generator unavailable, using hybrid search")
		return s.hybridSearch(ctx, opts)
	}

	queries := append([]string{opts.Query}, s.expandQuery(ctx, opts.Query)...)
	passes := make([][]core.SearchResult, len(queries))

	var g errgroup.Group
	for i, q := range queries {
		variant := opts
		variant.Query = q
		g.Go(func() error {
			results, err := s.hybridSearch(ctx, variant)
			if err != nil {
				if i == 0 {
					return err
				}
				s.logger.Warn("expansion query failed", "query", q, "err", err)
				return nil
			}
			passes[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []core.SearchResult
	for _, pass := range passes {
		all = append(all, pass...)
	}
	results := dedupeResults(all)
	sortByRelevance(results)

	s.scoreRelevance(ctx, opts.Query, results)
	sortByRelevance(results)
	return results, nil
}

// expandQuery asks the generator for alternative phrasings of query.
// Failures yield no expansions.
func (s *Searcher) expandQuery(ctx context.Context, query string) []string {
	callCtx, cancel := s.providerContext(ctx)
	defer cancel()

	reply, err := s.generator.Generate(callCtx, []ai.Message{
		ai.SystemMessage(expansionSystemPrompt),
		ai.UserMessage(fmt.Sprintf(expansionPromptTemplate, expansionCount, query)),
	}, expansionMaxTokens)
	if err != nil {
		s.logger.Warn("query expansion failed", "query", query, "err", err)
		return nil
	}

	expansions := parseExpansions(reply, query, expansionCount)
	s.logger.Debug("expanded query", "query", query, "expansions", expansions)
	return expansions
}

// parseExpansions takes up to limit distinct non-empty lines from reply,
// stripping list markers and quotes and skipping the original query.
func parseExpansions(reply, original string, limit int) []string {
	seen := map[string]bool{strings.ToLower(strings.TrimSpace(original)): true}
	var out []string
	for _, line := range strings.Split(reply, "\n") {
		line = listMarker.ReplaceAllString(line, "")
		line = strings.Trim(strings.TrimSpace(line), `"'`)
		key := strings.ToLower(line)
		if line == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, line)
		if len(out) == limit {
			break
		}
	}
	return out
}

// dedupeResults keeps one result per document, keyed by path when the
// result has a file and by title otherwise. The higher Relevance wins and
// the first occurrence keeps its position.
func dedupeResults(results []core.SearchResult) []core.SearchResult {
	index := make(map[string]int, len(results))
	out := make([]core.SearchResult, 0, len(results))
	for _, r := range results {
		key := "title:" + r.Title
		if r.HasFile() {
			key = "path:" + r.Metadata.Path
		}
		i, dup := index[key]
		if !dup {
			index[key] = len(out)
			out = append(out, r)
			continue
		}
		if r.Relevance() > out[i].Relevance() {
			out[i] = r
		}
	}
	return out
}

// scoreRelevance blends an AI relevance score into the first maxScored
// results, which callers order by relevance beforehand: finalScore = prior×0.5 + ai×0.5. Calls run on the worker pool;
// a failed call or unparseable reply leaves that result at its prior.
func (s *Searcher) scoreRelevance(ctx context.Context, query string, results []core.SearchResult) {
	n := min(len(results), s.maxScored)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			r := &results[i]
			prior := r.Relevance()
			score, ok := s.relevanceScore(ctx, query, r)
			if !ok {
				score = prior
			}
			r.SetFinalScore(prior*aiPriorWeight + score*aiRelevanceWeight)
		}
		if err := s.pool.Submit(task); err != nil {
			wg.Done()
			s.logger.Warn("could not schedule relevance scoring", "id", results[i].ID, "err", err)
		}
	}
	wg.Wait()
}

func (s *Searcher) relevanceScore(ctx context.Context, query string, r *core.SearchResult) (float64, bool) {
	callCtx, cancel := s.providerContext(ctx)
	defer cancel()

	reply, err := s.generator.Generate(callCtx, []ai.Message{
		ai.SystemMessage(relevanceSystemPrompt),
		ai.UserMessage(fmt.Sprintf(relevancePromptTemplate, query, truncateRunes(r.Content, aiContentLength))),
	}, relevanceMaxTokens)
	if err != nil {
		s.logger.Warn("relevance scoring failed", "id", r.ID, "err", err)
		return 0, false
	}

	score, ok := parseRelevance(reply)
	if !ok {
		s.logger.Warn("unparseable relevance score", "id", r.ID, "reply", reply)
	}
	return score, ok
}

// parseRelevance reads the leading number of reply. Values outside [0,1]
// are rejected.
func parseRelevance(reply string) (float64, bool) {
	m := leadingScore.FindString(strings.TrimSpace(reply))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v < 0 || v > 1 {
		return 0, false
	}
	return v, true
}
