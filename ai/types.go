package ai

import (
	"fmt"
	"math"
	"sort"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one turn of a chat transcript sent to a TextGenerator.
type Message struct {
	Role    Role
	Content string
}

// SystemMessage returns a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage returns a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// RerankScore is one scored candidate. Index points into the documents
// submitted to Rerank.
type RerankScore struct {
	Index          int
	RelevanceScore float64
}

// RerankOutcome is the typed response of a rerank call.
type RerankOutcome struct {
	Model  string
	Scores []RerankScore
}

// Validate checks the outcome against the number of submitted documents.
// Scores pointing outside [0, n) or repeating an earlier index are dropped,
// relevance is clamped to [0,1], and the remaining scores are ordered by
// relevance, highest first. It returns the number of dropped entries.
func (o *RerankOutcome) Validate(n int) int {
	seen := make(map[int]struct{}, len(o.Scores))
	kept := make([]RerankScore, 0, len(o.Scores))
	for _, s := range o.Scores {
		if s.Index < 0 || s.Index >= n {
			continue
		}
		if _, dup := seen[s.Index]; dup {
			continue
		}
		seen[s.Index] = struct{}{}
		s.RelevanceScore = clamp01(s.RelevanceScore)
		kept = append(kept, s)
	}
	dropped := len(o.Scores) - len(kept)
	o.Scores = kept
	sort.SliceStable(o.Scores, func(i, j int) bool {
		return o.Scores[i].RelevanceScore > o.Scores[j].RelevanceScore
	})
	return dropped
}

// CheckEmbeddings verifies that a batch response has one non-empty vector
// per input and that every vector has the same dimensionality.
func CheckEmbeddings(vectors [][]float32, inputs int) error {
	if len(vectors) != inputs {
		return fmt.Errorf("%w: got %d vectors for %d inputs", ErrMalformedResponse, len(vectors), inputs)
	}
	dim := -1
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("%w: vector %d", ErrEmptyEmbedding, i)
		}
		if dim == -1 {
			dim = len(v)
		} else if len(v) != dim {
			return fmt.Errorf("%w: vector %d has %d dimensions, expected %d", ErrMalformedResponse, i, len(v), dim)
		}
	}
	return nil
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
