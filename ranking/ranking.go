// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ranking orders submission vectors by similarity to a target vector.
// It has no I/O and no dependency on storage.
package ranking

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Candidate is one submission vector keyed by entry number
type Candidate struct {
	ID     int64
	Vector []float32
}

// Scored is a candidate with its similarity to the target
type Scored struct {
	ID    int64
	Score float64
}

// Rank scores every candidate against target by inner product and sorts
// them best first. Equal scores keep ascending ID order so repeated runs
// over the same inputs produce the same ranking.
func Rank(target []float32, candidates []Candidate) ([]Scored, error) {
	if len(target) == 0 {
		return nil, fmt.Errorf("empty target vector: %w", ErrDimensionMismatch)
	}

	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		if len(c.Vector) != len(target) {
			return nil, fmt.Errorf("candidate %d has %d dimensions, want %d: %w",
				c.ID, len(c.Vector), len(target), ErrDimensionMismatch)
		}
		scored = append(scored, Scored{ID: c.ID, Score: Dot(target, c.Vector)})
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.ID < b.ID
	})

	return scored, nil
}

// TopK returns the IDs of the first k ranked entries.
// k <= 0 selects nothing; k past the end selects everything.
func TopK(ranked []Scored, k int) []int64 {
	if k <= 0 {
		return []int64{}
	}
	if k > len(ranked) {
		k = len(ranked)
	}

	ids := make([]int64, k)
	for i := 0; i < k; i++ {
		ids[i] = ranked[i].ID
	}
	return ids
}

// Dot computes the inner product, accumulating in float64.
// Vectors of different length score 0.
func Dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Cosine returns the cosine similarity in [-1, 1], or 0 if either vector
// is zero or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
