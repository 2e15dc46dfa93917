// Package evaluation measures retrieval quality against human relevance
// judgments.
package evaluation

import (
	"fmt"
	"math"
	"sort"
)

// PrecisionAtK returns the fraction of the first k retrieved documents that
// are relevant. The denominator is k even when fewer documents were
// retrieved.
func PrecisionAtK(retrieved []string, relevant map[string]bool, k int) float64 {
	if k <= 0 {
		return 0
	}

	hits := 0
	for i := 0; i < k && i < len(retrieved); i++ {
		if relevant[retrieved[i]] {
			hits++
		}
	}

	return float64(hits) / float64(k)
}

// RecallAtK returns the fraction of relevant documents found in the first k
// retrieved. Zero relevant documents yields zero.
func RecallAtK(retrieved []string, relevant map[string]bool, k int) float64 {
	if k <= 0 || len(relevant) == 0 {
		return 0
	}

	hits := 0
	for i := 0; i < k && i < len(retrieved); i++ {
		if relevant[retrieved[i]] {
			hits++
		}
	}

	return float64(hits) / float64(len(relevant))
}

// NDCGAtK returns the normalized discounted cumulative gain at k with binary
// gains. Position discounts are 1/log2(position+1) with 1-based positions.
func NDCGAtK(retrieved []string, relevant map[string]bool, k int) float64 {
	if k <= 0 || len(relevant) == 0 {
		return 0
	}

	var dcg float64
	for i := 0; i < k && i < len(retrieved); i++ {
		if relevant[retrieved[i]] {
			dcg += 1 / math.Log2(float64(i)+2)
		}
	}

	// Ideal ranking puts every relevant document first.
	ideal := len(relevant)
	if ideal > k {
		ideal = k
	}

	var idcg float64
	for i := 0; i < ideal; i++ {
		idcg += 1 / math.Log2(float64(i)+2)
	}

	if idcg == 0 {
		return 0
	}

	return dcg / idcg
}

// GradedNDCGAtK is NDCGAtK with graded gains. grades maps document ID to a
// non-negative relevance grade; missing documents count as zero.
func GradedNDCGAtK(retrieved []string, grades map[string]float64, k int) float64 {
	if k <= 0 || len(grades) == 0 {
		return 0
	}

	var dcg float64
	for i := 0; i < k && i < len(retrieved); i++ {
		if g := grades[retrieved[i]]; g > 0 {
			dcg += g / math.Log2(float64(i)+2)
		}
	}

	// Ideal ordering is by descending grade.
	sorted := make([]float64, 0, len(grades))
	for _, g := range grades {
		if g > 0 {
			sorted = append(sorted, g)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	var idcg float64
	for i := 0; i < k && i < len(sorted); i++ {
		idcg += sorted[i] / math.Log2(float64(i)+2)
	}

	if idcg == 0 {
		return 0
	}

	return dcg / idcg
}

// MRR returns the reciprocal rank of the first relevant document, or zero
// when none is retrieved.
func MRR(retrieved []string, relevant map[string]bool) float64 {
	for i, id := range retrieved {
		if relevant[id] {
			return 1 / float64(i+1)
		}
	}
	return 0
}

// MetricKey formats the canonical metric name for a cutoff.
func MetricKey(metric string, k int) string {
	return fmt.Sprintf("%s@%d", metric, k)
}

// AllMetrics computes the standard metric set for one query's ranking.
func AllMetrics(retrieved []string, relevant map[string]bool, precisionK, recallK, ndcgK int) map[string]float64 {
	return map[string]float64{
		MetricKey("precision", precisionK): PrecisionAtK(retrieved, relevant, precisionK),
		MetricKey("recall", recallK):       RecallAtK(retrieved, relevant, recallK),
		MetricKey("ndcg", ndcgK):           NDCGAtK(retrieved, relevant, ndcgK),
		"mrr":                              MRR(retrieved, relevant),
	}
}
