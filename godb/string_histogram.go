package godb

// StringHistogram is a supplemental statistic (spec.md covers only the
// integer histogram, leaving string selectivity as unspecified beyond
// "the optimizer needs something"). Rather than building a second
// equi-width bucketing scheme from scratch, this follows the same
// approach tikkisean-csc560-lab2's string_histogram.go uses: approximate
// per-value frequency with a Count-Min Sketch, giving EstimateSelectivity
// a real frequency count to divide by instead of a fixed guess.
import "github.com/tylertreat/BoomFilters"

type StringHistogram struct {
	cms *boom.CountMinSketch
}

// NewStringHistogram constructs a sketch with a 0.1% error bound and
// 99.9% confidence, generous enough for optimizer estimates that only
// need to be roughly right.
func NewStringHistogram() *StringHistogram {
	return &StringHistogram{cms: boom.NewCountMinSketch(0.001, 0.999)}
}

// Add records one occurrence of s.
func (h *StringHistogram) Add(s string) {
	h.cms.Add([]byte(s))
}

// EstimateSelectivity returns the estimated fraction of rows, in [0,1],
// satisfying `field op s`. EQUALS and NOT_EQUALS are estimated from the
// sketch's frequency for s, and LIKE is estimated as if it were EQUALS;
// every other op conservatively returns 1 (no information to estimate
// ordering selectivity from a sketch alone).
func (h *StringHistogram) EstimateSelectivity(op BoolOp, s string) float64 {
	total := h.cms.TotalCount()
	if total == 0 {
		return 1.0
	}
	freq := float64(h.cms.Count([]byte(s))) / float64(total)
	switch op {
	case OpEquals, OpLike:
		return freq
	case OpNotEquals:
		return 1 - freq
	}
	return 1.0
}
