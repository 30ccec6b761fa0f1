package logging

// ProgressSampler suppresses repetitive progress logs, emitting only when the
// completed share of a run crosses a percentage bucket boundary.
type ProgressSampler struct {
	bucketSize float64
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits when the percent crosses
// bucket boundaries (default 5%).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 5
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether progress after done of total items should be
// logged. Completion always falls in a fresh bucket, so the final item logs.
func (s *ProgressSampler) ShouldLog(done, total int) bool {
	if s == nil {
		return true
	}
	if total <= 0 || done <= 0 {
		return false
	}
	bucket := int(Percent(done, total) / s.bucketSize)
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

// Percent returns done as a percentage of total, clamped to [0, 100].
func Percent(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(done) * 100 / float64(total)
	return min(max(p, 0), 100)
}
