package logging

// ProgressSampler suppresses repetitive progress logs: it lets an event
// through when the percentage crosses a bucket boundary or the step changes.
type ProgressSampler struct {
	bucketSize float64
	lastStep   string
	lastBucket int
}

// NewProgressSampler constructs a sampler with the given bucket size in
// percent (default 10).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether an event at percent for step should be logged.
func (s *ProgressSampler) ShouldLog(percent float64, step string) bool {
	if s == nil {
		return true
	}
	emit := false
	if step != s.lastStep {
		s.lastStep = step
		s.lastBucket = -1
		emit = true
	}
	bucket := int(percent / s.bucketSize)
	if percent >= 100 {
		bucket = int(100 / s.bucketSize)
	}
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		emit = true
	}
	return emit
}
