package strategy

import "math"

// Progress returns the completion percentage for a criterion: the share of
// fields across all instances whose value is non-empty, rounded to the
// nearest integer. A criterion with no instances (or no fields) is 0.
func Progress(c *Criterion) int {
	if c == nil || len(c.Instances) == 0 {
		return 0
	}

	total := 0
	completed := 0
	for _, inst := range c.Instances {
		for _, f := range inst.Fields {
			total++
			if f.Value.Completed() {
				completed++
			}
		}
	}

	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// StatusForProgress maps a progress percentage to a criterion status. It
// never yields StatusReadyForReview; that state has no producing path here.
func StatusForProgress(progress int) Status {
	switch {
	case progress == 0:
		return StatusNotStarted
	case progress >= 100:
		return StatusComplete
	default:
		return StatusInProgress
	}
}
