package domain

// AdmissionPolicy bounds the duration of sources admitted into the pipeline.
type AdmissionPolicy struct {
	MinDurationSeconds int
	MaxDurationSeconds int
}

// Decision is the outcome of evaluating a descriptor against a policy.
type Decision struct {
	Accepted bool
	Reason   error
}

// Evaluate applies the policy to a resolved descriptor. It performs no I/O
// and is deterministic: a duration in (0, max] is accepted, with the max
// boundary inclusive; an unresolvable (<= 0) duration is always rejected.
func (p AdmissionPolicy) Evaluate(d SourceDescriptor) Decision {
	if !d.Resolvable() || d.DurationSeconds < p.MinDurationSeconds || d.DurationSeconds > p.MaxDurationSeconds {
		return Decision{Reason: &PolicyError{
			DurationSeconds: d.DurationSeconds,
			MinSeconds:      p.MinDurationSeconds,
			MaxSeconds:      p.MaxDurationSeconds,
		}}
	}
	return Decision{Accepted: true}
}
