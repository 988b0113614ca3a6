package domain

// SourceDescriptor holds resolved metadata about a source media item. It is
// produced by the resolver before any media payload is transferred and is
// immutable once created.
type SourceDescriptor struct {
	SourceURL       string
	Title           string
	VideoID         string
	DurationSeconds int
	AudioStreamURL  string
}

// Resolvable reports whether the descriptor carries a usable duration.
// A zero or negative duration means the source could not be measured.
func (d SourceDescriptor) Resolvable() bool {
	return d.DurationSeconds > 0
}
