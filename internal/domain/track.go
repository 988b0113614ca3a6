package domain

import "time"

// Track is the metadata record for one stored audio artifact. It is written
// once after a successful upload and never mutated afterwards.
type Track struct {
	ID         string
	OwnerID    string
	Title      string
	VideoID    string
	SourceURL  string
	StorageKey string
	FileURL    string
	CreatedAt  time.Time
}
