// Package archive builds zip bundles of stored audio tracks.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Entry is one file inside the archive.
type Entry struct {
	Name string
	Data []byte
}

// Build assembles the entries into a zip archive held in memory. Duplicate
// names get a numeric suffix so no entry silently shadows another.
func Build(entries []Entry) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)

	seen := make(map[string]int, len(entries))
	for _, entry := range entries {
		name := entry.Name
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%d_%s", n, name)
		}
		seen[entry.Name]++

		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("archive: create entry %q: %w", name, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("archive: write entry %q: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("archive: finalize: %w", err)
	}
	return buf.Bytes(), nil
}
