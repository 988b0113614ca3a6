package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestBuild(t *testing.T) {
	data, err := Build([]Entry{
		{Name: "a.mp3", Data: []byte("first")},
		{Name: "b.mp3", Data: []byte("second")},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(reader.File) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(reader.File))
	}

	f, err := reader.File[0].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer f.Close()
	content, _ := io.ReadAll(f)
	if string(content) != "first" {
		t.Fatalf("unexpected entry content: %q", content)
	}
}

func TestBuild_DeduplicatesNames(t *testing.T) {
	data, err := Build([]Entry{
		{Name: "track.mp3", Data: []byte("one")},
		{Name: "track.mp3", Data: []byte("two")},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	names := map[string]bool{}
	for _, f := range reader.File {
		if names[f.Name] {
			t.Fatalf("duplicate entry name %q", f.Name)
		}
		names[f.Name] = true
	}
}
