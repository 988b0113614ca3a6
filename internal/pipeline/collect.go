package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"server/internal/domain"
)

// Collect drains the transcoded stream to completion into one contiguous
// buffer, preserving arrival order exactly. The storage upload needs a
// known-length payload, so full materialization is a deliberate sync point;
// the memory bound is the admission policy's duration cap plus the maxBytes
// ceiling enforced here. Any stream error discards the partial buffer.
func Collect(stream io.Reader, maxBytes int64) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, 32*1024)
	var total int64

	for {
		n, err := stream.Read(chunk)
		if n > 0 {
			total += int64(n)
			if maxBytes > 0 && total > maxBytes {
				return nil, fmt.Errorf("collect: output exceeded %d byte ceiling: %w", maxBytes, domain.ErrTranscodeFailure)
			}
			buf.Write(chunk[:n])
		}
		if errors.Is(err, io.EOF) {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, fmt.Errorf("collect: %w", err)
		}
	}
}
