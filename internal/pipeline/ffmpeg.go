package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"server/internal/domain"
)

// FFmpegTranscoder converts a source audio stream into constant-bitrate MP3
// by piping it through the ffmpeg binary. The binary path and bitrate are
// fixed at construction time and never mutated afterwards.
type FFmpegTranscoder struct {
	path        string
	bitrateKbps int
}

// NewFFmpegTranscoder returns a transcoder using the given ffmpeg binary.
// If path is empty, "ffmpeg" is looked up on PATH.
func NewFFmpegTranscoder(path string, bitrateKbps int) *FFmpegTranscoder {
	if path == "" {
		path = "ffmpeg"
	}
	if bitrateKbps <= 0 {
		bitrateKbps = 128
	}
	return &FFmpegTranscoder{path: path, bitrateKbps: bitrateKbps}
}

// Available checks if the ffmpeg binary is executable.
func (t *FFmpegTranscoder) Available() bool {
	_, err := exec.LookPath(t.path)
	return err == nil
}

// Transcode starts ffmpeg consuming src and returns the encoded output as a
// lazy single-pass stream. Encoding runs concurrently with the consumer's
// drain; a transcoder failure surfaces from Read in place of a clean EOF, so
// a truncated stream can never be mistaken for a finished one. Closing the
// stream terminates the process and releases both pipes.
func (t *FFmpegTranscoder) Transcode(ctx context.Context, src io.Reader) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, t.path,
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-vn",
		"-b:a", fmt.Sprintf("%dk", t.bitrateKbps),
		"-f", "mp3",
		"pipe:1",
	)

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %v: %w", err, domain.ErrTranscodeFailure)
	}

	stream := &transcodeStream{cmd: cmd, out: stdout, stderr: stderr}

	go func() {
		_, copyErr := io.Copy(stdin, src)
		if copyErr != nil {
			stream.setSrcErr(copyErr)
		}
		stdin.Close()
	}()

	return stream, nil
}

// transcodeStream is the single-pass output of one ffmpeg invocation. It
// owns the process handle and both pipes for the lifetime of the stream.
type transcodeStream struct {
	cmd    *exec.Cmd
	out    io.ReadCloser
	stderr *bytes.Buffer

	mu     sync.Mutex
	srcErr error

	waitOnce sync.Once
	waitErr  error
}

func (s *transcodeStream) setSrcErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srcErr == nil {
		s.srcErr = err
	}
}

func (s *transcodeStream) sourceErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.srcErr
}

func (s *transcodeStream) wait() error {
	s.waitOnce.Do(func() {
		s.waitErr = s.cmd.Wait()
	})
	return s.waitErr
}

// Read forwards encoded bytes. At end of output the process exit status is
// settled first: a non-zero exit or an upstream source failure replaces the
// EOF, so the consumer observes a distinct failure rather than a truncated
// but apparently successful stream.
func (s *transcodeStream) Read(p []byte) (int, error) {
	n, err := s.out.Read(p)
	if err == nil || !errors.Is(err, io.EOF) {
		return n, err
	}
	if waitErr := s.wait(); waitErr != nil {
		return n, fmt.Errorf("ffmpeg: %v%s: %w", waitErr, stderrTail(s.stderr), domain.ErrTranscodeFailure)
	}
	if srcErr := s.sourceErr(); srcErr != nil {
		return n, fmt.Errorf("read source stream: %v: %w", srcErr, domain.ErrTranscodeFailure)
	}
	return n, io.EOF
}

// Close terminates the transcode. It is safe to call after a normal drain
// and must be called on cancellation so no process handle leaks.
func (s *transcodeStream) Close() error {
	s.out.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.wait()
	return nil
}

func stderrTail(buf *bytes.Buffer) string {
	text := strings.TrimSpace(buf.String())
	if text == "" {
		return ""
	}
	if len(text) > 300 {
		text = text[len(text)-300:]
	}
	return " (" + text + ")"
}
