// Package transcribe provides speech-to-text backends behind a common
// interface plus the pipeline state machine the UI drives.
//
// Supported backends:
//   - whisper: a local whisper server spoken to over HTTP (default)
//   - openai: the hosted transcription API
package transcribe

import (
	"context"
	"fmt"
	"os"
	"time"

	"relisten/internal/config"
)

// ProgressFunc receives coarse 0-100 progress notifications. Values are for
// display only; no monotonicity is guaranteed.
type ProgressFunc func(percent int)

// Transcriber converts a full audio payload to plain text.
type Transcriber interface {
	// Initialize prepares the backend. Called once before any Transcribe.
	Initialize(ctx context.Context, onProgress ProgressFunc) error
	// Transcribe runs a single inference over the whole payload and
	// returns the transcript text.
	Transcribe(ctx context.Context, audio []byte, onProgress ProgressFunc) (string, error)
	// Name identifies the backend.
	Name() string
	// Close releases backend resources.
	Close() error
}

// New creates a Transcriber from the configured backend.
func New(cfg config.Transcription) (Transcriber, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	switch cfg.Backend {
	case "openai":
		return NewOpenAI(os.Getenv(cfg.APIKeyEnv), cfg.Model)
	case "whisper", "":
		return NewWhisperServer(cfg.Endpoint, timeout), nil
	default:
		return nil, fmt.Errorf("unknown transcription backend %q (supported: whisper, openai)", cfg.Backend)
	}
}

// Result is the outcome of one transcription. Success and failure are kept
// apart so the view can render them differently instead of smuggling error
// strings through the transcript field.
type Result struct {
	text string
	err  error
}

// Ok wraps a successful transcript.
func Ok(text string) Result {
	return Result{text: text}
}

// Fail wraps a transcription failure.
func Fail(err error) Result {
	return Result{err: err}
}

// Text returns the transcript and whether the result succeeded.
func (r Result) Text() (string, bool) {
	return r.text, r.err == nil
}

// Err returns the failure reason, nil on success.
func (r Result) Err() error {
	return r.err
}
