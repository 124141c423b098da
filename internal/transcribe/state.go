package transcribe

import (
	"errors"
	"fmt"
)

// Phase is the pipeline lifecycle state.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseInitializing
	PhaseReady
	PhaseTranscribing
	PhaseFailed // initialization failed; pipeline is unusable
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseInitializing:
		return "initializing"
	case PhaseReady:
		return "ready"
	case PhaseTranscribing:
		return "transcribing"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ErrNotReady is returned when a transcription is requested before the
// pipeline reached the ready phase.
var ErrNotReady = errors.New("transcription pipeline not ready")

// ErrBusy is returned when a transcription is requested while another one
// is still in flight.
var ErrBusy = errors.New("transcription already in progress")

// Pipeline pairs a Transcriber with an explicit phase machine so illegal
// states (transcribing while uninitialized, double initialization) are
// rejected at the transition rather than encoded in loose booleans.
// Transitions are only made from the UI update loop; Pipeline does not
// lock.
type Pipeline struct {
	transcriber Transcriber
	phase       Phase
}

// NewPipeline wraps a Transcriber in the uninitialized phase.
func NewPipeline(t Transcriber) *Pipeline {
	return &Pipeline{transcriber: t}
}

// Transcriber returns the wrapped backend.
func (p *Pipeline) Transcriber() Transcriber {
	return p.transcriber
}

// Phase returns the current lifecycle phase.
func (p *Pipeline) Phase() Phase {
	return p.phase
}

// BeginInit moves Uninitialized → Initializing.
func (p *Pipeline) BeginInit() error {
	if p.phase != PhaseUninitialized {
		return fmt.Errorf("initialize from phase %s", p.phase)
	}
	p.phase = PhaseInitializing
	return nil
}

// FinishInit completes initialization: Ready on success, Failed otherwise.
func (p *Pipeline) FinishInit(err error) {
	if p.phase != PhaseInitializing {
		return
	}
	if err != nil {
		p.phase = PhaseFailed
		return
	}
	p.phase = PhaseReady
}

// BeginTranscribe moves Ready → Transcribing. Anything earlier than Ready
// reports ErrNotReady; an in-flight transcription reports ErrBusy.
func (p *Pipeline) BeginTranscribe() error {
	switch p.phase {
	case PhaseReady:
		p.phase = PhaseTranscribing
		return nil
	case PhaseTranscribing:
		return ErrBusy
	default:
		return ErrNotReady
	}
}

// FinishTranscribe moves Transcribing → Ready. The pipeline loops between
// those two phases for the life of the process.
func (p *Pipeline) FinishTranscribe() {
	if p.phase == PhaseTranscribing {
		p.phase = PhaseReady
	}
}
