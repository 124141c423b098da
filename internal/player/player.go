// Package player wraps the audio device behind play/pause/seek operations.
// One speaker is initialized for the life of the process; each selected
// recording is decoded and bound to it in turn.
package player

import (
	"fmt"
	"os"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
)

// baseRate is the speaker mixing rate. Decoded streams are resampled to it
// so the speaker never needs re-initialization.
const baseRate = beep.SampleRate(44100)

// Player owns the single audio output. Methods touching the stream take the
// speaker lock because the mixer pulls samples concurrently.
type Player struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	playing  bool
	done     chan struct{}
}

// New initializes the speaker once and returns the player.
func New() (*Player, error) {
	if err := speaker.Init(baseRate, baseRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return &Player{}, nil
}

// Load stops current playback, decodes the file at path and binds it to the
// speaker, paused at position zero. The previously bound stream is closed
// before the new one takes its place.
func (p *Player) Load(path string) error {
	speaker.Clear()
	p.releaseDone()

	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
		p.ctrl = nil
	}
	p.playing = false

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open recording: %w", err)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode recording: %w", err)
	}

	p.streamer = streamer
	p.format = format
	p.ctrl = &beep.Ctrl{
		Streamer: beep.Resample(4, format.SampleRate, baseRate, streamer),
		Paused:   true,
	}
	p.queue()
	return nil
}

// queue puts the control stream on the speaker with a fresh end-of-stream
// channel.
func (p *Player) queue() {
	done := make(chan struct{})
	p.done = done
	speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
		close(done)
	})))
}

// Toggle flips play/pause and returns the new playing state: the logical
// negation of the state before the call.
func (p *Player) Toggle() bool {
	speaker.Lock()
	defer speaker.Unlock()
	if p.ctrl == nil {
		return false
	}
	p.ctrl.Paused = !p.ctrl.Paused
	p.playing = !p.ctrl.Paused
	return p.playing
}

// Seek moves the playback position. The value is handed to the stream
// unclamped; out-of-range positions fail with the decoder's own error.
func (p *Player) Seek(d time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()
	if p.streamer == nil {
		return nil
	}
	if err := p.streamer.Seek(p.format.SampleRate.N(d)); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	return nil
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Position())
}

// Duration returns the length of the loaded recording.
func (p *Player) Duration() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// Done reports end of natural playback for the currently bound stream.
// Nil until a recording is loaded.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// Rewind resets a finished or stopped stream to the start, paused, and
// requeues it so playback can be started again.
func (p *Player) Rewind() error {
	if p.ctrl == nil {
		return nil
	}
	speaker.Clear()
	p.releaseDone()
	speaker.Lock()
	err := p.streamer.Seek(0)
	p.ctrl.Paused = true
	p.playing = false
	speaker.Unlock()
	p.queue()
	if err != nil {
		return fmt.Errorf("rewind: %w", err)
	}
	return nil
}

// releaseDone closes a superseded end-of-stream channel so watchers do not
// block forever. speaker.Clear has already removed the stream, so the
// callback that would otherwise close it can no longer fire.
func (p *Player) releaseDone() {
	if p.done == nil {
		return
	}
	select {
	case <-p.done:
	default:
		close(p.done)
	}
	p.done = nil
}

// Close stops playback and releases the decoded stream.
func (p *Player) Close() error {
	speaker.Clear()
	p.releaseDone()
	if p.streamer != nil {
		err := p.streamer.Close()
		p.streamer = nil
		p.ctrl = nil
		return err
	}
	return nil
}
