package app

import (
	"time"

	"github.com/google/uuid"

	"relisten/internal/library"
	"relisten/internal/transcribe"
)

// LibraryScannedMsg carries the result of a folder scan.
type LibraryScannedMsg struct {
	Dir        string
	Recordings []library.Recording
	Err        error
}

// PipelineInitDoneMsg reports the outcome of speech-model initialization.
type PipelineInitDoneMsg struct {
	Err error
}

// ProgressMsg is a coarse 0-100 progress notification. A nil JobID means
// pipeline initialization progress; otherwise it belongs to a transcription
// job.
type ProgressMsg struct {
	JobID   uuid.UUID
	Percent int
}

// TranscriptDoneMsg delivers the terminal result of a transcription job.
// Results for jobs other than the current one are stale and dropped.
type TranscriptDoneMsg struct {
	JobID  uuid.UUID
	Result transcribe.Result
}

// PlaybackEndedMsg is sent when the end watcher of one stream binding
// fires. Gen identifies the binding; rebinding the stream releases the
// superseded end channel, so a watcher can fire without the recording
// having played to its end. Only a message for the current generation
// means a natural end.
type PlaybackEndedMsg struct {
	Path string
	Gen  int
}

// TickMsg drives the playback position poll.
type TickMsg time.Time
