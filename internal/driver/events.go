package driver

import "time"

// Stage describes a high-level phase of unit processing.
type Stage string

const (
	// StageLoad is snapshot loading and validation.
	StageLoad Stage = "load"
	// StageAnalyze is the dispatcher pass.
	StageAnalyze Stage = "analyze"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the unit is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the unit is currently processed.
	StatusWorking Status = "working"
	// StatusDone indicates the unit finished.
	StatusDone Status = "done"
	// StatusError indicates loading or analysis failed.
	StatusError Status = "error"
)

// Event reports progress for one unit (or for the overall run when Unit is
// empty).
type Event struct {
	Unit        string
	Stage       Stage
	Status      Status
	Err         error
	Elapsed     time.Duration
	Diagnostics int
}

// ProgressSink consumes progress events. Implementations must tolerate calls
// from concurrent worker goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
