package driver

import "time"

// Stage describes a step of processing one file.
type Stage string

const (
	StageLoad     Stage = "load"
	StageTokenize Stage = "tokenize"
	StageParse    Stage = "parse"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Directory runs call OnEvent from
// worker goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChanSink forwards events to a channel; the receiver must keep draining it
// until the run returns.
type ChanSink chan<- Event

func (s ChanSink) OnEvent(ev Event) { s <- ev }

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
