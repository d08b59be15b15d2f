package driver

import "time"

// Status captures the progress of one template.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "lexing"
	StatusDone    Status = "done"
	StatusCached  Status = "cached"
	StatusError   Status = "error"
)

// Event reports progress for a template (or for the whole run when File is empty).
type Event struct {
	File    string
	Status  Status
	Tokens  int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent may be called from several
// goroutines at once.
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
