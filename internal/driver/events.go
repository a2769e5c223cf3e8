package driver

import "time"

// Stage is the step a file is in while being checked.
type Stage uint8

const (
	StageQueued Stage = iota
	StageLoad
	StageParse
	StageSync
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "loading"
	case StageParse:
		return "parsing"
	case StageSync:
		return "syncing"
	}
	return "queued"
}

// Status reports where a file stands within its stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event is a progress notification. An empty File describes the whole run.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Elapsed time.Duration
}

// ProgressFunc receives events; it may be called from several goroutines.
type ProgressFunc func(Event)

func (f ProgressFunc) emit(ev Event) {
	if f != nil {
		f(ev)
	}
}

// ChannelProgress forwards events into ch. The caller closes ch after the run.
func ChannelProgress(ch chan<- Event) ProgressFunc {
	return func(ev Event) { ch <- ev }
}
