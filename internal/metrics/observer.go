package metrics

import "github.com/SanatPandey22/AvereSDK/internal/cluster"

// Observer decorates another cluster.Observer, counting events and
// progress polls before forwarding them.
type Observer struct {
	next cluster.Observer
}

// NewObserver wraps next with metric recording.
func NewObserver(next cluster.Observer) *Observer {
	return &Observer{next: next}
}

var _ cluster.Observer = (*Observer)(nil)

// Printf implements cluster.Logger.
func (o *Observer) Printf(format string, v ...interface{}) {
	o.next.Printf(format, v...)
}

// Event implements cluster.Observer.
func (o *Observer) Event(event cluster.Event) {
	RecordEvent(string(event.Type))
	o.next.Event(event)
}

// Progress implements cluster.Observer.
func (o *Observer) Progress(phase string, current, total int) {
	RecordPoll(phase)
	o.next.Progress(phase, current, total)
}
