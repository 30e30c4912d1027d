package match

// EventKind names an outbound event
type EventKind string

const (
	EventSeatAssigned EventKind = "seat_assigned"
	EventSnapshot     EventKind = "state_snapshot"
	EventNotice       EventKind = "notice"
)

// Event is something the match wants delivered to its connections.
// An empty Target means every connection.
type Event struct {
	Kind   EventKind
	Target string
	Seat   SeatID
	Text   string
	State  *Snapshot
}

// Publisher delivers events to connections. Publish is called from the
// goroutine that owns the match and must not call back into it.
type Publisher interface {
	Publish(ev Event)
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(ev Event)

// Publish calls f(ev)
func (f PublisherFunc) Publish(ev Event) {
	f(ev)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}
