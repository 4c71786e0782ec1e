package events

// Event represents a structured state change emitted by an engine. Attributes
// hold stringified values so downstream consumers (RPC, indexers) never need
// module-specific decoding.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// Emitter broadcasts events to downstream subscribers.
type Emitter interface {
	Emit(*Event)
}

// NoopEmitter satisfies the Emitter interface while discarding all events. It
// is the default for engines whose events are optional.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(*Event) {}

// Recorder captures emitted events in order. Intended for tests and for the
// RPC layer to surface the events produced by a single operation.
type Recorder struct {
	events []*Event
}

// Emit implements the Emitter interface.
func (r *Recorder) Emit(evt *Event) {
	if r == nil || evt == nil {
		return
	}
	r.events = append(r.events, evt)
}

// Events returns the captured events in emission order.
func (r *Recorder) Events() []*Event {
	if r == nil {
		return nil
	}
	out := make([]*Event, len(r.events))
	copy(out, r.events)
	return out
}

// Reset discards all captured events.
func (r *Recorder) Reset() {
	if r == nil {
		return
	}
	r.events = nil
}
