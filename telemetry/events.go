// Package telemetry records director events and population statistics.
package telemetry

// EventType identifies recorded director events.
type EventType string

const (
	EventSpawn      EventType = "spawn"
	EventNotice     EventType = "notice"
	EventAlert      EventType = "alert"
	EventRally      EventType = "rally"
	EventDanceStart EventType = "dance_start"
	EventDanceStop  EventType = "dance_stop"
	EventThrow      EventType = "throw"
	EventPlayerHit  EventType = "player_hit"
	EventTrip       EventType = "trip"
	EventDamage     EventType = "damage"
	EventDeath      EventType = "death"
	EventRemove     EventType = "remove"
)

// Event is one recorded occurrence. Agent and Target are director
// agent IDs; Target is zero when the event has no counterpart.
type Event struct {
	Tick   int64     `csv:"tick"`
	Type   EventType `csv:"event"`
	Agent  uint32    `csv:"agent"`
	Target uint32    `csv:"target"`
	Amount float32   `csv:"amount"`
	Detail string    `csv:"detail"`
}

// Recorder accumulates events in memory. A nil Recorder is valid and
// drops everything, so callers never need to guard.
type Recorder struct {
	tick   int64
	events []Event
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SetTick stamps subsequent events with the current director tick.
func (r *Recorder) SetTick(tick int64) {
	if r == nil {
		return
	}
	r.tick = tick
}

// Record appends an event, stamping it with the current tick.
func (r *Recorder) Record(ev Event) {
	if r == nil {
		return
	}
	ev.Tick = r.tick
	r.events = append(r.events, ev)
}

// Events returns all recorded events.
func (r *Recorder) Events() []Event {
	if r == nil {
		return nil
	}
	return r.events
}

// CountType returns how many events of the given type were recorded.
func (r *Recorder) CountType(t EventType) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}
