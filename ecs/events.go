package ecs

// EventType identifies an event payload.
type EventType string

// Event is a generic ECS event payload.
type Event struct {
	Type EventType
	Data any
}

// EventQueue is a FIFO queue with typed subscribers. Producers Push during a
// tick; the owner calls Dispatch once at a fixed point in the update order so
// every subscriber observes events in the order they were produced.
type EventQueue struct {
	items       []Event
	subscribers map[EventType][]func(Event)
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Subscribe registers fn for events of type t.
func (q *EventQueue) Subscribe(t EventType, fn func(Event)) {
	if q == nil || fn == nil {
		return
	}
	if q.subscribers == nil {
		q.subscribers = make(map[EventType][]func(Event))
	}
	q.subscribers[t] = append(q.subscribers[t], fn)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Dispatch drains the queue and delivers each event to its subscribers.
// Events pushed by subscribers are delivered in the same call. It returns the
// number of events delivered.
func (q *EventQueue) Dispatch() int {
	n := 0
	for {
		batch := q.Drain()
		if len(batch) == 0 {
			return n
		}
		for _, evt := range batch {
			for _, fn := range q.subscribers[evt.Type] {
				fn(evt)
			}
			n++
		}
	}
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Clear drops queued events without delivering them.
func (q *EventQueue) Clear() {
	if q == nil {
		return
	}
	q.items = nil
}
