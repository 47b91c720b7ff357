// Package changes propagates record-change signals to list views that
// cache query results, so a successful write is always followed by a
// re-fetch.
package changes

import "sync"

// Event identifies a changed record.
type Event struct {
	Table string
	ID    int64
}

// Broadcaster fans events out to every subscribed observer.
type Broadcaster struct {
	mu    sync.Mutex
	next  int
	queue map[int][]Event
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{queue: map[int][]Event{}}
}

// Notify records a change for every current subscriber.
func (b *Broadcaster) Notify(events ...Event) {
	if len(events) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for id := range b.queue {
		b.queue[id] = append(b.queue[id], events...)
	}
}

// Subscribe registers an observer. Events notified before subscription
// are not replayed.
func (b *Broadcaster) Subscribe() *Observer {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.queue[id] = nil
	return &Observer{b: b, id: id}
}

// Observer reads its share of the broadcast stream.
type Observer struct {
	b  *Broadcaster
	id int
}

// Observe drains and returns all events since the previous call.
func (o *Observer) Observe() []Event {
	o.b.mu.Lock()
	defer o.b.mu.Unlock()
	events := o.b.queue[o.id]
	o.b.queue[o.id] = nil
	return events
}

// Close unsubscribes the observer.
func (o *Observer) Close() {
	o.b.mu.Lock()
	defer o.b.mu.Unlock()
	delete(o.b.queue, o.id)
}
