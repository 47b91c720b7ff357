package changes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Broadcaster_FanOut(t *testing.T) {
	b := NewBroadcaster()
	a := b.Subscribe()
	c := b.Subscribe()

	b.Notify(Event{Table: "species", ID: 7})

	assert.Equal(t, []Event{{Table: "species", ID: 7}}, a.Observe())
	assert.Equal(t, []Event{{Table: "species", ID: 7}}, c.Observe())
}

func Test_Observer_DrainsOnce(t *testing.T) {
	b := NewBroadcaster()
	o := b.Subscribe()

	b.Notify(Event{Table: "species", ID: 1})
	assert.Len(t, o.Observe(), 1)
	assert.Empty(t, o.Observe())
}

func Test_Observer_NoReplayBeforeSubscribe(t *testing.T) {
	b := NewBroadcaster()
	b.Notify(Event{Table: "species", ID: 1})

	o := b.Subscribe()
	assert.Empty(t, o.Observe())
}

func Test_Observer_Close(t *testing.T) {
	b := NewBroadcaster()
	o := b.Subscribe()
	o.Close()

	b.Notify(Event{Table: "species", ID: 1})
	assert.Empty(t, o.Observe())
}

func Test_Notify_NoSubscribers(t *testing.T) {
	b := NewBroadcaster()
	// must not panic or accumulate
	b.Notify(Event{Table: "species", ID: 1})
	b.Notify()
}
