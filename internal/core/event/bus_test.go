package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type ping struct{ N int }
type pong struct{ S string }

func TestBusDeliversNextTick(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(p ping) { got = append(got, "ping") })
	Subscribe(b, func(p pong) { got = append(got, "pong:"+p.S) })

	Emit(b, pong{S: "a"})
	Emit(b, ping{N: 1})
	Emit(b, pong{S: "b"})
	assert.Len(t, Pending[pong](b), 2)

	b.DispatchAll()
	assert.Empty(t, got, "nothing is readable in the emitting tick")

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []string{"pong:a", "pong:b", "ping"}, got)

	got = got[:0]
	b.SwapBuffers()
	b.DispatchAll()
	assert.Empty(t, got, "events are delivered once")
}

func TestEmitOnNilBus(t *testing.T) {
	assert.NotPanics(t, func() { Emit[ping](nil, ping{}) })
}
