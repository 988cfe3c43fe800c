package session

import (
	"github.com/zhouzirui/billboard/backend/internal/model/location"
	"github.com/zhouzirui/billboard/backend/internal/model/wire"
)

// Event is anything the controller loop reacts to: user intents and the
// completions of work it started.
type Event interface {
	event()
}

type mountEvent struct{ key string }

type locatedEvent struct {
	coords location.Coordinates
	err    error
}

type greetingEvent struct {
	resp wire.GreetingResponse
	err  error
}

type submitEvent struct{ text string }

type replyEvent struct {
	resp wire.ChatResponse
	err  error
}

type followUpEvent struct{}

type storedEvent struct {
	food string
	resp wire.StoreFoodResponse
	err  error
}

// idleEvent asks the loop to close ready once no async work is pending.
type idleEvent struct{ ready chan struct{} }

func (mountEvent) event()    {}
func (locatedEvent) event()  {}
func (greetingEvent) event() {}
func (submitEvent) event()   {}
func (replyEvent) event()    {}
func (followUpEvent) event() {}
func (storedEvent) event()   {}
func (idleEvent) event()     {}
