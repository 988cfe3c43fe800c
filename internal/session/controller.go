// Package session drives one kiosk conversation: it resolves the billboard's
// location, fetches the greeting, relays visitor turns and records the
// foods they mention.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/zhouzirui/billboard/backend/internal/logger"
	"github.com/zhouzirui/billboard/backend/internal/model/chat"
	"github.com/zhouzirui/billboard/backend/internal/model/location"
	"github.com/zhouzirui/billboard/backend/internal/model/wire"
)

// State is the controller's position in the conversation lifecycle.
type State int

const (
	Idle State = iota
	ResolvingLocation
	AwaitingGreeting
	Conversing
	LocationError
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ResolvingLocation:
		return "resolving-location"
	case AwaitingGreeting:
		return "awaiting-greeting"
	case Conversing:
		return "conversing"
	case LocationError:
		return "location-error"
	default:
		return "unknown"
	}
}

const (
	FollowUpDelay   = 2 * time.Second
	FollowUpMessage = "By the way, what's your favorite food? I'm curious about local tastes!"

	ReplyFailedMessage    = "Sorry, I'm having trouble responding right now. Please try again."
	ConnectFailedMessage  = "Sorry, I'm having trouble connecting. Please try again."
	LocationFailedMessage = "Unable to retrieve your location."
	NoLocatorMessage      = "Geolocation is not supported on this device."
	GreetingFailedMessage = "Failed to generate message."
	ServerDownMessage     = "Failed to connect to server."
)

// ErrStopped is returned by WaitIdle once Run has exited.
var ErrStopped = errors.New("session: controller stopped")

// API is the server surface the controller calls.
type API interface {
	Greeting(ctx context.Context, key string, coords *location.Coordinates) (wire.GreetingResponse, error)
	Chat(ctx context.Context, text string, history []chat.Turn) (wire.ChatResponse, error)
	StoreFood(ctx context.Context, req wire.StoreFoodRequest) (wire.StoreFoodResponse, error)
}

// Locator performs a single-shot position fix.
type Locator interface {
	Locate(ctx context.Context) (location.Coordinates, error)
}

// Snapshot is a copy of the controller state handed to observers.
type Snapshot struct {
	State    State
	Busy     bool
	Messages []chat.Message
	Location string
	Error    string
}

// Controller owns one conversation. All state changes happen on the Run
// goroutine; Mount and Submit only enqueue events.
type Controller struct {
	api      API
	locator  Locator
	onChange func(Snapshot)
	schedule func(time.Duration, func())
	now      func() time.Time
	log      *slog.Logger

	events chan Event
	done   chan struct{}

	state    State
	busy     bool
	messages []chat.Message
	place    string
	errMsg   string

	// inFlight counts async calls whose result event has not been handled.
	inFlight int
	waiters  []chan struct{}
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLocator enables geolocation when no location key is given.
func WithLocator(l Locator) Option {
	return func(c *Controller) { c.locator = l }
}

// WithObserver is called with a snapshot after every handled event.
func WithObserver(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithScheduler replaces time.AfterFunc for the follow-up question.
func WithScheduler(fn func(time.Duration, func())) Option {
	return func(c *Controller) { c.schedule = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// NewController builds an idle controller.
func NewController(api API, opts ...Option) *Controller {
	c := &Controller{
		api:      api,
		onChange: func(Snapshot) {},
		schedule: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		now:      func() time.Time { return time.Now().UTC() },
		log:      slog.Default(),
		events:   make(chan Event, 32),
		done:     make(chan struct{}),
		state:    Idle,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "session")
	return c
}

// Mount starts the session. key is the configured location name and may be empty.
func (c *Controller) Mount(key string) {
	c.post(mountEvent{key: strings.TrimSpace(key)})
}

// Submit sends a visitor message. It is dropped while a reply is pending.
func (c *Controller) Submit(text string) {
	c.post(submitEvent{text: text})
}

// Run processes events until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-c.events:
			c.handle(ctx, ev)
		}
	}
}

// WaitIdle blocks until every greeting, reply and preference write started so
// far has been handled. The follow-up timer is not waited for.
func (c *Controller) WaitIdle(ctx context.Context) error {
	ready := make(chan struct{})
	c.post(idleEvent{ready: ready})
	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrStopped
	}
}

func (c *Controller) post(ev Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

// goAsync runs fn off the loop and posts its result back.
func (c *Controller) goAsync(fn func() Event) {
	c.inFlight++
	go func() { c.post(fn()) }()
}

func (c *Controller) handle(ctx context.Context, ev Event) {
	if isResult(ev) {
		c.inFlight--
	}
	defer c.releaseWaiters()

	switch e := ev.(type) {
	case idleEvent:
		c.waiters = append(c.waiters, e.ready)
		return
	case mountEvent:
		c.onMount(ctx, e)
	case locatedEvent:
		c.onLocated(ctx, e)
	case greetingEvent:
		c.onGreeting(e)
	case submitEvent:
		if !c.onSubmit(ctx, e) {
			return
		}
	case replyEvent:
		c.onReply(ctx, e)
	case followUpEvent:
		c.appendMessage(chat.RoleAssistant, FollowUpMessage)
	case storedEvent:
		if e.err != nil {
			c.log.Warn("failed to store food preference", "food", e.food, logger.Err(e.err))
		} else {
			c.log.Info("food preference stored", "food", e.food, "backend", e.resp.Backend)
		}
		return
	}
	c.onChange(c.snapshot())
}

func (c *Controller) onMount(ctx context.Context, e mountEvent) {
	if c.state != Idle {
		return
	}
	c.errMsg = ""

	switch {
	case e.key != "":
		c.requestGreeting(ctx, e.key, nil)
	case c.locator != nil:
		c.state = ResolvingLocation
		c.goAsync(func() Event {
			coords, err := c.locator.Locate(ctx)
			return locatedEvent{coords: coords, err: err}
		})
	default:
		c.fail(NoLocatorMessage)
	}
}

func (c *Controller) onLocated(ctx context.Context, e locatedEvent) {
	if c.state != ResolvingLocation {
		return
	}
	if e.err != nil {
		c.log.Warn("geolocation failed", logger.Err(e.err))
		c.fail(LocationFailedMessage)
		return
	}
	coords := e.coords
	c.requestGreeting(ctx, "", &coords)
}

func (c *Controller) requestGreeting(ctx context.Context, key string, coords *location.Coordinates) {
	c.state = AwaitingGreeting
	c.goAsync(func() Event {
		resp, err := c.api.Greeting(ctx, key, coords)
		return greetingEvent{resp: resp, err: err}
	})
}

func (c *Controller) onGreeting(e greetingEvent) {
	if c.state != AwaitingGreeting {
		return
	}
	if e.err != nil {
		c.log.Warn("greeting failed", logger.Err(e.err))
		c.fail(greetingFailure(e.err))
		return
	}

	c.appendMessage(chat.RoleAssistant, e.resp.Message)
	c.place = e.resp.Location
	if c.place == "" {
		c.place = "Unknown"
	}
	c.state = Conversing
	c.schedule(FollowUpDelay, func() { c.post(followUpEvent{}) })
}

// onSubmit reports whether the submission was accepted.
func (c *Controller) onSubmit(ctx context.Context, e submitEvent) bool {
	text := strings.TrimSpace(e.text)
	if c.busy || text == "" {
		c.log.Debug("submission ignored", "busy", c.busy)
		return false
	}

	prior := chat.Turns(c.messages)
	c.appendMessage(chat.RoleUser, text)
	c.busy = true

	c.goAsync(func() Event {
		resp, err := c.api.Chat(ctx, text, prior)
		return replyEvent{resp: resp, err: err}
	})
	return true
}

func (c *Controller) onReply(ctx context.Context, e replyEvent) {
	c.busy = false

	if e.err != nil {
		c.log.Warn("chat failed", logger.Err(e.err))
		var statusErr *StatusError
		if errors.As(e.err, &statusErr) {
			c.appendMessage(chat.RoleAssistant, ReplyFailedMessage)
		} else {
			c.appendMessage(chat.RoleAssistant, ConnectFailedMessage)
		}
		return
	}

	c.appendMessage(chat.RoleAssistant, e.resp.Message)

	if e.resp.IsFoodResponse && e.resp.FoodItem != nil && *e.resp.FoodItem != "" {
		req := wire.StoreFoodRequest{
			FoodItem:  *e.resp.FoodItem,
			Location:  c.place,
			Timestamp: c.now().Format(time.RFC3339Nano),
		}
		c.goAsync(func() Event {
			resp, err := c.api.StoreFood(ctx, req)
			return storedEvent{food: req.FoodItem, resp: resp, err: err}
		})
	}
}

func (c *Controller) releaseWaiters() {
	if c.inFlight > 0 {
		return
	}
	for _, w := range c.waiters {
		close(w)
	}
	c.waiters = nil
}

func isResult(ev Event) bool {
	switch ev.(type) {
	case locatedEvent, greetingEvent, replyEvent, storedEvent:
		return true
	}
	return false
}

func (c *Controller) fail(msg string) {
	c.state = LocationError
	c.errMsg = msg
}

func (c *Controller) appendMessage(role chat.Role, content string) {
	c.messages = append(c.messages, chat.NewMessage(role, content))
}

func (c *Controller) snapshot() Snapshot {
	msgs := make([]chat.Message, len(c.messages))
	copy(msgs, c.messages)
	return Snapshot{
		State:    c.state,
		Busy:     c.busy,
		Messages: msgs,
		Location: c.place,
		Error:    c.errMsg,
	}
}

func greetingFailure(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Message != "" {
			return statusErr.Message
		}
		return GreetingFailedMessage
	}
	return ServerDownMessage
}
