package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/zhouzirui/billboard/backend/internal/model/chat"
	"github.com/zhouzirui/billboard/backend/internal/model/location"
	"github.com/zhouzirui/billboard/backend/internal/model/wire"
)

type fakeAPI struct {
	mu sync.Mutex

	greeting    wire.GreetingResponse
	greetingErr error
	reply       wire.ChatResponse
	replyErr    error

	greetingKeys []string
	chatTexts    []string
	histories    [][]chat.Turn
	stored       []wire.StoreFoodRequest
}

func (f *fakeAPI) Greeting(_ context.Context, key string, _ *location.Coordinates) (wire.GreetingResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.greetingKeys = append(f.greetingKeys, key)
	return f.greeting, f.greetingErr
}

func (f *fakeAPI) Chat(_ context.Context, text string, history []chat.Turn) (wire.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatTexts = append(f.chatTexts, text)
	f.histories = append(f.histories, history)
	return f.reply, f.replyErr
}

func (f *fakeAPI) StoreFood(_ context.Context, req wire.StoreFoodRequest) (wire.StoreFoodResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, req)
	return wire.StoreFoodResponse{Success: true, Backend: "memory"}, nil
}

type fakeLocator struct {
	coords location.Coordinates
	err    error
}

func (f fakeLocator) Locate(context.Context) (location.Coordinates, error) {
	return f.coords, f.err
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

func newTestController(api API, opts ...Option) (*Controller, *[]scheduled) {
	var timers []scheduled
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithScheduler(func(d time.Duration, fn func()) { timers = append(timers, scheduled{d, fn}) }),
	}
	return NewController(api, append(base, opts...)...), &timers
}

// next waits for the event posted by the controller's async work.
func next(t *testing.T, c *Controller) Event {
	t.Helper()
	select {
	case ev := <-c.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func foodPtr(s string) *string { return &s }

func TestMountWithKeyGreetsAndSchedulesFollowUp(t *testing.T) {
	api := &fakeAPI{greeting: wire.GreetingResponse{Message: "Hello, Fells Point!", Location: "Baltimore"}}
	c, timers := newTestController(api)
	ctx := context.Background()

	c.handle(ctx, mountEvent{key: "baltimore"})
	if c.state != AwaitingGreeting {
		t.Fatalf("expected awaiting-greeting, got %s", c.state)
	}

	c.handle(ctx, next(t, c))
	if c.state != Conversing || c.place != "Baltimore" {
		t.Fatalf("unexpected state %s place %q", c.state, c.place)
	}
	if len(c.messages) != 1 || c.messages[0].Content != "Hello, Fells Point!" || c.messages[0].Role != chat.RoleAssistant {
		t.Fatalf("unexpected messages %+v", c.messages)
	}
	if api.greetingKeys[0] != "baltimore" {
		t.Fatalf("expected key passed through, got %q", api.greetingKeys[0])
	}

	if len(*timers) != 1 || (*timers)[0].delay != FollowUpDelay {
		t.Fatalf("expected one 2s follow-up, got %+v", *timers)
	}
	(*timers)[0].fn()
	c.handle(ctx, next(t, c))
	if last := c.messages[len(c.messages)-1]; last.Content != FollowUpMessage {
		t.Fatalf("expected follow-up question, got %q", last.Content)
	}
}

func TestMountWithoutLocator(t *testing.T) {
	c, _ := newTestController(&fakeAPI{})

	c.handle(context.Background(), mountEvent{})
	if c.state != LocationError || c.errMsg != NoLocatorMessage {
		t.Fatalf("expected location error, got %s %q", c.state, c.errMsg)
	}
}

func TestMountGeolocationFailure(t *testing.T) {
	c, _ := newTestController(&fakeAPI{}, WithLocator(fakeLocator{err: errors.New("denied")}))
	ctx := context.Background()

	c.handle(ctx, mountEvent{})
	if c.state != ResolvingLocation {
		t.Fatalf("expected resolving-location, got %s", c.state)
	}
	c.handle(ctx, next(t, c))
	if c.state != LocationError || c.errMsg != LocationFailedMessage {
		t.Fatalf("expected %q, got %s %q", LocationFailedMessage, c.state, c.errMsg)
	}
}

func TestMountGeolocationThenGreeting(t *testing.T) {
	api := &fakeAPI{greeting: wire.GreetingResponse{Message: "Hi!", Location: "New York"}}
	nyc, _ := location.LookupPlace("nyc")
	c, _ := newTestController(api, WithLocator(fakeLocator{coords: nyc}))
	ctx := context.Background()

	c.handle(ctx, mountEvent{})
	c.handle(ctx, next(t, c))
	if c.state != AwaitingGreeting {
		t.Fatalf("expected awaiting-greeting, got %s", c.state)
	}
	c.handle(ctx, next(t, c))
	if c.state != Conversing || api.greetingKeys[0] != "" {
		t.Fatalf("unexpected state %s key %q", c.state, api.greetingKeys[0])
	}
}

func TestGreetingFailureCarriesServerMessage(t *testing.T) {
	api := &fakeAPI{greetingErr: &StatusError{StatusCode: 400, Message: "Invalid location"}}
	c, timers := newTestController(api)
	ctx := context.Background()

	c.handle(ctx, mountEvent{key: "atlantis"})
	c.handle(ctx, next(t, c))
	if c.state != LocationError || c.errMsg != "Invalid location" {
		t.Fatalf("unexpected state %s %q", c.state, c.errMsg)
	}
	if len(*timers) != 0 {
		t.Fatal("no follow-up after a failed greeting")
	}
}

func TestSubmitRejectedWhileBusy(t *testing.T) {
	api := &fakeAPI{reply: wire.ChatResponse{Message: "Nice!"}}
	c, _ := newTestController(api)
	ctx := context.Background()

	c.handle(ctx, submitEvent{text: "  hello  "})
	if !c.busy || len(c.messages) != 1 || c.messages[0].Content != "hello" {
		t.Fatalf("expected trimmed pending user turn, busy=%v messages=%+v", c.busy, c.messages)
	}

	c.handle(ctx, submitEvent{text: "second"})
	c.handle(ctx, submitEvent{text: "   "})
	if len(c.messages) != 1 {
		t.Fatalf("expected rejected submissions, got %+v", c.messages)
	}

	c.handle(ctx, next(t, c))
	if c.busy || len(c.messages) != 2 {
		t.Fatalf("expected reply appended, busy=%v messages=%d", c.busy, len(c.messages))
	}
	if len(api.chatTexts) != 1 {
		t.Fatalf("expected one chat call, got %d", len(api.chatTexts))
	}
}

func TestSubmitSendsPriorHistoryOnly(t *testing.T) {
	api := &fakeAPI{
		greeting: wire.GreetingResponse{Message: "Hello!", Location: "Baltimore"},
		reply:    wire.ChatResponse{Message: "Great choice!", IsFoodResponse: true, FoodItem: foodPtr("Crab")},
	}
	c, _ := newTestController(api)
	ctx := context.Background()

	c.handle(ctx, mountEvent{key: "baltimore"})
	c.handle(ctx, next(t, c))

	c.handle(ctx, submitEvent{text: "I love crab"})
	c.handle(ctx, next(t, c))

	history := api.histories[0]
	if len(history) != 1 || history[0].Role != "assistant" || history[0].Content != "Hello!" {
		t.Fatalf("expected only the greeting as prior history, got %+v", history)
	}

	ev := next(t, c)
	stored, ok := ev.(storedEvent)
	if !ok {
		t.Fatalf("expected storedEvent, got %T", ev)
	}
	c.handle(ctx, stored)
	if len(api.stored) != 1 || api.stored[0].FoodItem != "Crab" || api.stored[0].Location != "Baltimore" {
		t.Fatalf("unexpected store request %+v", api.stored)
	}
	if api.stored[0].Timestamp == "" {
		t.Fatal("expected timestamp on store request")
	}
}

func TestReplyFailureApologies(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&StatusError{StatusCode: 500, Message: "Failed to generate response"}, ReplyFailedMessage},
		{errors.New("connection refused"), ConnectFailedMessage},
	}
	for _, tc := range cases {
		c, _ := newTestController(&fakeAPI{replyErr: tc.err})
		ctx := context.Background()

		c.handle(ctx, submitEvent{text: "hi"})
		c.handle(ctx, next(t, c))

		last := c.messages[len(c.messages)-1]
		if last.Content != tc.want || c.busy {
			t.Fatalf("expected %q, got %q (busy=%v)", tc.want, last.Content, c.busy)
		}
	}
}

func TestRunPublishesSnapshots(t *testing.T) {
	api := &fakeAPI{greeting: wire.GreetingResponse{Message: "Hello!", Location: "San Francisco"}}
	snapshots := make(chan Snapshot, 8)
	c, _ := newTestController(api, WithObserver(func(s Snapshot) { snapshots <- s }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	c.Mount("sf")
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-snapshots:
			if s.State == Conversing {
				if len(s.Messages) != 1 || s.Location != "San Francisco" {
					t.Fatalf("unexpected snapshot %+v", s)
				}
				return
			}
		case <-deadline:
			t.Fatal("never reached conversing")
		}
	}
}

func TestWaitIdleCoversReplyAndStore(t *testing.T) {
	api := &fakeAPI{
		greeting: wire.GreetingResponse{Message: "Hello!", Location: "Baltimore"},
		reply:    wire.ChatResponse{Message: "Pizza is great!", IsFoodResponse: true, FoodItem: foodPtr("Pizza")},
	}
	c, _ := newTestController(api)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	c.Mount("baltimore")
	c.Submit("I love pizza")

	waitCtx, waitCancel := context.WithTimeout(ctx, 2*time.Second)
	defer waitCancel()
	if err := c.WaitIdle(waitCtx); err != nil {
		t.Fatalf("WaitIdle err: %v", err)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.chatTexts) != 1 || len(api.stored) != 1 || api.stored[0].FoodItem != "Pizza" {
		t.Fatalf("expected reply and store to finish, chats=%v stored=%+v", api.chatTexts, api.stored)
	}
}

func TestWaitIdleAfterStop(t *testing.T) {
	c, _ := newTestController(&fakeAPI{})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	if err := c.WaitIdle(context.Background()); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}
