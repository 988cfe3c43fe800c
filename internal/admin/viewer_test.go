package admin

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zhouzirui/billboard/backend/internal/model/preference"
	"github.com/zhouzirui/billboard/backend/internal/model/wire"
)

type fakeSource struct {
	mu    sync.Mutex
	resp  wire.ListFoodResponse
	err   error
	calls int
}

func (f *fakeSource) ListFood(context.Context) (wire.ListFoodResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.resp, f.err
}

func (f *fakeSource) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	resp := wire.ListFoodResponse{
		Success: true,
		FoodPreferences: []preference.Record{
			{Name: "User from Baltimore", Food: "Crab", Location: "Baltimore", Timestamp: "not a time"},
		},
		TotalCount: 1,
		Backend:    "memory",
		FromMemory: true,
	}

	if err := Render(&buf, resp, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Render err: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"total: 1", "source: Memory", "09:30:00", "NAME", "User from Baltimore", "Crab", "not a time"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, wire.ListFoodResponse{Backend: "sqlite"}, time.Now()); err != nil {
		t.Fatalf("Render err: %v", err)
	}
	if !strings.Contains(buf.String(), "No food preferences") || !strings.Contains(buf.String(), "SQLite") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestSourceLabel(t *testing.T) {
	cases := map[string]wire.ListFoodResponse{
		"DynamoDB": {Backend: "dynamodb", FromDynamoDB: true},
		"Memory":   {Backend: "memory", FromMemory: true},
		"Redis":    {Backend: "redis"},
		"Unknown":  {},
	}
	for want, resp := range cases {
		if got := SourceLabel(resp); got != want {
			t.Fatalf("SourceLabel(%+v) = %q, want %q", resp, got, want)
		}
	}
}

func TestRefreshRendersErrorAndKeepsGoing(t *testing.T) {
	var buf bytes.Buffer
	src := &fakeSource{err: errors.New("connection refused")}
	v := NewViewer(src, &buf, time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))

	v.Refresh(context.Background())
	if !strings.Contains(buf.String(), "Error: failed to fetch") {
		t.Fatalf("expected error line, got %q", buf.String())
	}
}

func TestRunPollsImmediatelyAndRepeatedly(t *testing.T) {
	src := &fakeSource{resp: wire.ListFoodResponse{FromMemory: true}}
	v := NewViewer(src, io.Discard, 5*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := v.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if src.count() < 2 {
		t.Fatalf("expected repeated polling, got %d calls", src.count())
	}
}
