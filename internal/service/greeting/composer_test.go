package greeting

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"github.com/zhouzirui/billboard/backend/internal/analysis/weather"
	"github.com/zhouzirui/billboard/backend/internal/model/location"
	"github.com/zhouzirui/billboard/backend/internal/service/lookup"
)

type fakeLookup struct {
	info       lookup.NeighborhoodInfo
	report     lookup.Report
	weatherErr error
	coords     []location.Coordinates
}

func (f *fakeLookup) Neighborhood(_ context.Context, _ *rand.Rand, coords location.Coordinates) lookup.NeighborhoodInfo {
	f.coords = append(f.coords, coords)
	return f.info
}

func (f *fakeLookup) Weather(_ context.Context, coords location.Coordinates) (lookup.Report, error) {
	f.coords = append(f.coords, coords)
	return f.report, f.weatherErr
}

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func newComposer(lk *fakeLookup, c *fakeCompleter) *Composer {
	return NewComposer(lk, c, rand.New(rand.NewSource(7)), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func floatPtr(v float64) *float64 { return &v }

func TestComposeKnownKeyIgnoresCoordinates(t *testing.T) {
	lk := &fakeLookup{
		info:   lookup.NeighborhoodInfo{Neighborhood: "Canton", Highlights: []string{"arts", "dining"}},
		report: lookup.Report{Location: "Baltimore", Condition: "light rain", TempF: 90},
	}
	c := &fakeCompleter{reply: `"Rainy strolls by the harbor"`}

	g, err := newComposer(lk, c).Compose(context.Background(), Hint{
		Key:       "BALTIMORE",
		Latitude:  floatPtr(1),
		Longitude: floatPtr(2),
	})
	if err != nil {
		t.Fatalf("Compose err: %v", err)
	}

	if want, _ := location.LookupPlace("baltimore"); lk.coords[0] != want {
		t.Fatalf("expected baltimore coordinates, got %+v", lk.coords[0])
	}
	if g.Location != "Baltimore" {
		t.Fatalf("unexpected location %q", g.Location)
	}
	if !strings.HasPrefix(g.Message, "Rainy strolls by the harbor. ") {
		t.Fatalf("unexpected message %q", g.Message)
	}

	point := strings.TrimPrefix(g.Message, "Rainy strolls by the harbor. ")
	found := false
	for _, p := range weather.TalkingPoints(weather.Rain) {
		if p == point {
			found = true
		}
	}
	if !found {
		t.Fatalf("talking point %q not from the rain pool", point)
	}

	if !strings.Contains(c.prompts[0], "Baltimore, Neighborhood: Canton. Highlights: arts, dining.") {
		t.Fatalf("prompt missing place info: %q", c.prompts[0])
	}
}

func TestComposeUsesCoordinatesForUnknownKey(t *testing.T) {
	lk := &fakeLookup{report: lookup.Report{Location: "Somewhere", Condition: "clear sky", TempF: 60}}
	c := &fakeCompleter{reply: "Hello, neighbors!"}

	_, err := newComposer(lk, c).Compose(context.Background(), Hint{
		Key:       "atlantis",
		Latitude:  floatPtr(0),
		Longitude: floatPtr(0),
	})
	if err != nil {
		t.Fatalf("Compose err: %v", err)
	}
	if lk.coords[0] != (location.Coordinates{}) {
		t.Fatalf("expected zero coordinates accepted, got %+v", lk.coords[0])
	}
}

func TestComposeInvalidLocation(t *testing.T) {
	lk := &fakeLookup{}
	c := &fakeCompleter{}

	_, err := newComposer(lk, c).Compose(context.Background(), Hint{Latitude: floatPtr(39)})
	if !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("expected ErrInvalidLocation, got %v", err)
	}
	if len(lk.coords) != 0 || len(c.prompts) != 0 {
		t.Fatal("expected no upstream calls")
	}
}

func TestComposeWeatherFailure(t *testing.T) {
	lk := &fakeLookup{weatherErr: errors.New("401")}
	c := &fakeCompleter{}

	_, err := newComposer(lk, c).Compose(context.Background(), Hint{Key: "nyc"})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	if len(c.prompts) != 0 {
		t.Fatal("completion must not run after weather failure")
	}
}

func TestComposeCompletionFailure(t *testing.T) {
	lk := &fakeLookup{report: lookup.Report{Location: "San Francisco", Condition: "fog"}}
	c := &fakeCompleter{err: errors.New("rate limited")}

	if _, err := newComposer(lk, c).Compose(context.Background(), Hint{Key: "sf"}); !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestComposeEmptyCompletionFallsBack(t *testing.T) {
	lk := &fakeLookup{report: lookup.Report{Location: "New York", Condition: "clear sky", TempF: 85}}
	c := &fakeCompleter{reply: "   "}

	g, err := newComposer(lk, c).Compose(context.Background(), Hint{Key: "nyc"})
	if err != nil {
		t.Fatalf("Compose err: %v", err)
	}
	if !strings.HasPrefix(g.Message, "Welcome! ") {
		t.Fatalf("expected fallback greeting, got %q", g.Message)
	}
}

func TestPolish(t *testing.T) {
	cases := map[string]string{
		`"What a day"`:        "What a day.",
		`'It's sunny out!'`:   "It’s sunny out!",
		`  ""Hey there?""  `:  "Hey there?",
		"":                    FallbackMessage,
		`" "`:                 FallbackMessage,
		"Harbor breeze today": "Harbor breeze today.",
	}
	for in, want := range cases {
		if got := Polish(in); got != want {
			t.Fatalf("Polish(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPolishIdempotent(t *testing.T) {
	inputs := []string{`"it's a lovely day'`, `" "hello"`, "Good morning!", `''`, "ends with comma,"}
	for _, in := range inputs {
		once := Polish(in)
		if twice := Polish(once); twice != once {
			t.Fatalf("Polish not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestWithTalkingPoint(t *testing.T) {
	if got := WithTalkingPoint("Hi.", ""); got != "Hi." {
		t.Fatalf("unexpected %q", got)
	}
	if got := WithTalkingPoint("Hi.", "More."); got != "Hi. More." {
		t.Fatalf("unexpected %q", got)
	}
}
