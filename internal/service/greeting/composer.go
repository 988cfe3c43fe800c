// Package greeting composes the short location and weather flavored line a
// billboard shows to passers-by.
package greeting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/zhouzirui/billboard/backend/internal/analysis/weather"
	"github.com/zhouzirui/billboard/backend/internal/logger"
	"github.com/zhouzirui/billboard/backend/internal/model/location"
	"github.com/zhouzirui/billboard/backend/internal/service/ai"
	"github.com/zhouzirui/billboard/backend/internal/service/lookup"
)

var (
	ErrInvalidLocation  = errors.New("a valid location key or latitude and longitude are required")
	ErrGenerationFailed = errors.New("failed to generate message")
)

// FallbackMessage replaces an empty completion.
const FallbackMessage = "Welcome!"

// Hint says where the billboard is. A known Key wins over coordinates.
type Hint struct {
	Key       string
	Latitude  *float64
	Longitude *float64
}

// Greeting is the composed billboard line.
type Greeting struct {
	Message  string `json:"message"`
	Location string `json:"location"`
}

// Lookup is the slice of the lookup gateway the composer depends on.
type Lookup interface {
	Neighborhood(ctx context.Context, rng *rand.Rand, coords location.Coordinates) lookup.NeighborhoodInfo
	Weather(ctx context.Context, coords location.Coordinates) (lookup.Report, error)
}

// Completer produces a completion for a single user prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Composer builds greetings.
type Composer struct {
	lookup    Lookup
	completer Completer
	rng       *rand.Rand
	log       *slog.Logger
}

// NewComposer wires a composer. rng is shared across requests; nil selects a
// time-seeded source that is safe for concurrent use.
func NewComposer(lk Lookup, completer Completer, rng *rand.Rand, log *slog.Logger) *Composer {
	if rng == nil {
		rng = rand.New(&lockedSource{src: rand.NewSource(time.Now().UnixNano())})
	}
	if log == nil {
		log = slog.Default()
	}
	return &Composer{
		lookup:    lk,
		completer: completer,
		rng:       rng,
		log:       log.With("component", "greeting"),
	}
}

// Resolve turns a hint into coordinates.
func Resolve(h Hint) (location.Coordinates, error) {
	if h.Key != "" {
		if coords, ok := location.LookupPlace(h.Key); ok {
			return coords, nil
		}
	}
	if h.Latitude == nil || h.Longitude == nil {
		return location.Coordinates{}, ErrInvalidLocation
	}
	return location.Coordinates{Latitude: *h.Latitude, Longitude: *h.Longitude}, nil
}

// Compose runs the lookup, categorize, complete and polish pipeline.
func (c *Composer) Compose(ctx context.Context, h Hint) (Greeting, error) {
	coords, err := Resolve(h)
	if err != nil {
		return Greeting{}, err
	}

	area := c.lookup.Neighborhood(ctx, c.rng, coords)

	report, err := c.lookup.Weather(ctx, coords)
	if err != nil {
		c.log.ErrorContext(ctx, "weather lookup failed", logger.Err(err))
		return Greeting{}, fmt.Errorf("%w: weather: %w", ErrGenerationFailed, err)
	}

	category := weather.Categorize(report.Condition, report.TempF)
	point := weather.PickTalkingPoint(c.rng, category)

	raw, err := c.completer.Complete(ctx, ai.GreetingPrompt(report.Location, area.Describe()))
	if err != nil {
		c.log.ErrorContext(ctx, "greeting completion failed", logger.Err(err))
		return Greeting{}, fmt.Errorf("%w: completion: %w", ErrGenerationFailed, err)
	}

	c.log.InfoContext(ctx, "greeting composed",
		"location", report.Location,
		"neighborhood", area.Neighborhood,
		"category", string(category),
	)

	return Greeting{
		Message:  WithTalkingPoint(Polish(raw), point),
		Location: report.Location,
	}, nil
}

const edgeCutset = "'\"\t\n\r "

// Polish normalizes a raw completion: surrounding quotes and whitespace
// are dropped, straight apostrophes become ’ and the line always ends in
// terminal punctuation. Polish(Polish(s)) == Polish(s).
func Polish(raw string) string {
	msg := strings.Trim(raw, edgeCutset)
	if msg == "" {
		return FallbackMessage
	}
	msg = strings.ReplaceAll(msg, "'", "’")
	if !strings.ContainsAny(msg[len(msg)-1:], ".!?") {
		msg += "."
	}
	return msg
}

// WithTalkingPoint appends the talking point as a second sentence.
func WithTalkingPoint(msg, point string) string {
	if point == "" {
		return msg
	}
	return msg + " " + point
}

type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}
