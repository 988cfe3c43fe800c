// Package lookup wraps the geocoding, weather and neighborhood lookups behind one gateway.
package lookup

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/zhouzirui/billboard/backend/internal/logger"
	"github.com/zhouzirui/billboard/backend/internal/model/location"
)

// Geocoder resolves coordinates to a postal code.
type Geocoder interface {
	Postcode(ctx context.Context, coords location.Coordinates) (string, error)
}

// WeatherProvider reports current conditions.
type WeatherProvider interface {
	Current(ctx context.Context, coords location.Coordinates) (Report, error)
}

// NeighborhoodInfo is what the greeting prompt learns about the area.
// The zero value means the lookup degraded.
type NeighborhoodInfo struct {
	Neighborhood string
	Highlights   []string
}

// Describe renders the info for the prompt, or "" when empty.
func (n NeighborhoodInfo) Describe() string {
	if n.Neighborhood == "" {
		return ""
	}
	return "Neighborhood: " + n.Neighborhood + ". Highlights: " + strings.Join(n.Highlights, ", ") + "."
}

// Gateway composes the three lookups.
type Gateway struct {
	geocoder  Geocoder
	weather   WeatherProvider
	directory location.Directory
	log       *slog.Logger
}

// NewGateway wires the lookups together.
func NewGateway(geocoder Geocoder, weather WeatherProvider, directory location.Directory, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{
		geocoder:  geocoder,
		weather:   weather,
		directory: directory,
		log:       log.With("component", "lookup"),
	}
}

// Neighborhood resolves the area around coords. Geocoding failures and
// unknown postcodes are not errors; they yield an empty result.
func (g *Gateway) Neighborhood(ctx context.Context, rng *rand.Rand, coords location.Coordinates) NeighborhoodInfo {
	zip, err := g.geocoder.Postcode(ctx, coords)
	if err != nil {
		g.log.WarnContext(ctx, "reverse geocode failed, continuing without neighborhood", logger.Err(err))
		return NeighborhoodInfo{}
	}
	if zip == "" {
		return NeighborhoodInfo{}
	}

	match, ok := g.directory.FindByZip(zip)
	if !ok || len(match.Names) == 0 {
		g.log.DebugContext(ctx, "no neighborhood entry for postcode", "zip", zip)
		return NeighborhoodInfo{}
	}

	return NeighborhoodInfo{
		Neighborhood: match.Names[rng.Intn(len(match.Names))],
		Highlights:   append([]string(nil), match.Highlights...),
	}
}

// Weather fetches current conditions; errors are returned to the caller.
func (g *Gateway) Weather(ctx context.Context, coords location.Coordinates) (Report, error) {
	return g.weather.Current(ctx, coords)
}
