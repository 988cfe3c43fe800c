package lookup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zhouzirui/billboard/backend/internal/model/location"
)

var baltimore = location.Coordinates{Latitude: 39.2904, Longitude: -76.6122}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNominatimGeocoderPostcode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("User-Agent") != "billboard-test" {
			t.Errorf("missing user agent, got %q", r.Header.Get("User-Agent"))
		}
		if r.URL.Query().Get("lat") != "39.2904" || r.URL.Query().Get("format") != "json" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"address":{"postcode":"21231"}}`))
	}))
	defer srv.Close()

	zip, err := NewNominatimGeocoder(srv.URL+"/", "billboard-test", srv.Client()).Postcode(context.Background(), baltimore)
	if err != nil {
		t.Fatalf("Postcode err: %v", err)
	}
	if zip != "21231" {
		t.Fatalf("expected 21231, got %q", zip)
	}
}

func TestOpenWeatherClientCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("units") != "imperial" || q.Get("appid") != "secret" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"name":"Baltimore","weather":[{"description":"light rain"}],"main":{"temp":71.6}}`))
	}))
	defer srv.Close()

	report, err := NewOpenWeatherClient(srv.URL, "secret", srv.Client()).Current(context.Background(), baltimore)
	if err != nil {
		t.Fatalf("Current err: %v", err)
	}
	if report.Location != "Baltimore" || report.Condition != "light rain" || report.TempF != 72 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestOpenWeatherClientNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"bad key"}`))
	}))
	defer srv.Close()

	if _, err := NewOpenWeatherClient(srv.URL, "bad", srv.Client()).Current(context.Background(), baltimore); err == nil {
		t.Fatal("expected error on 401")
	}
}

func TestOpenWeatherClientMissingCondition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Nowhere","weather":[],"main":{"temp":50}}`))
	}))
	defer srv.Close()

	report, err := NewOpenWeatherClient(srv.URL, "k", srv.Client()).Current(context.Background(), baltimore)
	if err != nil {
		t.Fatalf("Current err: %v", err)
	}
	if report.Condition != "unknown weather" {
		t.Fatalf("expected fallback condition, got %q", report.Condition)
	}
}

type stubGeocoder struct {
	zip string
	err error
}

func (s stubGeocoder) Postcode(context.Context, location.Coordinates) (string, error) {
	return s.zip, s.err
}

func TestGatewayNeighborhoodMatch(t *testing.T) {
	dir := location.NewMemoryDirectory(location.Seed())
	gw := NewGateway(stubGeocoder{zip: "21231"}, nil, dir, quietLogger())

	info := gw.Neighborhood(context.Background(), rand.New(rand.NewSource(1)), baltimore)

	entry, _ := dir.FindByZip("21231")
	found := false
	for _, n := range entry.Names {
		if n == info.Neighborhood {
			found = true
		}
	}
	if !found {
		t.Fatalf("picked neighborhood %q not in %v", info.Neighborhood, entry.Names)
	}
	if len(info.Highlights) != len(entry.Highlights) {
		t.Fatalf("expected all highlights, got %v", info.Highlights)
	}
	want := "Neighborhood: " + info.Neighborhood + ". Highlights: historic, waterfront, dining, arts, diverse community."
	if info.Describe() != want {
		t.Fatalf("unexpected description %q", info.Describe())
	}
}

func TestGatewayNeighborhoodDegrades(t *testing.T) {
	dir := location.NewMemoryDirectory(location.Seed())
	rng := rand.New(rand.NewSource(1))

	cases := []Geocoder{
		stubGeocoder{err: errors.New("timeout")},
		stubGeocoder{zip: ""},
		stubGeocoder{zip: "10001"},
	}
	for _, geo := range cases {
		info := NewGateway(geo, nil, dir, quietLogger()).Neighborhood(context.Background(), rng, baltimore)
		if info.Neighborhood != "" || info.Describe() != "" {
			t.Fatalf("expected empty info, got %+v", info)
		}
	}
}
