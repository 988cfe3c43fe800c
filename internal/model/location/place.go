package location

import "strings"

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// places maps the named locations a kiosk can be pinned to via ?location=.
var places = map[string]Coordinates{
	"nyc":       {Latitude: 40.7128, Longitude: -74.0060},
	"sf":        {Latitude: 37.7749, Longitude: -122.4194},
	"baltimore": {Latitude: 39.2904, Longitude: -76.6122},
}

// LookupPlace resolves a named location case-insensitively.
func LookupPlace(key string) (Coordinates, bool) {
	coords, ok := places[strings.ToLower(strings.TrimSpace(key))]
	return coords, ok
}
