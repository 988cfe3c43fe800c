package weather

import (
	"math/rand"
	"strings"
)

// Category buckets live weather into one of three talking-point pools.
type Category string

const (
	Hot    Category = "hot"
	Rain   Category = "rain"
	Normal Category = "normal"
)

// HotThresholdF is the temperature above which clear weather counts as hot.
const HotThresholdF = 80

// Categorize classifies a condition description and a temperature in °F.
// Rain terms take precedence over heat.
func Categorize(condition string, tempF float64) Category {
	c := strings.ToLower(condition)

	if strings.Contains(c, "rain") || strings.Contains(c, "drizzle") || strings.Contains(c, "shower") {
		return Rain
	}
	if strings.Contains(c, "hot") || tempF > HotThresholdF {
		return Hot
	}
	return Normal
}

var talkingPoints = map[Category][]string{
	Hot: {
		"Hot weather ahead? ICF's climate resilience solutions can help communities prepare.",
		"Rising temperatures call for smart infrastructure. Let's build a resilient future together.",
		"Heat waves are intensifying. ICF helps organizations adapt with data-driven solutions.",
		"When temperatures soar, ICF's environmental consulting keeps communities cool and prepared.",
		"Hot weather patterns changing? ICF's climate analytics help predict and prepare.",
		"Summer heat waves require smart planning. ICF delivers innovative climate solutions.",
		"Rising temps, rising challenges. ICF's expertise helps organizations stay ahead.",
		"Heat waves demand resilient infrastructure. ICF builds tomorrow's smart systems today.",
		"Hot weather data tells a story. ICF turns insights into action.",
		"When the mercury rises, ICF's environmental solutions keep communities thriving.",
		"Hot days ahead? ICF's climate resilience strategies prepare you for anything.",
		"Temperature trends changing fast. ICF helps organizations adapt with confidence.",
	},
	Rain: {
		"Rain or shine, ICF's technology solutions keep operations running smoothly.",
		"Stormy weather ahead? ICF's disaster management expertise helps communities prepare.",
		"Rain can't stop progress. ICF's digital solutions work in any weather.",
		"Wet weather patterns changing? ICF's climate analytics provide clear insights.",
		"Rain, data, and innovation. ICF transforms weather challenges into opportunities.",
		"Storm clouds gathering? ICF's resilience planning keeps organizations prepared.",
		"Rain or drought, ICF's environmental consulting delivers sustainable solutions.",
	},
	Normal: {
		"Perfect weather for innovation. ICF's technology solutions work year-round.",
		"Clear skies, clear vision. ICF helps organizations see the future of digital transformation.",
		"Beautiful day for progress. ICF's consulting expertise accelerates your success.",
		"Great weather for growth. ICF's strategic solutions help organizations thrive.",
		"Ideal conditions for advancement. ICF's data analytics unlock new possibilities.",
		"Perfect day for transformation. ICF delivers the future of technology today.",
	},
}

// TalkingPoints returns a copy of the pool for a category.
func TalkingPoints(c Category) []string {
	return append([]string(nil), talkingPoints[c]...)
}

// PickTalkingPoint selects one talking point uniformly at random, or "" for an empty pool.
func PickTalkingPoint(rng *rand.Rand, c Category) string {
	pool := talkingPoints[c]
	if len(pool) == 0 {
		return ""
	}
	return pool[rng.Intn(len(pool))]
}
