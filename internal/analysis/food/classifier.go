package food

import "strings"

// Keywords is the fixed set of food, cuisine and dish terms the classifier knows.
// Multi-word entries only ever match as substrings, never as single tokens.
var Keywords = []string{
	"pizza", "burger", "pasta", "sushi", "tacos", "chicken", "beef", "fish", "salad",
	"sandwich", "soup", "steak", "rice", "noodles", "curry", "lasagna", "spaghetti",
	"ramen", "burrito", "quesadilla", "hot dog", "hamburger", "fries", "wings",
	"seafood", "lobster", "crab", "shrimp", "salmon", "tuna", "turkey", "ham",
	"bacon", "sausage", "meatballs", "ribs", "barbecue", "bbq", "grilled",
	"fried", "baked", "roasted", "stir fry", "teriyaki", "korean", "chinese",
	"italian", "mexican", "indian", "thai", "japanese", "american", "french",
	"dessert", "cake", "pie", "ice cream", "cookies", "brownies", "cheesecake",
	"fruit", "apple", "banana", "orange", "strawberry", "blueberry", "grape",
	"vegetable", "carrot", "broccoli", "spinach", "lettuce", "tomato", "onion",
	"potato", "sweet potato", "corn", "peas", "beans", "lentils", "chickpeas",
}

var keywordSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Keywords))
	for _, k := range Keywords {
		set[k] = struct{}{}
	}
	return set
}()

// Detection is the outcome of scanning one user message.
type Detection struct {
	IsFood bool
	Item   string
}

// Analyze classifies text and, when it mentions food, extracts the item.
func Analyze(text string) Detection {
	if !Mentions(text) {
		return Detection{}
	}
	return Detection{IsFood: true, Item: Extract(text)}
}

// Mentions reports whether any keyword occurs in text, case-insensitively.
func Mentions(text string) bool {
	normalized := strings.ToLower(text)
	for _, k := range Keywords {
		if strings.Contains(normalized, k) {
			return true
		}
	}
	return false
}

// Extract returns the first whitespace-separated token that is itself a
// keyword, capitalized. When no single token matches it falls back to the
// first two tokens, capitalized; that fallback is a heuristic and can
// capture non-food words.
func Extract(text string) string {
	words := strings.Fields(strings.ToLower(text))
	for _, w := range words {
		if _, ok := keywordSet[w]; ok {
			return capitalize(w)
		}
	}
	if len(words) > 2 {
		words = words[:2]
	}
	return capitalize(strings.Join(words, " "))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
