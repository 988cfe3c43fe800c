package location

// Neighborhood groups the named areas and talking highlights of one postal code.
type Neighborhood struct {
	ZipCode    string   `json:"zipCode"`
	Names      []string `json:"neighborhoods"`
	Highlights []string `json:"highlights"`
}

// Seed provides the Baltimore postal-code table the greeting prompt draws on.
func Seed() []Neighborhood {
	return []Neighborhood{
		{
			ZipCode:    "21201",
			Names:      []string{"Downtown", "Mount Vernon", "Seton Hill"},
			Highlights: []string{"historic", "cultural landmarks", "arts", "education", "diverse community"},
		},
		{
			ZipCode:    "21202",
			Names:      []string{"Inner Harbor", "Little Italy", "Jonestown"},
			Highlights: []string{"waterfront", "tourism", "dining", "nightlife", "Italian-American community"},
		},
		{
			ZipCode:    "21205",
			Names:      []string{"Middle East", "Milton-Montford", "Madison-Eastend"},
			Highlights: []string{"Johns Hopkins", "medical", "revitalization", "development", "African-American community"},
		},
		{
			ZipCode:    "21206",
			Names:      []string{"Frankford", "Waltherson", "Cedonia"},
			Highlights: []string{"residential", "parks", "community", "diverse housing", "African-American community"},
		},
		{
			ZipCode:    "21209",
			Names:      []string{"Mount Washington", "Cheswolde", "Cross Keys"},
			Highlights: []string{"suburban", "shopping", "recreation", "Jones Falls Trail", "Jewish community"},
		},
		{
			ZipCode:    "21210",
			Names:      []string{"Roland Park", "Wyndhurst", "Tuscany-Canterbury"},
			Highlights: []string{"historic homes", "tree-lined", "Johns Hopkins", "university proximity", "affluent community"},
		},
		{
			ZipCode:    "21211",
			Names:      []string{"Hampden", "Medfield", "Remington"},
			Highlights: []string{"arts", "shops", "festivals", "HonFest", "creative community"},
		},
		{
			ZipCode:    "21212",
			Names:      []string{"Homeland", "Govans", "Mid-Govans"},
			Highlights: []string{"historic homes", "education", "shopping", "residential mix", "diverse community"},
		},
		{
			ZipCode:    "21213",
			Names:      []string{"Belair-Edison", "Clifton Park", "Broadway East"},
			Highlights: []string{"parks", "residential", "African-American community", "revitalization"},
		},
		{
			ZipCode:    "21214",
			Names:      []string{"Hamilton", "Lauraville"},
			Highlights: []string{"arts", "residential", "gardening", "family-friendly", "diverse community"},
		},
		{
			ZipCode:    "21215",
			Names:      []string{"Park Heights", "Pimlico", "Arlington"},
			Highlights: []string{"Pimlico Race Course", "African-American community", "revitalization", "residential"},
		},
		{
			ZipCode:    "21216",
			Names:      []string{"Walbrook", "Forest Park", "Hanlon-Longwood"},
			Highlights: []string{"historic", "residential", "African-American community", "parks"},
		},
		{
			ZipCode:    "21217",
			Names:      []string{"Druid Hill Park", "Reservoir Hill", "Bolton Hill"},
			Highlights: []string{"parks", "historic homes", "arts", "diverse community"},
		},
		{
			ZipCode:    "21218",
			Names:      []string{"Waverly", "Charles Village", "Barclay"},
			Highlights: []string{"Johns Hopkins University", "education", "arts", "diverse community"},
		},
		{
			ZipCode:    "21223",
			Names:      []string{"Poppleton", "Union Square", "Hollins Market"},
			Highlights: []string{"historic", "African-American community", "revitalization", "residential"},
		},
		{
			ZipCode:    "21224",
			Names:      []string{"Highlandtown", "Canton", "Brewers Hill"},
			Highlights: []string{"arts", "dining", "Polish-American community", "revitalization"},
		},
		{
			ZipCode:    "21225",
			Names:      []string{"Brooklyn", "Cherry Hill", "Curtis Bay"},
			Highlights: []string{"industrial", "African-American community", "residential", "revitalization"},
		},
		{
			ZipCode:    "21226",
			Names:      []string{"Curtis Bay", "Hawkins Point"},
			Highlights: []string{"industrial", "port", "residential", "revitalization"},
		},
		{
			ZipCode:    "21229",
			Names:      []string{"Irvington", "Beechfield", "Saint Josephs"},
			Highlights: []string{"residential", "parks", "diverse community", "revitalization"},
		},
		{
			ZipCode:    "21230",
			Names:      []string{"Federal Hill", "Locust Point", "Riverside"},
			Highlights: []string{"waterfront", "historic", "young professionals", "dining", "Irish-American community"},
		},
		{
			ZipCode:    "21231",
			Names:      []string{"Fells Point", "Upper Fells Point", "Butchers Hill"},
			Highlights: []string{"historic", "waterfront", "dining", "arts", "diverse community"},
		},
		{
			ZipCode:    "21239",
			Names:      []string{"Loch Raven", "Northwood", "Perring Loch"},
			Highlights: []string{"residential", "education", "parks", "African-American community"},
		},
		{
			ZipCode:    "21251",
			Names:      []string{"Morgan State University"},
			Highlights: []string{"education", "African-American community", "university"},
		},
		{
			ZipCode:    "21287",
			Names:      []string{"Johns Hopkins Hospital"},
			Highlights: []string{"medical", "education", "research", "diverse community"},
		},
	}
}
