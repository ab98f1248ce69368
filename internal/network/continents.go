package network

// continentByCountry is the fixed lookup used by the road feasibility
// predicate. Country names follow what the geocoding service returns, so
// both short forms and full English names appear.
var continentByCountry = map[string]string{
	"India":                "Asia",
	"UAE":                  "Asia",
	"United Arab Emirates": "Asia",
	"China":                "Asia",
	"Singapore":            "Asia",
	"Hong Kong":            "Asia",
	"Japan":                "Asia",
	"South Korea":          "Asia",
	"USA":                  "North America",
	"United States":        "North America",
	"Canada":               "North America",
	"Mexico":               "North America",
	"Netherlands":          "Europe",
	"UK":                   "Europe",
	"United Kingdom":       "Europe",
	"Germany":              "Europe",
	"France":               "Europe",
	"Spain":                "Europe",
	"Belgium":              "Europe",
}

// SameContinent reports whether two countries sit on the same known
// continent. Unknown countries never match.
func SameContinent(country1, country2 string) bool {
	c1, ok1 := continentByCountry[country1]
	c2, ok2 := continentByCountry[country2]
	return ok1 && ok2 && c1 == c2
}

// FeasibleRoad is the predicate that admits a road edge: the endpoints
// must share a country or a continent, and the driving distance must not
// exceed the cap.
func FeasibleRoad(srcCountry, dstCountry string, distanceKm, maxKm float64) bool {
	if srcCountry != dstCountry && !SameContinent(srcCountry, dstCountry) {
		return false
	}
	return distanceKm <= maxKm
}
