// Package metaextract performs best-effort extraction of a destination and
// a trip length from free-form plan text, used when persisting a finalized
// travel plan. A fixed keyword table is matched case-insensitively in a
// stable order, and a small set of day/night regex patterns is tried in
// order. Labels are continent-granular, but the keyword table carries
// major city names so city-only text still resolves.
package metaextract

import (
	"regexp"
	"strconv"
	"strings"
)

// destinationKeywords maps a destination label to the keywords that imply
// it, checked in map-iteration-independent order via destinationOrder.
var destinationKeywords = map[string][]string{
	"Asia": {
		"asia", "asian", "china", "japan", "korea", "india", "thailand",
		"vietnam", "singapore", "malaysia", "indonesia", "philippines",
		"taiwan", "hong kong", "bangkok", "tokyo", "beijing", "shanghai",
		"seoul", "mumbai", "delhi",
	},
	"Europe": {
		"europe", "european", "france", "germany", "italy", "spain", "uk",
		"united kingdom", "london", "paris", "rome", "berlin", "madrid",
		"amsterdam", "vienna", "prague", "athens",
	},
	"North America": {
		"north america", "usa", "united states", "america", "canada",
		"mexico", "new york", "los angeles", "chicago", "san francisco",
		"toronto", "vancouver", "miami",
	},
	"South America": {
		"south america", "brazil", "argentina", "chile", "peru", "colombia",
		"rio", "buenos aires", "lima", "santiago",
	},
	"Africa": {
		"africa", "african", "south africa", "egypt", "morocco", "kenya",
		"cape town", "cairo", "marrakech",
	},
	"Oceania": {
		"oceania", "australia", "new zealand", "sydney", "melbourne",
		"auckland", "queensland",
	},
}

// destinationOrder fixes the match priority so results are deterministic
// regardless of Go's randomized map iteration.
var destinationOrder = []string{
	"Asia", "Europe", "North America", "South America", "Africa", "Oceania",
}

// dayPatterns is tried in order: first match wins.
var dayPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*-?\s*days?\b`),
	regexp.MustCompile(`for\s*(\d+)\s*days?\b`),
	regexp.MustCompile(`(\d+)\s*nights?\b`),
}

// Extract returns a best-effort destination label and day count found in
// text, either of which may be absent (nil/""). It never errors.
func Extract(text string) (destination string, days *int) {
	lower := strings.ToLower(text)

	for _, label := range destinationOrder {
		for _, kw := range destinationKeywords[label] {
			if strings.Contains(lower, kw) {
				destination = label
				break
			}
		}
		if destination != "" {
			break
		}
	}

	for _, pattern := range dayPatterns {
		m := pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil {
			days = &n
		}
		break
	}

	return destination, days
}
