package reviews

import (
	"sort"
	"strings"
)

var allowedLocations = map[string]struct{}{
	"Albuquerque, New Mexico":    {},
	"Carlsbad, California":       {},
	"Chula Vista, California":    {},
	"Colorado Springs, Colorado": {},
	"Denver, Colorado":           {},
	"El Cajon, California":       {},
	"El Paso, Texas":             {},
	"Escondido, California":      {},
	"Fresno, California":         {},
	"La Mesa, California":        {},
	"Las Vegas, Nevada":          {},
	"Los Angeles, California":    {},
	"Oceanside, California":      {},
	"Phoenix, Arizona":           {},
	"Sacramento, California":     {},
	"Salt Lake City, Utah":       {},
	"San Diego, California":      {},
	"Tucson, Arizona":            {},
}

var sortedLocations = func() []string {
	out := make([]string, 0, len(allowedLocations))
	for loc := range allowedLocations {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}()

// IsAllowedLocation reports whether loc may be used for a new review. The
// comparison is exact.
func IsAllowedLocation(loc string) bool {
	_, ok := allowedLocations[loc]
	return ok
}

// AllowedLocations returns the allow-list in alphabetical order.
func AllowedLocations() []string {
	out := make([]string, len(sortedLocations))
	copy(out, sortedLocations)
	return out
}

// AllowedLocationsText joins the allow-list for error messages.
func AllowedLocationsText() string {
	return strings.Join(sortedLocations, ", ")
}
