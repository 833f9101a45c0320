package workflow

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeAvailability maps legacy availability values onto the current
// enum: "buy" in any casing becomes "sale", "rent" stays "rent". Unknown
// values fall back to "sale".
func NormalizeAvailability(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "rent":
		return "rent"
	default:
		return "sale"
	}
}

// NormalizeAmenities flattens the two shapes the transport delivers
// amenities in — a repeated "amenities" field and indexed scalar fields
// ("amenities[0]", "amenities[1]", …) — into one de-duplicated list.
// values is the full decoded form; repeated holds any plain repetitions.
func NormalizeAmenities(repeated []string, values map[string][]string) []string {
	out := make([]string, 0, len(repeated))
	seen := make(map[string]bool)

	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		out = append(out, v)
	}

	for _, v := range repeated {
		add(v)
	}

	// Indexed form: collect amenities[i] in index order so caller-supplied
	// ordering survives.
	for i := 0; ; i++ {
		key := fmt.Sprintf("amenities[%d]", i)
		vs, ok := values[key]
		if !ok {
			break
		}
		for _, v := range vs {
			add(v)
		}
	}

	return out
}

// CoerceFloat parses a numeric form field, defaulting to 0 on any parse
// failure. Bad numeric input never rejects a listing.
func CoerceFloat(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// CoerceInt is CoerceFloat for integer fields (beds, baths, sqft).
func CoerceInt(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
