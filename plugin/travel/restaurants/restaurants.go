// Package restaurants provides placeholder restaurant suggestions used when
// no places provider is configured.
package restaurants

import (
	"fmt"
	"strings"
)

var byCuisine = map[string][]string{
	"italian": {"Italian Bistro", "Trattoria Roma", "Pasta House"},
	"sushi":   {"Sushi Zen", "Ocean Sashimi", "Nigiri Bar"},
	"mexican": {"Casa Mexicana", "El Camino Grill", "Taqueria Viva"},
	"thai":    {"Thai Orchid", "Bangkok Spice", "Curry Leaf"},
	"indian":  {"Spice Route", "Curry Palace", "Tandoori Oven"},
}

var generic = []string{"Local Eatery", "Central Diner", "City Grill"}

// Suggest returns mock restaurant names for a cuisine. The returned slice is a copy.
func Suggest(cuisine string) []string {
	cuisine = strings.TrimSpace(cuisine)
	if cuisine == "" {
		return append([]string(nil), generic...)
	}
	if names, ok := byCuisine[strings.ToLower(cuisine)]; ok {
		return append([]string(nil), names...)
	}
	return []string{
		fmt.Sprintf("%s Place 1", cuisine),
		fmt.Sprintf("%s Place 2", cuisine),
	}
}
