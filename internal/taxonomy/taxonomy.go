// Package taxonomy maps free-text expense descriptions onto a fixed set of
// spending categories.
package taxonomy

import "strings"

const Other = "other"

type rule struct {
	category string
	keywords []string
}

// checked in order; the first category with a matching keyword wins
var rules = []rule{
	{"food", []string{"mcdonalds", "restaurant", "pizza", "burger", "coffee", "cafe", "groceries"}},
	{"transport", []string{"uber", "taxi", "bus", "train", "shell", "fuel", "gas"}},
	{"shopping", []string{"amazon", "mall", "shop", "clothes", "shoes", "electronics"}},
	{"entertainment", []string{"netflix", "spotify", "cinema", "theatre", "games"}},
	{"bills", []string{"electricity", "water", "internet", "phone", "rent"}},
}

func Categorize(description string) string {
	d := strings.ToLower(description)
	if d == "" {
		return Other
	}
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(d, kw) {
				return r.category
			}
		}
	}
	return Other
}

// Categories lists every category Categorize can return, in table order.
func Categories() []string {
	out := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.category)
	}
	return append(out, Other)
}

func Known(category string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	for _, k := range Categories() {
		if c == k {
			return true
		}
	}
	return false
}
