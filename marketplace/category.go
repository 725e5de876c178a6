package marketplace

import (
	"strings"

	"kisan_bazaar/models"
)

// InferCategory guesses a category from the crop name: the first category, in table
// order, whose label's first word appears anywhere in the lower-cased crop name.
// The "all" row takes part like any other, so a crop such as "Small cardamom" lands in
// "all". Unmatched crops fall back to "grains" with an unknown icon. This is a heuristic
// and misclassifies most plain crop names ("Wheat", "Basmati Rice"); callers should
// treat the result as a hint.
func InferCategory(crop string, table []models.Category) (value, icon string) {
	name := strings.ToLower(crop)
	for _, c := range table {
		word := firstWord(c.Label)
		if word != "" && strings.Contains(name, word) {
			return c.Value, c.Icon
		}
	}
	return models.DefaultCategory, models.UnknownCropIcon
}

func firstWord(label string) string {
	fields := strings.Fields(strings.ToLower(label))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
