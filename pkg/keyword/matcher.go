package keyword

import "strings"

// MatchCount returns the number of keywords contained in text.
// Matching is case-insensitive substring containment, not token match:
// keyword "crm" matches "BestCRM tool".
func MatchCount(text string, keywords []string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			count++
		}
	}
	return count
}

// MatchPercentage returns the fraction of keywords found in text as a
// percentage in [0, 100]. An empty keyword set yields 0.
func MatchPercentage(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	return float64(MatchCount(text, keywords)) / float64(len(keywords)) * 100
}

// Matched returns the keywords contained in text, preserving keyword order.
func Matched(text string, keywords []string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}
