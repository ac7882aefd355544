// Package scoring holds the pure scoring functions for community relevance
// and lead value. All functions are deterministic and side-effect free.
package scoring

import (
	"strings"

	"leadradar/pkg/scrape"
)

// Profile is a named set of relevance weights. Two profiles are in active
// use: Heavy for primary subreddit discovery and Light for the
// lower-confidence suggestion path. Historical scores depend on both, so
// neither may be changed or collapsed into the other.
type Profile struct {
	Name string

	Base int

	// Per-keyword bonuses. TitleHit and DescriptionHit apply
	// independently (one keyword can earn both). CombinedHit applies to
	// the concatenated title+description instead.
	TitleHit       int
	DescriptionHit int
	CombinedHit    int

	// Audience-size adjustments.
	LargeBonus   int // members > 1,000,000
	MediumBonus  int // members > 100,000
	SmallPenalty int // members < 10,000

	// One-time penalty when the keyword match percentage falls below
	// LowMatchThreshold. Zero disables the rule.
	LowMatchPenalty   int
	LowMatchThreshold float64
}

// Heavy is the weight profile used by primary subreddit discovery.
var Heavy = Profile{
	Name:              "heavy",
	Base:              70,
	TitleHit:          15,
	DescriptionHit:    10,
	LargeBonus:        10,
	MediumBonus:       5,
	SmallPenalty:      20,
	LowMatchPenalty:   30,
	LowMatchThreshold: 30,
}

// Light is the lower-confidence profile for suggestion relevance.
var Light = Profile{
	Name:         "light",
	Base:         50,
	CombinedHit:  10,
	LargeBonus:   10,
	MediumBonus:  5,
	SmallPenalty: 20,
}

// Relevance scores a candidate community against a keyword set using the
// given profile. The result is always in [0, 100].
func Relevance(c scrape.Community, keywords []string, p Profile) int {
	score := p.Base
	hits := 0

	title := strings.ToLower(c.Title)
	desc := strings.ToLower(c.Description)
	combined := title + " " + desc

	for _, kw := range keywords {
		k := strings.ToLower(kw)
		if p.TitleHit != 0 && strings.Contains(title, k) {
			score += p.TitleHit
			hits++
		}
		if p.DescriptionHit != 0 && strings.Contains(desc, k) {
			score += p.DescriptionHit
			hits++
		}
		if p.CombinedHit != 0 && strings.Contains(combined, k) {
			score += p.CombinedHit
			hits++
		}
	}

	if c.Members > 1_000_000 {
		score += p.LargeBonus
	} else if c.Members > 100_000 {
		score += p.MediumBonus
	}
	if c.Members < 10_000 {
		score -= p.SmallPenalty
	}

	if p.LowMatchPenalty != 0 {
		// Guard the empty keyword set: the percentage is treated as 0,
		// which trips the penalty and keeps the function total.
		pct := 0.0
		if len(keywords) > 0 {
			pct = float64(hits) / float64(len(keywords)) * 100
		}
		if pct < p.LowMatchThreshold {
			score -= p.LowMatchPenalty
		}
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
