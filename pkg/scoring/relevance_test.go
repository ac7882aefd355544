package scoring

import (
	"testing"

	"leadradar/pkg/scrape"
)

func TestRelevanceHeavy(t *testing.T) {
	crm := scrape.Community{
		Title:       "BestCRM tool",
		Description: "great for sales teams",
		Members:     150_000,
	}

	// 70 base + 15 (crm in title) + 10 (sales in description) + 5 (100k-1M tier).
	if got := Relevance(crm, []string{"crm", "sales"}, Heavy); got != 100 {
		t.Errorf("heavy score = %d, want 100", got)
	}

	// Same candidate with a tiny audience: -20, match percentage unaffected.
	small := crm
	small.Members = 500
	if got := Relevance(small, []string{"crm", "sales"}, Heavy); got != 80 {
		t.Errorf("heavy score with 500 members = %d, want 80", got)
	}
}

func TestRelevanceHeavyEmptyKeywords(t *testing.T) {
	c := scrape.Community{Title: "anything", Description: "at all", Members: 50_000}
	// 70 base - 30 low-match penalty; no member adjustment at 50k.
	if got := Relevance(c, nil, Heavy); got != 40 {
		t.Errorf("empty keyword score = %d, want 40", got)
	}
}

func TestRelevanceHeavyKeywordEarnsBothBonuses(t *testing.T) {
	c := scrape.Community{
		Title:       "crm talk",
		Description: "all about crm",
		Members:     50_000,
	}
	// 70 + 15 + 10, match percentage 200% so no penalty.
	if got := Relevance(c, []string{"crm"}, Heavy); got != 95 {
		t.Errorf("score = %d, want 95", got)
	}
}

func TestRelevanceHeavyLowMatchPenalty(t *testing.T) {
	c := scrape.Community{
		Title:       "gardening",
		Description: "plants and crm",
		Members:     200_000,
	}
	// 70 + 10 (crm in description) + 5 (tier); hits=1 of 4 keywords = 25% < 30 -> -30.
	kws := []string{"crm", "sales", "billing", "invoicing"}
	if got := Relevance(c, kws, Heavy); got != 55 {
		t.Errorf("score = %d, want 55", got)
	}
}

func TestRelevanceClamp(t *testing.T) {
	huge := scrape.Community{
		Title:       "crm sales billing invoicing",
		Description: "crm sales billing invoicing",
		Members:     2_000_000,
	}
	kws := []string{"crm", "sales", "billing", "invoicing"}
	if got := Relevance(huge, kws, Heavy); got != 100 {
		t.Errorf("score above cap must clamp to 100, got %d", got)
	}

	empty := scrape.Community{Members: 12}
	if got := Relevance(empty, kws, Heavy); got < 0 || got > 100 {
		t.Errorf("score out of [0,100]: %d", got)
	}
}

func TestRelevanceLight(t *testing.T) {
	c := scrape.Community{
		Title:       "BestCRM tool",
		Description: "great for sales teams",
		Members:     150_000,
	}
	// 50 base + 10 (crm) + 10 (sales) + 5 (tier); no low-match rule.
	if got := Relevance(c, []string{"crm", "sales"}, Light); got != 75 {
		t.Errorf("light score = %d, want 75", got)
	}

	// Light profile has no low-match penalty: empty keywords keep the base.
	if got := Relevance(c, nil, Light); got != 55 {
		t.Errorf("light score with no keywords = %d, want 55", got)
	}

	tiny := c
	tiny.Members = 900
	if got := Relevance(tiny, []string{"crm", "sales"}, Light); got != 50 {
		t.Errorf("light score with 900 members = %d, want 50", got)
	}
}

func TestRelevanceMemberTiers(t *testing.T) {
	base := scrape.Community{Title: "crm", Description: "crm", Members: 0}
	kws := []string{"crm"}

	tiers := []struct {
		members int
		want    int
	}{
		{2_000_000, 100}, // 70+15+10+10, clamped from 105
		{1_000_000, 100}, // boundary: not > 1M, medium tier applies
		{150_000, 100},   // 70+15+10+5
		{50_000, 95},     // no tier adjustment
		{9_999, 75},      // -20
		{0, 75},
	}
	for _, tt := range tiers {
		c := base
		c.Members = tt.members
		if got := Relevance(c, kws, Heavy); got != tt.want {
			t.Errorf("members=%d: score = %d, want %d", tt.members, got, tt.want)
		}
	}
}
