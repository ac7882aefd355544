package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadradar/internal/store"
	"leadradar/pkg/extract"
	"leadradar/pkg/keyword"
	"leadradar/pkg/lead"
	"leadradar/pkg/scoring"
	"leadradar/pkg/scrape"
)

const (
	defaultTopSuggestions = 20
	defaultMaxCandidates  = 100
)

// Discovery finds new subreddit suggestions for a product: it extracts
// search keywords from the product description, fetches candidate
// communities, scores them with the heavy relevance profile, and keeps
// the top ones not already suggested.
type Discovery struct {
	store     store.Store
	finder    scrape.CommunityFinder
	extractor extract.Extractor

	// TopN and MaxCandidates default to 20 and 100 when zero.
	TopN          int
	MaxCandidates int
}

// NewDiscovery creates a discovery pipeline with default limits.
func NewDiscovery(s store.Store, finder scrape.CommunityFinder, extractor extract.Extractor) *Discovery {
	return &Discovery{
		store:         s,
		finder:        finder,
		extractor:     extractor,
		TopN:          defaultTopSuggestions,
		MaxCandidates: defaultMaxCandidates,
	}
}

// DiscoverResult reports one discovery run. Suggestions always holds the
// product's full suggestion list (existing plus new), sorted descending
// by relevance score.
type DiscoverResult struct {
	Keywords      []string                   `json:"keywords,omitempty"`
	InsertedCount int                        `json:"inserted_count"`
	Suggestions   []lead.SubredditSuggestion `json:"suggestions"`
}

// Discover runs end-to-end discovery. Upstream failures (extractor or
// scraper errors, empty results) are recoverable: the existing
// suggestion list comes back unchanged with zero insertions. Only
// store failures propagate as errors.
func (d *Discovery) Discover(ctx context.Context, productID string) (*DiscoverResult, error) {
	product, err := d.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	keywords, err := d.extractor.ExtractKeywords(ctx, product.Description)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  discover: keyword extraction error: %v\n", err)
		return d.existingOnly(ctx, productID, nil)
	}
	if len(keywords) == 0 {
		fmt.Fprintln(os.Stderr, "  discover: no keywords extracted")
		return d.existingOnly(ctx, productID, nil)
	}

	maxCandidates := d.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}
	candidates, err := d.finder.FindCommunities(ctx, keywords, maxCandidates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  discover: scraper error: %v\n", err)
		return d.existingOnly(ctx, productID, keywords)
	}
	if len(candidates) == 0 {
		return d.existingOnly(ctx, productID, keywords)
	}

	existing, err := d.store.ListSuggestions(ctx, productID)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(existing))
	for _, sg := range existing {
		known[sg.Name] = true
	}

	now := time.Now().UTC()
	var scored []lead.SubredditSuggestion
	for _, c := range candidates {
		if !c.Eligible() {
			continue
		}
		name := lead.CleanSubreddit(c.Name)
		if name == "" || known[name] {
			continue
		}
		known[name] = true // dedupe within the batch too

		scored = append(scored, lead.SubredditSuggestion{
			ID:             uuid.NewString(),
			ProductID:      productID,
			Name:           name,
			Title:          c.Title,
			Description:    c.Description,
			MemberCount:    c.Members,
			URL:            c.URL,
			RelevanceScore: scoring.Relevance(c, keywords, scoring.Heavy),
			MatchReason:    matchReason(c, keywords),
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})
	topN := d.TopN
	if topN <= 0 {
		topN = defaultTopSuggestions
	}
	if len(scored) > topN {
		scored = scored[:topN]
	}

	inserted, err := d.store.InsertSuggestions(ctx, scored)
	if err != nil {
		return nil, err
	}

	all, err := d.store.ListSuggestions(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &DiscoverResult{
		Keywords:      keywords,
		InsertedCount: inserted,
		Suggestions:   all,
	}, nil
}

func (d *Discovery) existingOnly(ctx context.Context, productID string, keywords []string) (*DiscoverResult, error) {
	all, err := d.store.ListSuggestions(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &DiscoverResult{Keywords: keywords, Suggestions: all}, nil
}

// matchReason derives the human-readable explanation stored with a
// suggestion.
func matchReason(c scrape.Community, keywords []string) string {
	matched := keyword.Matched(c.Title+" "+c.Description, keywords)
	if len(matched) == 0 {
		return "Large active community in an adjacent space"
	}
	return "Matches keywords: " + strings.Join(matched, ", ")
}
