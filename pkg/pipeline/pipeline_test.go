package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadradar/pkg/lead"
	"leadradar/pkg/scrape"
)

// fakeStore is an in-memory Store for pipeline tests. Inserts enforce
// the same (product, external id) / (product, name) uniqueness the
// sqlite constraints do, with all-or-nothing failure injection.
type fakeStore struct {
	products    map[string]*lead.Product
	suggestions []lead.SubredditSuggestion
	posts       []lead.Post
	tweets      []lead.Tweet
	failInserts bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: make(map[string]*lead.Product)}
}

func (f *fakeStore) SaveProduct(_ context.Context, p *lead.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeStore) GetProduct(_ context.Context, id string) (*lead.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: not found", id)
	}
	return p, nil
}

func (f *fakeStore) ListSuggestions(_ context.Context, productID string) ([]lead.SubredditSuggestion, error) {
	var out []lead.SubredditSuggestion
	for _, sg := range f.suggestions {
		if sg.ProductID == productID {
			out = append(out, sg)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].RelevanceScore > out[j-1].RelevanceScore; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (f *fakeStore) InsertSuggestions(_ context.Context, batch []lead.SubredditSuggestion) (int, error) {
	if f.failInserts {
		return 0, errors.New("injected insert failure")
	}
	inserted := 0
	for _, sg := range batch {
		if f.hasSuggestion(sg.ProductID, sg.Name) {
			continue
		}
		f.suggestions = append(f.suggestions, sg)
		inserted++
	}
	return inserted, nil
}

func (f *fakeStore) hasSuggestion(productID, name string) bool {
	for _, sg := range f.suggestions {
		if sg.ProductID == productID && sg.Name == name {
			return true
		}
	}
	return false
}

func (f *fakeStore) SetSuggestionMonitored(_ context.Context, id string, monitored bool) error {
	for i := range f.suggestions {
		if f.suggestions[i].ID == id {
			f.suggestions[i].IsMonitored = monitored
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) ListMonitoredSubreddits(_ context.Context, productID string) ([]string, error) {
	var names []string
	for _, sg := range f.suggestions {
		if sg.ProductID == productID && sg.IsMonitored {
			names = append(names, sg.Name)
		}
	}
	return names, nil
}

func (f *fakeStore) ExistingPostIDs(_ context.Context, productID string, externalIDs []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	for _, id := range externalIDs {
		for _, p := range f.posts {
			if p.ProductID == productID && p.ExternalID == id {
				existing[id] = true
			}
		}
	}
	return existing, nil
}

func (f *fakeStore) InsertPosts(_ context.Context, batch []lead.Post) (int, error) {
	if f.failInserts {
		return 0, errors.New("injected insert failure")
	}
	inserted := 0
	for _, p := range batch {
		if f.hasPost(p.ProductID, p.ExternalID) {
			continue
		}
		f.posts = append(f.posts, p)
		inserted++
	}
	return inserted, nil
}

func (f *fakeStore) hasPost(productID, externalID string) bool {
	for _, p := range f.posts {
		if p.ProductID == productID && p.ExternalID == externalID {
			return true
		}
	}
	return false
}

func (f *fakeStore) ListPosts(_ context.Context, productID string, _ int) ([]lead.Post, error) {
	var out []lead.Post
	for _, p := range f.posts {
		if p.ProductID == productID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) SetPostEngagement(_ context.Context, id string, status lead.EngagementStatus) error {
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts[i].Engagement = status
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) MarkPostReplied(_ context.Context, id, reply string) error {
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts[i].IsReplied = true
			f.posts[i].LatestReply = &reply
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) ExistingTweetIDs(_ context.Context, productID string, externalIDs []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	for _, id := range externalIDs {
		for _, t := range f.tweets {
			if t.ProductID == productID && t.ExternalID == id {
				existing[id] = true
			}
		}
	}
	return existing, nil
}

func (f *fakeStore) InsertTweets(_ context.Context, batch []lead.Tweet) (int, error) {
	if f.failInserts {
		return 0, errors.New("injected insert failure")
	}
	inserted := 0
	for _, t := range batch {
		exists := false
		for _, have := range f.tweets {
			if have.ProductID == t.ProductID && have.ExternalID == t.ExternalID {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		f.tweets = append(f.tweets, t)
		inserted++
	}
	return inserted, nil
}

func (f *fakeStore) ListTweets(_ context.Context, productID string, _ int) ([]lead.Tweet, error) {
	var out []lead.Tweet
	for _, t := range f.tweets {
		if t.ProductID == productID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkTweetReplied(_ context.Context, id, reply string) error {
	for i := range f.tweets {
		if f.tweets[i].ID == id {
			f.tweets[i].IsReplied = true
			f.tweets[i].LatestReply = &reply
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) Close() error { return nil }

// fakeScraper serves canned records for all three ports.
type fakeScraper struct {
	communities []scrape.Community
	posts       []scrape.RedditPost
	tweets      []scrape.Tweet
	err         error
}

func (f *fakeScraper) FindCommunities(_ context.Context, _ []string, limit int) ([]scrape.Community, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && len(f.communities) > limit {
		return f.communities[:limit], nil
	}
	return f.communities, nil
}

func (f *fakeScraper) FetchPosts(_ context.Context, _ []string, _ int) ([]scrape.RedditPost, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.posts, nil
}

func (f *fakeScraper) FetchTweets(_ context.Context, _ []string, _ int) ([]scrape.Tweet, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tweets, nil
}

// fakeExtractor returns a fixed keyword list.
type fakeExtractor struct {
	keywords []string
	err      error
}

func (f *fakeExtractor) ExtractKeywords(_ context.Context, _ string) ([]string, error) {
	return f.keywords, f.err
}

func testStoredPost(productID, externalID, subreddit string) lead.Post {
	return lead.Post{
		ID:         "id-" + externalID,
		ProductID:  productID,
		ExternalID: externalID,
		Title:      "title " + externalID,
		Subreddit:  subreddit,
		Engagement: lead.EngagementUnseen,
		CreatedAt:  time.Now().UTC(),
	}
}

// makeScoredPosts builds n posts in one bucket with leads n*25, (n-1)*25, ...
func makeScoredPosts(subreddit string, n int) []lead.Post {
	posts := make([]lead.Post, n)
	for i := range posts {
		posts[i] = lead.Post{
			ExternalID: fmt.Sprintf("%s%d", subreddit, i),
			ProductID:  "prod-1",
			Subreddit:  subreddit,
			Lead:       float64((n - i) * 25),
		}
	}
	return posts
}

func productFixture(s *fakeStore) {
	s.products["prod-1"] = &lead.Product{
		ID:          "prod-1",
		Name:        "BestCRM",
		Description: "a crm for small sales teams",
		Keywords:    []string{"crm", "sales"},
		CreatedAt:   time.Now().UTC(),
	}
}
