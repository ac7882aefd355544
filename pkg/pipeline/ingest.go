// Package pipeline orchestrates discovery and ingestion: it wires the
// scraper and keyword-extraction ports to the scorers and the store.
// Scoring stays pure; all I/O flows through injected collaborators.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"leadradar/internal/store"
	"leadradar/pkg/lead"
	"leadradar/pkg/scoring"
	"leadradar/pkg/scrape"
)

// Ingestor merges freshly scraped batches with stored state: it scores,
// ranks per source bucket with a fairness cap, and persists only records
// whose external ids are not already stored.
type Ingestor struct {
	store  store.Store
	posts  scrape.PostFetcher
	tweets scrape.TweetFetcher
}

// NewIngestor creates an ingestor. Either fetcher may be nil when that
// source is not configured; the corresponding ingest call then reports
// an upstream failure result.
func NewIngestor(s store.Store, posts scrape.PostFetcher, tweets scrape.TweetFetcher) *Ingestor {
	return &Ingestor{store: s, posts: posts, tweets: tweets}
}

// IngestResult reports one ingestion call.
type IngestResult struct {
	Requested     int          `json:"requested"`
	Scraped       int          `json:"scraped"`
	InsertedCount int          `json:"inserted_count"`
	Posts         []lead.Post  `json:"posts,omitempty"`
	Tweets        []lead.Tweet `json:"tweets,omitempty"`
}

// IngestPosts scrapes the given subreddits, scores every valid post
// against the product's keywords, and persists at most totalRequested
// new posts with a per-subreddit fairness cap of
// ceil(totalRequested/buckets). A scraper failure is recoverable: it
// logs and returns an empty result, leaving stored data unchanged.
func (in *Ingestor) IngestPosts(ctx context.Context, productID string, subreddits []string, totalRequested int) (*IngestResult, error) {
	if totalRequested <= 0 {
		totalRequested = 10
	}
	result := &IngestResult{Requested: totalRequested}

	product, err := in.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if in.posts == nil {
		fmt.Fprintln(os.Stderr, "  ingest: no post scraper configured")
		return result, nil
	}

	raw, err := in.posts.FetchPosts(ctx, subreddits, totalRequested)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ingest: scraper error: %v\n", err)
		return result, nil
	}
	result.Scraped = len(raw)

	// Normalize, dropping invalid records silently, then score. The
	// stored timestamp is injected here so normalization stays pure.
	now := time.Now().UTC()
	var posts []lead.Post
	for _, r := range raw {
		p := lead.NormalizeRedditPost(r, productID, now)
		if p == nil {
			continue
		}
		p.Lead = float64(scoring.PostLead(p.Title, p.Text, product.Keywords))
		posts = append(posts, *p)
	}

	selected := selectPerBucket(posts, totalRequested)

	ids := make([]string, len(selected))
	for i := range selected {
		ids[i] = selected[i].ExternalID
	}
	existing, err := in.store.ExistingPostIDs(ctx, productID, ids)
	if err != nil {
		return nil, err
	}

	var batch []lead.Post
	for i := range selected {
		if existing[selected[i].ExternalID] {
			continue
		}
		selected[i].ID = uuid.NewString()
		batch = append(batch, selected[i])
	}

	// The existence check above is advisory: concurrent ingestions can
	// both pass it for the same external id. The insert's uniqueness
	// constraint is the authoritative dedup boundary.
	inserted, err := in.store.InsertPosts(ctx, batch)
	if err != nil {
		return nil, err
	}

	result.InsertedCount = inserted
	result.Posts = batch
	return result, nil
}

// IngestTweets scrapes tweets for the product's keyword set and persists
// at most totalRequested new ones. Tweets share a single empty source
// bucket, so the fairness cap degenerates to the total.
func (in *Ingestor) IngestTweets(ctx context.Context, productID string, totalRequested int) (*IngestResult, error) {
	if totalRequested <= 0 {
		totalRequested = 10
	}
	result := &IngestResult{Requested: totalRequested}

	product, err := in.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if in.tweets == nil {
		fmt.Fprintln(os.Stderr, "  ingest: no tweet scraper configured")
		return result, nil
	}

	raw, err := in.tweets.FetchTweets(ctx, product.Keywords, totalRequested)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ingest: scraper error: %v\n", err)
		return result, nil
	}
	result.Scraped = len(raw)

	now := time.Now().UTC()
	var tweets []lead.Tweet
	for _, r := range raw {
		t := lead.NormalizeTweet(r, productID, now)
		if t == nil {
			continue
		}
		t.Lead = scoring.TweetLead(t.Text, product.Keywords, t.ReplyCount, t.RetweetCount, t.LikeCount)
		tweets = append(tweets, *t)
	}

	sort.SliceStable(tweets, func(i, j int) bool { return tweets[i].Lead > tweets[j].Lead })
	if len(tweets) > totalRequested {
		tweets = tweets[:totalRequested]
	}

	ids := make([]string, len(tweets))
	for i := range tweets {
		ids[i] = tweets[i].ExternalID
	}
	existing, err := in.store.ExistingTweetIDs(ctx, productID, ids)
	if err != nil {
		return nil, err
	}

	var batch []lead.Tweet
	for i := range tweets {
		if existing[tweets[i].ExternalID] {
			continue
		}
		tweets[i].ID = uuid.NewString()
		batch = append(batch, tweets[i])
	}

	inserted, err := in.store.InsertTweets(ctx, batch)
	if err != nil {
		return nil, err
	}

	result.InsertedCount = inserted
	result.Tweets = batch
	return result, nil
}

// selectPerBucket groups posts by subreddit, ranks each bucket by lead
// score (stable: scrape order breaks ties), takes at most
// ceil(total/buckets) from each, and truncates the concatenation to
// total. A bucket with fewer posts than its cap does not donate its
// unused slots to other buckets; under-filling is accepted behavior.
func selectPerBucket(posts []lead.Post, total int) []lead.Post {
	if len(posts) == 0 {
		return nil
	}

	var order []string
	buckets := make(map[string][]lead.Post)
	for _, p := range posts {
		if _, ok := buckets[p.Subreddit]; !ok {
			order = append(order, p.Subreddit)
		}
		buckets[p.Subreddit] = append(buckets[p.Subreddit], p)
	}

	perBucket := ceilDiv(total, len(order))

	var selected []lead.Post
	for _, name := range order {
		bucket := buckets[name]
		sort.SliceStable(bucket, func(i, j int) bool { return bucket[i].Lead > bucket[j].Lead })
		if len(bucket) > perBucket {
			bucket = bucket[:perBucket]
		}
		selected = append(selected, bucket...)
	}

	if len(selected) > total {
		selected = selected[:total]
	}
	return selected
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
