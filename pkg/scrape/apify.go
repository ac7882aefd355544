package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultApifyBaseURL   = "https://api.apify.com"
	defaultCommunityActor = "trudax~reddit-scraper-lite"
	defaultPostActor      = "trudax~reddit-scraper-lite"
	defaultTweetActor     = "apidojo~tweet-scraper"
)

// Apify talks to the hosted scraper service using synchronous actor runs.
// It implements CommunityFinder, PostFetcher and TweetFetcher. Calls are
// single-attempt; retries belong to the caller.
type Apify struct {
	client  *http.Client
	token   string
	baseURL string

	communityActor string
	postActor      string
	tweetActor     string
}

// NewApify creates a scraper client. A missing token is a configuration
// error and fails immediately rather than on first use. Empty baseURL and
// actor ids fall back to defaults.
func NewApify(token, baseURL, communityActor, postActor, tweetActor string) (*Apify, error) {
	if token == "" {
		return nil, errors.New("apify: missing API token")
	}
	if baseURL == "" {
		baseURL = defaultApifyBaseURL
	}
	if communityActor == "" {
		communityActor = defaultCommunityActor
	}
	if postActor == "" {
		postActor = defaultPostActor
	}
	if tweetActor == "" {
		tweetActor = defaultTweetActor
	}
	return &Apify{
		client:         &http.Client{Timeout: 90 * time.Second},
		token:          token,
		baseURL:        baseURL,
		communityActor: communityActor,
		postActor:      postActor,
		tweetActor:     tweetActor,
	}, nil
}

type apifyCommunity struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	NumberOfMembers int    `json:"numberOfMembers"`
	URL             string `json:"url"`
	Over18          bool   `json:"over18"`
	DataType        string `json:"dataType"`
}

type apifyPost struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	CommunityName string `json:"communityName"`
	URL           string `json:"url"`
	Username      string `json:"username"`
	CreatedAt     string `json:"createdAt"`
}

type apifyTweet struct {
	ID           string      `json:"id"`
	Text         string      `json:"text"`
	FullText     string      `json:"fullText"`
	URL          string      `json:"url"`
	Author       TweetAuthor `json:"author"`
	CreatedAt    string      `json:"createdAt"`
	ReplyCount   int         `json:"replyCount"`
	RetweetCount int         `json:"retweetCount"`
	LikeCount    int         `json:"likeCount"`
}

// FindCommunities runs a community search for the keyword set. Records of
// other kinds may come back from the actor; callers filter eligibility.
func (a *Apify) FindCommunities(ctx context.Context, keywords []string, limit int) ([]Community, error) {
	input := map[string]any{
		"searches":          keywords,
		"searchCommunities": true,
		"searchPosts":       false,
		"maxItems":          limit,
	}

	var raw []apifyCommunity
	if err := a.runSync(ctx, a.communityActor, input, &raw); err != nil {
		return nil, fmt.Errorf("find communities: %w", err)
	}

	communities := make([]Community, 0, len(raw))
	for _, r := range raw {
		communities = append(communities, Community{
			ID:          r.ID,
			Name:        r.Name,
			Title:       r.Title,
			Description: r.Description,
			Members:     r.NumberOfMembers,
			URL:         r.URL,
			Over18:      r.Over18,
			Kind:        RecordKind(r.DataType),
		})
	}
	return communities, nil
}

// FetchPosts pulls recent posts from the given subreddits.
func (a *Apify) FetchPosts(ctx context.Context, subreddits []string, limit int) ([]RedditPost, error) {
	startURLs := make([]map[string]string, 0, len(subreddits))
	for _, sub := range subreddits {
		startURLs = append(startURLs, map[string]string{
			"url": fmt.Sprintf("https://www.reddit.com/r/%s/new/", sub),
		})
	}

	input := map[string]any{
		"startUrls":         startURLs,
		"searchPosts":       true,
		"searchCommunities": false,
		"maxItems":          limit,
	}

	var raw []apifyPost
	if err := a.runSync(ctx, a.postActor, input, &raw); err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}

	posts := make([]RedditPost, 0, len(raw))
	for _, r := range raw {
		posts = append(posts, RedditPost{
			ID:        r.ID,
			Title:     r.Title,
			Body:      r.Body,
			Subreddit: r.CommunityName,
			URL:       r.URL,
			Author:    r.Username,
			CreatedAt: parseScrapeTime(r.CreatedAt),
		})
	}
	return posts, nil
}

// FetchTweets searches recent tweets for the keyword set.
func (a *Apify) FetchTweets(ctx context.Context, keywords []string, limit int) ([]Tweet, error) {
	input := map[string]any{
		"searchTerms": keywords,
		"sort":        "Latest",
		"maxItems":    limit,
	}

	var raw []apifyTweet
	if err := a.runSync(ctx, a.tweetActor, input, &raw); err != nil {
		return nil, fmt.Errorf("fetch tweets: %w", err)
	}

	tweets := make([]Tweet, 0, len(raw))
	for _, r := range raw {
		tweets = append(tweets, Tweet{
			ID:           r.ID,
			Text:         r.Text,
			FullText:     r.FullText,
			URL:          r.URL,
			Author:       r.Author,
			CreatedAt:    parseScrapeTime(r.CreatedAt),
			ReplyCount:   r.ReplyCount,
			RetweetCount: r.RetweetCount,
			LikeCount:    r.LikeCount,
		})
	}
	return tweets, nil
}

// runSync starts an actor run and waits for its dataset items.
func (a *Apify) runSync(ctx context.Context, actor string, input any, out any) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("marshal actor input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		a.baseURL, url.PathEscape(actor), url.QueryEscape(a.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create actor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "leadradar/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("run actor %s: %w", actor, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("actor %s status %d", actor, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode actor %s items: %w", actor, err)
	}
	return nil
}

// parseScrapeTime handles the timestamp formats scraper actors emit.
// Unparseable values map to the zero time rather than an error.
func parseScrapeTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.RubyDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
