package scrape

import (
	"context"
	"strings"
	"time"
)

// RecordKind identifies what a raw scraped record describes.
type RecordKind string

const (
	KindCommunity RecordKind = "community"
	KindPost      RecordKind = "post"
)

// Community is a raw subreddit record returned by the scraper service.
// It has not been validated or persisted.
type Community struct {
	ID          string
	Name        string
	Title       string
	Description string
	Members     int
	URL         string
	Over18      bool
	Kind        RecordKind
}

// Eligible reports whether the community can become a suggestion:
// it must actually be a community record, have at least 1000 members,
// not be adult content, and carry a description.
func (c Community) Eligible() bool {
	return c.Kind == KindCommunity &&
		c.Members >= 1000 &&
		!c.Over18 &&
		strings.TrimSpace(c.Description) != ""
}

// RedditPost is a raw post record as returned by the scraper service.
// IDs carry the platform's post-type prefix (t3_).
type RedditPost struct {
	ID        string
	Title     string
	Body      string
	Subreddit string
	URL       string
	Author    string
	CreatedAt time.Time
}

// TweetAuthor is the author block of a raw tweet record.
type TweetAuthor struct {
	UserName string `json:"userName"`
	Name     string `json:"name"`
}

// Tweet is a raw tweet record as returned by the scraper service.
type Tweet struct {
	ID           string
	Text         string
	FullText     string
	URL          string
	Author       TweetAuthor
	CreatedAt    time.Time
	ReplyCount   int
	RetweetCount int
	LikeCount    int
}

// CommunityFinder searches for communities matching a keyword set.
type CommunityFinder interface {
	FindCommunities(ctx context.Context, keywords []string, limit int) ([]Community, error)
}

// PostFetcher pulls recent posts from a set of subreddits.
type PostFetcher interface {
	FetchPosts(ctx context.Context, subreddits []string, limit int) ([]RedditPost, error)
}

// TweetFetcher pulls recent tweets matching a keyword set.
type TweetFetcher interface {
	FetchTweets(ctx context.Context, keywords []string, limit int) ([]Tweet, error)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
