package lead

import (
	"strings"
	"time"

	"leadradar/pkg/scrape"
)

// redditPostPrefix is the platform's fullname prefix for link posts.
const redditPostPrefix = "t3_"

// CleanSubreddit lowercases a subreddit name and strips a leading "r/".
func CleanSubreddit(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "r/")
	name = strings.TrimPrefix(name, "R/")
	return strings.ToLower(name)
}

// DisplaySubreddit returns the display form of a stored subreddit name.
func DisplaySubreddit(name string) string {
	return "r/" + CleanSubreddit(name)
}

// NormalizeRedditPost maps a raw scraped post into the canonical Post
// shape. It returns nil for records that fail the validity filter: the id
// must carry the t3_ prefix and both title and subreddit must be present.
// Invalid records are dropped, never surfaced as errors.
//
// now is injected by the caller so that normalizing the same record twice
// yields identical output.
func NormalizeRedditPost(raw scrape.RedditPost, productID string, now time.Time) *Post {
	if !strings.HasPrefix(raw.ID, redditPostPrefix) {
		return nil
	}
	if strings.TrimSpace(raw.Title) == "" || strings.TrimSpace(raw.Subreddit) == "" {
		return nil
	}

	return &Post{
		ProductID:  productID,
		ExternalID: strings.TrimPrefix(raw.ID, redditPostPrefix),
		Title:      strings.TrimSpace(raw.Title),
		Text:       strings.TrimSpace(raw.Body),
		URL:        raw.URL,
		Author:     raw.Author,
		Subreddit:  CleanSubreddit(raw.Subreddit),
		Engagement: EngagementUnseen,
		PostedAt:   raw.CreatedAt,
		CreatedAt:  now,
	}
}

// NormalizeTweet maps a raw scraped tweet into the canonical Tweet shape.
// It returns nil when the id is missing or no text survives the
// text/fullText fallback. Tweets have no title and an empty source bucket.
func NormalizeTweet(raw scrape.Tweet, productID string, now time.Time) *Tweet {
	text := raw.Text
	if strings.TrimSpace(text) == "" {
		text = raw.FullText
	}
	text = strings.TrimSpace(text)

	if raw.ID == "" || text == "" {
		return nil
	}

	return &Tweet{
		ProductID:      productID,
		ExternalID:     raw.ID,
		Text:           text,
		URL:            raw.URL,
		Author:         raw.Author.Name,
		AuthorUsername: raw.Author.UserName,
		ReplyCount:     raw.ReplyCount,
		RetweetCount:   raw.RetweetCount,
		LikeCount:      raw.LikeCount,
		Engagement:     EngagementUnseen,
		PostedAt:       raw.CreatedAt,
		CreatedAt:      now,
	}
}
