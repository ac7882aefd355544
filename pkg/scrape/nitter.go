package scrape

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Nitter pulls tweets from Nitter RSS account timelines. It is the
// fallback TweetFetcher for deployments without a hosted scraper token.
// RSS carries no engagement counters, so those stay zero and tweet lead
// scores come from keyword coverage alone.
type Nitter struct {
	client    *http.Client
	parser    *gofeed.Parser
	nitterURL string
	accounts  []string
}

// NewNitter creates a Nitter-backed tweet fetcher.
func NewNitter(nitterURL string, accounts []string) *Nitter {
	if nitterURL == "" {
		nitterURL = "https://nitter.net"
	}
	return &Nitter{
		client:    &http.Client{Timeout: 30 * time.Second},
		parser:    gofeed.NewParser(),
		nitterURL: strings.TrimRight(nitterURL, "/"),
		accounts:  accounts,
	}
}

// FetchTweets collects recent tweets across the configured accounts.
// The keyword set is not used for fetching; relevance ranking happens
// downstream in lead scoring. Per-account failures are logged and
// skipped so one dead timeline does not sink the batch.
func (n *Nitter) FetchTweets(ctx context.Context, keywords []string, limit int) ([]Tweet, error) {
	var all []Tweet
	for _, account := range n.accounts {
		tweets, err := n.fetchAccount(ctx, account)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  nitter @%s error: %v\n", account, err)
			continue
		}
		all = append(all, tweets...)
	}

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (n *Nitter) fetchAccount(ctx context.Context, account string) ([]Tweet, error) {
	feedURL := fmt.Sprintf("%s/%s/rss", n.nitterURL, account)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create nitter request @%s: %w", account, err)
	}
	req.Header.Set("User-Agent", "leadradar/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch nitter @%s: %w", account, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nitter @%s status %d", account, resp.StatusCode)
	}

	feed, err := n.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse nitter @%s: %w", account, err)
	}

	var tweets []Tweet
	cutoff := time.Now().Add(-24 * time.Hour)

	for _, entry := range feed.Items {
		published := time.Now().UTC()
		if entry.PublishedParsed != nil {
			published = entry.PublishedParsed.UTC()
		}
		if published.Before(cutoff) {
			continue
		}

		link := strings.Replace(entry.Link, n.nitterURL, "https://x.com", 1)

		tweets = append(tweets, Tweet{
			ID:        entry.GUID,
			Text:      truncate(entry.Title, 280),
			URL:       link,
			Author:    TweetAuthor{UserName: account, Name: account},
			CreatedAt: published,
		})
	}
	return tweets, nil
}
