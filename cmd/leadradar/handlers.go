package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"leadradar/internal/config"
	"leadradar/internal/store"
	"leadradar/pkg/extract"
	"leadradar/pkg/lead"
	"leadradar/pkg/notify"
	"leadradar/pkg/pipeline"
	"leadradar/pkg/scrape"
	"leadradar/pkg/server"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func buildScraper(cfg *config.Config) *scrape.Apify {
	if cfg.Scraper.Token == "" {
		return nil
	}
	apify, err := scrape.NewApify(
		cfg.Scraper.Token,
		cfg.Scraper.BaseURL,
		cfg.Scraper.CommunityActor,
		cfg.Scraper.PostActor,
		cfg.Scraper.TweetActor,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scraper disabled: %v\n", err)
		return nil
	}
	return apify
}

func buildExtractor(cfg *config.Config) extract.Extractor {
	if cfg.LLM.APIKey == "" {
		return nil
	}
	llm, err := extract.NewLLM(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.APIKey, cfg.LLM.BaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keyword extraction disabled: %v\n", err)
		return nil
	}
	fmt.Fprintf(os.Stderr, "keyword extractor: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	return llm
}

// buildTweetFetcher prefers the Apify actor and falls back to Nitter RSS
// when only that is configured.
func buildTweetFetcher(cfg *config.Config, apify *scrape.Apify) scrape.TweetFetcher {
	if apify != nil {
		return apify
	}
	if cfg.Twitter.Enabled {
		return scrape.NewNitter(cfg.Twitter.NitterURL, cfg.Twitter.Accounts)
	}
	return nil
}

func buildIngestor(cfg *config.Config, db store.Store) *pipeline.Ingestor {
	apify := buildScraper(cfg)
	var posts scrape.PostFetcher
	if apify != nil {
		posts = apify
	}
	return pipeline.NewIngestor(db, posts, buildTweetFetcher(cfg, apify))
}

func buildDiscovery(cfg *config.Config, db store.Store) *pipeline.Discovery {
	apify := buildScraper(cfg)
	extractor := buildExtractor(cfg)
	if apify == nil || extractor == nil {
		return nil
	}
	d := pipeline.NewDiscovery(db, apify, extractor)
	if cfg.Discovery.TopN > 0 {
		d.TopN = cfg.Discovery.TopN
	}
	if cfg.Discovery.MaxCandidates > 0 {
		d.MaxCandidates = cfg.Discovery.MaxCandidates
	}
	return d
}

func buildNotifyManager(cfg *config.Config) *notify.Manager {
	var notifiers []notify.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, notify.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return notify.NewManager(notifiers)
}

func runProductAdd(id, name, description string, keywords []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	if len(keywords) == 0 {
		extractor := buildExtractor(cfg)
		if extractor == nil {
			return fmt.Errorf("no keywords given and no LLM configured; pass --keywords")
		}
		keywords, err = extractor.ExtractKeywords(ctx, description)
		if err != nil {
			return fmt.Errorf("extract keywords: %w", err)
		}
		if len(keywords) == 0 {
			return fmt.Errorf("extraction produced no keywords; pass --keywords")
		}
	}

	if id == "" {
		id = uuid.NewString()
	}
	p := &lead.Product{
		ID:          id,
		Name:        name,
		Description: description,
		Keywords:    keywords,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.SaveProduct(ctx, p); err != nil {
		return fmt.Errorf("save product: %w", err)
	}

	fmt.Printf("product %s saved with keywords: %v\n", p.ID, p.Keywords)
	return nil
}

func runProductShow(id string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	p, err := db.GetProduct(context.Background(), id)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func runDiscover(productID string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	discovery := buildDiscovery(cfg, db)
	if discovery == nil {
		return fmt.Errorf("discovery needs both APIFY_TOKEN and an LLM API key")
	}

	res, err := discovery.Discover(context.Background(), productID)
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}

	fmt.Fprintf(os.Stderr, "keywords: %v\n", res.Keywords)
	fmt.Fprintf(os.Stderr, "inserted %d new suggestions\n\n", res.InsertedCount)
	printSuggestions(res.Suggestions)
	return nil
}

func runSuggestions(productID string, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	suggestions, err := db.ListSuggestions(context.Background(), productID)
	if err != nil {
		return fmt.Errorf("list suggestions: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(suggestions)
	}

	if len(suggestions) == 0 {
		fmt.Println("no suggestions yet (run: leadradar discover <product-id>)")
		return nil
	}
	printSuggestions(suggestions)
	return nil
}

func printSuggestions(suggestions []lead.SubredditSuggestion) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tSUBREDDIT\tMEMBERS\tWATCHED\tID")
	for _, sg := range suggestions {
		watched := ""
		if sg.IsMonitored {
			watched = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
			sg.RelevanceScore, lead.DisplaySubreddit(sg.Name), sg.MemberCount, watched, sg.ID)
	}
	w.Flush()
}

func runWatch(suggestionID string, monitored bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	if err := db.SetSuggestionMonitored(context.Background(), suggestionID, monitored); err != nil {
		return fmt.Errorf("set monitored: %w", err)
	}

	if monitored {
		fmt.Printf("monitoring %s\n", suggestionID)
	} else {
		fmt.Printf("stopped monitoring %s\n", suggestionID)
	}
	return nil
}

func runIngest(productID string, subreddits []string, limit int, tweets bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if limit <= 0 {
		limit = cfg.Ingest.DefaultLimit
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ingestor := buildIngestor(cfg, db)
	ctx := context.Background()

	var res *pipeline.IngestResult
	if tweets {
		res, err = ingestor.IngestTweets(ctx, productID, limit)
	} else {
		if len(subreddits) == 0 {
			subreddits, err = db.ListMonitoredSubreddits(ctx, productID)
			if err != nil {
				return fmt.Errorf("list monitored: %w", err)
			}
			if len(subreddits) == 0 {
				return fmt.Errorf("no subreddits given and none monitored (run: leadradar watch <suggestion-id>)")
			}
		}
		res, err = ingestor.IngestPosts(ctx, productID, subreddits, limit)
	}
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	fmt.Fprintf(os.Stderr, "scraped %d, stored %d new leads\n", res.Scraped, res.InsertedCount)
	return nil
}

func runLeads(productID string, jsonOutput bool, limit int, tweets bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	if tweets {
		list, err := db.ListTweets(ctx, productID, limit)
		if err != nil {
			return fmt.Errorf("list tweets: %w", err)
		}
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "LEAD\tSTATUS\tAUTHOR\tTEXT")
		for _, t := range list {
			fmt.Fprintf(w, "%.1f\t%s\t@%s\t%s\n", t.Lead, t.Engagement, t.AuthorUsername, firstLine(t.Text, 60))
		}
		return w.Flush()
	}

	list, err := db.ListPosts(ctx, productID, limit)
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	if len(list) == 0 {
		fmt.Println("no leads yet (run: leadradar ingest <product-id>)")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEAD\tSTATUS\tSUBREDDIT\tTITLE")
	for _, p := range list {
		fmt.Fprintf(w, "%.0f\t%s\t%s\t%s\n",
			p.Lead, p.Engagement, lead.DisplaySubreddit(p.Subreddit), firstLine(p.Title, 60))
	}
	return w.Flush()
}

// runMonitor is a one-shot sweep: ingest from monitored subreddits, mark
// leads at or above the hot threshold, and notify configured destinations.
func runMonitor(productID string, limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if limit <= 0 {
		limit = cfg.Ingest.DefaultLimit
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	subreddits, err := db.ListMonitoredSubreddits(ctx, productID)
	if err != nil {
		return fmt.Errorf("list monitored: %w", err)
	}
	if len(subreddits) == 0 {
		return fmt.Errorf("nothing monitored (run: leadradar watch <suggestion-id>)")
	}

	ingestor := buildIngestor(cfg, db)
	res, err := ingestor.IngestPosts(ctx, productID, subreddits, limit)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	fmt.Fprintf(os.Stderr, "swept %d subreddits: %d new leads\n", len(subreddits), res.InsertedCount)

	var hot []lead.Post
	for _, p := range res.Posts {
		if p.Lead < cfg.Ingest.HotThreshold {
			continue
		}
		if err := db.SetPostEngagement(ctx, p.ID, lead.EngagementHot); err != nil {
			fmt.Fprintf(os.Stderr, "  mark hot %s: %v\n", p.ID, err)
			continue
		}
		hot = append(hot, p)
	}
	if len(hot) == 0 {
		return nil
	}
	fmt.Fprintf(os.Stderr, "%d hot leads (score >= %.0f)\n", len(hot), cfg.Ingest.HotThreshold)

	mgr := buildNotifyManager(cfg)
	if !mgr.HasNotifiers() {
		return nil
	}

	product, err := db.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if err := mgr.Broadcast(ctx, notify.HotLeads(product.Name, hot)); err != nil {
		fmt.Fprintf(os.Stderr, "notify error: %v\n", err)
	}
	return nil
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	srv := server.New(db, buildDiscovery(cfg, db), buildIngestor(cfg, db), port)
	return srv.ListenAndServe()
}

func firstLine(s string, max int) string {
	for i, r := range s {
		if r == '\n' {
			s = s[:i]
			break
		}
	}
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
