package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"leadradar/pkg/lead"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store is the persistence interface. Bulk inserts are transactional
// (all-or-nothing) and skip rows that collide with the uniqueness
// constraints; the constraint layer, not application locking, is the
// authoritative dedup boundary under concurrent writers.
type Store interface {
	SaveProduct(ctx context.Context, p *lead.Product) error
	GetProduct(ctx context.Context, id string) (*lead.Product, error)

	ListSuggestions(ctx context.Context, productID string) ([]lead.SubredditSuggestion, error)
	InsertSuggestions(ctx context.Context, suggestions []lead.SubredditSuggestion) (int, error)
	SetSuggestionMonitored(ctx context.Context, id string, monitored bool) error
	ListMonitoredSubreddits(ctx context.Context, productID string) ([]string, error)

	ExistingPostIDs(ctx context.Context, productID string, externalIDs []string) (map[string]bool, error)
	InsertPosts(ctx context.Context, posts []lead.Post) (int, error)
	ListPosts(ctx context.Context, productID string, limit int) ([]lead.Post, error)
	SetPostEngagement(ctx context.Context, id string, status lead.EngagementStatus) error
	MarkPostReplied(ctx context.Context, id, reply string) error

	ExistingTweetIDs(ctx context.Context, productID string, externalIDs []string) (map[string]bool, error)
	InsertTweets(ctx context.Context, tweets []lead.Tweet) (int, error)
	ListTweets(ctx context.Context, productID string, limit int) ([]lead.Tweet, error)
	MarkTweetReplied(ctx context.Context, id, reply string) error

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// An in-memory database exists per connection; pin the pool to one
	// so the migrated schema is the one every query sees.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveProduct(ctx context.Context, p *lead.Product) error {
	keywordsJSON, _ := json.Marshal(p.Keywords)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, keywords, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			keywords = excluded.keywords
	`, p.ID, p.Name, p.Description, string(keywordsJSON), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("save product %s: %w", p.ID, err)
	}
	return nil
}

func (s *SQLiteStore) GetProduct(ctx context.Context, id string) (*lead.Product, error) {
	var p lead.Product
	err := s.db.GetContext(ctx, &p, "SELECT * FROM products WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	json.Unmarshal([]byte(p.KeywordsJSON), &p.Keywords)
	return &p, nil
}

func (s *SQLiteStore) ListSuggestions(ctx context.Context, productID string) ([]lead.SubredditSuggestion, error) {
	var suggestions []lead.SubredditSuggestion
	err := s.db.SelectContext(ctx, &suggestions, `
		SELECT * FROM subreddit_suggestions
		WHERE product_id = ?
		ORDER BY relevance_score DESC, name
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	return suggestions, nil
}

// InsertSuggestions bulk-inserts in one transaction and returns the
// number of rows actually written. Rows colliding with an existing
// (product, name) pair are skipped, never updated.
func (s *SQLiteStore) InsertSuggestions(ctx context.Context, suggestions []lead.SubredditSuggestion) (int, error) {
	if len(suggestions) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert suggestions: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for i := range suggestions {
		sg := &suggestions[i]
		res, err := tx.ExecContext(ctx, `
			INSERT INTO subreddit_suggestions
				(id, product_id, name, title, description, member_count, url,
				 relevance_score, match_reason, is_monitored, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(product_id, name) DO NOTHING
		`, sg.ID, sg.ProductID, sg.Name, sg.Title, sg.Description, sg.MemberCount,
			sg.URL, sg.RelevanceScore, sg.MatchReason, sg.IsMonitored, sg.CreatedAt, sg.UpdatedAt)
		if err != nil {
			return 0, fmt.Errorf("insert suggestion %s: %w", sg.Name, err)
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert suggestions: %w", err)
	}
	return inserted, nil
}

func (s *SQLiteStore) SetSuggestionMonitored(ctx context.Context, id string, monitored bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE subreddit_suggestions SET is_monitored = ?, updated_at = ? WHERE id = ?
	`, monitored, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set monitored %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("suggestion %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) ListMonitoredSubreddits(ctx context.Context, productID string) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names, `
		SELECT name FROM subreddit_suggestions
		WHERE product_id = ? AND is_monitored = 1
		ORDER BY relevance_score DESC, name
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("list monitored subreddits: %w", err)
	}
	return names, nil
}

func (s *SQLiteStore) ExistingPostIDs(ctx context.Context, productID string, externalIDs []string) (map[string]bool, error) {
	return s.existingIDs(ctx, "reddit_posts", productID, externalIDs)
}

func (s *SQLiteStore) ExistingTweetIDs(ctx context.Context, productID string, externalIDs []string) (map[string]bool, error) {
	return s.existingIDs(ctx, "tweets", productID, externalIDs)
}

func (s *SQLiteStore) existingIDs(ctx context.Context, table, productID string, externalIDs []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(externalIDs) == 0 {
		return existing, nil
	}

	query, args, err := sqlx.In(
		"SELECT external_id FROM "+table+" WHERE product_id = ? AND external_id IN (?)",
		productID, externalIDs)
	if err != nil {
		return nil, fmt.Errorf("build existing ids query: %w", err)
	}

	var ids []string
	if err := s.db.SelectContext(ctx, &ids, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("existing ids %s: %w", table, err)
	}

	for _, id := range ids {
		existing[id] = true
	}
	return existing, nil
}

// InsertPosts bulk-inserts in one transaction, skipping rows whose
// (product, external id) already exists, and returns the inserted count.
func (s *SQLiteStore) InsertPosts(ctx context.Context, posts []lead.Post) (int, error) {
	if len(posts) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert posts: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for i := range posts {
		p := &posts[i]
		res, err := tx.ExecContext(ctx, `
			INSERT INTO reddit_posts
				(id, product_id, external_id, title, text, url, author, subreddit,
				 lead, engagement, fit, authenticity, is_favorited, is_replied,
				 latest_reply, posted_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(product_id, external_id) DO NOTHING
		`, p.ID, p.ProductID, p.ExternalID, p.Title, p.Text, p.URL, p.Author,
			p.Subreddit, p.Lead, p.Engagement, p.Fit, p.Authenticity,
			p.IsFavorited, p.IsReplied, p.LatestReply, p.PostedAt, p.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("insert post %s: %w", p.ExternalID, err)
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert posts: %w", err)
	}
	return inserted, nil
}

func (s *SQLiteStore) ListPosts(ctx context.Context, productID string, limit int) ([]lead.Post, error) {
	if limit <= 0 {
		limit = 100
	}
	var posts []lead.Post
	err := s.db.SelectContext(ctx, &posts, `
		SELECT * FROM reddit_posts
		WHERE product_id = ?
		ORDER BY lead DESC, created_at DESC
		LIMIT ?
	`, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *SQLiteStore) SetPostEngagement(ctx context.Context, id string, status lead.EngagementStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE reddit_posts SET engagement = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("set engagement %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) MarkPostReplied(ctx context.Context, id, reply string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE reddit_posts SET is_replied = 1, latest_reply = ? WHERE id = ?", reply, id)
	if err != nil {
		return fmt.Errorf("mark post replied %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return nil
}

// InsertTweets mirrors InsertPosts for the tweets table.
func (s *SQLiteStore) InsertTweets(ctx context.Context, tweets []lead.Tweet) (int, error) {
	if len(tweets) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert tweets: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for i := range tweets {
		t := &tweets[i]
		res, err := tx.ExecContext(ctx, `
			INSERT INTO tweets
				(id, product_id, external_id, text, url, author, author_username,
				 reply_count, retweet_count, like_count, lead, engagement, fit,
				 authenticity, is_favorited, is_replied, latest_reply, posted_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(product_id, external_id) DO NOTHING
		`, t.ID, t.ProductID, t.ExternalID, t.Text, t.URL, t.Author, t.AuthorUsername,
			t.ReplyCount, t.RetweetCount, t.LikeCount, t.Lead, t.Engagement, t.Fit,
			t.Authenticity, t.IsFavorited, t.IsReplied, t.LatestReply, t.PostedAt, t.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("insert tweet %s: %w", t.ExternalID, err)
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert tweets: %w", err)
	}
	return inserted, nil
}

func (s *SQLiteStore) ListTweets(ctx context.Context, productID string, limit int) ([]lead.Tweet, error) {
	if limit <= 0 {
		limit = 100
	}
	var tweets []lead.Tweet
	err := s.db.SelectContext(ctx, &tweets, `
		SELECT * FROM tweets
		WHERE product_id = ?
		ORDER BY lead DESC, created_at DESC
		LIMIT ?
	`, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list tweets: %w", err)
	}
	return tweets, nil
}

func (s *SQLiteStore) MarkTweetReplied(ctx context.Context, id, reply string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tweets SET is_replied = 1, latest_reply = ? WHERE id = ?", reply, id)
	if err != nil {
		return fmt.Errorf("mark tweet replied %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("tweet %s: %w", id, ErrNotFound)
	}
	return nil
}
