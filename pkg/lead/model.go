// Package lead defines the canonical data model: products, subreddit
// suggestions, and normalized posts/tweets, plus the normalizers that map
// raw scraper records into it.
package lead

import "time"

// EngagementStatus tracks how far a lead has progressed.
type EngagementStatus string

const (
	EngagementUnseen    EngagementStatus = "unseen"
	EngagementSeen      EngagementStatus = "seen"
	EngagementEngaged   EngagementStatus = "engaged"
	EngagementConverted EngagementStatus = "converted"
	// EngagementHot keeps its historical capitalization.
	EngagementHot EngagementStatus = "HOT"
)

// Product owns a keyword set. Every suggestion, post and tweet is scoped
// to exactly one product; nothing is shared across products.
type Product struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	Keywords     []string  `db:"-" json:"keywords"`
	KeywordsJSON string    `db:"keywords" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SubredditSuggestion is a discovered community scored against a
// product's keywords. At most one suggestion exists per (product, name).
type SubredditSuggestion struct {
	ID             string    `db:"id" json:"id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	Name           string    `db:"name" json:"name"` // lowercased, "r/" stripped
	Title          string    `db:"title" json:"title"`
	Description    string    `db:"description" json:"description"`
	MemberCount    int       `db:"member_count" json:"member_count"`
	URL            string    `db:"url" json:"url"`
	RelevanceScore int       `db:"relevance_score" json:"relevance_score"`
	MatchReason    string    `db:"match_reason" json:"match_reason"`
	IsMonitored    bool      `db:"is_monitored" json:"is_monitored"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Post is a normalized reddit post. ExternalID is the source-native id
// with the "t3_" prefix stripped and is unique per product.
type Post struct {
	ID           string           `db:"id" json:"id"`
	ProductID    string           `db:"product_id" json:"product_id"`
	ExternalID   string           `db:"external_id" json:"external_id"`
	Title        string           `db:"title" json:"title"`
	Text         string           `db:"text" json:"text"`
	URL          string           `db:"url" json:"url"`
	Author       string           `db:"author" json:"author"`
	Subreddit    string           `db:"subreddit" json:"subreddit"` // source bucket
	Lead         float64          `db:"lead" json:"lead"`
	Engagement   EngagementStatus `db:"engagement" json:"engagement"`
	Fit          int              `db:"fit" json:"fit"`
	Authenticity int              `db:"authenticity" json:"authenticity"`
	IsFavorited  bool             `db:"is_favorited" json:"is_favorited"`
	IsReplied    bool             `db:"is_replied" json:"is_replied"`
	LatestReply  *string          `db:"latest_reply" json:"latest_reply"`
	PostedAt     time.Time        `db:"posted_at" json:"posted_at"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
}

// Tweet is a normalized tweet. Its source bucket is the empty string and
// it has no title.
type Tweet struct {
	ID             string           `db:"id" json:"id"`
	ProductID      string           `db:"product_id" json:"product_id"`
	ExternalID     string           `db:"external_id" json:"external_id"`
	Text           string           `db:"text" json:"text"`
	URL            string           `db:"url" json:"url"`
	Author         string           `db:"author" json:"author"`
	AuthorUsername string           `db:"author_username" json:"author_username"`
	ReplyCount     int              `db:"reply_count" json:"reply_count"`
	RetweetCount   int              `db:"retweet_count" json:"retweet_count"`
	LikeCount      int              `db:"like_count" json:"like_count"`
	Lead           float64          `db:"lead" json:"lead"`
	Engagement     EngagementStatus `db:"engagement" json:"engagement"`
	Fit            int              `db:"fit" json:"fit"`
	Authenticity   int              `db:"authenticity" json:"authenticity"`
	IsFavorited    bool             `db:"is_favorited" json:"is_favorited"`
	IsReplied      bool             `db:"is_replied" json:"is_replied"`
	LatestReply    *string          `db:"latest_reply" json:"latest_reply"`
	PostedAt       time.Time        `db:"posted_at" json:"posted_at"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}
