package store

const schema = `
CREATE TABLE IF NOT EXISTS products (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    keywords    TEXT NOT NULL DEFAULT '[]',
    created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS subreddit_suggestions (
    id              TEXT PRIMARY KEY,
    product_id      TEXT NOT NULL REFERENCES products(id),
    name            TEXT NOT NULL,
    title           TEXT NOT NULL DEFAULT '',
    description     TEXT NOT NULL DEFAULT '',
    member_count    INTEGER NOT NULL DEFAULT 0,
    url             TEXT NOT NULL DEFAULT '',
    relevance_score INTEGER NOT NULL DEFAULT 0,
    match_reason    TEXT NOT NULL DEFAULT '',
    is_monitored    BOOLEAN NOT NULL DEFAULT 0,
    created_at      DATETIME NOT NULL,
    updated_at      DATETIME NOT NULL,
    UNIQUE(product_id, name)
);

CREATE INDEX IF NOT EXISTS idx_suggestions_product ON subreddit_suggestions(product_id);
CREATE INDEX IF NOT EXISTS idx_suggestions_score ON subreddit_suggestions(relevance_score);

CREATE TABLE IF NOT EXISTS reddit_posts (
    id           TEXT PRIMARY KEY,
    product_id   TEXT NOT NULL REFERENCES products(id),
    external_id  TEXT NOT NULL,
    title        TEXT NOT NULL,
    text         TEXT NOT NULL DEFAULT '',
    url          TEXT NOT NULL DEFAULT '',
    author       TEXT NOT NULL DEFAULT '',
    subreddit    TEXT NOT NULL,
    lead         REAL NOT NULL DEFAULT 0,
    engagement   TEXT NOT NULL DEFAULT 'unseen',
    fit          INTEGER NOT NULL DEFAULT 0,
    authenticity INTEGER NOT NULL DEFAULT 0,
    is_favorited BOOLEAN NOT NULL DEFAULT 0,
    is_replied   BOOLEAN NOT NULL DEFAULT 0,
    latest_reply TEXT,
    posted_at    DATETIME NOT NULL,
    created_at   DATETIME NOT NULL,
    UNIQUE(product_id, external_id)
);

CREATE INDEX IF NOT EXISTS idx_posts_product ON reddit_posts(product_id);
CREATE INDEX IF NOT EXISTS idx_posts_lead ON reddit_posts(lead);
CREATE INDEX IF NOT EXISTS idx_posts_subreddit ON reddit_posts(subreddit);

CREATE TABLE IF NOT EXISTS tweets (
    id              TEXT PRIMARY KEY,
    product_id      TEXT NOT NULL REFERENCES products(id),
    external_id     TEXT NOT NULL,
    text            TEXT NOT NULL,
    url             TEXT NOT NULL DEFAULT '',
    author          TEXT NOT NULL DEFAULT '',
    author_username TEXT NOT NULL DEFAULT '',
    reply_count     INTEGER NOT NULL DEFAULT 0,
    retweet_count   INTEGER NOT NULL DEFAULT 0,
    like_count      INTEGER NOT NULL DEFAULT 0,
    lead            REAL NOT NULL DEFAULT 0,
    engagement      TEXT NOT NULL DEFAULT 'unseen',
    fit             INTEGER NOT NULL DEFAULT 0,
    authenticity    INTEGER NOT NULL DEFAULT 0,
    is_favorited    BOOLEAN NOT NULL DEFAULT 0,
    is_replied      BOOLEAN NOT NULL DEFAULT 0,
    latest_reply    TEXT,
    posted_at       DATETIME NOT NULL,
    created_at      DATETIME NOT NULL,
    UNIQUE(product_id, external_id)
);

CREATE INDEX IF NOT EXISTS idx_tweets_product ON tweets(product_id);
CREATE INDEX IF NOT EXISTS idx_tweets_lead ON tweets(lead);
`
