// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/goccy/go-json"

	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/metrics"
	"github.com/tomtom215/campaignwatch/internal/models"
)

const (
	tableItems   = "content_items"
	tableTrends  = "hourly_trends"
	tableAuthors = "trend_authors"
)

type Config struct {
	// Path of the database file. Empty opens an in-memory database.
	Path      string `koanf:"path"`
	Threads   int    `koanf:"threads" validate:"gte=0"`
	MaxMemory string `koanf:"max_memory"`
}

func DefaultConfig() Config {
	return Config{
		Path:      "/data/campaignwatch.duckdb",
		MaxMemory: "1GB",
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS content_items (
		platform       VARCHAR NOT NULL,
		id             VARCHAR NOT NULL,
		title          VARCHAR,
		body           VARCHAR,
		author         VARCHAR,
		url            VARCHAR,
		ts             TIMESTAMP,
		likes          BIGINT,
		shares         BIGINT,
		comments       BIGINT,
		retweets       BIGINT,
		views          BIGINT,
		hashtags       VARCHAR,
		mentions       VARCHAR,
		matched_rules  VARCHAR,
		categories     VARCHAR,
		severity_score DOUBLE,
		threat_level   VARCHAR,
		sentiment      DOUBLE,
		relevant       BOOLEAN,
		language       VARCHAR,
		updated_at     TIMESTAMP,
		PRIMARY KEY (platform, id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_content_items_ts ON content_items (ts)`,
	`CREATE TABLE IF NOT EXISTS hourly_trends (
		trend_key      VARCHAR NOT NULL,
		platform       VARCHAR NOT NULL,
		hour_bucket    TIMESTAMP NOT NULL,
		mention_count  BIGINT NOT NULL DEFAULT 0,
		engagement_sum BIGINT NOT NULL DEFAULT 0,
		unique_users   BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (trend_key, platform, hour_bucket)
	)`,
	`CREATE TABLE IF NOT EXISTS trend_authors (
		trend_key   VARCHAR NOT NULL,
		platform    VARCHAR NOT NULL,
		hour_bucket TIMESTAMP NOT NULL,
		author      VARCHAR NOT NULL,
		PRIMARY KEY (trend_key, platform, hour_bucket, author)
	)`,
}

// DuckDBStore persists items and trend counters in DuckDB. Writes are
// serialized so concurrent increments on one bucket never conflict.
type DuckDBStore struct {
	conn    *sql.DB
	writeMu sync.Mutex
}

// OpenDuckDB opens (or creates) the database and applies the schema.
func OpenDuckDB(ctx context.Context, cfg Config) (*DuckDBStore, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	connStr := ""
	if cfg.Path != "" {
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
		connStr = fmt.Sprintf("%s?access_mode=read_write&threads=%d", cfg.Path, threads)
		if cfg.MaxMemory != "" {
			connStr += "&max_memory=" + cfg.MaxMemory
		}
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &DuckDBStore{conn: conn}
	if err := s.initialize(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Int("threads", threads).Msg("Opened DuckDB store")
	return s, nil
}

func (s *DuckDBStore) initialize(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (s *DuckDBStore) UpsertItem(ctx context.Context, item models.ScoredItem) (err error) {
	if err := validateItem(&item); err != nil {
		return err
	}
	start := time.Now()
	defer func() { metrics.RecordDBQuery("upsert", tableItems, time.Since(start), err) }()

	hashtags, err := json.Marshal(nonNil(item.Hashtags))
	if err != nil {
		return fmt.Errorf("encode hashtags: %w", err)
	}
	mentions, err := json.Marshal(nonNil(item.Mentions))
	if err != nil {
		return fmt.Errorf("encode mentions: %w", err)
	}
	matches, err := json.Marshal(item.Matches)
	if err != nil {
		return fmt.Errorf("encode matches: %w", err)
	}
	categories, err := json.Marshal(nonNil(item.Categories))
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}

	e := item.Engagement
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO content_items (
			platform, id, title, body, author, url, ts,
			likes, shares, comments, retweets, views,
			hashtags, mentions, matched_rules, categories,
			severity_score, threat_level, sentiment, relevant, language, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (platform, id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			author = excluded.author,
			url = excluded.url,
			ts = excluded.ts,
			likes = excluded.likes,
			shares = excluded.shares,
			comments = excluded.comments,
			retweets = excluded.retweets,
			views = excluded.views,
			hashtags = excluded.hashtags,
			mentions = excluded.mentions,
			matched_rules = excluded.matched_rules,
			categories = excluded.categories,
			severity_score = excluded.severity_score,
			threat_level = excluded.threat_level,
			sentiment = excluded.sentiment,
			relevant = excluded.relevant,
			language = excluded.language,
			updated_at = excluded.updated_at`,
		item.Platform, item.ID, item.Title, item.Body, item.Author, item.URL, item.Timestamp.UTC(),
		e.Likes, e.Shares, e.Comments, e.Retweets, e.Views,
		string(hashtags), string(mentions), string(matches), string(categories),
		item.SeverityScore, string(item.ThreatLevel), item.SentimentScore, item.Relevant, item.Language,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert item %s: %w", item.Key(), err)
	}
	return nil
}

func (s *DuckDBStore) Items(ctx context.Context, from, to time.Time) (out []models.ScoredItem, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tableItems, time.Since(start), err) }()

	rows, err := s.conn.QueryContext(ctx, `
		SELECT platform, id, title, body, author, url, ts,
		       likes, shares, comments, retweets, views,
		       hashtags, mentions, matched_rules, categories,
		       severity_score, threat_level, sentiment, relevant, language
		FROM content_items
		WHERE ts >= ? AND ts < ?
		ORDER BY ts, platform, id`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it                                  models.ScoredItem
			title, body, author, url, language  sql.NullString
			level                               sql.NullString
			hashtags, mentions, matches, cats   sql.NullString
			ts                                  sql.NullTime
			likes, shares, comments, rts, views sql.NullInt64
			severity, sentiment                 sql.NullFloat64
			relevant                            sql.NullBool
		)
		if err := rows.Scan(&it.Platform, &it.ID, &title, &body, &author, &url, &ts,
			&likes, &shares, &comments, &rts, &views,
			&hashtags, &mentions, &matches, &cats,
			&severity, &level, &sentiment, &relevant, &language); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}

		it.Title, it.Body, it.Author, it.URL = title.String, body.String, author.String, url.String
		it.Timestamp = ts.Time
		it.Engagement = models.Engagement{
			Likes:    likes.Int64,
			Shares:   shares.Int64,
			Comments: comments.Int64,
			Retweets: rts.Int64,
			Views:    views.Int64,
		}
		if clean := it.Engagement.Sanitized(); clean != it.Engagement {
			logging.Warn().Str("item", it.Key()).Msg("Negative engagement counters in stored item, using zero")
			it.Engagement = clean
		}

		key := it.Key()
		decodeField(key, "hashtags", hashtags, &it.Hashtags)
		decodeField(key, "mentions", mentions, &it.Mentions)
		decodeField(key, "matched_rules", matches, &it.Matches)
		decodeField(key, "categories", cats, &it.Categories)

		it.SeverityScore = severity.Float64
		it.SentimentScore = sentiment.Float64
		it.Relevant = relevant.Bool
		it.Language = language.String
		if tl, ok := models.ParseThreatLevel(level.String); ok {
			it.ThreatLevel = tl
		} else {
			logging.Warn().Str("item", key).Str("threat_level", level.String).Msg("Unknown stored threat level, using NONE")
			it.ThreatLevel = models.ThreatNone
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return out, nil
}

// decodeField unmarshals a JSON column into dst. Malformed values leave dst
// at its zero value and are logged.
func decodeField(key, column string, raw sql.NullString, dst any) {
	if !raw.Valid || raw.String == "" || raw.String == "null" {
		return
	}
	if err := json.Unmarshal([]byte(raw.String), dst); err != nil {
		logging.Warn().Err(err).Str("item", key).Str("column", column).Msg("Malformed JSON in stored item, using empty value")
	}
}

func (s *DuckDBStore) IncrementTrend(ctx context.Context, d TrendDelta) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("increment", tableTrends, time.Since(start), err)
		if err != nil {
			metrics.TrendIncrementErrors.Inc()
		}
	}()
	hour := hourBucket(d.Hour)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin increment: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logging.Warn().Err(rbErr).Msg("Rollback of trend increment failed")
			}
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO hourly_trends (trend_key, platform, hour_bucket, mention_count, engagement_sum, unique_users)
		VALUES (?, ?, ?, ?, ?, 0)
		ON CONFLICT (trend_key, platform, hour_bucket) DO UPDATE SET
			mention_count = mention_count + excluded.mention_count,
			engagement_sum = engagement_sum + excluded.engagement_sum`,
		d.Key, d.Platform, hour, d.Mentions, d.Engagement)
	if err != nil {
		return fmt.Errorf("increment %s/%s: %w", d.Key, d.Platform, err)
	}

	if d.Author != "" {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO trend_authors (trend_key, platform, hour_bucket, author)
			VALUES (?, ?, ?, ?)
			ON CONFLICT DO NOTHING`,
			d.Key, d.Platform, hour, d.Author); err != nil {
			return fmt.Errorf("record trend author: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `
			UPDATE hourly_trends SET unique_users = (
				SELECT count(*) FROM trend_authors a
				WHERE a.trend_key = ? AND a.platform = ? AND a.hour_bucket = ?
			)
			WHERE trend_key = ? AND platform = ? AND hour_bucket = ?`,
			d.Key, d.Platform, hour, d.Key, d.Platform, hour); err != nil {
			return fmt.Errorf("update unique users: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit increment: %w", err)
	}
	return nil
}

func (s *DuckDBStore) TrendRange(ctx context.Context, from, to time.Time) (out []models.HourlyCounter, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tableTrends, time.Since(start), err) }()

	rows, err := s.conn.QueryContext(ctx, `
		SELECT trend_key, platform, hour_bucket, mention_count, engagement_sum, unique_users
		FROM hourly_trends
		WHERE hour_bucket >= ? AND hour_bucket < ?
		ORDER BY trend_key, platform, hour_bucket`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("query trends: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.HourlyCounter
		if err := rows.Scan(&c.Key, &c.Platform, &c.Hour, &c.MentionCount, &c.EngagementSum, &c.UniqueUsers); err != nil {
			return nil, fmt.Errorf("scan trend: %w", err)
		}
		if c.MentionCount < 0 || c.EngagementSum < 0 || c.UniqueUsers < 0 {
			logging.Warn().Str("key", c.Key).Str("platform", c.Platform).Msg("Negative trend counter, using zero")
			c.MentionCount = max(c.MentionCount, 0)
			c.EngagementSum = max(c.EngagementSum, 0)
			c.UniqueUsers = max(c.UniqueUsers, 0)
		}
		c.Hour = c.Hour.UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trends: %w", err)
	}
	return out, nil
}

// Ping checks the connection.
func (s *DuckDBStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *DuckDBStore) Close() error {
	return s.conn.Close()
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
