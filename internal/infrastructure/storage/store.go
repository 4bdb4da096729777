package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"pagelens/internal/domain"
	"pagelens/internal/ports"
)

const analysesTable = "analyses"

var analysesColumns = []string{
	"id", "url", "title", "content", "summary",
	"sentiment_score", "sentiment_label",
	"positive_score", "negative_score", "neutral_score",
	"readability_score", "grade_level",
	"word_count", "char_count", "sentence_count", "avg_sentence_length",
	"keywords", "top_words", "created_at",
}

// SQLStore persists analyses via database/sql. The same implementation
// serves Postgres and SQLite; the dialect only changes placeholders, DDL,
// and how the generated id is returned.
type SQLStore struct {
	db           *sql.DB
	builder      sq.StatementBuilderType
	schema       string
	useReturning bool
}

var _ ports.RecordStore = (*SQLStore)(nil)

// NewPostgres wraps an open Postgres connection.
func NewPostgres(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:           db,
		builder:      sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		schema:       postgresSchema,
		useReturning: true,
	}
}

// NewSQLite wraps an open SQLite connection.
func NewSQLite(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
		schema:  sqliteSchema,
	}
}

// Migrate creates the analyses table if it does not exist yet.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.schema); err != nil {
		return &domain.StoreError{Op: "migrate", Err: err}
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Save inserts one record and returns its generated id. CreatedAt is
// assigned at insertion time and never changes afterwards.
func (s *SQLStore) Save(ctx context.Context, analysis *domain.Analysis) (int64, error) {
	createdAt := analysis.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	keywords, err := json.Marshal(analysis.Keywords)
	if err != nil {
		return 0, &domain.StoreError{Op: "save", Err: fmt.Errorf("marshal keywords: %w", err)}
	}
	topWords, err := json.Marshal(analysis.Lexical.TopWords)
	if err != nil {
		return 0, &domain.StoreError{Op: "save", Err: fmt.Errorf("marshal top words: %w", err)}
	}

	insert := s.builder.Insert(analysesTable).
		Columns(analysesColumns[1:]...).
		Values(
			analysis.URL,
			analysis.Title,
			analysis.Content,
			analysis.Summary,
			analysis.Sentiment.Compound,
			string(analysis.Sentiment.Label),
			analysis.Sentiment.Positive,
			analysis.Sentiment.Negative,
			analysis.Sentiment.Neutral,
			analysis.Readability.ReadingEase,
			analysis.Readability.GradeLevel,
			analysis.Lexical.WordCount,
			analysis.Lexical.CharCount,
			analysis.Lexical.SentenceCount,
			analysis.Lexical.AvgSentenceLength,
			string(keywords),
			string(topWords),
			createdAt,
		)

	var id int64
	if s.useReturning {
		query, args, err := insert.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, &domain.StoreError{Op: "save", Err: err}
		}
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, &domain.StoreError{Op: "save", Err: err}
		}
	} else {
		query, args, err := insert.ToSql()
		if err != nil {
			return 0, &domain.StoreError{Op: "save", Err: err}
		}
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, &domain.StoreError{Op: "save", Err: err}
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, &domain.StoreError{Op: "save", Err: err}
		}
	}

	analysis.ID = id
	analysis.CreatedAt = createdAt
	return id, nil
}

// Get returns the record with the given id or domain.ErrNotFound.
func (s *SQLStore) Get(ctx context.Context, id int64) (*domain.Analysis, error) {
	query, args, err := s.builder.Select(analysesColumns...).
		From(analysesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, &domain.StoreError{Op: "get", Err: err}
	}

	analysis, err := scanAnalysis(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.StoreError{Op: "get", Err: err}
	}
	return analysis, nil
}

// List returns records ordered by created_at descending.
func (s *SQLStore) List(ctx context.Context, limit, offset int) ([]domain.Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query, args, err := s.builder.Select(analysesColumns...).
		From(analysesTable).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, &domain.StoreError{Op: "list", Err: err}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StoreError{Op: "list", Err: err}
	}
	defer rows.Close()

	var analyses []domain.Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, &domain.StoreError{Op: "list", Err: err}
		}
		analyses = append(analyses, *analysis)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Op: "list", Err: err}
	}

	return analyses, nil
}

// Stats aggregates the stored history for the dashboard.
func (s *SQLStore) Stats(ctx context.Context) (*domain.Stats, error) {
	query, args, err := s.builder.
		Select("COUNT(*)", "COALESCE(AVG(sentiment_score), 0)").
		From(analysesTable).
		ToSql()
	if err != nil {
		return nil, &domain.StoreError{Op: "stats", Err: err}
	}

	stats := &domain.Stats{
		Distribution: map[domain.SentimentLabel]int{
			domain.SentimentPositive: 0,
			domain.SentimentNegative: 0,
			domain.SentimentNeutral:  0,
		},
	}
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&stats.TotalAnalyses, &stats.AvgSentiment); err != nil {
		return nil, &domain.StoreError{Op: "stats", Err: err}
	}

	query, args, err = s.builder.
		Select("sentiment_label", "COUNT(*)").
		From(analysesTable).
		GroupBy("sentiment_label").
		ToSql()
	if err != nil {
		return nil, &domain.StoreError{Op: "stats", Err: err}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StoreError{Op: "stats", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			label string
			count int
		)
		if err := rows.Scan(&label, &count); err != nil {
			return nil, &domain.StoreError{Op: "stats", Err: err}
		}
		stats.Distribution[domain.SentimentLabel(label)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Op: "stats", Err: err}
	}

	return stats, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row scanner) (*domain.Analysis, error) {
	var (
		analysis domain.Analysis
		label    string
		keywords string
		topWords string
	)

	err := row.Scan(
		&analysis.ID,
		&analysis.URL,
		&analysis.Title,
		&analysis.Content,
		&analysis.Summary,
		&analysis.Sentiment.Compound,
		&label,
		&analysis.Sentiment.Positive,
		&analysis.Sentiment.Negative,
		&analysis.Sentiment.Neutral,
		&analysis.Readability.ReadingEase,
		&analysis.Readability.GradeLevel,
		&analysis.Lexical.WordCount,
		&analysis.Lexical.CharCount,
		&analysis.Lexical.SentenceCount,
		&analysis.Lexical.AvgSentenceLength,
		&keywords,
		&topWords,
		&analysis.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	analysis.Sentiment.Label = domain.SentimentLabel(label)
	if err := json.Unmarshal([]byte(keywords), &analysis.Keywords); err != nil {
		return nil, fmt.Errorf("unmarshal keywords: %w", err)
	}
	if err := json.Unmarshal([]byte(topWords), &analysis.Lexical.TopWords); err != nil {
		return nil, fmt.Errorf("unmarshal top words: %w", err)
	}

	return &analysis, nil
}
