package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"quizbot/internal/domain"
	"quizbot/internal/questionbank"
)

// QuestionSource serves questions from the local Postgres question bank.
// Like the HTTP client, it substitutes the built-in fallback set on any failure.
type QuestionSource struct {
	pool *pgxpool.Pool
}

func NewQuestionSource(pool *pgxpool.Pool) *QuestionSource {
	return &QuestionSource{pool: pool}
}

const selectQuestions = `
SELECT data FROM questions
WHERE ($1 = '' OR lower(category) = lower($1))
  AND ($2 = '' OR lower(difficulty) = lower($2))
  AND (cardinality($3::text[]) = 0 OR tags && $3::text[])
ORDER BY random()
LIMIT $4`

func (s *QuestionSource) FetchQuestions(ctx context.Context, req domain.StartRequest) ([]domain.Question, error) {
	questions, err := s.load(ctx, req)
	if err != nil {
		log.Printf("question bank query failed, using fallback questions: %v", err)
		return questionbank.FallbackQuestions(), nil
	}
	return questions, nil
}

func (s *QuestionSource) load(ctx context.Context, req domain.StartRequest) ([]domain.Question, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = domain.MaxQuestionCount
	}
	rows, err := s.pool.Query(ctx, selectQuestions, req.Category, req.Difficulty, splitTags(req.Tags), limit)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var wire questionbank.WireQuestion
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
		}
		q, err := wire.ToDomain()
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	return questions, nil
}

func (s *QuestionSource) Categories(ctx context.Context) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT category FROM questions WHERE category <> '' ORDER BY category`)
	if err != nil {
		log.Printf("categories query failed, using fallback categories: %v", err)
		return questionbank.FallbackCategories(), nil
	}
	defer rows.Close()

	categories := make(map[string]string)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			log.Printf("scan category, using fallback categories: %v", err)
			return questionbank.FallbackCategories(), nil
		}
		categories[name] = name
	}
	if err := rows.Err(); err != nil {
		log.Printf("iterate categories, using fallback categories: %v", err)
		return questionbank.FallbackCategories(), nil
	}
	return categories, nil
}

// Save upserts questions into the bank, keyed by question ID.
func (s *QuestionSource) Save(ctx context.Context, questions []domain.Question) (int, error) {
	batch := &pgx.Batch{}
	for _, q := range questions {
		data, err := json.Marshal(questionbank.FromDomain(q))
		if err != nil {
			return 0, fmt.Errorf("marshal question %d: %w", q.ID, err)
		}
		batch.Queue(`INSERT INTO questions (id, category, difficulty, tags, data, updated_at)
VALUES ($1, $2, $3, $4, $5::jsonb, now())
ON CONFLICT (id) DO UPDATE SET category = EXCLUDED.category, difficulty = EXCLUDED.difficulty,
  tags = EXCLUDED.tags, data = EXCLUDED.data, updated_at = now()`,
			q.ID, q.Category, q.Difficulty, lowerAll(q.Tags), string(data))
	}
	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range questions {
		if _, err := results.Exec(); err != nil {
			return 0, fmt.Errorf("upsert question: %w", err)
		}
	}
	return len(questions), nil
}

func splitTags(raw string) []string {
	tags := []string{}
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, strings.ToLower(tag))
		}
	}
	return tags
}

func lowerAll(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, strings.ToLower(tag))
	}
	return out
}
