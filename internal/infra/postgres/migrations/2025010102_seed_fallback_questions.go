package migrations

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"
	"quizbot/internal/questionbank"
)

// Seeds the built-in questions so a fresh bank is never empty.
func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			for _, q := range questionbank.FallbackQuestions() {
				data, err := json.Marshal(questionbank.FromDomain(q))
				if err != nil {
					return fmt.Errorf("marshal question %d: %w", q.ID, err)
				}
				if _, err := db.ExecContext(ctx,
					`INSERT INTO questions (id, category, difficulty, data) VALUES (?, ?, ?, ?::jsonb) ON CONFLICT (id) DO NOTHING`,
					q.ID, q.Category, q.Difficulty, string(data)); err != nil {
					return fmt.Errorf("seed question %d: %w", q.ID, err)
				}
			}
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			var ids []int
			for _, q := range questionbank.FallbackQuestions() {
				ids = append(ids, q.ID)
			}
			_, err := db.ExecContext(ctx, `DELETE FROM questions WHERE id IN (?)`, bun.In(ids))
			return err
		},
	)
}
