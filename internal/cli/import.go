package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"quizbot/internal/config"
	"quizbot/internal/domain"
	"quizbot/internal/infra/postgres"
	"quizbot/internal/questionbank"
)

// NewImportCmd copies questions from the upstream bank into Postgres so the
// postgres source can serve them offline.
func NewImportCmd(configPath *string) *cobra.Command {
	var req domain.StartRequest
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import questions from the upstream bank into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			ctx := cmd.Context()

			client := questionbank.NewClient(cfg.QuestionBank.BaseURL, cfg.QuestionBank.APIKey,
				config.TTLDuration(cfg.QuestionBank.Timeout, 10*time.Second))
			req.Limit = domain.ClampLimit(req.Limit)
			// Fetch, not FetchQuestions: the fallback set must never be imported as upstream content.
			questions, err := client.Fetch(ctx, req)
			if err != nil {
				return fmt.Errorf("fetch questions from %s: %w", cfg.QuestionBank.BaseURL, err)
			}
			if len(questions) == 0 {
				return fmt.Errorf("import: %w", domain.ErrNoQuestionsAvailable)
			}

			if err := runMigrations(ctx, cfg); err != nil {
				return err
			}
			pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			saved, err := postgres.NewQuestionSource(pool).Save(ctx, questions)
			if err != nil {
				return err
			}
			log.Printf("imported %d questions", saved)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Category, "category", "", "category filter")
	cmd.Flags().StringVar(&req.Difficulty, "difficulty", "", "difficulty filter")
	cmd.Flags().StringVar(&req.Tags, "tags", "", "comma-separated tags filter")
	cmd.Flags().IntVar(&req.Limit, "limit", domain.MaxQuestionCount, "number of questions to fetch")
	return cmd
}
