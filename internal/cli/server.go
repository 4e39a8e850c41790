package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"quizbot/internal/app"
	"quizbot/internal/chat"
	"quizbot/internal/config"
	"quizbot/internal/infra/memory"
	"quizbot/internal/infra/postgres"
	"quizbot/internal/infra/rabbitmq"
	redissession "quizbot/internal/infra/redis"
	"quizbot/internal/questionbank"
	transport "quizbot/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz assistant server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	source, closeSource, err := newQuestionSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	var (
		store app.SessionRepository = memory.NewSessionStore()
		ready transport.ReadyCheck
	)
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		redisStore := redissession.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 2*time.Hour))
		store = redisStore
		ready = redisStore.Ping
	}

	opts := []app.Option{}
	if cfg.RabbitMQ.URL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Printf("rabbitmq unavailable, quiz events disabled: %v", err)
		} else {
			defer publisher.Close()
			opts = append(opts, app.WithPublisher(publisher))
		}
	}

	service := app.NewQuizService(store, source, opts...)
	router := transport.NewRouter(chat.NewAssistant(service), cfg.Origins(), ready)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quizbot on :%s (question source: %s)", finalPort, cfg.QuestionBank.Source)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newQuestionSource(ctx context.Context, cfg config.Config) (app.QuestionSource, func(), error) {
	noop := func() {}
	switch cfg.QuestionBank.Source {
	case config.SourceHTTP:
		timeout := config.TTLDuration(cfg.QuestionBank.Timeout, 10*time.Second)
		return questionbank.NewClient(cfg.QuestionBank.BaseURL, cfg.QuestionBank.APIKey, timeout), noop, nil
	case config.SourceStatic:
		return memory.NewStaticSource(questionbank.FallbackQuestions(), questionbank.FallbackCategories()), noop, nil
	case config.SourcePostgres:
		if err := runMigrations(ctx, cfg); err != nil {
			return nil, noop, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, noop, err
		}
		return postgres.NewQuestionSource(pool), pool.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown question source %q", cfg.QuestionBank.Source)
	}
}
