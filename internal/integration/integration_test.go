package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"quizbot/internal/app"
	"quizbot/internal/domain"
	"quizbot/internal/infra/postgres"
	pgmigrations "quizbot/internal/infra/postgres/migrations"
	infraredis "quizbot/internal/infra/redis"
)

func TestQuizEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateBank(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()
	source := postgres.NewQuestionSource(pool)

	saved, err := source.Save(ctx, []domain.Question{goQuestion()})
	if err != nil || saved != 1 {
		t.Fatalf("save: saved=%d err=%v", saved, err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()
	store := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewQuizService(store, source)

	session, err := service.StartQuiz(ctx, "u1", domain.StartRequest{Category: "go", Tags: "Concurrency", Limit: 5})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.TotalQuestions != 1 || session.Questions[0].ID != 100 {
		t.Fatalf("expected the imported go question, got %+v", session.Questions)
	}
	if id, err := redisClient.Get(ctx, "quiz:session:u1").Result(); err != nil || id != session.ID {
		t.Fatalf("expected redis marker for session %s, got %q err=%v", session.ID, id, err)
	}

	if !service.SubmitAnswer(ctx, "u1", domain.SlotB) {
		t.Fatalf("submit failed")
	}
	if _, ok := service.NextQuestion(ctx, "u1"); ok {
		t.Fatalf("expected no further questions")
	}
	result, ok := service.CompleteQuiz(ctx, "u1")
	if !ok || result.FinalScore != 1 || result.Grade != "A+" {
		t.Fatalf("unexpected result %+v ok=%v", result, ok)
	}
	if n, _ := redisClient.Exists(ctx, "quiz:session:u1").Result(); n != 0 {
		t.Fatalf("expected redis marker cleared after completion")
	}
}

func TestSeededBank(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	migrateBank(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()
	source := postgres.NewQuestionSource(pool)

	questions, err := source.FetchQuestions(ctx, domain.StartRequest{Category: "css", Limit: 5})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(questions) != 1 || questions[0].Category != "CSS" {
		t.Fatalf("expected the seeded css question, got %+v", questions)
	}
	verdict := domain.Resolve(questions[0], domain.SlotB)
	if !verdict.Correct {
		t.Fatalf("expected seeded answer key to survive storage, got %+v", verdict)
	}

	categories, err := source.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	for _, name := range []string{"HTML", "CSS", "Programming"} {
		if _, ok := categories[name]; !ok {
			t.Fatalf("expected category %s in %v", name, categories)
		}
	}
}

func goQuestion() domain.Question {
	q := domain.Question{
		ID:          100,
		Text:        "Which keyword starts a goroutine?",
		Category:    "Go",
		Difficulty:  "Easy",
		Tags:        []string{"Concurrency"},
		CorrectSlot: domain.SlotB,
	}
	for i, text := range []string{"async", "go", "spawn", "thread"} {
		q.Answers.Set(domain.Slots[i], text)
	}
	return q
}

func migrateBank(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
