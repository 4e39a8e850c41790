package memory

import (
	"context"
	"testing"

	"quizbot/internal/domain"
)

func TestStaticSourceFiltersAndLimits(t *testing.T) {
	source := NewStaticSource([]domain.Question{
		{ID: 1, Category: "Linux", Difficulty: "Easy", Tags: []string{"bash"}},
		{ID: 2, Category: "Linux", Difficulty: "Hard"},
		{ID: 3, Category: "SQL", Difficulty: "Easy", Tags: []string{"MySQL"}},
		{ID: 4, Category: "linux", Difficulty: "easy"},
	}, map[string]string{"Linux": "Linux"})
	ctx := context.Background()

	got, _ := source.FetchQuestions(ctx, domain.StartRequest{Category: "LINUX", Difficulty: "Easy"})
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 4 {
		t.Fatalf("unexpected filter result %+v", got)
	}

	got, _ = source.FetchQuestions(ctx, domain.StartRequest{Limit: 2})
	if len(got) != 2 || got[1].ID != 2 {
		t.Fatalf("expected first 2 questions, got %+v", got)
	}

	got, _ = source.FetchQuestions(ctx, domain.StartRequest{Tags: "bash, mysql"})
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("expected tag matches, got %+v", got)
	}

	cats, _ := source.Categories(ctx)
	cats["SQL"] = "SQL"
	again, _ := source.Categories(ctx)
	if len(again) != 1 {
		t.Fatalf("categories must be returned as a copy, got %v", again)
	}
}
