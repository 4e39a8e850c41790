package memory

import (
	"context"
	"strings"

	"quizbot/internal/domain"
)

// StaticSource serves questions from a fixed in-memory list (useful for tests/demos).
type StaticSource struct {
	questions  []domain.Question
	categories map[string]string
}

func NewStaticSource(questions []domain.Question, categories map[string]string) *StaticSource {
	return &StaticSource{questions: questions, categories: categories}
}

// FetchQuestions returns the stored questions matching req, in order, up to req.Limit.
func (l *StaticSource) FetchQuestions(_ context.Context, req domain.StartRequest) ([]domain.Question, error) {
	out := make([]domain.Question, 0, len(l.questions))
	for _, q := range l.questions {
		if !matches(q, req) {
			continue
		}
		out = append(out, q)
		if req.Limit > 0 && len(out) == req.Limit {
			break
		}
	}
	return out, nil
}

func (l *StaticSource) Categories(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(l.categories))
	for k, v := range l.categories {
		out[k] = v
	}
	return out, nil
}

func matches(q domain.Question, req domain.StartRequest) bool {
	if req.Category != "" && !strings.EqualFold(q.Category, req.Category) {
		return false
	}
	if req.Difficulty != "" && !strings.EqualFold(q.Difficulty, req.Difficulty) {
		return false
	}
	if req.Tags == "" {
		return true
	}
	for _, want := range strings.Split(req.Tags, ",") {
		want = strings.TrimSpace(want)
		for _, tag := range q.Tags {
			if strings.EqualFold(tag, want) {
				return true
			}
		}
	}
	return false
}
