package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"quizbot/internal/domain"
)

// SessionRepository stores one quiz session per user (in-memory, Redis-aware, etc).
// Each call is atomic for its key; sequences of calls are not.
type SessionRepository interface {
	Get(userID string) (domain.Session, bool)
	Set(userID string, session domain.Session)
	Remove(userID string) bool
	// Update applies mutate to the stored session atomically and reports whether one existed.
	Update(userID string, mutate func(*domain.Session)) bool
}

// QuestionSource supplies quiz content. Implementations substitute their own fallback
// content on upstream failure rather than returning an error.
type QuestionSource interface {
	FetchQuestions(ctx context.Context, req domain.StartRequest) ([]domain.Question, error)
	Categories(ctx context.Context) (map[string]string, error)
}

// EventPublisher receives quiz lifecycle events. Publish failures never affect the caller.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

const (
	EventQuizStarted   = "quiz.started"
	EventQuizCompleted = "quiz.completed"
	EventQuizEnded     = "quiz.ended"
)

// QuizEvent is the payload published for lifecycle events.
type QuizEvent struct {
	SessionID      string    `json:"sessionId"`
	UserID         string    `json:"userId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Grade          string    `json:"grade,omitempty"`
	Category       string    `json:"category,omitempty"`
	Difficulty     string    `json:"difficulty,omitempty"`
	At             time.Time `json:"at"`
}

// QuizService is the quiz session engine. It holds no session state itself: every
// operation reads from and writes back to the SessionRepository.
//
// Operations for one user are expected to be serialized by the caller. Each single
// operation is atomic via SessionRepository.Update, but two concurrent StartQuiz calls,
// or a StartQuiz racing a CompleteQuiz, for the same user resolve as last writer wins.
type QuizService struct {
	sessions  SessionRepository
	source    QuestionSource
	publisher EventPublisher
	now       func() time.Time
	newID     func() string
}

// Option customizes a QuizService.
type Option func(*QuizService)

// WithClock is used by tests for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// WithPublisher sends lifecycle events to p.
func WithPublisher(p EventPublisher) Option {
	return func(s *QuizService) { s.publisher = p }
}

func NewQuizService(store SessionRepository, source QuestionSource, opts ...Option) *QuizService {
	s := &QuizService{
		sessions: store,
		source:   source,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartQuiz ends any existing session for the user and starts a new one.
// It fails only when no questions could be obtained at all.
func (s *QuizService) StartQuiz(ctx context.Context, userID string, req domain.StartRequest) (domain.Session, error) {
	s.EndQuiz(ctx, userID)

	if req.Limit <= 0 {
		req.Limit = domain.DefaultQuestionCount
	}
	req.Limit = domain.ClampLimit(req.Limit)
	log.Printf("starting quiz for user %s (category=%q difficulty=%q limit=%d)", userID, req.Category, req.Difficulty, req.Limit)

	questions, err := s.source.FetchQuestions(ctx, req)
	if err != nil {
		return domain.Session{}, fmt.Errorf("fetch questions: %w", err)
	}
	if len(questions) == 0 {
		return domain.Session{}, domain.ErrNoQuestionsAvailable
	}

	session := domain.Session{
		ID:             s.newID(),
		UserID:         userID,
		Questions:      questions,
		TotalQuestions: len(questions),
		StartedAt:      s.now(),
		Answers:        []domain.AnswerRecord{},
		Category:       req.Category,
		Difficulty:     req.Difficulty,
	}
	s.sessions.Set(userID, session)
	log.Printf("quiz session %s started for user %s with %d questions", session.ID, userID, len(questions))

	s.publish(ctx, EventQuizStarted, eventFor(session, "", s.now()))
	return session.Clone(), nil
}

// ActiveSession returns a copy of the user's session, if any.
func (s *QuizService) ActiveSession(_ context.Context, userID string) (domain.Session, bool) {
	return s.sessions.Get(userID)
}

// CurrentQuestion returns the question awaiting an answer.
func (s *QuizService) CurrentQuestion(_ context.Context, userID string) (domain.Question, bool) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return domain.Question{}, false
	}
	return session.Current()
}

// SubmitAnswer grades selected against the current question and records it.
// It reports false when there is no question awaiting an answer.
func (s *QuizService) SubmitAnswer(_ context.Context, userID string, selected domain.Slot) bool {
	if !selected.Valid() {
		log.Printf("submit answer for user %s: %v", userID, fmt.Errorf("%w: got %q", domain.ErrInvalidAnswer, selected))
		return false
	}

	recorded := false
	s.sessions.Update(userID, func(session *domain.Session) {
		question, ok := session.Current()
		if !ok {
			return
		}
		verdict := domain.Resolve(question, selected)
		if verdict.Rule == domain.RuleDefault {
			log.Printf("warning: question %d has no correctness data, treating %s as correct", question.ID, domain.SlotA)
		}
		if verdict.Correct {
			session.Score++
		}
		session.Answers = append(session.Answers, domain.AnswerRecord{
			QuestionID: question.ID,
			Selected:   selected,
			Correct:    verdict.Correct,
			AnsweredAt: s.now(),
		})
		recorded = true
		log.Printf("answer recorded for user %s: question=%d selected=%s correct=%v score=%d",
			userID, question.ID, selected, verdict.Correct, session.Score)
	})
	if !recorded {
		log.Printf("submit answer for user %s: %v", userID, domain.ErrSessionNotFound)
	}
	return recorded
}

// NextQuestion advances to the next question. When the questions are exhausted it marks
// the session completed and reports false; the caller should then call CompleteQuiz.
func (s *QuizService) NextQuestion(_ context.Context, userID string) (domain.Question, bool) {
	var (
		next domain.Question
		ok   bool
	)
	s.sessions.Update(userID, func(session *domain.Session) {
		if session.Completed {
			return
		}
		session.CurrentIndex++
		if session.CurrentIndex >= len(session.Questions) {
			end := s.now()
			session.Completed = true
			session.EndedAt = &end
			return
		}
		next, ok = session.Questions[session.CurrentIndex], true
	})
	return next, ok
}

// CompleteQuiz finalizes the user's session into a Result and removes it from the store.
func (s *QuizService) CompleteQuiz(ctx context.Context, userID string) (domain.Result, bool) {
	var snapshot domain.Session
	found := s.sessions.Update(userID, func(session *domain.Session) {
		if session.EndedAt == nil {
			end := s.now()
			session.EndedAt = &end
		}
		session.Completed = true
		snapshot = session.Clone()
	})
	if !found {
		return domain.Result{}, false
	}

	result := domain.Result{
		SessionID:      snapshot.ID,
		FinalScore:     snapshot.Score,
		TotalQuestions: snapshot.TotalQuestions,
		Percentage:     domain.Percentage(snapshot.Score, snapshot.TotalQuestions),
		Duration:       snapshot.EndedAt.Sub(snapshot.StartedAt),
		Grade:          domain.Grade(snapshot.Score, snapshot.TotalQuestions),
		Answers:        snapshot.Answers,
	}
	s.sessions.Remove(userID)
	log.Printf("quiz completed for user %s: %d/%d (%.1f%%) grade %s",
		userID, result.FinalScore, result.TotalQuestions, result.Percentage, result.Grade)

	s.publish(ctx, EventQuizCompleted, eventFor(snapshot, result.Grade, *snapshot.EndedAt))
	return result, true
}

// EndQuiz removes the user's session and reports whether one was present.
func (s *QuizService) EndQuiz(ctx context.Context, userID string) bool {
	session, ok := s.sessions.Get(userID)
	removed := s.sessions.Remove(userID)
	log.Printf("quiz session ended for user %s, was active: %v", userID, removed)
	if removed && ok {
		s.publish(ctx, EventQuizEnded, eventFor(session, "", s.now()))
	}
	return removed
}

// Categories returns the available quiz categories, or an empty map if none could be loaded.
func (s *QuizService) Categories(ctx context.Context) map[string]string {
	categories, err := s.source.Categories(ctx)
	if err != nil {
		log.Printf("load categories: %v", err)
		return map[string]string{}
	}
	return categories
}

func (s *QuizService) publish(ctx context.Context, eventType string, event QuizEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		log.Printf("publish %s for user %s: %v", eventType, event.UserID, err)
	}
}

func eventFor(session domain.Session, grade string, at time.Time) QuizEvent {
	return QuizEvent{
		SessionID:      session.ID,
		UserID:         session.UserID,
		Score:          session.Score,
		TotalQuestions: session.TotalQuestions,
		Grade:          grade,
		Category:       session.Category,
		Difficulty:     session.Difficulty,
		At:             at,
	}
}
