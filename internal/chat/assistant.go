package chat

import (
	"context"
	"errors"
	"log"
	"sort"

	"quizbot/internal/domain"
)

// QuizEngine is the session engine surface the assistant drives.
type QuizEngine interface {
	StartQuiz(ctx context.Context, userID string, req domain.StartRequest) (domain.Session, error)
	ActiveSession(ctx context.Context, userID string) (domain.Session, bool)
	CurrentQuestion(ctx context.Context, userID string) (domain.Question, bool)
	SubmitAnswer(ctx context.Context, userID string, selected domain.Slot) bool
	NextQuestion(ctx context.Context, userID string) (domain.Question, bool)
	CompleteQuiz(ctx context.Context, userID string) (domain.Result, bool)
	EndQuiz(ctx context.Context, userID string) bool
	Categories(ctx context.Context) map[string]string
}

// MaxListedCategories bounds the category list shown to users.
const MaxListedCategories = 10

// Assistant turns quiz operations into chat replies. Every method returns a
// renderable Reply; failures become friendly text rather than errors.
type Assistant struct {
	engine QuizEngine
}

func NewAssistant(engine QuizEngine) *Assistant {
	return &Assistant{engine: engine}
}

// StartOptions are the user-facing quiz parameters. A nil QuestionCount means the default.
type StartOptions struct {
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	QuestionCount *int   `json:"questionCount"`
}

// Reply is a rendered response plus the structured data behind it.
type Reply struct {
	Text       string         `json:"text"`
	Active     bool           `json:"active"`
	Question   *QuestionView  `json:"question,omitempty"`
	Correct    *bool          `json:"correct,omitempty"`
	Score      int            `json:"score"`
	Total      int            `json:"total"`
	Result     *domain.Result `json:"result,omitempty"`
	Categories []string       `json:"categories,omitempty"`
}

// QuestionView is a question as shown to the user, with lettered options.
type QuestionView struct {
	Number  int          `json:"number"`
	Total   int          `json:"total"`
	Text    string       `json:"text"`
	Options []OptionView `json:"options"`
}

type OptionView struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

func (a *Assistant) StartQuiz(ctx context.Context, userID string, opts StartOptions) Reply {
	count := domain.DefaultQuestionCount
	if opts.QuestionCount != nil {
		count = domain.ClampLimit(*opts.QuestionCount)
	}
	session, err := a.engine.StartQuiz(ctx, userID, domain.StartRequest{
		Category:   opts.Category,
		Difficulty: opts.Difficulty,
		Limit:      count,
	})
	if err != nil {
		log.Printf("start quiz for user %s: %v", userID, err)
		if errors.Is(err, domain.ErrNoQuestionsAvailable) {
			return Reply{Text: msgNoQuestions}
		}
		return Reply{Text: msgStartFailed}
	}

	first, ok := a.engine.CurrentQuestion(ctx, userID)
	if !ok {
		return Reply{Text: msgNoQuestions}
	}
	view := viewOf(first, 1, session.TotalQuestions)
	return Reply{
		Text:     renderStarted(session, view),
		Active:   true,
		Question: &view,
		Total:    session.TotalQuestions,
	}
}

// SubmitAnswer records a lettered answer, then replies with feedback and either the
// next question or the completion summary.
func (a *Assistant) SubmitAnswer(ctx context.Context, userID, answer string) Reply {
	slot, ok := ParseLetter(answer)
	if !ok {
		return Reply{Text: msgInvalidAnswer}
	}
	if _, ok := a.engine.ActiveSession(ctx, userID); !ok {
		return Reply{Text: msgNoActiveQuiz}
	}
	current, ok := a.engine.CurrentQuestion(ctx, userID)
	if !ok {
		return Reply{Text: msgNoCurrentQuestion}
	}
	if !a.engine.SubmitAnswer(ctx, userID, slot) {
		return Reply{Text: msgSubmitFailed}
	}

	correct := false
	if session, ok := a.engine.ActiveSession(ctx, userID); ok {
		if last, ok := session.LastAnswer(); ok {
			correct = last.Correct
		}
	}
	feedback := renderFeedback(correct, current)

	next, ok := a.engine.NextQuestion(ctx, userID)
	if !ok {
		result, ok := a.engine.CompleteQuiz(ctx, userID)
		if !ok {
			return Reply{Text: feedback + "\n\n" + msgCompletedPlain, Correct: &correct}
		}
		return Reply{
			Text:    feedback + "\n\n" + renderCompletion(result),
			Correct: &correct,
			Score:   result.FinalScore,
			Total:   result.TotalQuestions,
			Result:  &result,
		}
	}

	session, _ := a.engine.ActiveSession(ctx, userID)
	view := viewOf(next, session.CurrentIndex+1, session.TotalQuestions)
	return Reply{
		Text:     feedback + "\n\n" + renderProgress(session.Score, view),
		Active:   true,
		Question: &view,
		Correct:  &correct,
		Score:    session.Score,
		Total:    session.TotalQuestions,
	}
}

// Status reports progress and the current question.
func (a *Assistant) Status(ctx context.Context, userID string) Reply {
	session, ok := a.engine.ActiveSession(ctx, userID)
	if !ok {
		return Reply{Text: msgNoQuizStatus}
	}
	current, ok := session.Current()
	if !ok {
		return Reply{Text: msgQuizFinished, Score: session.Score, Total: session.TotalQuestions}
	}
	view := viewOf(current, session.CurrentIndex+1, session.TotalQuestions)
	return Reply{
		Text:     renderStatus(session, view),
		Active:   true,
		Question: &view,
		Score:    session.Score,
		Total:    session.TotalQuestions,
	}
}

// EndQuiz stops the user's quiz and reports the score so far.
func (a *Assistant) EndQuiz(ctx context.Context, userID string) Reply {
	session, ok := a.engine.ActiveSession(ctx, userID)
	if !ok {
		return Reply{Text: msgNothingToEnd}
	}
	if !a.engine.EndQuiz(ctx, userID) {
		return Reply{Text: msgEndFailed}
	}
	return Reply{
		Text:  renderEnded(session),
		Score: session.Score,
		Total: session.TotalQuestions,
	}
}

// Categories lists up to MaxListedCategories category names, sorted.
func (a *Assistant) Categories(ctx context.Context) Reply {
	categories := a.engine.Categories(ctx)
	if len(categories) == 0 {
		return Reply{Text: msgDefaultCategories}
	}
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > MaxListedCategories {
		names = names[:MaxListedCategories]
	}
	return Reply{Text: renderCategories(names), Categories: names}
}

// Message handles free-text chat input: bare letters are answers, anything else gets help.
func (a *Assistant) Message(ctx context.Context, userID, message string) Reply {
	if IsLikelyAnswer(message) {
		return a.SubmitAnswer(ctx, userID, message)
	}
	return Reply{Text: msgHelp}
}

func viewOf(q domain.Question, number, total int) QuestionView {
	view := QuestionView{Number: number, Total: total, Text: q.Text}
	for _, opt := range q.Options() {
		view.Options = append(view.Options, OptionView{Letter: LetterFor(opt.Slot), Text: opt.Text})
	}
	return view
}
