package chat

import (
	"fmt"
	"strings"
	"time"

	"quizbot/internal/domain"
)

const (
	msgNoQuestions       = "Sorry, I couldn't start the quiz. No questions are available right now."
	msgStartFailed       = "Sorry, I encountered an error while starting the quiz. Please try again later."
	msgInvalidAnswer     = "Please provide a valid answer (A, B, C, or D)."
	msgNoActiveQuiz      = "No active quiz found. Start a new quiz by typing 'start quiz'!"
	msgNoCurrentQuestion = "No current question found. The quiz might have ended."
	msgSubmitFailed      = "Error submitting your answer. Please try again."
	msgCompletedPlain    = "Quiz completed! Great job!"
	msgNoQuizStatus      = "No active quiz. Start a new quiz by saying 'start quiz' or 'quiz me'!"
	msgQuizFinished      = "Quiz completed! Start a new quiz anytime!"
	msgNothingToEnd      = "No active quiz to end."
	msgEndFailed         = "Error ending the quiz. Please try again."
	msgDefaultCategories = "**Available Categories:** General Knowledge, Programming, Web Development"
	msgAnswerPrompt      = "Type your answer (A, B, C, or D) to continue!"
	msgHelp              = "I can quiz you on topics like JavaScript, HTML, CSS, SQL or Linux. " +
		"Say 'start quiz' to begin, or 'list categories' to see what's available."
)

func renderStarted(session domain.Session, view QuestionView) string {
	var b strings.Builder
	b.WriteString("**Quiz Started!**")
	if session.Category != "" {
		fmt.Fprintf(&b, " in %s", session.Category)
	}
	if session.Difficulty != "" {
		fmt.Fprintf(&b, " (%s level)", session.Difficulty)
	}
	fmt.Fprintf(&b, "\n\n**Questions:** %d | **Score:** 0/%d\n\n", session.TotalQuestions, session.TotalQuestions)
	writeQuestion(&b, view, true)
	return b.String()
}

func renderFeedback(correct bool, answered domain.Question) string {
	text := "**Incorrect**"
	if correct {
		text = "**Correct!**"
	}
	if answered.Explanation != "" {
		text += "\n" + answered.Explanation
	}
	return text
}

func renderProgress(score int, view QuestionView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Score:** %d/%d\n\n", score, view.Total)
	writeQuestion(&b, view, true)
	return b.String()
}

func renderStatus(session domain.Session, view QuestionView) string {
	var b strings.Builder
	b.WriteString("**Active Quiz")
	if session.Category != "" {
		fmt.Fprintf(&b, " (%s)", session.Category)
	}
	fmt.Fprintf(&b, "**\n\n**Score:** %d/%d | **Progress:** %d/%d\n\n",
		session.Score, session.TotalQuestions, view.Number, view.Total)
	writeQuestion(&b, view, false)
	return b.String()
}

func renderEnded(session domain.Session) string {
	return fmt.Sprintf("Quiz ended. Final score: %d/%d\nStart a new quiz anytime by saying 'start quiz'!",
		session.Score, session.TotalQuestions)
}

func renderCategories(names []string) string {
	return "**Available Quiz Categories:**\n" + strings.Join(names, ", ") +
		"\n\nStart a quiz by saying 'start quiz [category]' (e.g., 'start quiz JavaScript')"
}

func renderCompletion(result domain.Result) string {
	return fmt.Sprintf("**Quiz Complete!**\n\n"+
		"**Final Score:** %d/%d (%.1f%%)\n"+
		"**Grade:** %s\n"+
		"**Time:** %s\n\n"+
		"%s\n\n"+
		"Ready for another challenge? Say 'start quiz' to play again!",
		result.FinalScore, result.TotalQuestions, result.Percentage,
		result.Grade, formatDuration(result.Duration), encouragement(result.Percentage))
}

func encouragement(percentage float64) string {
	switch {
	case percentage >= 90:
		return "Outstanding! You're a quiz master!"
	case percentage >= 80:
		return "Excellent work! Great knowledge!"
	case percentage >= 70:
		return "Good job! You did well!"
	case percentage >= 60:
		return "Not bad! Keep learning!"
	default:
		return "Keep practicing! You'll get better!"
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%dm %ds", int(d/time.Minute), int(d%time.Minute/time.Second))
}

// writeQuestion renders the lettered question; withTotal selects "Question n/N" over "Question n".
func writeQuestion(b *strings.Builder, view QuestionView, withTotal bool) {
	if withTotal {
		fmt.Fprintf(b, "**Question %d/%d:**\n", view.Number, view.Total)
	} else {
		fmt.Fprintf(b, "**Question %d:**\n", view.Number)
	}
	b.WriteString(view.Text)
	b.WriteString("\n\n")
	for i, opt := range view.Options {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(b, "**%s.** %s", opt.Letter, opt.Text)
	}
	b.WriteString("\n\n")
	b.WriteString(msgAnswerPrompt)
}
