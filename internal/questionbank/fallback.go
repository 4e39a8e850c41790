package questionbank

import "quizbot/internal/domain"

// FallbackQuestions returns the built-in question set served whenever the
// upstream bank cannot be used. It ignores any requested filters.
func FallbackQuestions() []domain.Question {
	return []domain.Question{
		fallbackQuestion(1, "What does HTML stand for?", "HTML", domain.SlotA,
			"HTML stands for HyperText Markup Language, which is the standard markup language for creating web pages.",
			"HyperText Markup Language", "High Tech Modern Language", "Home Tool Markup Language", "Hyperlink and Text Markup Language"),
		fallbackQuestion(2, "Which of the following is NOT a programming language?", "Programming", domain.SlotC,
			"HTML is a markup language, not a programming language. It's used for structuring web content.",
			"Python", "JavaScript", "HTML", "Java"),
		fallbackQuestion(3, "What does CSS stand for?", "CSS", domain.SlotB,
			"CSS stands for Cascading Style Sheets, used for styling HTML elements.",
			"Computer Style Sheets", "Cascading Style Sheets", "Creative Style Sheets", "Colorful Style Sheets"),
	}
}

// FallbackCategories returns the built-in category list.
func FallbackCategories() map[string]string {
	names := []string{"Linux", "DevOps", "Docker", "SQL", "CMS", "Code", "HTML", "CSS", "JavaScript", "Programming"}
	out := make(map[string]string, len(names))
	for _, name := range names {
		out[name] = name
	}
	return out
}

func fallbackQuestion(id int, text, category string, correct domain.Slot, explanation string, answers ...string) domain.Question {
	q := domain.Question{
		ID:          id,
		Text:        text,
		Explanation: explanation,
		Category:    category,
		Difficulty:  "Easy",
	}
	for i, answer := range answers {
		slot := domain.Slots[i]
		q.Answers.Set(slot, answer)
		if slot == correct {
			q.CorrectFlags.Set(slot, "true")
		} else {
			q.CorrectFlags.Set(slot, "false")
		}
	}
	return q
}
