package chat

import (
	"strings"

	"quizbot/internal/domain"
)

var letters = [4]string{"A", "B", "C", "D"}

// ParseLetter maps an answer letter (A-D, any case, surrounding space ignored) to its slot.
func ParseLetter(input string) (domain.Slot, bool) {
	letter := strings.ToUpper(strings.TrimSpace(input))
	for i, l := range letters {
		if l == letter {
			return domain.Slots[i], true
		}
	}
	return "", false
}

// LetterFor returns the display letter of slot.
func LetterFor(slot domain.Slot) string {
	if i := slot.Index(); i >= 0 {
		return letters[i]
	}
	return "?"
}

// IsLikelyAnswer reports whether a free-text chat message is a bare answer letter.
func IsLikelyAnswer(message string) bool {
	_, ok := ParseLetter(message)
	return ok && len(strings.TrimSpace(message)) == 1
}
