package domain

import "time"

// Slot identifies one of the four answer positions on a question.
type Slot string

const (
	SlotA Slot = "answer_a"
	SlotB Slot = "answer_b"
	SlotC Slot = "answer_c"
	SlotD Slot = "answer_d"
)

// Slots lists the answer positions in display order.
var Slots = [4]Slot{SlotA, SlotB, SlotC, SlotD}

// Index returns the position of the slot in Slots, or -1 for unknown keys.
func (s Slot) Index() int {
	for i, slot := range Slots {
		if slot == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of answer_a..answer_d.
func (s Slot) Valid() bool {
	return s.Index() >= 0
}

// SlotTexts holds one optional value per answer slot. A nil entry means the slot is unused.
type SlotTexts [4]*string

// Get returns the value stored for slot, if any.
func (t SlotTexts) Get(slot Slot) (string, bool) {
	i := slot.Index()
	if i < 0 || t[i] == nil {
		return "", false
	}
	return *t[i], true
}

// Set stores value for slot. Unknown slots are ignored.
func (t *SlotTexts) Set(slot Slot, value string) {
	if i := slot.Index(); i >= 0 {
		v := value
		t[i] = &v
	}
}

// Empty reports whether no slot carries a value.
func (t SlotTexts) Empty() bool {
	for _, v := range t {
		if v != nil {
			return false
		}
	}
	return true
}

// Question is one trivia item. It is never mutated after it has been fetched.
type Question struct {
	ID          int       `json:"id"`
	Text        string    `json:"question"`
	Description string    `json:"description,omitempty"`
	Answers     SlotTexts `json:"-"`
	// CorrectFlags carries the upstream "answer_x_correct" values ("true"/"false").
	CorrectFlags SlotTexts `json:"-"`
	// CorrectSlot is a direct reference to the correct slot, used when no flags are present.
	CorrectSlot Slot     `json:"correctAnswer,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Hint        string   `json:"hint,omitempty"`
	Category    string   `json:"category,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Option is a rendered answer slot with its text.
type Option struct {
	Slot Slot   `json:"slot"`
	Text string `json:"text"`
}

// Options returns the non-empty answer slots in display order.
func (q Question) Options() []Option {
	opts := make([]Option, 0, len(Slots))
	for _, slot := range Slots {
		if text, ok := q.Answers.Get(slot); ok && text != "" {
			opts = append(opts, Option{Slot: slot, Text: text})
		}
	}
	return opts
}

// AnswerRecord is one user response, appended to the owning session.
type AnswerRecord struct {
	QuestionID int       `json:"questionId"`
	Selected   Slot      `json:"selectedAnswer"`
	Correct    bool      `json:"isCorrect"`
	AnsweredAt time.Time `json:"answeredAt"`
}

// StartRequest filters the questions fetched for a new session.
type StartRequest struct {
	Category   string
	Difficulty string
	Limit      int
	Tags       string
}

const (
	DefaultQuestionCount = 5
	MinQuestionCount     = 1
	MaxQuestionCount     = 20
)

// ClampLimit bounds a requested question count to [MinQuestionCount, MaxQuestionCount].
func ClampLimit(n int) int {
	if n < MinQuestionCount {
		return MinQuestionCount
	}
	if n > MaxQuestionCount {
		return MaxQuestionCount
	}
	return n
}

// Session is the live state of one user's quiz.
type Session struct {
	ID             string         `json:"sessionId"`
	UserID         string         `json:"userId"`
	Questions      []Question     `json:"-"`
	CurrentIndex   int            `json:"currentQuestionIndex"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	StartedAt      time.Time      `json:"startTime"`
	EndedAt        *time.Time     `json:"endTime,omitempty"`
	Answers        []AnswerRecord `json:"answers"`
	Category       string         `json:"category,omitempty"`
	Difficulty     string         `json:"difficulty,omitempty"`
	Completed      bool           `json:"isCompleted"`
}

// Clone returns a copy that shares no mutable state with s.
// Questions are immutable and shared.
func (s Session) Clone() Session {
	c := s
	if s.Answers != nil {
		c.Answers = append([]AnswerRecord(nil), s.Answers...)
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		c.EndedAt = &t
	}
	return c
}

// Current returns the question at the current index, if the session still has one.
func (s Session) Current() (Question, bool) {
	if s.Completed || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// LastAnswer returns the most recently recorded answer.
func (s Session) LastAnswer() (AnswerRecord, bool) {
	if len(s.Answers) == 0 {
		return AnswerRecord{}, false
	}
	return s.Answers[len(s.Answers)-1], true
}

// Result is the terminal summary of a completed session.
type Result struct {
	SessionID      string         `json:"sessionId"`
	FinalScore     int            `json:"finalScore"`
	TotalQuestions int            `json:"totalQuestions"`
	Percentage     float64        `json:"percentage"`
	Duration       time.Duration  `json:"duration"`
	Grade          string         `json:"grade"`
	Answers        []AnswerRecord `json:"answers"`
}
