package questionbank

import (
	"encoding/json"
	"fmt"
	"strings"

	"quizbot/internal/domain"
)

// WireQuestion is the question shape served by the upstream question bank.
// Answer and correctness dictionaries stay open maps only at this boundary.
type WireQuestion struct {
	ID                     int                `json:"id"`
	Question               string             `json:"question"`
	Description            *string            `json:"description"`
	Answers                map[string]*string `json:"answers"`
	MultipleCorrectAnswers string             `json:"multiple_correct_answers,omitempty"`
	CorrectAnswers         map[string]string  `json:"correct_answers"`
	CorrectAnswer          *string            `json:"correct_answer"`
	Explanation            *string            `json:"explanation"`
	Tip                    *string            `json:"tip"`
	Tags                   []WireTag          `json:"tags"`
	Category               string             `json:"category"`
	Difficulty             string             `json:"difficulty"`
}

// WireTag is a single upstream tag object.
type WireTag struct {
	Name string `json:"name"`
}

// ToDomain converts the wire shape into a fixed-slot question.
// A question without any non-null answer slot does not fit the question shape.
func (w WireQuestion) ToDomain() (domain.Question, error) {
	q := domain.Question{
		ID:          w.ID,
		Text:        w.Question,
		Description: deref(w.Description),
		Explanation: deref(w.Explanation),
		Hint:        deref(w.Tip),
		Category:    w.Category,
		Difficulty:  w.Difficulty,
	}
	for _, slot := range domain.Slots {
		if text, ok := w.Answers[string(slot)]; ok && text != nil {
			q.Answers.Set(slot, *text)
		}
		if flag, ok := w.CorrectAnswers[string(slot)+"_correct"]; ok {
			q.CorrectFlags.Set(slot, flag)
		}
	}
	if q.Answers.Empty() {
		return domain.Question{}, fmt.Errorf("%w: question %d has no answers", domain.ErrMalformedPayload, w.ID)
	}
	if w.CorrectAnswer != nil && *w.CorrectAnswer != "" {
		q.CorrectSlot = domain.Slot(strings.ToLower(*w.CorrectAnswer))
	}
	for _, tag := range w.Tags {
		if tag.Name != "" {
			q.Tags = append(q.Tags, tag.Name)
		}
	}
	return q, nil
}

// FromDomain renders q back into the wire shape.
func FromDomain(q domain.Question) WireQuestion {
	w := WireQuestion{
		ID:                     q.ID,
		Question:               q.Text,
		Description:            ref(q.Description),
		Answers:                make(map[string]*string, len(domain.Slots)),
		MultipleCorrectAnswers: "false",
		CorrectAnswers:         make(map[string]string, len(domain.Slots)),
		Explanation:            ref(q.Explanation),
		Tip:                    ref(q.Hint),
		Category:               q.Category,
		Difficulty:             q.Difficulty,
	}
	for _, slot := range domain.Slots {
		if text, ok := q.Answers.Get(slot); ok {
			w.Answers[string(slot)] = ref(text)
		} else {
			w.Answers[string(slot)] = nil
		}
		if flag, ok := q.CorrectFlags.Get(slot); ok {
			w.CorrectAnswers[string(slot)+"_correct"] = flag
		}
	}
	if q.CorrectSlot != "" {
		w.CorrectAnswer = ref(string(q.CorrectSlot))
	}
	for _, tag := range q.Tags {
		w.Tags = append(w.Tags, WireTag{Name: tag})
	}
	return w
}

// DecodeQuestions parses a question array. A JSON null or any unusable item is malformed;
// an empty array is returned as an empty batch.
func DecodeQuestions(data []byte) ([]domain.Question, error) {
	var wire []WireQuestion
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	if wire == nil {
		return nil, fmt.Errorf("%w: null question list", domain.ErrMalformedPayload)
	}
	questions := make([]domain.Question, 0, len(wire))
	for _, w := range wire {
		q, err := w.ToDomain()
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// DecodeCategories accepts either an object of name -> label or an array of {id, name}.
func DecodeCategories(data []byte) (map[string]string, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	trimmed := strings.TrimSpace(string(raw))
	switch {
	case strings.HasPrefix(trimmed, "{"):
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
		}
		out := make(map[string]string, len(obj))
		for name, label := range obj {
			out[name] = fmt.Sprint(label)
		}
		return out, nil
	case strings.HasPrefix(trimmed, "["):
		var items []struct {
			ID   any    `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
		}
		out := make(map[string]string, len(items))
		for _, item := range items {
			if item.Name == "" {
				continue
			}
			label := item.Name
			if item.ID != nil {
				label = fmt.Sprint(item.ID)
			}
			out[item.Name] = label
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unexpected categories payload", domain.ErrMalformedPayload)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ref(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
