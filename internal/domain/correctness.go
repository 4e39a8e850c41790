package domain

import "strings"

// CorrectnessRule names the data a verdict was derived from.
type CorrectnessRule int

const (
	// RuleSlotFlag: the per-slot "answer_x_correct" flag for the selected slot.
	RuleSlotFlag CorrectnessRule = iota
	// RuleCorrectSlot: the question's single correct-slot reference.
	RuleCorrectSlot
	// RuleDefault: no usable data; answer_a is treated as correct.
	RuleDefault
)

func (r CorrectnessRule) String() string {
	switch r {
	case RuleSlotFlag:
		return "slot_flag"
	case RuleCorrectSlot:
		return "correct_slot"
	default:
		return "default"
	}
}

// Verdict is the outcome of grading one selected slot.
type Verdict struct {
	Correct bool
	Rule    CorrectnessRule
}

// Resolve grades selected against q, trying the rules in priority order:
// the selected slot's flag, then the correct-slot reference, then the answer_a default.
// TODO: the answer_a default is a placeholder pending product review; keep it until then.
func Resolve(q Question, selected Slot) Verdict {
	if flag, ok := q.CorrectFlags.Get(selected); ok {
		return Verdict{Correct: strings.EqualFold(flag, "true"), Rule: RuleSlotFlag}
	}
	if q.CorrectSlot != "" {
		return Verdict{Correct: strings.EqualFold(string(selected), string(q.CorrectSlot)), Rule: RuleCorrectSlot}
	}
	return Verdict{Correct: strings.EqualFold(string(selected), string(SlotA)), Rule: RuleDefault}
}
