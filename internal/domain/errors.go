package domain

import "errors"

var (
	// ErrNoQuestionsAvailable is returned when a question source yields an empty batch.
	ErrNoQuestionsAvailable = errors.New("no questions available for the specified criteria")
	// ErrSessionNotFound is returned when a user has no active quiz.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrInvalidAnswer indicates input that does not map to an answer slot.
	ErrInvalidAnswer = errors.New("answer must be A, B, C, or D")
	// ErrUpstreamStatus indicates a non-success response from the question bank.
	ErrUpstreamStatus = errors.New("question bank returned non-success status")
	// ErrMalformedPayload indicates a question bank response that does not fit the question shape.
	ErrMalformedPayload = errors.New("malformed question bank payload")
)
