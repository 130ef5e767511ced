package domain

import "errors"

var (
	// ErrRequestFailed covers every failed API call: transport errors,
	// non-2xx responses and malformed payloads.
	ErrRequestFailed = errors.New("request failed")

	ErrInvalidInput     = errors.New("invalid input")
	ErrQuestionNotFound = errors.New("question not in current view")
)

// FailureMessage is the one message users see when a request fails.
const FailureMessage = "Unable to load questions. Please try your request again"
