package view

import (
	"errors"
	"testing"

	"github.com/conorfennell/trivia/internal/domain"
)

func TestValidateQuestionMessages(t *testing.T) {
	known := domain.Categories{{ID: 1, Label: "Science"}, {ID: 2, Label: "Art"}}

	testCases := []struct {
		name     string
		question domain.NewQuestion
		expected map[string]string
	}{
		{
			name:     "valid",
			question: domain.NewQuestion{Question: "Why?", Answer: "Because", Category: 2, Difficulty: 5},
		},
		{
			name:     "everything missing",
			question: domain.NewQuestion{},
			expected: map[string]string{
				"Question":   "Question should not be blank.",
				"Answer":     "Answer should not be blank.",
				"Category":   "Category should be one of the listed categories.",
				"Difficulty": "Difficulty should be between 1 and 5.",
			},
		},
		{
			name:     "whitespace only",
			question: domain.NewQuestion{Question: "  ", Answer: "\t", Category: 1, Difficulty: 1},
			expected: map[string]string{
				"Question": "Question should not be blank.",
				"Answer":   "Answer should not be blank.",
			},
		},
		{
			name:     "difficulty too high",
			question: domain.NewQuestion{Question: "Q", Answer: "A", Category: 1, Difficulty: 6},
			expected: map[string]string{"Difficulty": "Difficulty should be between 1 and 5."},
		},
		{
			name:     "unknown category",
			question: domain.NewQuestion{Question: "Q", Answer: "A", Category: 9, Difficulty: 3},
			expected: map[string]string{"Category": "Category should be one of the listed categories."},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateQuestion(tc.question, known)
			if tc.expected == nil {
				if err != nil {
					t.Fatalf("Expected no error, but got %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected a ValidationError, but got %v", err)
			}
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("Expected the error to wrap ErrInvalidInput")
			}
			if len(verr.Fields) != len(tc.expected) {
				t.Fatalf("Expected %d fields, but got %v", len(tc.expected), verr.Fields)
			}
			for field, msg := range tc.expected {
				if verr.Fields[field] != msg {
					t.Errorf("Expected %s message '%s', but got '%s'", field, msg, verr.Fields[field])
				}
			}
		})
	}
}
