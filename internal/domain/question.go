package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// PageSize is the number of questions the API returns per page.
const PageSize = 10

// Question is a single trivia question as returned by the API.
// Category holds the label when the server sends one; CategoryID holds the
// numeric category when the server sends that instead (or alongside).
type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   string `json:"category"`
	CategoryID int    `json:"category_id,omitempty"`
	Difficulty int    `json:"difficulty"`
}

// UnmarshalJSON accepts "category" either as a label or as a numeric id.
func (q *Question) UnmarshalJSON(data []byte) error {
	type plain Question
	var raw struct {
		plain
		Category json.RawMessage `json:"category"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*q = Question(raw.plain)
	q.Category = ""

	if len(raw.Category) == 0 || string(raw.Category) == "null" {
		return nil
	}
	var label string
	if err := json.Unmarshal(raw.Category, &label); err == nil {
		q.Category = label
		return nil
	}
	var id int
	if err := json.Unmarshal(raw.Category, &id); err != nil {
		return fmt.Errorf("question %d: category is neither a label nor an id: %w", q.ID, err)
	}
	if q.CategoryID == 0 {
		q.CategoryID = id
	}
	return nil
}

// Label is a category label that the server may send as a string, a number or null.
type Label string

// UnmarshalJSON decodes a string, a number or null into a Label.
func (l *Label) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = Label(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("category label: %w", err)
	}
	*l = Label(n.String())
	return nil
}

// QuestionPage is the payload shared by the list, category and search endpoints.
// Categories is only populated by the list endpoint.
type QuestionPage struct {
	Questions       []Question `json:"questions"`
	TotalQuestions  int        `json:"total_questions"`
	Categories      Categories `json:"categories,omitempty"`
	CurrentCategory Label      `json:"current_category"`
}

// NewQuestion is the body of a question creation request.
type NewQuestion struct {
	Question   string `json:"question" validate:"required,notblank"`
	Answer     string `json:"answer" validate:"required,notblank"`
	Category   int    `json:"category" validate:"required,min=1"`
	Difficulty int    `json:"difficulty" validate:"required,min=1,max=5"`
}

// PageCount returns how many pages are needed to show total questions.
func PageCount(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// ParseID parses a question or category id taken from a URL.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid id %q", ErrInvalidInput, s)
	}
	return id, nil
}
