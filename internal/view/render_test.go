package view

import (
	"testing"

	"github.com/conorfennell/trivia/internal/domain"
)

func TestPagination(t *testing.T) {
	testCases := []struct {
		total   int
		current int
		pages   int
	}{
		{total: 0, current: 1, pages: 0},
		{total: 10, current: 1, pages: 1},
		{total: 11, current: 2, pages: 2},
		{total: 95, current: 4, pages: 10},
	}

	for _, tc := range testCases {
		links := Pagination(tc.total, tc.current)
		if len(links) != tc.pages {
			t.Fatalf("total %d: expected %d pages, but got %d", tc.total, tc.pages, len(links))
		}
		for i, link := range links {
			if link.Number != i+1 {
				t.Errorf("Expected link %d to be page %d, but got %d", i, i+1, link.Number)
			}
			if link.Active != (link.Number == tc.current) {
				t.Errorf("Page %d: unexpected active flag %v", link.Number, link.Active)
			}
		}
	}
}

func TestQuestionCardToggle(t *testing.T) {
	c := QuestionCard{Answer: "Paris"}
	if c.ToggleLabel() != "Show" {
		t.Errorf("Expected 'Show', but got '%s'", c.ToggleLabel())
	}
	c.Toggle()
	if !c.AnswerVisible || c.ToggleLabel() != "Hide" {
		t.Errorf("Expected a visible answer after one toggle, got %+v", c)
	}
	c.Toggle()
	if c.AnswerVisible || c.Answer != "Paris" {
		t.Errorf("Expected the original card after two toggles, got %+v", c)
	}
}

func TestCardIconResolution(t *testing.T) {
	s := NewState()
	s.Categories = domain.Categories{{ID: 1, Label: "Science"}, {ID: 6, Label: "Sports"}}

	testCases := []struct {
		name     string
		question domain.Question
		icon     string
		label    string
	}{
		{"label found in categories", domain.Question{Category: "Sports"}, "sports", "Sports"},
		{"id only", domain.Question{CategoryID: 1}, "science", "Science"},
		{"id wins", domain.Question{Category: "Science", CategoryID: 6}, "sports", "Science"},
		{"unknown label", domain.Question{Category: "Cooking"}, "category", "Cooking"},
		{"out of range id", domain.Question{CategoryID: 12}, "category", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := card(s, tc.question)
			if c.Icon.Name != tc.icon {
				t.Errorf("Expected icon '%s', but got '%s'", tc.icon, c.Icon.Name)
			}
			if c.Category != tc.label {
				t.Errorf("Expected label '%s', but got '%s'", tc.label, c.Category)
			}
		})
	}
}
