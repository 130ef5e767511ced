package domain

import (
	"encoding/json"
	"testing"
)

func TestPageCount(t *testing.T) {
	testCases := []struct {
		total    int
		expected int
	}{
		{total: 0, expected: 0},
		{total: 1, expected: 1},
		{total: 10, expected: 1},
		{total: 11, expected: 2},
		{total: 19, expected: 2},
		{total: 20, expected: 2},
		{total: 21, expected: 3},
		{total: -4, expected: 0},
	}

	for _, tc := range testCases {
		if got := PageCount(tc.total); got != tc.expected {
			t.Errorf("PageCount(%d): expected %d, but got %d", tc.total, tc.expected, got)
		}
	}
}

func TestQuestionUnmarshal(t *testing.T) {
	t.Run("category label with id", func(t *testing.T) {
		var q Question
		data := `{"id":5,"question":"Who painted it?","answer":"Escher","category":"Art","category_id":2,"difficulty":1}`
		if err := json.Unmarshal([]byte(data), &q); err != nil {
			t.Fatalf("Unmarshal returned an unexpected error: %v", err)
		}
		if q.Category != "Art" || q.CategoryID != 2 {
			t.Errorf("Expected Art/2, but got %q/%d", q.Category, q.CategoryID)
		}
		if q.ID != 5 || q.Difficulty != 1 || q.Answer != "Escher" {
			t.Errorf("Unexpected question fields: %+v", q)
		}
	})

	t.Run("numeric category", func(t *testing.T) {
		var q Question
		if err := json.Unmarshal([]byte(`{"id":1,"category":4}`), &q); err != nil {
			t.Fatalf("Unmarshal returned an unexpected error: %v", err)
		}
		if q.Category != "" || q.CategoryID != 4 {
			t.Errorf("Expected empty label and id 4, but got %q/%d", q.Category, q.CategoryID)
		}
	})

	t.Run("null category", func(t *testing.T) {
		var q Question
		if err := json.Unmarshal([]byte(`{"id":1,"category":null}`), &q); err != nil {
			t.Fatalf("Unmarshal returned an unexpected error: %v", err)
		}
		if q.Category != "" || q.CategoryID != 0 {
			t.Errorf("Expected no category, but got %q/%d", q.Category, q.CategoryID)
		}
	})

	t.Run("invalid category", func(t *testing.T) {
		var q Question
		if err := json.Unmarshal([]byte(`{"id":1,"category":true}`), &q); err == nil {
			t.Error("Expected an error for a boolean category")
		}
	})

	t.Run("survives a round trip", func(t *testing.T) {
		in := Question{ID: 3, Question: "Q", Answer: "A", CategoryID: 6, Difficulty: 2}
		data, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("Marshal returned an unexpected error: %v", err)
		}
		var out Question
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("Unmarshal returned an unexpected error: %v", err)
		}
		if out != in {
			t.Errorf("Expected %+v, but got %+v", in, out)
		}
	})
}

func TestCategoriesUnmarshal(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected Categories
	}{
		{
			name:     "label list",
			input:    `["Science","Art","Geography"]`,
			expected: Categories{{1, "Science"}, {2, "Art"}, {3, "Geography"}},
		},
		{
			name:     "keyed by id",
			input:    `{"6":"Sports","1":"Science","2":"Art"}`,
			expected: Categories{{1, "Science"}, {2, "Art"}, {6, "Sports"}},
		},
		{
			name:     "objects with type",
			input:    `[{"id":1,"type":"Science"},{"id":5,"label":"Entertainment"}]`,
			expected: Categories{{1, "Science"}, {5, "Entertainment"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got Categories
			if err := json.Unmarshal([]byte(tc.input), &got); err != nil {
				t.Fatalf("Unmarshal returned an unexpected error: %v", err)
			}
			if len(got) != len(tc.expected) {
				t.Fatalf("Expected %d categories, but got %d", len(tc.expected), len(got))
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("Category %d: expected %+v, but got %+v", i, tc.expected[i], got[i])
				}
			}
		})
	}
}

func TestLabelUnmarshal(t *testing.T) {
	var page QuestionPage
	if err := json.Unmarshal([]byte(`{"questions":[],"total_questions":0,"current_category":3}`), &page); err != nil {
		t.Fatalf("Unmarshal returned an unexpected error: %v", err)
	}
	if page.CurrentCategory != "3" {
		t.Errorf("Expected current category '3', but got '%s'", page.CurrentCategory)
	}

	if err := json.Unmarshal([]byte(`{"current_category":null}`), &page); err != nil {
		t.Fatalf("Unmarshal returned an unexpected error: %v", err)
	}
	if page.CurrentCategory != "" {
		t.Errorf("Expected empty current category, but got '%s'", page.CurrentCategory)
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("12"); err != nil || id != 12 {
		t.Errorf("Expected 12, but got %d (%v)", id, err)
	}
	for _, bad := range []string{"", "0", "-1", "abc"} {
		if _, err := ParseID(bad); err == nil {
			t.Errorf("Expected an error for %q", bad)
		}
	}
}
