package view

import (
	"context"

	"github.com/conorfennell/trivia/internal/domain"
)

// State is one browser's view state. It is owned by a Store and only ever
// changed through Store.Update.
type State struct {
	Questions       []domain.Question `json:"questions"`
	Page            int               `json:"page"`
	TotalQuestions  int               `json:"total_questions"`
	Categories      domain.Categories `json:"categories"`
	CurrentCategory string            `json:"current_category"`
	// CategoryID is the sidebar category last loaded, 0 for none.
	CategoryID int    `json:"category_id"`
	SearchTerm string `json:"search_term"`
	// Visible holds the answer-visibility flag per question id.
	Visible map[int]bool `json:"visible"`
	// Generation increases with every list-replacing request.
	Generation uint64 `json:"generation"`
	Loaded     bool   `json:"loaded"`
}

// NewState returns the state of a browser that has not loaded anything yet.
func NewState() State {
	return State{Page: 1, Visible: map[int]bool{}}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Questions = append([]domain.Question(nil), s.Questions...)
	out.Categories = append(domain.Categories(nil), s.Categories...)
	out.Visible = make(map[int]bool, len(s.Visible))
	for id, v := range s.Visible {
		out.Visible[id] = v
	}
	return out
}

func (s *State) question(id int) (domain.Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Question{}, false
}

// Store keeps view state per session. Get of an unknown session returns
// NewState. Update applies fn atomically; if fn fails nothing is saved.
type Store interface {
	Get(ctx context.Context, sessionID string) (State, error)
	Update(ctx context.Context, sessionID string, fn func(*State) error) error
}
