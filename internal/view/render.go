package view

import (
	"github.com/conorfennell/trivia/internal/domain"
	"github.com/conorfennell/trivia/internal/icons"
)

// CategoryItem is one sidebar entry.
type CategoryItem struct {
	ID     int
	Label  string
	Icon   icons.Icon
	Active bool
}

// QuestionCard is everything the question template needs for one question.
type QuestionCard struct {
	ID            int
	Question      string
	Answer        string
	Category      string
	Icon          icons.Icon
	Difficulty    int
	AnswerVisible bool
}

// Toggle flips answer visibility. The answer itself never changes.
func (c *QuestionCard) Toggle() {
	c.AnswerVisible = !c.AnswerVisible
}

// ToggleLabel is the verb on the show/hide control.
func (c QuestionCard) ToggleLabel() string {
	if c.AnswerVisible {
		return "Hide"
	}
	return "Show"
}

// PageLink is one entry of the pagination control.
type PageLink struct {
	Number int
	Active bool
}

// Snapshot is the render model of a whole QuestionView.
type Snapshot struct {
	Sidebar         []CategoryItem
	Questions       []QuestionCard
	Pages           []PageLink
	Page            int
	TotalQuestions  int
	CurrentCategory string
	SearchTerm      string
}

// Pagination returns links for pages 1..PageCount(total), marking current.
func Pagination(total, current int) []PageLink {
	n := domain.PageCount(total)
	links := make([]PageLink, 0, n)
	for i := 1; i <= n; i++ {
		links = append(links, PageLink{Number: i, Active: i == current})
	}
	return links
}

func snapshot(s State) Snapshot {
	snap := Snapshot{
		Pages:           Pagination(s.TotalQuestions, s.Page),
		Page:            s.Page,
		TotalQuestions:  s.TotalQuestions,
		CurrentCategory: s.CurrentCategory,
		SearchTerm:      s.SearchTerm,
	}
	for _, c := range s.Categories {
		snap.Sidebar = append(snap.Sidebar, CategoryItem{
			ID:     c.ID,
			Label:  c.Label,
			Icon:   icons.Resolve(c.ID, c.Label),
			Active: c.ID == s.CategoryID,
		})
	}
	for _, q := range s.Questions {
		snap.Questions = append(snap.Questions, card(s, q))
	}
	return snap
}

func card(s State, q domain.Question) QuestionCard {
	categoryID := q.CategoryID
	label := q.Category
	if categoryID == 0 && label != "" {
		for _, c := range s.Categories {
			if c.Label == label {
				categoryID = c.ID
				break
			}
		}
	}
	if label == "" {
		if c, ok := s.Categories.ByID(categoryID); ok {
			label = c.Label
		}
	}
	return QuestionCard{
		ID:            q.ID,
		Question:      q.Question,
		Answer:        q.Answer,
		Category:      label,
		Icon:          icons.Resolve(categoryID, label),
		Difficulty:    q.Difficulty,
		AnswerVisible: s.Visible[q.ID],
	}
}
