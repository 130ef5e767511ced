// Package view holds the question browser's view logic: the per-browser state,
// every call to the trivia API, and the render model built from that state.
package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/conorfennell/trivia/internal/domain"
)

// DeletePrompt is the question put to the user before a delete is sent.
const DeletePrompt = "are you sure you want to delete the question?"

// QuestionClient is the subset of the trivia API the view uses.
type QuestionClient interface {
	ListQuestions(ctx context.Context, page int) (*domain.QuestionPage, error)
	QuestionsByCategory(ctx context.Context, categoryID int) (*domain.QuestionPage, error)
	SearchQuestions(ctx context.Context, term string) (*domain.QuestionPage, error)
	DeleteQuestion(ctx context.Context, id int) error
	CreateQuestion(ctx context.Context, q domain.NewQuestion) error
}

// Notifier shows a message to the user without blocking the caller.
type Notifier interface {
	Alert(ctx context.Context, message string)
}

// Confirmer asks the user a yes/no question.
type Confirmer func(ctx context.Context, prompt string) (bool, error)

// Confirmed is a Confirmer with a fixed answer, for callers that already
// collected the user's decision.
func Confirmed(answer bool) Confirmer {
	return func(context.Context, string) (bool, error) { return answer, nil }
}

// Viewer identifies whose state an operation changes and where its alerts go.
type Viewer struct {
	SessionID string
	Alerts    Notifier
}

// QuestionView orchestrates fetching and holds the canonical list, page,
// category and filter state for each viewer.
type QuestionView struct {
	client QuestionClient
	store  Store
	logger *slog.Logger
}

// New returns a QuestionView backed by client and store.
func New(client QuestionClient, store Store, logger *slog.Logger) *QuestionView {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionView{
		client: client,
		store:  store,
		logger: logger,
	}
}

// Mount loads the first page for a viewer that has never loaded anything.
func (qv *QuestionView) Mount(ctx context.Context, who Viewer) error {
	s, err := qv.store.Get(ctx, who.SessionID)
	if err != nil {
		return err
	}
	if s.Loaded {
		return nil
	}
	return qv.LoadPage(ctx, who, s.Page)
}

// LoadPage fetches page of all questions and replaces the list, total,
// categories and current category.
func (qv *QuestionView) LoadPage(ctx context.Context, who Viewer, page int) error {
	return qv.loadPage(ctx, who, "load page", page, nil)
}

// SelectPage stores page and then loads it. The page is stored together with
// the request's generation, so a superseded selection cannot leave its page
// number behind.
func (qv *QuestionView) SelectPage(ctx context.Context, who Viewer, page int) error {
	if page < 1 {
		page = 1
	}
	return qv.loadPage(ctx, who, "select page", page, func(s *State) {
		s.Page = page
	})
}

// Reload discards everything a viewer has done, as a fresh page load does,
// and loads page 1.
func (qv *QuestionView) Reload(ctx context.Context, who Viewer) error {
	return qv.loadPage(ctx, who, "reload", 1, func(s *State) {
		gen := s.Generation
		*s = NewState()
		s.Generation = gen
	})
}

func (qv *QuestionView) loadPage(ctx context.Context, who Viewer, op string, page int, begin func(*State)) error {
	if page < 1 {
		page = 1
	}
	return qv.replaceList(ctx, who, op, begin,
		func(ctx context.Context) (*domain.QuestionPage, error) {
			return qv.client.ListQuestions(ctx, page)
		},
		func(s *State, p *domain.QuestionPage) {
			s.Categories = p.Categories
			s.CategoryID = 0
			s.SearchTerm = ""
		},
	)
}

// LoadCategory fetches the questions of one category. The stored page is
// left as it is.
func (qv *QuestionView) LoadCategory(ctx context.Context, who Viewer, categoryID int) error {
	return qv.replaceList(ctx, who, "load category", nil,
		func(ctx context.Context) (*domain.QuestionPage, error) {
			return qv.client.QuestionsByCategory(ctx, categoryID)
		},
		func(s *State, _ *domain.QuestionPage) {
			s.CategoryID = categoryID
			s.SearchTerm = ""
		},
	)
}

// Search fetches the questions matching term.
func (qv *QuestionView) Search(ctx context.Context, who Viewer, term string) error {
	return qv.replaceList(ctx, who, "search", nil,
		func(ctx context.Context) (*domain.QuestionPage, error) {
			return qv.client.SearchQuestions(ctx, term)
		},
		func(s *State, _ *domain.QuestionPage) {
			s.CategoryID = 0
			s.SearchTerm = term
		},
	)
}

// DeleteQuestion asks confirm and, if the user agrees, deletes the question
// and reloads the current page. A declined prompt sends nothing.
func (qv *QuestionView) DeleteQuestion(ctx context.Context, who Viewer, id int, confirm Confirmer) error {
	ok, err := confirm(ctx, DeletePrompt)
	if err != nil {
		return fmt.Errorf("confirm delete of question %d: %w", id, err)
	}
	if !ok {
		return nil
	}

	if err := qv.client.DeleteQuestion(ctx, id); err != nil {
		qv.fail(ctx, who, "delete question", err)
		return err
	}
	qv.logger.InfoContext(ctx, "question deleted", "session", who.SessionID, "question_id", id)

	s, err := qv.store.Get(ctx, who.SessionID)
	if err != nil {
		return err
	}
	return qv.LoadPage(ctx, who, s.Page)
}

// ToggleAnswer flips the answer visibility of a question in the current list.
func (qv *QuestionView) ToggleAnswer(ctx context.Context, who Viewer, id int) (QuestionCard, error) {
	var c QuestionCard
	err := qv.store.Update(ctx, who.SessionID, func(s *State) error {
		q, ok := s.question(id)
		if !ok {
			return fmt.Errorf("%w: %d", domain.ErrQuestionNotFound, id)
		}
		if s.Visible == nil {
			s.Visible = map[int]bool{}
		}
		c = card(*s, q)
		c.Toggle()
		s.Visible[id] = c.AnswerVisible
		return nil
	})
	return c, err
}

// Question returns the card of one question in the current list.
func (qv *QuestionView) Question(ctx context.Context, who Viewer, id int) (QuestionCard, error) {
	s, err := qv.store.Get(ctx, who.SessionID)
	if err != nil {
		return QuestionCard{}, err
	}
	q, ok := s.question(id)
	if !ok {
		return QuestionCard{}, fmt.Errorf("%w: %d", domain.ErrQuestionNotFound, id)
	}
	return card(s, q), nil
}

// CreateQuestion validates q and sends it to the API.
func (qv *QuestionView) CreateQuestion(ctx context.Context, who Viewer, q domain.NewQuestion) error {
	q.Question = strings.TrimSpace(q.Question)
	q.Answer = strings.TrimSpace(q.Answer)

	s, err := qv.store.Get(ctx, who.SessionID)
	if err != nil {
		return err
	}
	if err := ValidateQuestion(q, s.Categories); err != nil {
		return err
	}

	if err := qv.client.CreateQuestion(ctx, q); err != nil {
		qv.fail(ctx, who, "create question", err)
		return err
	}
	qv.logger.InfoContext(ctx, "question created", "session", who.SessionID, "category", q.Category)
	return nil
}

// Snapshot returns the render model for a viewer.
func (qv *QuestionView) Snapshot(ctx context.Context, who Viewer) (Snapshot, error) {
	s, err := qv.store.Get(ctx, who.SessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return snapshot(s), nil
}

// Categories returns the category list last loaded for a viewer.
func (qv *QuestionView) Categories(ctx context.Context, who Viewer) (domain.Categories, error) {
	s, err := qv.store.Get(ctx, who.SessionID)
	if err != nil {
		return nil, err
	}
	return s.Categories, nil
}

// replaceList runs one list-replacing request. Only the latest request a
// viewer issued may change the list; older completions are dropped. begin
// runs in the same update that takes the request's generation.
func (qv *QuestionView) replaceList(
	ctx context.Context,
	who Viewer,
	op string,
	begin func(*State),
	fetch func(context.Context) (*domain.QuestionPage, error),
	apply func(*State, *domain.QuestionPage),
) error {
	var gen uint64
	err := qv.store.Update(ctx, who.SessionID, func(s *State) error {
		if begin != nil {
			begin(s)
		}
		s.Generation++
		gen = s.Generation
		return nil
	})
	if err != nil {
		return err
	}

	page, fetchErr := fetch(ctx)
	if fetchErr != nil {
		s, err := qv.store.Get(ctx, who.SessionID)
		if err == nil && s.Generation != gen {
			qv.logger.DebugContext(ctx, "dropping failure of superseded request", "op", op, "error", fetchErr)
			return nil
		}
		qv.fail(ctx, who, op, fetchErr)
		return fetchErr
	}

	var stale bool
	err = qv.store.Update(ctx, who.SessionID, func(s *State) error {
		if s.Generation != gen {
			stale = true
			return nil
		}
		s.Questions = page.Questions
		if s.Questions == nil {
			s.Questions = []domain.Question{}
		}
		s.TotalQuestions = page.TotalQuestions
		s.CurrentCategory = string(page.CurrentCategory)
		s.Visible = map[int]bool{}
		s.Loaded = true
		apply(s, page)
		return nil
	})
	if err != nil {
		return err
	}
	if stale {
		qv.logger.DebugContext(ctx, "dropping superseded response", "op", op, "session", who.SessionID)
		return nil
	}
	qv.logger.DebugContext(ctx, "question list replaced",
		"op", op,
		"session", who.SessionID,
		"questions", len(page.Questions),
		"total", page.TotalQuestions,
	)
	return nil
}

func (qv *QuestionView) fail(ctx context.Context, who Viewer, op string, err error) {
	level := slog.LevelWarn
	if !errors.Is(err, domain.ErrRequestFailed) {
		level = slog.LevelError
	}
	qv.logger.Log(ctx, level, "request failed", "op", op, "session", who.SessionID, "error", err)
	if who.Alerts != nil {
		who.Alerts.Alert(ctx, domain.FailureMessage)
	}
}
