// Package importer reads questions written as plain text blocks and posts
// them to the trivia API.
//
// A block looks like:
//
//	Q: What is the capital of France?
//	A: Paris
//	C: Geography
//	D: 2
//
// Blocks are separated by "---" or by the next "Q:" line. Questions and
// answers may continue over several lines. The category is a label or an id.
package importer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/conorfennell/trivia/internal/domain"
	"github.com/conorfennell/trivia/internal/view"
)

const (
	questionPrefix   = "Q:"
	answerPrefix     = "A:"
	categoryPrefix   = "C:"
	difficultyPrefix = "D:"
	separator        = "---"
)

type state int

const (
	seeking state = iota
	readingQuestion
	readingAnswer
	readingCategory
	readingDifficulty
)

// Entry is one question block as written in the file.
type Entry struct {
	Line       int
	Question   string
	Answer     string
	Category   string
	Difficulty string
}

// API is the part of the trivia API client the importer needs.
type API interface {
	Categories(ctx context.Context) (domain.Categories, error)
	CreateQuestion(ctx context.Context, q domain.NewQuestion) error
}

// Result counts what an import did.
type Result struct {
	Created int
	Skipped int
}

// Parse reads from an io.Reader and extracts all entries.
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	var current Entry
	var block []string
	currentState := seeking
	lineNo := 0

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.TrimSpace(strings.Join(block, "\n"))
		switch currentState {
		case readingQuestion:
			current.Question = content
		case readingAnswer:
			current.Answer = content
		case readingCategory:
			current.Category = content
		case readingDifficulty:
			current.Difficulty = content
		}
		block = nil
	}

	finishEntry := func() {
		flushBlock()
		if current.Question != "" {
			entries = append(entries, current)
		}
		current = Entry{}
		currentState = seeking
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if strings.TrimSpace(line) == separator {
			finishEntry()
			continue
		}

		next, prefix := classify(line)
		if next == seeking {
			if currentState != seeking {
				block = append(block, line)
			}
			continue
		}

		flushBlock()
		if next == readingQuestion {
			// A new question always starts a new entry.
			if currentState != seeking {
				finishEntry()
			}
			current.Line = lineNo
		}
		currentState = next
		block = append(block, strings.TrimPrefix(line[len(prefix):], " "))
	}

	finishEntry()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func classify(line string) (state, string) {
	switch {
	case strings.HasPrefix(line, questionPrefix):
		return readingQuestion, questionPrefix
	case strings.HasPrefix(line, answerPrefix):
		return readingAnswer, answerPrefix
	case strings.HasPrefix(line, categoryPrefix):
		return readingCategory, categoryPrefix
	case strings.HasPrefix(line, difficultyPrefix):
		return readingDifficulty, difficultyPrefix
	}
	return seeking, ""
}

// Resolve turns an entry into a creation request, looking the category up by
// id or by label (case-insensitive).
func Resolve(e Entry, known domain.Categories) (domain.NewQuestion, error) {
	q := domain.NewQuestion{
		Question: e.Question,
		Answer:   e.Answer,
	}

	if e.Difficulty != "" {
		d, err := strconv.Atoi(e.Difficulty)
		if err != nil {
			return q, fmt.Errorf("%w: difficulty %q on line %d", domain.ErrInvalidInput, e.Difficulty, e.Line)
		}
		q.Difficulty = d
	}

	if id, err := strconv.Atoi(e.Category); err == nil {
		q.Category = id
	} else {
		for _, c := range known {
			if strings.EqualFold(c.Label, e.Category) {
				q.Category = c.ID
				break
			}
		}
	}

	if err := view.ValidateQuestion(q, known); err != nil {
		return q, fmt.Errorf("question on line %d: %w", e.Line, err)
	}
	return q, nil
}

// Import posts every valid entry read from r. Invalid entries are logged and
// skipped; the first API failure stops the import.
func Import(ctx context.Context, api API, r io.Reader, logger *slog.Logger) (Result, error) {
	var res Result

	entries, err := Parse(r)
	if err != nil {
		return res, fmt.Errorf("failed to read questions: %w", err)
	}

	known, err := api.Categories(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to fetch categories: %w", err)
	}

	err = importEntries(ctx, api, known, entries, logger, &res)
	return res, err
}

func importEntries(ctx context.Context, api API, known domain.Categories, entries []Entry, logger *slog.Logger, res *Result) error {
	for _, e := range entries {
		q, err := Resolve(e, known)
		if err != nil {
			logger.Warn("Skipping question", "line", e.Line, "error", err)
			res.Skipped++
			continue
		}
		if err := api.CreateQuestion(ctx, q); err != nil {
			return fmt.Errorf("failed to create question on line %d: %w", e.Line, err)
		}
		logger.Debug("Question created", "line", e.Line, "category", q.Category)
		res.Created++
	}
	return nil
}
