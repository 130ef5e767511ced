// Package triviaapi is the one place requests to the trivia REST API are issued.
package triviaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/conorfennell/trivia/internal/domain"
)

// Credential modes, named after the fetch API's.
const (
	CredentialsOmit    = "omit"
	CredentialsInclude = "include"
)

const defaultContentType = "application/json"

// Options are the request options every call shares.
type Options struct {
	BaseURL     string
	Credentials string
	ContentType string
	Timeout     time.Duration
}

// Client talks to the trivia API.
type Client struct {
	baseURL     *url.URL
	contentType string
	httpClient  *http.Client
	logger      *slog.Logger
}

// APIError is returned when the API answers with a non-2xx status.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// Unwrap lets callers match every API failure with domain.ErrRequestFailed.
func (e *APIError) Unwrap() error { return domain.ErrRequestFailed }

// NewClient builds a client from opts.
func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", opts.BaseURL)
	}

	httpClient := &http.Client{Timeout: opts.Timeout}
	switch opts.Credentials {
	case CredentialsInclude:
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	case CredentialsOmit, "":
	default:
		return nil, fmt.Errorf("unknown credentials mode %q", opts.Credentials)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:     base,
		contentType: contentType,
		httpClient:  httpClient,
		logger:      logger,
	}, nil
}

// ListQuestions fetches one page of all questions, with the category list.
func (c *Client) ListQuestions(ctx context.Context, page int) (*domain.QuestionPage, error) {
	query := url.Values{"page": {strconv.Itoa(page)}}
	var out domain.QuestionPage
	if err := c.call(ctx, http.MethodGet, "/questions", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QuestionsByCategory fetches the questions of one category.
func (c *Client) QuestionsByCategory(ctx context.Context, categoryID int) (*domain.QuestionPage, error) {
	path := fmt.Sprintf("/categories/%d/questions", categoryID)
	var out domain.QuestionPage
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchQuestions fetches the questions whose text contains term.
func (c *Client) SearchQuestions(ctx context.Context, term string) (*domain.QuestionPage, error) {
	body := struct {
		SearchTerm string `json:"search_term"`
	}{SearchTerm: term}
	var out domain.QuestionPage
	if err := c.call(ctx, http.MethodPost, "/questions/search", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteQuestion deletes a question. The response body is ignored.
func (c *Client) DeleteQuestion(ctx context.Context, id int) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/questions/%d", id), nil, nil, nil)
}

// Categories fetches the category list on its own.
func (c *Client) Categories(ctx context.Context) (domain.Categories, error) {
	var out struct {
		Categories domain.Categories `json:"categories"`
	}
	if err := c.call(ctx, http.MethodGet, "/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// CreateQuestion adds a question.
func (c *Client) CreateQuestion(ctx context.Context, q domain.NewQuestion) error {
	return c.call(ctx, http.MethodPost, "/questions", nil, q, nil)
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: %s %s: marshal: %w", domain.ErrRequestFailed, method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrRequestFailed, method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", c.contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrRequestFailed, method, path, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "trivia api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", float64(time.Since(start).Nanoseconds())/1e6,
	)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s %s: read: %w", domain.ErrRequestFailed, method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: unmarshal: %w", domain.ErrRequestFailed, method, path, err)
	}
	return nil
}
