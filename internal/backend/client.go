package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"authorportal/internal/config"
	"authorportal/internal/metrics"
	"authorportal/internal/models"
	"authorportal/internal/security"
)

const maxBodyBytes = 8 << 20

// Client talks to the journal backend. Every call carries the author's
// bearer token.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewClient(cfg config.BackendConfig, log zerolog.Logger, m *metrics.Metrics) *Client {
	return NewClientWithHTTP(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout}, log, m)
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client, log zerolog.Logger, m *metrics.Metrics) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		log:     log.With().Str("component", "backend").Logger(),
		metrics: m,
	}
}

type request struct {
	operation   string
	method      string
	path        string
	token       string
	body        io.Reader
	contentType string
}

type response struct {
	status int
	body   []byte
}

func (c *Client) send(ctx context.Context, req request) (response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, req.body)
	if err != nil {
		return response{}, fmt.Errorf("build %s request: %w", req.operation, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.metrics.ObserveBackend(req.operation, 0, time.Since(start))
		return response{}, fmt.Errorf("backend %s: %w", req.operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	elapsed := time.Since(start)
	c.metrics.ObserveBackend(req.operation, resp.StatusCode, elapsed)
	if err != nil {
		return response{}, fmt.Errorf("read %s response: %w", req.operation, err)
	}

	c.log.Debug().
		Str("operation", req.operation).
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Dur("latency", elapsed).
		Str("token", security.Fingerprint(req.token)).
		Msg("backend call")

	return response{status: resp.StatusCode, body: body}, nil
}

// call sends the request and maps non-2xx responses to errors.
func (c *Client) call(ctx context.Context, req request) ([]byte, error) {
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(req.operation, resp); err != nil {
		return nil, err
	}
	return resp.body, nil
}

func checkStatus(operation string, resp response) error {
	switch {
	case resp.status >= 200 && resp.status < 300:
		return nil
	case resp.status == http.StatusUnauthorized:
		return ErrUnauthorized
	}

	message := gjson.GetBytes(resp.body, "error").String()
	if message == "" {
		message = gjson.GetBytes(resp.body, "detail").String()
	}
	return &StatusError{Operation: operation, Status: resp.status, Message: message}
}

func decode[T any](operation string, body []byte) (T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode %s response: %w", operation, err)
	}
	return out, nil
}

// ValidateToken resolves the identity behind a token. A 2xx body without a
// truthy id is rejected with ErrInvalidIdentity.
func (c *Client) ValidateToken(ctx context.Context, token string) (models.Author, error) {
	const op = "validate_token"
	body, err := c.call(ctx, request{operation: op, method: http.MethodGet, path: "/sso-auth/validate-token/", token: token})
	if err != nil {
		return models.Author{}, err
	}
	if !models.Truthy(gjson.GetBytes(body, "id")) {
		return models.Author{}, ErrInvalidIdentity
	}
	return decode[models.Author](op, body)
}

func (c *Client) AcceptedJournals(ctx context.Context, token string) ([]models.Article, error) {
	const op = "accepted_journals"
	body, err := c.call(ctx, request{operation: op, method: http.MethodGet, path: "/journal/accepted-journals/", token: token})
	if err != nil {
		return nil, err
	}
	return decode[[]models.Article](op, body)
}

func (c *Client) ArticlesByAuthor(ctx context.Context, token string, authorID int64) ([]models.Article, error) {
	const op = "articles_by_author"
	body, err := c.call(ctx, request{
		operation: op,
		method:    http.MethodGet,
		path:      fmt.Sprintf("/journal/by-corresponding-author/%d", authorID),
		token:     token,
	})
	if err != nil {
		return nil, err
	}
	return decode[[]models.Article](op, body)
}

func (c *Client) JournalDetail(ctx context.Context, token string, id int64) (models.JournalDetail, error) {
	const op = "journal_detail"
	body, err := c.call(ctx, request{operation: op, method: http.MethodGet, path: fmt.Sprintf("/journal/detail/%d/", id), token: token})
	if err != nil {
		return models.JournalDetail{}, err
	}
	return decode[models.JournalDetail](op, body)
}

func (c *Client) SubjectAreas(ctx context.Context, token string) ([]models.SubjectArea, error) {
	const op = "subject_areas"
	body, err := c.call(ctx, request{operation: op, method: http.MethodGet, path: "/journal/subject-areas/", token: token})
	if err != nil {
		return nil, err
	}
	return decode[[]models.SubjectArea](op, body)
}

func (c *Client) JournalSections(ctx context.Context, token string) ([]models.JournalSection, error) {
	const op = "journal_sections"
	body, err := c.call(ctx, request{operation: op, method: http.MethodGet, path: "/journal/journal-sections/", token: token})
	if err != nil {
		return nil, err
	}
	return decode[[]models.JournalSection](op, body)
}

// UpdateBeforeReview sends the editable fields as a multipart PATCH. File
// replacement is handled elsewhere.
func (c *Client) UpdateBeforeReview(ctx context.Context, token string, id int64, update models.JournalUpdate) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"title", update.Title},
		{"abstract", update.Abstract},
		{"keywords", update.Keywords},
		{"subject_area", update.SubjectArea},
		{"journal_section", update.JournalSection},
		{"language", update.Language},
	}
	for _, f := range fields {
		if err := form.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("encode %s: %w", f.name, err)
		}
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("encode form: %w", err)
	}

	_, err := c.call(ctx, request{
		operation:   "update_before_review",
		method:      http.MethodPatch,
		path:        fmt.Sprintf("/journal/update-before-review/%d/", id),
		token:       token,
		body:        &buf,
		contentType: form.FormDataContentType(),
	})
	return err
}

// Recommendations lists a role's recommendations for a journal. The sentinel
// 404 is reported as ErrNoRecommendations; any other 404 is a StatusError.
func (c *Client) Recommendations(ctx context.Context, token string, role models.ReviewerRole, journalID int64) ([]models.Recommendation, error) {
	op := "recommendations_" + role.APIPrefix
	resp, err := c.send(ctx, request{
		operation: op,
		method:    http.MethodGet,
		path:      fmt.Sprintf("/%s/recommendations/by-journal/%d/", role.APIPrefix, journalID),
		token:     token,
	})
	if err != nil {
		return nil, err
	}
	if resp.status == http.StatusNotFound && gjson.GetBytes(resp.body, "detail").String() == NoRecommendationsDetail {
		return nil, ErrNoRecommendations
	}
	if err := checkStatus(op, resp); err != nil {
		return nil, err
	}
	return decode[[]models.Recommendation](op, resp.body)
}

func (c *Client) DeleteRecommendation(ctx context.Context, token string, role models.ReviewerRole, recommendationID int64) error {
	_, err := c.call(ctx, request{
		operation: "delete_recommendation_" + role.APIPrefix,
		method:    http.MethodDelete,
		path:      fmt.Sprintf("/%s/recommendations/%d", role.APIPrefix, recommendationID),
		token:     token,
	})
	return err
}
