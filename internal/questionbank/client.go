package questionbank

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"quizbot/internal/domain"
)

const (
	// DefaultBaseURL is the public QuizAPI endpoint.
	DefaultBaseURL = "https://quizapi.io/api/v1"
	// DefaultTimeout bounds a single upstream request.
	DefaultTimeout = 10 * time.Second

	apiKeyHeader = "X-Api-Key"
	maxBodyBytes = 4 << 20
)

// Client fetches questions from the upstream question bank. Any upstream failure is
// logged and replaced by the built-in fallback set, so callers never see an error.
// Results are never cached; concurrent category lookups share one in-flight request.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *http.Client
	sf      singleflight.Group
}

// NewClient builds a client for baseURL. An empty apiKey omits the API key header.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchQuestions returns the questions matching req, or the fallback set on any failure.
func (c *Client) FetchQuestions(ctx context.Context, req domain.StartRequest) ([]domain.Question, error) {
	questions, err := c.Fetch(ctx, req)
	if err != nil {
		log.Printf("question bank unavailable, using fallback questions: %v", err)
		return FallbackQuestions(), nil
	}
	return questions, nil
}

// Fetch returns the questions matching req without substituting the fallback set.
func (c *Client) Fetch(ctx context.Context, req domain.StartRequest) ([]domain.Question, error) {
	endpoint := c.questionsURL(req)
	log.Printf("fetching quiz questions from %s", endpoint)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return DecodeQuestions(body)
}

// Categories returns the upstream category mapping, or the fallback list on any failure.
// Concurrent callers share one upstream request, which runs detached from any single
// caller's context; each caller still gives up on its own deadline.
func (c *Client) Categories(ctx context.Context) (map[string]string, error) {
	ch := c.sf.DoChan("categories", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.fetchCategories(fetchCtx), nil
	})

	select {
	case res := <-ch:
		// Each caller gets its own map; the shared result must not be mutated.
		shared := res.Val.(map[string]string)
		out := make(map[string]string, len(shared))
		for k, v := range shared {
			out[k] = v
		}
		return out, nil
	case <-ctx.Done():
		log.Printf("categories lookup abandoned, using fallback categories: %v", ctx.Err())
		return FallbackCategories(), nil
	}
}

func (c *Client) fetchCategories(ctx context.Context) map[string]string {
	body, err := c.get(ctx, c.baseURL+"/categories")
	if err != nil {
		log.Printf("categories request failed, using fallback categories: %v", err)
		return FallbackCategories()
	}
	categories, err := DecodeCategories(body)
	if err != nil {
		log.Printf("categories payload rejected, using fallback categories: %v", err)
		return FallbackCategories()
	}
	return categories
}

func (c *Client) questionsURL(req domain.StartRequest) string {
	params := url.Values{}
	if req.Category != "" {
		params.Set("category", req.Category)
	}
	if req.Difficulty != "" {
		params.Set("difficulty", req.Difficulty)
	}
	if req.Limit > 0 {
		params.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Tags != "" {
		params.Set("tags", req.Tags)
	}
	endpoint := c.baseURL + "/questions"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	return endpoint
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", domain.ErrUpstreamStatus, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
