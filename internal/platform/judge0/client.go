package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codelab/internal/common"

	"go.uber.org/zap"
)

const resultFields = "token,stdout,stderr,compile_output,message,time,memory,status"

// Client is the interface the services depend on; tests substitute fakes.
type Client interface {
	SubmitBatch(ctx context.Context, submissions []Submission) ([]string, error)
	PollBatchResults(ctx context.Context, tokens []string) ([]Result, error)
}

type ClientConfig struct {
	BaseURL       string
	AuthToken     string
	SubmitTimeout time.Duration
	PollInterval  time.Duration
	PollMaxTries  int
}

// HTTPClient talks to a Judge0-compatible batch endpoint.
type HTTPClient struct {
	cfg    ClientConfig
	client *http.Client
	log    *zap.SugaredLogger
}

func NewHTTPClient(cfg ClientConfig, log *zap.SugaredLogger) *HTTPClient {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.PollMaxTries <= 0 {
		cfg.PollMaxTries = 100
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = 10 * time.Second
	}
	return &HTTPClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.SubmitTimeout},
		log:    log,
	}
}

// SubmitBatch submits all entries in one batch and returns their tokens in
// submission order.
func (c *HTTPClient) SubmitBatch(ctx context.Context, submissions []Submission) ([]string, error) {
	body, err := json.Marshal(batchSubmissionRequest{Submissions: submissions})
	if err != nil {
		return nil, fmt.Errorf("marshaling batch submission: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/submissions/batch?base64_encoded=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building batch submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("judge batch submission failed: %v: %w", err, common.ErrJudgeUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("judge rejected batch (status %d): %s: %w", resp.StatusCode, detail, common.ErrJudgeUnavailable)
	}

	var created []submissionToken
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decoding batch submission response: %w", err)
	}
	if len(created) != len(submissions) {
		return nil, fmt.Errorf("judge returned %d tokens for %d submissions: %w", len(created), len(submissions), common.ErrJudgeUnavailable)
	}

	tokens := make([]string, len(created))
	for i, t := range created {
		tokens[i] = t.Token
	}
	c.log.Infow("batch submitted to judge", "count", len(tokens))
	return tokens, nil
}

// PollBatchResults polls until every token is terminal and returns the results
// aligned with the token order. A single still-pending token keeps the whole
// poll waiting; the loop is bounded by PollMaxTries.
func (c *HTTPClient) PollBatchResults(ctx context.Context, tokens []string) ([]Result, error) {
	for attempt := 1; attempt <= c.cfg.PollMaxTries; attempt++ {
		results, err := c.fetchBatch(ctx, tokens)
		if err != nil {
			return nil, err
		}

		pending := 0
		for _, r := range results {
			if !r.Terminal() {
				pending++
			}
		}
		if pending == 0 {
			return results, nil
		}
		c.log.Debugw("judge results still pending", "attempt", attempt, "pending", pending)

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				// The request's deadline ran out mid-poll; surface it as a
				// judge timeout rather than a generic server error.
				return nil, fmt.Errorf("judge poll cut off by deadline after %d attempts: %w", attempt, common.ErrJudgeTimeout)
			}
			return nil, ctx.Err()
		case <-time.After(c.cfg.PollInterval):
		}
	}
	return nil, fmt.Errorf("judge results not terminal after %d attempts: %w", c.cfg.PollMaxTries, common.ErrJudgeTimeout)
}

func (c *HTTPClient) fetchBatch(ctx context.Context, tokens []string) ([]Result, error) {
	endpoint := c.cfg.BaseURL + "/submissions/batch?base64_encoded=false" +
		"&tokens=" + url.QueryEscape(strings.Join(tokens, ",")) +
		"&fields=" + resultFields

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building batch status request: %w", err)
	}
	c.setAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("judge batch status failed: %v: %w", err, common.ErrJudgeUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("judge batch status returned %d: %s: %w", resp.StatusCode, detail, common.ErrJudgeUnavailable)
	}

	var payload batchResultResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding batch status response: %w", err)
	}
	if len(payload.Submissions) != len(tokens) {
		return nil, fmt.Errorf("judge returned %d results for %d tokens: %w", len(payload.Submissions), len(tokens), common.ErrJudgeUnavailable)
	}

	// Restore submission order by token; the reducer pairs results with
	// expected outputs by index.
	byToken := make(map[string]Result, len(payload.Submissions))
	for _, r := range payload.Submissions {
		byToken[r.Token] = r
	}
	ordered := make([]Result, len(tokens))
	for i, token := range tokens {
		r, ok := byToken[token]
		if !ok {
			return nil, fmt.Errorf("judge response missing token %s: %w", token, common.ErrJudgeUnavailable)
		}
		ordered[i] = r
	}
	return ordered, nil
}

func (c *HTTPClient) setAuth(req *http.Request) {
	if c.cfg.AuthToken != "" {
		req.Header.Set("X-Auth-Token", c.cfg.AuthToken)
	}
}
