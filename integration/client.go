package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second

// Client talks to the pipeline tracking API. Every call is bounded by
// Timeout and returns an error on transport failure or a non-2xx status.
type Client struct {
	BaseURL *url.URL
	Token   string
	Timeout time.Duration

	httpClient *http.Client
	l          *zap.SugaredLogger
}

func New(baseURL string, token string, timeout time.Duration, client *http.Client, l *zap.SugaredLogger) (*Client, error) {
	if client == nil {
		client = &http.Client{}
	}
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parse api base url %q", baseURL)
	}
	return &Client{
		BaseURL:    u,
		Token:      token,
		Timeout:    timeout,
		httpClient: client,
		l:          l,
	}, nil
}

func (c *Client) CreatePipelineRun(ctx context.Context, p PipelineRunPayload) (*PipelineRunResponse, error) {
	var prr PipelineRunResponse
	if err := c.call(ctx, http.MethodPost, "api/pipeline-runs/", p, &prr); err != nil {
		return nil, errors.Wrap(err, "create pipeline run")
	}
	if prr.RunID() == "" {
		return &prr, ErrNoRunID
	}
	c.l.Debugw("pipeline run created", "run_id", prr.RunID())
	return &prr, nil
}

func (c *Client) CreateTestCase(ctx context.Context, p TestCasePayload) (*TestCaseResponse, error) {
	var tcr TestCaseResponse
	if err := c.call(ctx, http.MethodPost, "api/test-cases/", p, &tcr); err != nil {
		return nil, errors.Wrapf(err, "create test case %q", p.Name)
	}
	c.l.Debugw("test case created", "test_id", tcr.TestID, "run_id", p.Run)
	return &tcr, nil
}

func (c *Client) UpdatePipelineRun(ctx context.Context, runID ID, p PipelineRunUpdatePayload) error {
	path := fmt.Sprintf("api/pipeline-runs/%s/", runID)
	if err := c.call(ctx, http.MethodPatch, path, p, nil); err != nil {
		return errors.Wrapf(err, "update pipeline run %s", runID)
	}
	c.l.Debugw("pipeline run updated", "run_id", runID, "status", p.Status)
	return nil
}

// Endpoint returns the absolute URL of an API path.
func (c *Client) Endpoint(path string) string {
	return c.resolve(path).String()
}

func (c *Client) call(ctx context.Context, method, path string, body, v interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	_, err = c.do(req, v)
	return err
}

// resolve joins path onto the base URL, keeping any path prefix the base has.
func (c *Client) resolve(path string) *url.URL {
	base := *c.BaseURL
	if base.Path == "" || base.Path[len(base.Path)-1] != '/' {
		base.Path += "/"
	}
	return base.ResolveReference(&url.URL{Path: path})
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	u := c.resolve(path)
	var buf io.ReadWriter
	if body != nil {
		buf = new(bytes.Buffer)
		err := json.NewEncoder(buf).Encode(body)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), buf)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.BearerAuth())
	return req, nil
}

func (c *Client) do(req *http.Request, v interface{}) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bb, _ := io.ReadAll(resp.Body)
		c.l.Errorw("request failed", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "body", string(bb))
		return resp, errors.Wrapf(ErrUnexpectedStatus, "%s %s: %s: %s", req.Method, req.URL.Path, resp.Status, string(bb))
	}
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return resp, errors.Wrap(err, "decode response body")
		}
	}
	return resp, nil
}

func (c *Client) BearerAuth() string {
	return fmt.Sprintf("Bearer %s", c.Token)
}
