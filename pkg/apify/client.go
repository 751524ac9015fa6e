// Package apify is a minimal client for the Apify actor-execution API:
// start an actor run, inspect its status, and read the dataset it produced.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.apify.com"

// RunStatus is the lifecycle state of an actor run as reported upstream.
type RunStatus string

const (
	StatusReady     RunStatus = "READY"
	StatusRunning   RunStatus = "RUNNING"
	StatusSucceeded RunStatus = "SUCCEEDED"
	StatusFailed    RunStatus = "FAILED"
	StatusAborted   RunStatus = "ABORTED"
	StatusTimedOut  RunStatus = "TIMED-OUT"
)

// Terminal reports whether the run has reached a final state.
func (s RunStatus) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusAborted, StatusTimedOut:
		return true
	default:
		return false
	}
}

// RawRecord is one untyped dataset item. Actor output has no fixed
// schema; callers resolve fields through ordered fallback paths.
type RawRecord = map[string]any

// Run describes an actor run.
type Run struct {
	ID               string    `json:"id"`
	ActID            string    `json:"actId"`
	Status           RunStatus `json:"status"`
	DefaultDatasetID string    `json:"defaultDatasetId"`
}

// Client defines the actor API operations used by the pipeline.
type Client interface {
	// StartRun submits an actor run with the given JSON input and returns
	// without waiting for it to finish.
	StartRun(ctx context.Context, actorID string, input any) (*Run, error)

	// GetRun fetches the current state of a run.
	GetRun(ctx context.Context, runID string) (*Run, error)

	// ListItems reads up to limit records from a dataset. A limit of 0
	// reads everything.
	ListItems(ctx context.Context, datasetID string, limit int) ([]RawRecord, error)
}

// APIError is returned when the API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apify: HTTP %d: %s", e.StatusCode, e.Body)
}

// HTTPStatus implements resilience.StatusCoder.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates an actor API client authenticated with token.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// runEnvelope wraps run objects in the API's data envelope.
type runEnvelope struct {
	Data Run `json:"data"`
}

func (c *httpClient) StartRun(ctx context.Context, actorID string, input any) (*Run, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, eris.Wrap(err, "apify: marshal run input")
	}

	// Actor ids must use the tilde path form ("user~name"); the id is
	// escaped as-is, not translated.
	path := "/v2/acts/" + url.PathEscape(actorID) + "/runs"
	respBody, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, eris.Wrapf(err, "apify: start run for actor %s", actorID)
	}

	var env runEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, eris.Wrap(err, "apify: unmarshal run")
	}
	return &env.Data, nil
}

func (c *httpClient) GetRun(ctx context.Context, runID string) (*Run, error) {
	respBody, err := c.do(ctx, http.MethodGet, "/v2/actor-runs/"+url.PathEscape(runID), nil)
	if err != nil {
		return nil, eris.Wrapf(err, "apify: get run %s", runID)
	}

	var env runEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, eris.Wrap(err, "apify: unmarshal run")
	}
	return &env.Data, nil
}

func (c *httpClient) ListItems(ctx context.Context, datasetID string, limit int) ([]RawRecord, error) {
	path := "/v2/datasets/" + url.PathEscape(datasetID) + "/items?clean=true"
	if limit > 0 {
		path += "&limit=" + strconv.Itoa(limit)
	}

	respBody, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "apify: list items of dataset %s", datasetID)
	}

	var items []RawRecord
	if err := json.Unmarshal(respBody, &items); err != nil {
		return nil, eris.Wrap(err, "apify: unmarshal dataset items")
	}
	return items, nil
}

func (c *httpClient) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}
