// Package llmclient wraps single calls to a text-completion backend.
//
// A client focuses on the API call itself. Cross-cutting concerns
// (logging, response archiving) are applied via Middleware; retry
// policy is owned by the caller.
package llmclient

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey means no credential is configured at all.
	ErrMissingAPIKey = errors.New("llmclient: api key is not configured")
	// ErrInvalidAPIKey means the configured credential has the wrong shape.
	ErrInvalidAPIKey = errors.New("llmclient: api key format is invalid")
	// ErrEmptyResponse means the backend answered without any text content.
	ErrEmptyResponse = errors.New("llmclient: empty response from model")
)

// PermanentError marks a failure that will not resolve with retries.
// Credential problems are the canonical case.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// RequestError is a transport-level completion failure: rate limiting,
// backend 5xx, network trouble. Whether to retry is the caller's call.
type RequestError struct {
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("llmclient: request failed with status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("llmclient: request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Request describes one completion call.
type Request struct {
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Completion is the raw outcome of one completion call. Truncated is
// true when the backend's stop condition indicates the token budget was
// exhausted before natural completion.
type Completion struct {
	Text      string
	Truncated bool
}

// CompletionClient performs a single call to a completion backend.
type CompletionClient interface {
	Name() string
	Complete(ctx context.Context, req Request) (Completion, error)
	Close() error
}

// Middleware decorates a CompletionClient.
type Middleware func(next CompletionClient) CompletionClient

// Chain applies middlewares so that the first listed is outermost.
func Chain(c CompletionClient, mws ...Middleware) CompletionClient {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}
	return c
}
