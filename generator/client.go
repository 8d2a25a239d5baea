// Package generator is the request/response boundary to the language-model
// backend: prompt construction, the provider client, bounded retry, and
// parsing of model output into timeline shapes.
package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"counterfactual_press/timeline"
)

// InterpolationRequest carries the anchor entry and its immediate neighbors
// for a bridging-entry request. Previous/Next are nil at timeline boundaries.
type InterpolationRequest struct {
	Previous *timeline.Entry
	Anchor   timeline.Entry
	Next     *timeline.Entry
	Timeline timeline.Timeline
}

// Client abstracts the model backend so it can be replaced or mocked. Each
// call takes the API credential, retries transport failures internally per the
// configured policy, and returns either a parsed result or the final error.
type Client interface {
	GenerateTimeline(ctx context.Context, key, seed string) (timeline.Timeline, error)
	GenerateArticle(ctx context.Context, key, seed string, entry timeline.Entry, tl timeline.Timeline) (timeline.Article, error)
	GenerateInterpolation(ctx context.Context, key, seed string, req InterpolationRequest) ([]timeline.Entry, error)
}

// Settings configures a concrete client implementation.
type Settings struct {
	Provider string
	Model    string
	BaseURL  string
	Retry    RetryPolicy
}

// SchemaError marks a response body that is not valid structured content.
// Schema errors are not retried: a malformed body will not improve on resend.
type SchemaError struct {
	Msg string
}

func (e *SchemaError) Error() string {
	return "schema: " + e.Msg
}

func schemaErrorf(format string, args ...any) error {
	return &SchemaError{Msg: fmt.Sprintf(format, args...)}
}

// IsSchemaError reports whether err is (or wraps) a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// RetryPolicy is a bounded retry with linearly increasing delay: attempt n
// waits n*Delay before the next try.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetry matches the backend's transient-failure profile.
var DefaultRetry = RetryPolicy{Attempts: 3, Delay: 500 * time.Millisecond}

// Run invokes fn up to Attempts times. Schema errors abort immediately;
// anything else retries after a linearly growing delay.
func (p RetryPolicy) Run(ctx context.Context, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if IsSchemaError(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * p.Delay):
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, err)
}
