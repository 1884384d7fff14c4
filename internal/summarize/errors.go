package summarize

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sashabaranov/go-openai"
)

// ErrorKind distinguishes failures a retry may fix from ones it will not.
type ErrorKind string

const (
	// KindTransient covers rate limits, timeouts and 5xx-equivalent
	// failures; the call is retried with backoff.
	KindTransient ErrorKind = "transient"

	// KindPermanent covers rejected input and content-policy failures;
	// the call fails immediately without retry.
	KindPermanent ErrorKind = "permanent"
)

// Error wraps a completion service failure with its retry classification.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("summarization failed (%s): %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient wraps an error as retryable.
func Transient(err error) error {
	return &Error{Kind: KindTransient, Err: err}
}

// Permanent wraps an error as non-retryable.
func Permanent(err error) error {
	return &Error{Kind: KindPermanent, Err: err}
}

// IsTransient reports whether the error should trigger a retry.
func IsTransient(err error) bool {
	var serr *Error
	return errors.As(err, &serr) && serr.Kind == KindTransient
}

// ClassifyError maps provider and network errors onto the transient/permanent
// taxonomy. Already-classified errors pass through unchanged; unknown errors
// default to transient so they get a bounded number of retries.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var serr *Error
	if errors.As(err, &serr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Transient(err)
	}
	if errors.Is(err, context.Canceled) {
		return Permanent(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Transient(err)
	}

	var openaiErr *openai.APIError
	if errors.As(err, &openaiErr) {
		return classifyStatus(openaiErr.HTTPStatusCode, err)
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return classifyStatus(anthropicErr.StatusCode, err)
	}

	return Transient(err)
}

func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return Transient(err)
	case status == http.StatusRequestTimeout:
		return Transient(err)
	case status >= 500:
		return Transient(err)
	case status >= 400:
		// Input rejected, auth failure, content policy: retrying will
		// not change the outcome.
		return Permanent(err)
	default:
		return Transient(err)
	}
}
