package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors returned by Client. Callers in the report path treat
// every one of them as "fall back to the deterministic narrative".
var (
	ErrOllamaUnavailable = errors.New("ollama server unavailable")
	ErrTimeout           = errors.New("llm request timed out")
	ErrInvalidOutput     = errors.New("invalid llm output format")
	ErrRetryExhausted    = errors.New("llm retry attempts exhausted")

	// ErrStreamInterrupted means a stream failed after some text was
	// already delivered, so the call cannot be retried transparently.
	ErrStreamInterrupted = errors.New("llm stream interrupted")
)

// classify maps the last attempt's error onto a sentinel. A cancelled
// context is passed through untouched so callers can tell it apart.
func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.Canceled) {
			return ctxErr
		}
		return ErrTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrOllamaUnavailable
	}
	return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
}

// errorCodes is ordered: the first matching sentinel wins.
var errorCodes = []struct {
	target error
	code   string
}{
	{ErrTimeout, "TIMEOUT"},
	{context.Canceled, "CANCELED"},
	{ErrOllamaUnavailable, "UNAVAILABLE"},
	{ErrInvalidOutput, "INVALID_OUTPUT"},
	{ErrStreamInterrupted, "INTERRUPTED"},
}

// errorCode is the short status recorded on LLMCallEvent.
func errorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range errorCodes {
		if errors.Is(err, c.target) {
			return c.code
		}
	}
	return "UNKNOWN"
}
