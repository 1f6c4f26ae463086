package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestBuilderDefaults(t *testing.T) {
	err := NewError(CategoryValidation, "title is required").Build()
	if err.Category() != CategoryValidation {
		t.Fatalf("category = %v", err.Category())
	}
	if err.Severity() != SeverityError {
		t.Fatalf("severity = %v", err.Severity())
	}
	if err.RetryStrategy() != RetryNever {
		t.Fatalf("retry = %v", err.RetryStrategy())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := WrapError(cause, CategoryNetwork, "notion api unreachable").Retryable().Build()
	if !errors.Is(err, cause) {
		t.Fatal("cause not unwrapped")
	}
	if err.RetryStrategy() != RetryBackoff {
		t.Fatalf("retry = %v", err.RetryStrategy())
	}
}

func TestWithContextDoesNotMutate(t *testing.T) {
	base := ValidationError("invalid body").Build()
	derived := base.WithContext("field", "title")
	if len(derived.Context()) != 1 {
		t.Fatalf("derived context = %v", derived.Context())
	}
}

func TestStatusCodes(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	cases := []struct {
		err  error
		want int
	}{
		{ValidationError("bad input").Build(), http.StatusBadRequest},
		{ConfigError("missing token").Build(), http.StatusBadRequest},
		{AuthError("invalid token").Build(), http.StatusUnauthorized},
		{NotFoundError("no such page").Build(), http.StatusNotFound},
		{NotionError("rate limited").Build(), http.StatusBadGateway},
		{NetworkError("timeout").Build(), http.StatusBadGateway},
		{TemplateError("render failed").Build(), http.StatusUnprocessableEntity},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := adapter.StatusCodeFor(c.err); got != c.want {
			t.Fatalf("StatusCodeFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestFormatUnclassifiedHidesDetail(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	resp := adapter.FormatErrorResponse(fmt.Errorf("pq: secret dsn leaked"))
	if resp.Error != "internal error" {
		t.Fatalf("unclassified error leaked: %q", resp.Error)
	}
}
