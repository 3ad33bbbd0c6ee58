package httpx

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"429", &StatusError{Service: "x", StatusCode: 429}, true},
		{"503", &StatusError{Service: "x", StatusCode: 503}, true},
		{"400", &StatusError{Service: "x", StatusCode: 400}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.want {
			t.Fatalf("%s: got=%v want=%v", tc.name, got, tc.want)
		}
	}
}

func TestRetryAfterDurationCapsAtMax(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", "120")
	if got := RetryAfterDuration(resp, time.Second, 10*time.Second); got != 10*time.Second {
		t.Fatalf("got=%s want=10s", got)
	}
	if got := RetryAfterDuration(nil, 2*time.Second, 0); got != 2*time.Second {
		t.Fatalf("got=%s want=2s", got)
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), nil, "test", 3, func(ctx context.Context) (*http.Response, error) {
		calls++
		return nil, &StatusError{Service: "x", StatusCode: 404}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls=%d want=1", calls)
	}
}

func TestRetryEventuallySucceeds(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), nil, "test", 2, func(ctx context.Context) (*http.Response, error) {
		calls++
		if calls < 2 {
			resp := &http.Response{Header: http.Header{}}
			resp.Header.Set("Retry-After", "0")
			return resp, &StatusError{Service: "x", StatusCode: 502}
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls=%d want=2", calls)
	}
}
