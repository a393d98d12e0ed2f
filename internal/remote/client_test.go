package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchListDecodesMapping(t *testing.T) {
	server := newTestServer(t, http.StatusOK, "{foo: bar, baz: qux}")
	client := NewClient(zaptest.NewLogger(t))

	list, err := client.FetchList(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchList returned error: %v", err)
	}

	if len(list) != 2 || list["foo"] != "bar" || list["baz"] != "qux" {
		t.Fatalf("unexpected list %v", list)
	}
}

func TestFetchListEmptyDocument(t *testing.T) {
	server := newTestServer(t, http.StatusOK, "")
	client := NewClient(zaptest.NewLogger(t))

	list, err := client.FetchList(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchList returned error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v", list)
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	server := newTestServer(t, http.StatusNotFound, "404: Not Found")
	client := NewClient(zaptest.NewLogger(t))

	_, err := client.FetchList(context.Background(), server.URL)
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusNotFound || statusErr.Body != "404: Not Found" {
		t.Fatalf("unexpected status error %+v", statusErr)
	}

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		t.Fatalf("body of failed response must not be decoded")
	}
}

func TestFetchYAMLDecodeFailure(t *testing.T) {
	server := newTestServer(t, http.StatusOK, "- not\n- a\n- mapping\n")
	client := NewClient(zaptest.NewLogger(t))

	_, err := client.FetchList(context.Background(), server.URL)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	if decodeErr.URL != server.URL {
		t.Fatalf("expected url %s, got %s", server.URL, decodeErr.URL)
	}
}

func TestFetchTransportFailure(t *testing.T) {
	server := newTestServer(t, http.StatusOK, "")
	url := server.URL
	server.Close()

	client := NewClient(zaptest.NewLogger(t))
	if _, err := client.Fetch(context.Background(), url); err == nil {
		t.Fatalf("expected error for closed server")
	}
}

type countingLimiter struct {
	calls int
	err   error
}

func (l *countingLimiter) Wait(context.Context) error {
	l.calls++
	return l.err
}

func TestFetchWaitsForLimiter(t *testing.T) {
	server := newTestServer(t, http.StatusOK, "a: b")
	limiter := &countingLimiter{}
	client := NewClient(zaptest.NewLogger(t), WithLimiter(limiter))

	if _, err := client.Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if limiter.calls != 1 {
		t.Fatalf("expected limiter to be consulted once, got %d", limiter.calls)
	}
}

func TestFetchStopsWhenLimiterFails(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
	}))
	t.Cleanup(server.Close)

	limiter := &countingLimiter{err: context.Canceled}
	client := NewClient(zaptest.NewLogger(t), WithLimiter(limiter))

	if _, err := client.Fetch(context.Background(), server.URL); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("expected no request, got %d", hits)
	}
}

func TestNewTokenBucketLimiter(t *testing.T) {
	if limiter := newTokenBucketLimiter(0, 5); limiter != nil {
		t.Fatalf("expected nil limiter when rate is disabled")
	}

	limiter := newTokenBucketLimiter(10, 0)
	if limiter == nil {
		t.Fatalf("expected limiter instance")
	}
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("expected first wait to succeed: %v", err)
	}
}

func TestParseGitHubRepositoryURL(t *testing.T) {
	user, repository, err := ParseGitHubRepositoryURL("https://github.com/chriskempson/base16-default-schemes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != "chriskempson" || repository != "base16-default-schemes" {
		t.Fatalf("unexpected result %s/%s", user, repository)
	}

	for _, raw := range []string{
		"",
		"not a url",
		"https://gitlab.com/user/repo",
		"https://github.com/user",
		"https://github.com/user/repo/tree/master",
	} {
		if _, _, err := ParseGitHubRepositoryURL(raw); !errors.Is(err, ErrUnhandledRepositoryURL) {
			t.Fatalf("expected ErrUnhandledRepositoryURL for %q, got %v", raw, err)
		}
	}
}
