package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestIDIsAssignedAndEchoed(t *testing.T) {
	t.Parallel()

	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if seen == "" {
		t.Fatal("no request id attached to context")
	}
	if got := rr.Header().Get("X-Request-Id"); got != seen {
		t.Fatalf("header=%q context=%q", got, seen)
	}
	if len(seen) != 26 {
		t.Fatalf("request id %q is not a ULID", seen)
	}
}

func TestRequestIDHonorsIncomingHeader(t *testing.T) {
	t.Parallel()

	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "upstream-id")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "upstream-id" {
		t.Fatalf("request id=%q want upstream-id", seen)
	}
}

func TestRequestLoggingCapturesStatus(t *testing.T) {
	t.Parallel()

	h := WithRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}), discardLogger(), nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusTeapot {
		t.Fatalf("status=%d", rr.Code)
	}
	if rr.Body.String() != "short and stout" {
		t.Fatalf("body=%q", rr.Body.String())
	}
}

func TestStatusClass(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code int
		want string
	}{
		{code: 200, want: "2xx"},
		{code: 302, want: "3xx"},
		{code: 404, want: "4xx"},
		{code: 503, want: "5xx"},
		{code: 42, want: "unknown"},
	}

	for _, tc := range cases {
		if got := statusClass(tc.code); got != tc.want {
			t.Fatalf("statusClass(%d)=%q want=%q", tc.code, got, tc.want)
		}
	}
}
