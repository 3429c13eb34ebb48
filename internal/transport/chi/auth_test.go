package chi

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// echoHandler writes back the request body it receives.
func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(body)
	})
}

func TestAuthMiddleware_EmptyKeys_PassThrough(t *testing.T) {
	for _, keys := range [][]string{nil, {"", ""}} {
		handler := BearerAuthMiddleware(keys)(okHandler())

		req := httptest.NewRequest("GET", "/api/v1/filters", http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("keys %q: got %d, want %d", keys, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic secret", want: http.StatusUnauthorized},
		{name: "wrong key", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "valid key", header: "Bearer secret", want: http.StatusOK},
		{name: "second key", header: "Bearer other", want: http.StatusOK},
	}

	handler := BearerAuthMiddleware([]string{"secret", "other"})(okHandler())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/filters", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("got %d, want %d", rr.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized {
				var errResp errorResponse
				if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
					t.Fatalf("decode error response: %v", err)
				}
				if errResp.Code != CodeUnauthorized {
					t.Errorf("unexpected code %q", errResp.Code)
				}
			}
		})
	}
}

const testSecret = "8f742231b10e8888abcd99yyyzzz85a5"

func signedRequest(t *testing.T, body string, ts time.Time, secret string) *http.Request {
	t.Helper()
	stamp := strconv.FormatInt(ts.Unix(), 10)
	req := httptest.NewRequest("POST", "/slack/events", strings.NewReader(body))
	req.Header.Set(HeaderTimestamp, stamp)
	req.Header.Set(HeaderSignature, "v0="+hex.EncodeToString(computeSignature(secret, stamp, []byte(body))))
	return req
}

func TestSignatureMiddleware_Valid(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	handler := SignatureMiddleware(testSecret, func() time.Time { return now })(echoHandler())

	body := `{"type":"event_callback"}`
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, signedRequest(t, body, now.Add(-time.Minute), testSecret))

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Body.String() != body {
		t.Errorf("body not restored for next handler: %q", rr.Body.String())
	}
}

func TestSignatureMiddleware_Rejects(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	body := `{"type":"event_callback"}`

	tests := []struct {
		name string
		req  func() *http.Request
	}{
		{
			name: "stale timestamp",
			req:  func() *http.Request { return signedRequest(t, body, now.Add(-6*time.Minute), testSecret) },
		},
		{
			name: "future timestamp",
			req:  func() *http.Request { return signedRequest(t, body, now.Add(6*time.Minute), testSecret) },
		},
		{
			name: "forged signature",
			req:  func() *http.Request { return signedRequest(t, body, now, "another-secret") },
		},
		{
			name: "tampered body",
			req: func() *http.Request {
				r := signedRequest(t, body, now, testSecret)
				r.Body = io.NopCloser(strings.NewReader(`{"type":"url_verification"}`))
				return r
			},
		},
		{
			name: "missing headers",
			req: func() *http.Request {
				return httptest.NewRequest("POST", "/slack/events", strings.NewReader(body))
			},
		},
		{
			name: "wrong version",
			req: func() *http.Request {
				r := signedRequest(t, body, now, testSecret)
				r.Header.Set(HeaderSignature, strings.Replace(r.Header.Get(HeaderSignature), "v0=", "v1=", 1))
				return r
			},
		},
	}

	handler := SignatureMiddleware(testSecret, func() time.Time { return now })(okHandler())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, tt.req())

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("got %d, want %d", rr.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestSignatureMiddleware_NoSecret_PassThrough(t *testing.T) {
	handler := SignatureMiddleware("", nil)(okHandler())

	req := httptest.NewRequest("POST", "/slack/events", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("got %d, want %d", rr.Code, http.StatusOK)
	}
}
