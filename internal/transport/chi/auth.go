package chi

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/songsearch/internal/domain"
)

// Request signing headers and parameters of the platform.
const (
	HeaderSignature = "X-Slack-Signature"
	HeaderTimestamp = "X-Slack-Request-Timestamp"

	signatureVersion = "v0"
	maxSignatureSkew = 5 * time.Minute
)

// BearerAuthMiddleware validates Bearer tokens against apiKeys.
// If apiKeys is empty, authentication is disabled (pass-through).
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	var keys [][]byte
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing authorization header")
				return
			}

			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			for _, k := range keys {
				if subtle.ConstantTimeCompare([]byte(token), k) == 1 {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid api key")
		})
	}
}

// SignatureMiddleware verifies the platform request signature: an HMAC-SHA256 of
// "v0:{timestamp}:{body}" keyed by the signing secret, with timestamps older or newer
// than five minutes rejected. If secret is empty, verification is disabled.
// The body is buffered and restored for the next handler.
func SignatureMiddleware(secret string, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
			if err != nil {
				writeError(w, http.StatusBadRequest, CodeBadRequest, "failed to read request body")
				return
			}

			if !validSignature(secret, r.Header, body, now()) {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, domain.ErrInvalidSignature.Error())
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

func validSignature(secret string, h http.Header, body []byte, now time.Time) bool {
	ts := h.Get(HeaderTimestamp)
	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	skew := now.Sub(time.Unix(sec, 0))
	if skew > maxSignatureSkew || skew < -maxSignatureSkew {
		return false
	}

	got, ok := strings.CutPrefix(h.Get(HeaderSignature), signatureVersion+"=")
	if !ok {
		return false
	}
	gotMAC, err := hex.DecodeString(got)
	if err != nil {
		return false
	}
	return hmac.Equal(gotMAC, computeSignature(secret, ts, body))
}

func computeSignature(secret, ts string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signatureVersion + ":" + ts + ":"))
	mac.Write(body)
	return mac.Sum(nil)
}
