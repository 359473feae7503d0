package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/firstrankcoders/credential-service/internal/http/response"
	"github.com/firstrankcoders/credential-service/internal/observability"
)

const requestIDHeader = "X-Request-Id"

var (
	corsAllowHeaders = strings.Join([]string{"Content-Type", "Authorization", requestIDHeader}, ", ")
	corsAllowMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}, ", ")
)

// RequestID assigns a request id (or keeps the caller's) and echoes it back so
// clients can correlate a response with the email events it produced.
func RequestID(next http.Handler) http.Handler {
	return chimiddleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimiddleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(requestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	}))
}

// SecurityHeaders sets the static hardening headers. Responses under /auth carry
// tokens and are marked uncacheable.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		if strings.HasPrefix(r.URL.Path, "/auth/") {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
		}
		if r.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

// CORS echoes trusted origins. A "*" entry trusts every origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAny := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAny = true
			continue
		}
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}
	trusted := func(origin string) bool {
		if allowAny {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if origin := r.Header.Get("Origin"); origin != "" {
				w.Header().Add("Vary", "Origin")
				if trusted(origin) {
					observability.RecordMiddlewareValidationEvent(ctx, "cors", "allow_origin")
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
					w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
					w.Header().Set("Access-Control-Expose-Headers", requestIDHeader)
				} else {
					observability.RecordMiddlewareValidationEvent(ctx, "cors", "rejected_origin")
				}
			}
			if r.Method == http.MethodOptions {
				observability.RecordMiddlewareValidationEvent(ctx, "cors", "preflight")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BodyLimit rejects requests whose declared length exceeds maxBytes and caps
// the reader for the rest, so chunked uploads fail at decode time.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				observability.RecordMiddlewareValidationEvent(r.Context(), "body_limit", "rejected_declared_length")
				response.Error(w, r, http.StatusRequestEntityTooLarge, "Request body too large", nil)
				return
			}
			r.Body = &limitedBody{
				ReadCloser: http.MaxBytesReader(w, r.Body, maxBytes),
				ctx:        r.Context(),
			}
			next.ServeHTTP(w, r)
		})
	}
}

// limitedBody records the first read failure of a capped request body.
type limitedBody struct {
	io.ReadCloser
	ctx      context.Context
	reported bool
}

func (b *limitedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err == nil || errors.Is(err, io.EOF) || b.reported {
		return n, err
	}
	b.reported = true

	outcome := "read_error"
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		outcome = "rejected_too_large"
	}
	observability.RecordMiddlewareValidationEvent(b.ctx, "body_limit", outcome)
	return n, err
}
