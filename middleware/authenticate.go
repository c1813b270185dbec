package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	authgate "github.com/jaewoo-hong/authgate"
	"github.com/jaewoo-hong/authgate/token"
)

// Authenticate returns the per-request authentication gate. The interceptor
// is read-only and pass-through for requests without a bearer token: absent
// credentials flow to the next handler with no principal attached. A token
// that is present but fails strict verification (malformed, bad signature,
// expired, or a refresh token standing in for an access token) stops the
// request with a 401 and a machine-readable reason.
//
// metrics may be nil.
func Authenticate(codec *token.Codec, metrics *authgate.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := codec.Parse(raw)
			if err != nil {
				metrics.Inc(authgate.MetricInterceptorReject)
				writeUnauthenticated(w, err)
				return
			}

			if claims.Category != token.CategoryAccess {
				// A refresh token must never authenticate a resource request.
				metrics.Inc(authgate.MetricInterceptorReject)
				writeReason(w, "Invalid access token", "wrong_category")
				return
			}

			ctx := authgate.WithPrincipal(r.Context(), authgate.Principal{
				Subject: claims.Subject,
				Role:    claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePrincipal rejects requests that reached it without an established
// principal. Mount it inside Authenticate on routes that must not be served
// anonymously.
func RequirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authgate.PrincipalFromContext(r.Context()); !ok {
			writeReason(w, "Please login first", "unauthenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	tok := value[len(bearer):]
	if tok == "" {
		return "", false
	}

	return tok, true
}

func writeUnauthenticated(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, token.ErrExpired):
		writeReason(w, "Access token expired", "expired")
	case errors.Is(err, token.ErrBadSignature):
		writeReason(w, "Invalid access token", "bad_signature")
	default:
		writeReason(w, "Invalid access token", "malformed")
	}
}

func writeReason(w http.ResponseWriter, message, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  code,
	})
}
