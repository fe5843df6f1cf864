package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/stargazer/internal/server/response"
	"github.com/agentstation/stargazer/pkg/logging"
)

type credentialKey struct{}

// WithCredential stores a caller credential in ctx.
func WithCredential(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, credentialKey{}, token)
}

// Credential returns the caller credential stored by RequireCredential.
func Credential(ctx context.Context) string {
	token, _ := ctx.Value(credentialKey{}).(string)
	return token
}

// RequireCredential extracts the bearer token from the Authorization header
// and rejects the request with 401 when there is none.
func RequireCredential(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Bool("header_present", r.Header.Get("Authorization") != "").
					Msg("Credential missing")

				response.Unauthorized(w, "Credential required",
					"Provide a token in the Authorization header as 'Bearer <token>'")
				return
			}

			ctx := WithCredential(r.Context(), token)
			ctx = logging.WithCredential(ctx, logging.Fingerprint(token))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearer returns the token of a "Bearer <token>" Authorization header.
// The scheme is matched case-insensitively.
func extractBearer(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
