package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"okcoinweb/internal/api/handlers"
	"okcoinweb/pkg/crypto"
	"okcoinweb/pkg/utils"
)

// Auth - middleware для проверки токена локального API
//
// Токен передаётся как "Authorization: Bearer <token>" и сверяется с
// bcrypt-хешем из API_TOKEN_HASH. Пустой хеш отключает проверку: API
// слушает localhost и используется одним человеком.
func Auth(tokenHash string, logger *utils.Logger) mux.MiddlewareFunc {
	logger = logger.WithComponent("auth")

	return func(next http.Handler) http.Handler {
		if tokenHash == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="okcoinweb"`)
				handlers.RespondWithError(w, http.StatusUnauthorized,
					handlers.CodeUnauthorized, "missing bearer token", "")
				return
			}

			if err := crypto.VerifyToken(token, tokenHash); err != nil {
				logger.Warn("invalid API token",
					utils.RequestID(RequestIDFromContext(r.Context())),
					utils.String("client_ip", r.RemoteAddr),
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="okcoinweb", error="invalid_token"`)
				handlers.RespondWithError(w, http.StatusUnauthorized,
					handlers.CodeUnauthorized, "invalid token", "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken извлекает токен из заголовка Authorization
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
