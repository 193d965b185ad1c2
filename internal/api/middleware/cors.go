package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// defaultOrigins - локальные dev-серверы дашборда
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173", // Vite dev server
	"http://127.0.0.1:5173",
}

// CORS - middleware для Cross-Origin Resource Sharing
//
// API только читает историю, поэтому разрешены GET и preflight OPTIONS.
// Дополнительные origins приходят из CORS_ALLOWED_ORIGINS.
func CORS(extraOrigins []string) mux.MiddlewareFunc {
	allowed := make(map[string]bool, len(defaultOrigins)+len(extraOrigins))
	for _, origin := range append(append([]string{}, defaultOrigins...), extraOrigins...) {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}
			// Для неразрешенных origins не устанавливаем заголовки - браузер заблокирует

			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+RequestIDHeader)
			w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
