package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"

	"okcoinweb/internal/api/handlers"
	"okcoinweb/pkg/utils"
)

// Recovery - middleware для восстановления после паники в handlers
//
// Паника логируется со stack trace, клиент получает 500 в общем формате
// ошибок API; сервер продолжает обрабатывать запросы.
func Recovery(logger *utils.Logger) mux.MiddlewareFunc {
	logger = logger.WithComponent("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					logger.Error("panic in handler",
						utils.RequestID(RequestIDFromContext(r.Context())),
						utils.String("path", r.URL.Path),
						utils.String("panic", fmt.Sprint(rec)),
						utils.String("stack", string(debug.Stack())),
					)

					handlers.RespondWithError(w, http.StatusInternalServerError,
						handlers.CodeInternal, "Internal server error", "")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
