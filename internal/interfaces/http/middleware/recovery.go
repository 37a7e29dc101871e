package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

// Recovery превращает панику обработчика в 500 и пишет стек в лог
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// соединение разорвано клиентом, ответить уже некому
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("Handler panic recovered", fmt.Errorf("%v", rec),
					"request_id", chimw.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				WriteError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
