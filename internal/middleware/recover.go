package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// panicBody — ответ клиенту; requestId помогает найти стек в логе.
type panicBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// Recover ловит панику обработчика и отвечает JSON 500.
// http.ErrAbortHandler пробрасывается дальше: net/http обрывает соединение сам.
func Recover(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				rid := GetRequestID(r)
				logger.Error().
					Str("rid", rid).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("handler panic")

				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(panicBody{Error: "internal", RequestID: rid})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
