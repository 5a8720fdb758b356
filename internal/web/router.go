package web

import (
	"net/http"

	"github.com/broadcastlabs/op47titler/internal/web/handlers"
)

func NewServeMux(
	titling *handlers.TitlingHandler,
	stop *handlers.StopHandler,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/titling", withCORS(titling))
	mux.Handle("/titling/stop", withCORS(stop))

	return mux
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.SetCORS(w, r)
		next.ServeHTTP(w, r)
	})
}
