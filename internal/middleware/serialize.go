package middleware

import (
	"net/http"
	"sync"
)

// Serialize returns a middleware that admits one request at a time. The
// record store performs no internal locking; exclusivity within the process
// is structural, so every store-touching route must sit behind this.
func Serialize() func(next http.Handler) http.Handler {
	var mu sync.Mutex
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			defer mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}
