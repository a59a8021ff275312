// Package httpscope binds the incoming HTTP request to a scoped key while
// the rest of the handler chain runs. Code deeper in the call stack can
// then read it with Current, without a context.Context being threaded
// through.
package httpscope

import (
	"net/http"

	"github.com/AikidoSec/scopedtls-go/scoped"
)

var current = scoped.Declare[Request]("httpscope.request",
	scoped.WithDoc("HTTP request being served on this goroutine"))

// Current returns the request bound by GetMiddleware, if any.
func Current() (*Request, bool) {
	return current.Lookup()
}

// GetMiddleware returns a middleware binding requests to the package key.
func GetMiddleware() func(http.Handler) http.Handler {
	return Middleware(current)
}

// Middleware binds a *Request to key for the duration of the next handler.
// It works with chi's Use as well as plain net/http handler chains.
func Middleware(key *scoped.Key[Request]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key.Set(NewRequest(r), func() {
				next.ServeHTTP(w, r)
			})
		})
	}
}
