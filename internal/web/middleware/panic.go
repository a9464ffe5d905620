package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/adamwoolhether/assinafy/internal/web/errs"
	"github.com/adamwoolhether/assinafy/internal/web/mux"
)

// Panics turns a handler panic into an internal error carrying the stack,
// so Errors answers 500 instead of the connection dropping.
func Panics() mux.Middleware {
	m := func(handler mux.Handler) mux.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = errs.NewInternal(fmt.Errorf("panic in %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack()))
				}
			}()

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
