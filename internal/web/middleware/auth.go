package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/adamwoolhether/assinafy/internal/web/errs"
	"github.com/adamwoolhether/assinafy/internal/web/mux"
)

// Bearer rejects requests whose Authorization header does not carry token.
func Bearer(token string) mux.Middleware {
	m := func(handler mux.Handler) mux.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				return errs.Newf(http.StatusUnauthorized, "Unauthenticated.")
			}

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
