package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/adamwoolhether/assinafy/internal/web/mux"
)

// Logger logs every request once it completes, at Warn when it failed.
// The start is only logged at Debug.
func Logger(log *slog.Logger) mux.Middleware {
	m := func(handler mux.Handler) mux.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			v := mux.GetValues(ctx)
			reqLog := log.With("trace_id", v.TraceID, "method", r.Method, "path", r.URL.RequestURI())

			reqLog.Debug("request started", "remote", r.RemoteAddr)

			err := handler(ctx, w, r)

			level := slog.LevelInfo
			if err != nil || v.StatusCode >= http.StatusBadRequest {
				level = slog.LevelWarn
			}
			reqLog.Log(ctx, level, "request completed", "statusCode", v.StatusCode, "since", time.Since(v.Now).String())

			return err
		}

		return h
	}

	return m
}
