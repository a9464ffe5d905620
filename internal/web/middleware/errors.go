package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path"

	"github.com/adamwoolhether/assinafy/internal/web"
	"github.com/adamwoolhether/assinafy/internal/web/errs"
	"github.com/adamwoolhether/assinafy/internal/web/mux"
)

// Errors turns handler errors into failure envelopes. Validation failures
// answer 422 with the field errors as data; unrecognised errors answer 500
// without exposing their text.
func Errors(log *slog.Logger) mux.Middleware {
	m := func(handler mux.Handler) mux.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			if fieldErr, ok := errors.AsType[errs.FieldErrors](err); ok {
				return web.RespondError(ctx, w, http.StatusUnprocessableEntity, "The given data was invalid.", fieldErr)
			}

			appErr, ok := errors.AsType[*errs.Error](err)
			if !ok { // to catch errs that may have escaped, obscure them from public view.
				appErr = errs.NewInternal(err)
			}

			reqLog := log.With("trace_id", mux.GetTraceID(ctx))
			reqLog.Error(err.Error(), "source_err_file", path.Base(appErr.FileName), "source_err_func", path.Base(appErr.FuncName))

			if appErr.InnerErr {
				appErr.Message = http.StatusText(appErr.Code)
			}

			return web.RespondError(ctx, w, appErr.Code, appErr.Message, nil)
		}

		return h
	}

	return m
}
