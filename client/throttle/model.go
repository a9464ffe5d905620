package throttle

import (
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

var (
	// ErrMustNotBeZero rejects a non-positive rate or burst.
	ErrMustNotBeZero = errors.New("must be greater than zero")
	// ErrWaitingFailed is returned when the request context cannot afford
	// the wait for the next token.
	ErrWaitingFailed = errors.New("limiter waiting failed")
	// ErrContextEnded is returned when the request context ended before the
	// call reached the API.
	ErrContextEnded = errors.New("throttle context ended")
)

// Config is the calls-per-second rate and burst applied to the API.
type Config struct {
	RPS   int
	Burst int
}

type throttle struct {
	limiter *rate.Limiter
	rps     int
	burst   int
	next    http.RoundTripper
	logFn   func() *slog.Logger
}
