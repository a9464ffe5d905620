// Package throttle provides an [http.RoundTripper] that keeps calls to the
// Assinafy API under a client-side request rate, using the token bucket from
// [golang.org/x/time/rate].
//
// Requests over the limit block until a token is available or the request
// context ends. Nothing is retried or queued beyond that wait.
//
//	rt, err := throttle.NewRoundTripper(
//		5, // requests per second
//		2, // burst capacity
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
package throttle
