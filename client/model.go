package client

import (
	"errors"
	"net/http"

	"github.com/adamwoolhether/assinafy/internal/validate"
)

// DefaultBaseURL is the production Assinafy API root.
const DefaultBaseURL = "https://api.assinafy.com.br/v1/"

// maxErrBodySize caps the amount of response body read when
// building an error for an unexpected status code. This prevents
// unbounded memory usage when a large response arrives with a
// wrong status.
const maxErrBodySize = 4 << 10 // 4KB

// maxSnippetLen bounds the response excerpt rendered into a TransportError.
const maxSnippetLen = 500

// execFn represents a func to operate on a response.
type execFn func(response *http.Response) error

var (
	// ErrUnexpectedStatusCode is wrapped by [TransportError] when the
	// server answered with a non-2xx status.
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrAuthFailure wraps [ErrUnexpectedStatusCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
	// ErrMissingID is wrapped by [MissingIDError].
	ErrMissingID = errors.New("missing required id")
	// ErrMissingAccount is returned by [Client.ResolveAccount] when neither a
	// per-call nor a default account id is available.
	ErrMissingAccount = errors.New("account id is required: provide it per call or set a default on the client")
	// ErrMissingToken is returned when a client is built without an API token.
	ErrMissingToken = errors.New("assinafy api token is required")
)

// FieldErrors is returned when a request payload fails validation.
type FieldErrors = validate.FieldErrors

// FieldError describes a single invalid payload field.
type FieldError = validate.FieldError

// Validate checks val against its `validate` struct tags. Resources call it
// before any request is issued.
func Validate(val any) error {
	return validate.Check(val)
}
