package client

import (
	"fmt"
	"net/http"
	"strings"
)

// TransportError describes a failed HTTP exchange: either the request never
// produced a response, or the response carried a non-2xx status.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

// Error renders method, url, the underlying message, the HTTP status when
// present and an excerpt of the response body.
func (e *TransportError) Error() string {
	method := strings.ToUpper(e.Method)
	if method == "" {
		method = "REQUEST"
	}
	url := e.URL
	if url == "" {
		url = "unknown"
	}

	msg := "unknown error"
	if e.Err != nil {
		msg = e.Err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s failed: %s", method, url, msg)

	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d", e.StatusCode)
		if e.Status != "" {
			fmt.Fprintf(&b, " %s", e.Status)
		}
		b.WriteString(")")
	}

	if snippet := snippet(e.Body); snippet != "" {
		fmt.Fprintf(&b, " - Response: %s", snippet)
	}

	return b.String()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// snippet trims body so the rendered excerpt stays under maxSnippetLen.
func snippet(body string) string {
	body = strings.TrimSpace(body)
	if len(body) < maxSnippetLen {
		return body
	}

	const ellipsis = "..."
	cut := maxSnippetLen - len(ellipsis) - 1
	for cut > 0 && !utf8Start(body[cut]) {
		cut--
	}

	return body[:cut] + ellipsis
}

// utf8Start reports whether b begins a UTF-8 sequence.
func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}

// statusErr builds the sentinel chain for a non-2xx response. It renders on
// a single line.
func statusErr(code int) error {
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		return fmt.Errorf("%w: %w", ErrAuthFailure, ErrUnexpectedStatusCode)
	}

	return ErrUnexpectedStatusCode
}

// APIError is returned when a 2xx response carries an envelope whose own
// status field reports a failure.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", e.Status)
	}

	return "assinafy api error: " + msg
}

// MissingIDError is returned before any request when an operation is
// called without one of its required identifiers.
type MissingIDError struct {
	// What names the missing identifier(s), e.g. "document id".
	What string
	// Op names the operation, e.g. "deletion".
	Op string
}

func (e *MissingIDError) Error() string {
	if strings.Contains(e.What, " and ") {
		return fmt.Sprintf("%s are all required for %s", e.What, e.Op)
	}

	return fmt.Sprintf("%s is required for %s", e.What, e.Op)
}

func (e *MissingIDError) Unwrap() error {
	return ErrMissingID
}

// RequireIDs returns a *MissingIDError when any of ids is empty.
func RequireIDs(what, op string, ids ...string) error {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return &MissingIDError{What: what, Op: op}
		}
	}

	return nil
}
