// Package web writes the Assinafy response envelope and decodes incoming
// requests for handlers registered on a [mux.App].
package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/adamwoolhether/assinafy/internal/web/mux"
)

// Envelope is the {status, message, data} wrapper every JSON response uses.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Meta    any    `json:"meta,omitempty"`
}

// Respond wraps data in an Envelope carrying statusCode and writes it.
func Respond(ctx context.Context, w http.ResponseWriter, statusCode int, data any) error {
	return RespondJSON(ctx, w, statusCode, Envelope{Status: statusCode, Data: data})
}

// RespondPage writes a list envelope with its pagination meta.
func RespondPage(ctx context.Context, w http.ResponseWriter, data, meta any) error {
	return RespondJSON(ctx, w, http.StatusOK, Envelope{Status: http.StatusOK, Data: data, Meta: meta})
}

// RespondError writes a failure envelope with message.
func RespondError(ctx context.Context, w http.ResponseWriter, statusCode int, message string, data any) error {
	return RespondJSON(ctx, w, statusCode, Envelope{Status: statusCode, Message: message, Data: data})
}

// RespondJSON to an HTTP request, setting the status code and body if any.
func RespondJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) error {
	mux.SetStatusCode(ctx, statusCode)

	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err = w.Write(jsonData); err != nil {
		return err
	}

	return nil
}

// RespondBytes writes b as-is with the given content type.
func RespondBytes(ctx context.Context, w http.ResponseWriter, contentType string, b []byte) error {
	mux.SetStatusCode(ctx, http.StatusOK)

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)

	_, err := w.Write(b)
	return err
}
