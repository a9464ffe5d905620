// Package webhook decodes the event notifications Assinafy posts to a
// registered endpoint.
package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/adamwoolhether/assinafy/client"
)

// maxPayloadSize bounds the body read from a notification.
const maxPayloadSize = 1 << 20

// ErrPayloadTooLarge is returned when a notification exceeds maxPayloadSize.
var ErrPayloadTooLarge = errors.New("webhook payload too large")

// Event is a single notification.
type Event struct {
	Event string `json:"event" validate:"required"`
	Data  Data   `json:"data"`
}

// Data carries the affected document plus any event-specific fields.
type Data struct {
	DocumentUUID string `json:"document_uuid" validate:"required"`
	// Extra holds every field other than document_uuid.
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Data) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	if raw, ok := fields["document_uuid"]; ok {
		if err := json.Unmarshal(raw, &d.DocumentUUID); err != nil {
			return fmt.Errorf("document_uuid: %w", err)
		}
		delete(fields, "document_uuid")
	}

	if len(fields) > 0 {
		d.Extra = fields
	}

	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Data) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Extra)+1)
	for k, v := range d.Extra {
		m[k] = v
	}
	m["document_uuid"] = d.DocumentUUID

	return json.Marshal(m)
}

// Decode reads one event from r and validates it.
func Decode(r io.Reader) (Event, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxPayloadSize+1))
	if err != nil {
		return Event{}, fmt.Errorf("reading webhook payload: %w", err)
	}
	if len(body) > maxPayloadSize {
		return Event{}, ErrPayloadTooLarge
	}

	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, fmt.Errorf("decoding webhook payload: %w", err)
	}

	if err := client.Validate(ev); err != nil {
		return Event{}, err
	}

	return ev, nil
}

// Handler adapts fn into an http.Handler for a webhook endpoint. Invalid
// payloads are answered with 400 and never reach fn; an error from fn
// yields 500 so the platform redelivers.
func Handler(fn func(*http.Request, Event) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		ev, err := Decode(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := fn(r, ev); err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
