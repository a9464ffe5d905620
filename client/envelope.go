package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Unwrap applies the Assinafy envelope contract to a response body.
//
// A body shaped as {"status": <number>, "data": ...} is an envelope: a status
// in [200,300) yields the raw data, any other status an *APIError carrying the
// envelope's message. Every other body is returned unchanged.
func Unwrap(body []byte) (json.RawMessage, error) {
	env, ok := parseEnvelope(body)
	if !ok {
		return body, nil
	}

	if err := env.err(); err != nil {
		return nil, err
	}

	return env.Data, nil
}

// Decode unwraps body and decodes the result into a T.
func Decode[T any](body []byte) (T, error) {
	var v T

	data, err := Unwrap(body)
	if err != nil {
		return v, err
	}

	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decoding body: %w", err)
	}

	return v, nil
}

type envelope struct {
	Status  int
	Message string
	Data    json.RawMessage
}

func (e envelope) err() error {
	if e.Status >= 200 && e.Status < 300 {
		return nil
	}

	return &APIError{Status: e.Status, Message: e.Message}
}

// parseEnvelope reports whether body carries both a numeric status and a
// data member. An explicit `"data": null` counts as present.
func parseEnvelope(body []byte) (envelope, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return envelope{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return envelope{}, false
	}

	rawStatus, ok := fields["status"]
	if !ok {
		return envelope{}, false
	}
	data, ok := fields["data"]
	if !ok {
		return envelope{}, false
	}

	var code float64
	if bytes.Equal(bytes.TrimSpace(rawStatus), []byte("null")) {
		return envelope{}, false
	}
	if err := json.Unmarshal(rawStatus, &code); err != nil {
		return envelope{}, false
	}

	env := envelope{
		Status: int(code),
		Data:   data,
	}

	if rawMsg, ok := fields["message"]; ok {
		var msg string
		if err := json.Unmarshal(rawMsg, &msg); err == nil {
			env.Message = msg
		}
	}

	return env, true
}

// Meta carries the pagination block returned alongside list data.
type Meta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// Page is a list response. It decodes either from a bare JSON array or from
// an object carrying `data` and an optional `meta`.
type Page[T any] struct {
	Data []T   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Page[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		p.Data = items
		p.Meta = nil
		return nil
	}

	var v struct {
		Data []T   `json:"data"`
		Meta *Meta `json:"meta"`
	}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	p.Data = v.Data
	p.Meta = v.Meta

	return nil
}
