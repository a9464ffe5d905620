package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/adamwoolhether/assinafy/internal/validate"
)

// Param extracts a path parameter by key and returns its string value.
func Param(r *http.Request, key string) (string, error) {
	val := r.PathValue(key)
	if val == "" {
		return "", fmt.Errorf("path param[%s] not found", key)
	}

	return val, nil
}

// QueryInt parses a query parameter as a positive int, returning def when
// it is absent.
func QueryInt(r *http.Request, key string, def int) (int, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return def, nil
	}

	v, err := strconv.Atoi(val)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("query param[%s] must be a positive integer", key)
	}

	return v, nil
}

// Decode reads the body of an HTTP request looking for a JSON document. The
// body is decoded into the provided value, which is then checked for
// validation tags.
func Decode[T any](r *http.Request, val *T) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(val); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if err := validate.Check(val); err != nil {
		return err
	}

	return nil
}
