package client

import (
	"errors"
	"strconv"
)

// ListOptions narrows a list call. Zero values are left to the server's
// defaults.
type ListOptions struct {
	Page    int
	PerPage int
	// Search filters by name or email where the endpoint supports it.
	Search string
}

// Query validates o and renders it as query parameters for [WithQueryStrings].
func (o ListOptions) Query() (map[string]string, error) {
	if o.Page < 0 || o.PerPage < 0 {
		return nil, errors.New("page and per-page must not be negative")
	}

	q := map[string]string{"search": o.Search}
	if o.Page > 0 {
		q["page"] = strconv.Itoa(o.Page)
	}
	if o.PerPage > 0 {
		q["per-page"] = strconv.Itoa(o.PerPage)
	}

	return q, nil
}
