package client

import "strings"

// CallOption adjusts a single resource call.
type CallOption func(*callOpts)

type callOpts struct {
	accountID string
}

// ForAccount scopes a call to accountID, taking precedence over the
// default configured with [WithDefaultAccount].
func ForAccount(accountID string) CallOption {
	return func(opts *callOpts) {
		opts.accountID = accountID
	}
}

// ResolveAccount picks the account a call is scoped to: an explicit
// [ForAccount] wins over the client default. When neither is set it returns
// [ErrMissingAccount] without touching the network.
func (c *Client) ResolveAccount(opts ...CallOption) (string, error) {
	var settings callOpts
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}

	if id := strings.TrimSpace(settings.accountID); id != "" {
		return id, nil
	}

	if c.accountID != "" {
		return c.accountID, nil
	}

	return "", ErrMissingAccount
}

// DefaultAccount returns the account id configured at build time, if any.
func (c *Client) DefaultAccount() string {
	return c.accountID
}
