// Package signer manages the signers registered on an Assinafy account.
package signer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/adamwoolhether/assinafy/client"
)

// Resource issues the signer calls. Every call is account scoped: pass
// [client.ForAccount] or configure [client.WithDefaultAccount].
type Resource struct {
	c *client.Client
}

// New returns a Resource that sends its requests through c.
func New(c *client.Client) *Resource {
	return &Resource{c: c}
}

// Create registers a signer.
func (r *Resource) Create(ctx context.Context, payload CreateRequest, opts ...client.CallOption) (Signer, error) {
	if err := client.Validate(payload); err != nil {
		return Signer{}, err
	}

	accountID, err := r.c.ResolveAccount(opts...)
	if err != nil {
		return Signer{}, err
	}

	u := r.c.URL(client.Path("accounts", accountID, "signers"))
	req, err := client.Request(ctx, u, http.MethodPost, client.WithPayload(payload))
	if err != nil {
		return Signer{}, fmt.Errorf("creating signer: %w", err)
	}

	var s Signer
	if err := r.c.Do(req, client.WithDestination(&s)); err != nil {
		return Signer{}, fmt.Errorf("creating signer: %w", err)
	}

	return s, nil
}

// List returns one page of the account's signers, optionally filtered by
// [client.ListOptions.Search].
func (r *Resource) List(ctx context.Context, lo client.ListOptions, opts ...client.CallOption) (client.Page[Signer], error) {
	accountID, err := r.c.ResolveAccount(opts...)
	if err != nil {
		return client.Page[Signer]{}, err
	}

	query, err := lo.Query()
	if err != nil {
		return client.Page[Signer]{}, fmt.Errorf("listing signers: %w", err)
	}

	u := r.c.URL(client.Path("accounts", accountID, "signers"), client.WithQueryStrings(query))
	req, err := client.Request(ctx, u, http.MethodGet)
	if err != nil {
		return client.Page[Signer]{}, fmt.Errorf("listing signers: %w", err)
	}

	var page client.Page[Signer]
	if err := r.c.Do(req, client.WithPage(&page)); err != nil {
		return client.Page[Signer]{}, fmt.Errorf("listing signers: %w", err)
	}

	return page, nil
}

// Get fetches a single signer.
func (r *Resource) Get(ctx context.Context, signerID string, opts ...client.CallOption) (Signer, error) {
	if err := client.RequireIDs("signer id", "getting", signerID); err != nil {
		return Signer{}, err
	}

	accountID, err := r.c.ResolveAccount(opts...)
	if err != nil {
		return Signer{}, err
	}

	u := r.c.URL(client.Path("accounts", accountID, "signers", signerID))
	req, err := client.Request(ctx, u, http.MethodGet)
	if err != nil {
		return Signer{}, fmt.Errorf("getting signer: %w", err)
	}

	var s Signer
	if err := r.c.Do(req, client.WithDestination(&s)); err != nil {
		return Signer{}, fmt.Errorf("getting signer: %w", err)
	}

	return s, nil
}

// Update modifies a signer's name or email.
func (r *Resource) Update(ctx context.Context, signerID string, payload UpdateRequest, opts ...client.CallOption) (Signer, error) {
	if err := client.RequireIDs("signer id", "updating", signerID); err != nil {
		return Signer{}, err
	}

	if err := client.Validate(payload); err != nil {
		return Signer{}, err
	}

	accountID, err := r.c.ResolveAccount(opts...)
	if err != nil {
		return Signer{}, err
	}

	u := r.c.URL(client.Path("accounts", accountID, "signers", signerID))
	req, err := client.Request(ctx, u, http.MethodPut, client.WithPayload(payload))
	if err != nil {
		return Signer{}, fmt.Errorf("updating signer: %w", err)
	}

	var s Signer
	if err := r.c.Do(req, client.WithDestination(&s)); err != nil {
		return Signer{}, fmt.Errorf("updating signer: %w", err)
	}

	return s, nil
}

// Delete removes a signer from the account.
func (r *Resource) Delete(ctx context.Context, signerID string, opts ...client.CallOption) error {
	if err := client.RequireIDs("signer id", "deletion", signerID); err != nil {
		return err
	}

	accountID, err := r.c.ResolveAccount(opts...)
	if err != nil {
		return err
	}

	u := r.c.URL(client.Path("accounts", accountID, "signers", signerID))
	req, err := client.Request(ctx, u, http.MethodDelete)
	if err != nil {
		return fmt.Errorf("deleting signer: %w", err)
	}

	if err := r.c.Do(req); err != nil {
		return fmt.Errorf("deleting signer: %w", err)
	}

	return nil
}
