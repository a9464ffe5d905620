// Package workspace manages the accounts (workspaces) a token can access.
//
// Unlike documents and signers, workspace calls never fall back to the
// client's default account: the target account is always explicit.
package workspace

import (
	"context"
	"fmt"
	"net/http"

	"github.com/adamwoolhether/assinafy/client"
)

// Resource issues the workspace calls.
type Resource struct {
	c *client.Client
}

// New returns a Resource that sends its requests through c.
func New(c *client.Client) *Resource {
	return &Resource{c: c}
}

// Create adds a workspace owned by the token's user.
func (r *Resource) Create(ctx context.Context, payload CreateRequest) (Workspace, error) {
	if err := client.Validate(payload); err != nil {
		return Workspace{}, err
	}

	req, err := client.Request(ctx, r.c.URL("accounts"), http.MethodPost, client.WithPayload(payload))
	if err != nil {
		return Workspace{}, fmt.Errorf("creating workspace: %w", err)
	}

	var ws Workspace
	if err := r.c.Do(req, client.WithDestination(&ws)); err != nil {
		return Workspace{}, fmt.Errorf("creating workspace: %w", err)
	}

	return ws, nil
}

// List returns the user's workspaces, most recently used first.
func (r *Resource) List(ctx context.Context, lo client.ListOptions) (client.Page[Workspace], error) {
	query, err := lo.Query()
	if err != nil {
		return client.Page[Workspace]{}, fmt.Errorf("listing workspaces: %w", err)
	}

	req, err := client.Request(ctx, r.c.URL("accounts", client.WithQueryStrings(query)), http.MethodGet)
	if err != nil {
		return client.Page[Workspace]{}, fmt.Errorf("listing workspaces: %w", err)
	}

	var page client.Page[Workspace]
	if err := r.c.Do(req, client.WithPage(&page)); err != nil {
		return client.Page[Workspace]{}, fmt.Errorf("listing workspaces: %w", err)
	}

	return page, nil
}

// Get fetches a workspace.
func (r *Resource) Get(ctx context.Context, accountID string) (Workspace, error) {
	if err := client.RequireIDs("account id", "getting workspace", accountID); err != nil {
		return Workspace{}, err
	}

	req, err := client.Request(ctx, r.c.URL(client.Path("accounts", accountID)), http.MethodGet)
	if err != nil {
		return Workspace{}, fmt.Errorf("getting workspace: %w", err)
	}

	var ws Workspace
	if err := r.c.Do(req, client.WithDestination(&ws)); err != nil {
		return Workspace{}, fmt.Errorf("getting workspace: %w", err)
	}

	return ws, nil
}

// Update renames or recolors a workspace.
func (r *Resource) Update(ctx context.Context, accountID string, payload UpdateRequest) (Workspace, error) {
	if err := client.RequireIDs("account id", "updating workspace", accountID); err != nil {
		return Workspace{}, err
	}

	if err := client.Validate(payload); err != nil {
		return Workspace{}, err
	}

	req, err := client.Request(ctx, r.c.URL(client.Path("accounts", accountID)), http.MethodPut, client.WithPayload(payload))
	if err != nil {
		return Workspace{}, fmt.Errorf("updating workspace: %w", err)
	}

	var ws Workspace
	if err := r.c.Do(req, client.WithDestination(&ws)); err != nil {
		return Workspace{}, fmt.Errorf("updating workspace: %w", err)
	}

	return ws, nil
}

// Delete removes a workspace. The platform refuses when
// [Workspace.IsDeleteAllowed] is false.
func (r *Resource) Delete(ctx context.Context, accountID string) error {
	if err := client.RequireIDs("account id", "deleting workspace", accountID); err != nil {
		return err
	}

	req, err := client.Request(ctx, r.c.URL(client.Path("accounts", accountID)), http.MethodDelete)
	if err != nil {
		return fmt.Errorf("deleting workspace: %w", err)
	}

	if err := r.c.Do(req); err != nil {
		return fmt.Errorf("deleting workspace: %w", err)
	}

	return nil
}
