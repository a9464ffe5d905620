// Package document uploads PDFs to Assinafy, tracks their signing state and
// retrieves the signed artifacts.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/adamwoolhether/assinafy/client"
)

// Resource issues the document calls.
type Resource struct {
	c *client.Client
}

// New returns a Resource that sends its requests through c.
func New(c *client.Client) *Resource {
	return &Resource{c: c}
}

// Upload sends a PDF to the account as a multipart form file.
func (r *Resource) Upload(ctx context.Context, pdf io.Reader, fileName string, opts ...client.CallOption) (Document, error) {
	if pdf == nil {
		return Document{}, errors.New("uploading document: pdf reader must not be nil")
	}
	if fileName == "" {
		return Document{}, errors.New("uploading document: file name is required")
	}

	accountID, err := r.c.ResolveAccount(opts...)
	if err != nil {
		return Document{}, err
	}

	u := r.c.URL(client.Path("accounts", accountID, "documents"))
	req, err := client.Request(ctx, u, http.MethodPost, client.WithMultipartFile("file", fileName, "application/pdf", pdf))
	if err != nil {
		return Document{}, fmt.Errorf("uploading document: %w", err)
	}

	var doc Document
	if err := r.c.Do(req, client.WithDestination(&doc)); err != nil {
		return Document{}, fmt.Errorf("uploading document: %w", err)
	}

	if doc.ID == "" {
		return Document{}, fmt.Errorf("uploading document: %w", ErrUploadMissingID)
	}

	return doc, nil
}

// List returns one page of the account's documents.
func (r *Resource) List(ctx context.Context, lo client.ListOptions, opts ...client.CallOption) (client.Page[Document], error) {
	accountID, err := r.c.ResolveAccount(opts...)
	if err != nil {
		return client.Page[Document]{}, err
	}

	query, err := lo.Query()
	if err != nil {
		return client.Page[Document]{}, fmt.Errorf("listing documents: %w", err)
	}

	u := r.c.URL(client.Path("accounts", accountID, "documents"), client.WithQueryStrings(query))
	req, err := client.Request(ctx, u, http.MethodGet)
	if err != nil {
		return client.Page[Document]{}, fmt.Errorf("listing documents: %w", err)
	}

	var page client.Page[Document]
	if err := r.c.Do(req, client.WithPage(&page)); err != nil {
		return client.Page[Document]{}, fmt.Errorf("listing documents: %w", err)
	}

	return page, nil
}

// Details fetches a document with its assignment, artifacts and activity.
func (r *Resource) Details(ctx context.Context, documentID string) (Document, error) {
	if err := client.RequireIDs("document id", "getting details", documentID); err != nil {
		return Document{}, err
	}

	req, err := client.Request(ctx, r.c.URL(client.Path("documents", documentID)), http.MethodGet)
	if err != nil {
		return Document{}, fmt.Errorf("getting document details: %w", err)
	}

	var doc Document
	if err := r.c.Do(req, client.WithDestination(&doc)); err != nil {
		return Document{}, fmt.Errorf("getting document details: %w", err)
	}

	return doc, nil
}

// Download reads an artifact into memory. An empty artifact selects
// [DefaultArtifact]. A body that is not the artifact's media type fails with
// [client.ErrMediaTypeMismatch].
func (r *Resource) Download(ctx context.Context, documentID string, artifact Artifact) ([]byte, error) {
	req, artifact, err := r.downloadRequest(ctx, documentID, artifact)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.c.Do(req, client.WithWriter(&buf)); err != nil {
		return nil, fmt.Errorf("downloading document: %w", err)
	}

	if err := client.CheckSignature(artifact.MediaType(), buf.Bytes()); err != nil {
		return nil, fmt.Errorf("downloading document %s: %w", artifact, err)
	}

	return buf.Bytes(), nil
}

// DownloadFile streams an artifact to destPath. The file only appears once
// the whole body was written and verified, including its media type.
func (r *Resource) DownloadFile(ctx context.Context, documentID string, artifact Artifact, destPath string, opts ...client.DownloadOption) error {
	req, artifact, err := r.downloadRequest(ctx, documentID, artifact)
	if err != nil {
		return err
	}

	opts = append([]client.DownloadOption{client.WithMediaType(artifact.MediaType())}, opts...)
	if err := r.c.Download(req, destPath, opts...); err != nil {
		return fmt.Errorf("downloading document: %w", err)
	}

	return nil
}

func (r *Resource) downloadRequest(ctx context.Context, documentID string, artifact Artifact) (*http.Request, Artifact, error) {
	if err := client.RequireIDs("document id", "downloading", documentID); err != nil {
		return nil, "", err
	}

	artifact, err := artifact.resolve()
	if err != nil {
		return nil, "", err
	}

	u := r.c.URL(client.Path("documents", documentID, "download", string(artifact)))
	req, err := client.Request(ctx, u, http.MethodGet, client.WithHeaders(map[string][]string{"Accept": {artifact.MediaType()}}))
	if err != nil {
		return nil, "", fmt.Errorf("downloading document: %w", err)
	}

	return req, artifact, nil
}

// Delete removes a document.
func (r *Resource) Delete(ctx context.Context, documentID string) error {
	if err := client.RequireIDs("document id", "deletion", documentID); err != nil {
		return err
	}

	req, err := client.Request(ctx, r.c.URL(client.Path("documents", documentID)), http.MethodDelete)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	if err := r.c.Do(req); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	return nil
}

// CreateAssignment sends the document out for signature.
func (r *Resource) CreateAssignment(ctx context.Context, documentID string, payload AssignmentRequest) (Assignment, error) {
	if err := client.RequireIDs("document id", "creating assignment", documentID); err != nil {
		return Assignment{}, err
	}

	if payload.Method == "" {
		payload.Method = MethodVirtual
	}
	if err := client.Validate(payload); err != nil {
		return Assignment{}, err
	}

	u := r.c.URL(client.Path("documents", documentID, "assignments"))
	req, err := client.Request(ctx, u, http.MethodPost, client.WithPayload(payload))
	if err != nil {
		return Assignment{}, fmt.Errorf("creating assignment: %w", err)
	}

	var a Assignment
	if err := r.c.Do(req, client.WithDestination(&a)); err != nil {
		return Assignment{}, fmt.Errorf("creating assignment: %w", err)
	}

	return a, nil
}

// ResendSignerEmail asks the platform to email a signing reminder to one
// signer of an assignment.
func (r *Resource) ResendSignerEmail(ctx context.Context, documentID, assignmentID, signerID string) (ResendResult, error) {
	if err := client.RequireIDs("document id, assignment id and signer id", "resending email", documentID, assignmentID, signerID); err != nil {
		return ResendResult{}, err
	}

	u := r.c.URL(client.Path("documents", documentID, "assignments", assignmentID, "signers", signerID, "resend"))
	req, err := client.Request(ctx, u, http.MethodPut)
	if err != nil {
		return ResendResult{}, fmt.Errorf("resending signer email: %w", err)
	}

	var res ResendResult
	if err := r.c.Do(req, client.WithDestination(&res)); err != nil {
		return ResendResult{}, fmt.Errorf("resending signer email: %w", err)
	}

	return res, nil
}
