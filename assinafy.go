package assinafy

import (
	"context"
	"io"
	"strings"

	"github.com/adamwoolhether/assinafy/client"
	"github.com/adamwoolhether/assinafy/document"
	"github.com/adamwoolhether/assinafy/signer"
	"github.com/adamwoolhether/assinafy/workspace"
)

// Version is reported in the User-Agent header.
const Version = "0.1.0"

// Client composes the API resources. Its methods are shortcuts for the most
// common resource calls.
type Client struct {
	Documents  *document.Resource
	Signers    *signer.Resource
	Workspaces *workspace.Resource

	c *client.Client
}

// NewClient builds a Client authenticated with token. opts are applied after
// the defaults, so a caller may replace the User-Agent.
func NewClient(token string, opts ...client.Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, client.ErrMissingToken
	}

	base := []client.Option{
		client.WithUserAgent("assinafy-go/" + Version),
		client.WithToken(token),
	}

	c, err := client.Build(append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	return &Client{
		Documents:  document.New(c),
		Signers:    signer.New(c),
		Workspaces: workspace.New(c),
		c:          c,
	}, nil
}

// HTTP returns the underlying client for requests the resources do not cover.
func (c *Client) HTTP() *client.Client {
	return c.c
}

// UploadDocument uploads a PDF to the account.
func (c *Client) UploadDocument(ctx context.Context, pdf io.Reader, fileName string, opts ...client.CallOption) (document.Document, error) {
	return c.Documents.Upload(ctx, pdf, fileName, opts...)
}

// GetDocumentDetails fetches a document with its assignment and artifacts.
func (c *Client) GetDocumentDetails(ctx context.Context, documentID string) (document.Document, error) {
	return c.Documents.Details(ctx, documentID)
}

// DownloadDocument returns an artifact of a document. An empty artifact
// selects [document.DefaultArtifact].
func (c *Client) DownloadDocument(ctx context.Context, documentID string, artifact document.Artifact) ([]byte, error) {
	return c.Documents.Download(ctx, documentID, artifact)
}

// DeleteDocument removes a document.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	return c.Documents.Delete(ctx, documentID)
}

// ListDocuments lists the first page of the account's documents.
func (c *Client) ListDocuments(ctx context.Context, opts ...client.CallOption) (client.Page[document.Document], error) {
	return c.Documents.List(ctx, client.ListOptions{}, opts...)
}

// CreateSigner registers a signer on the account.
func (c *Client) CreateSigner(ctx context.Context, payload signer.CreateRequest, opts ...client.CallOption) (signer.Signer, error) {
	return c.Signers.Create(ctx, payload, opts...)
}

// ListSigners lists the account's signers whose name or email matches search.
// An empty search lists them all.
func (c *Client) ListSigners(ctx context.Context, search string, opts ...client.CallOption) (client.Page[signer.Signer], error) {
	return c.Signers.List(ctx, client.ListOptions{Search: search}, opts...)
}

// CreateAssignment asks signers to sign a document.
func (c *Client) CreateAssignment(ctx context.Context, documentID string, payload document.AssignmentRequest) (document.Assignment, error) {
	return c.Documents.CreateAssignment(ctx, documentID, payload)
}

// ResendSignerEmail sends the signing request to a signer again.
func (c *Client) ResendSignerEmail(ctx context.Context, documentID, assignmentID, signerID string) (document.ResendResult, error) {
	return c.Documents.ResendSignerEmail(ctx, documentID, assignmentID, signerID)
}
