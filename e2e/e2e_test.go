//go:build integration

// Package e2e_test runs against a live Assinafy environment. Configure it
// with ASSINAFY_TOKEN, ASSINAFY_ACCOUNT_ID and, for the sandbox,
// ASSINAFY_BASE_URL, then run: go test -tags integration ./e2e
package e2e_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adamwoolhether/assinafy"
	"github.com/adamwoolhether/assinafy/client"
	"github.com/adamwoolhether/assinafy/document"
	"github.com/adamwoolhether/assinafy/internal/config"
	"github.com/adamwoolhether/assinafy/signer"
)

// minimalPDF is a single blank page.
const minimalPDF = "%PDF-1.4\n1 0 obj<</Type/Catalog/Pages 2 0 R>>endobj\n" +
	"2 0 obj<</Type/Pages/Kids[3 0 R]/Count 1>>endobj\n" +
	"3 0 obj<</Type/Page/Parent 2 0 R/MediaBox[0 0 595 842]>>endobj\n" +
	"trailer<</Root 1 0 R>>\n%%EOF\n"

func newClient(t *testing.T) *assinafy.Client {
	t.Helper()

	if os.Getenv(config.EnvToken) == "" && os.Getenv(config.EnvConfig) == "" {
		t.Skipf("set %s to run against a live environment", config.EnvToken)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.AccountID == "" {
		t.Skipf("set %s to run account-scoped flows", config.EnvAccountID)
	}

	opts, err := cfg.ClientOptions()
	if err != nil {
		t.Fatalf("client options: %v", err)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opts = append(opts, client.WithLogger(log), client.WithThrottle(2, 2))

	c, err := assinafy.NewClient(cfg.Token, opts...)
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	return c
}

func TestDocumentRoundTrip(t *testing.T) {
	c := newClient(t)
	ctx := t.Context()

	doc, err := c.UploadDocument(ctx, bytes.NewReader([]byte(minimalPDF)), fmt.Sprintf("e2e-%d.pdf", time.Now().Unix()))
	if err != nil {
		t.Fatalf("uploading: %v", err)
	}
	t.Cleanup(func() {
		if err := c.DeleteDocument(t.Context(), doc.ID); err != nil {
			t.Logf("cleanup: %v", err)
		}
	})

	details, err := c.GetDocumentDetails(ctx, doc.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.ID != doc.ID {
		t.Errorf("details id = %q, want %q", details.ID, doc.ID)
	}

	dest := filepath.Join(t.TempDir(), "original.pdf")
	if err := c.Documents.DownloadFile(ctx, doc.ID, document.ArtifactOriginal, dest, client.WithProgress()); err != nil {
		t.Fatalf("downloading original: %v", err)
	}
}

func TestSignerRoundTrip(t *testing.T) {
	c := newClient(t)
	ctx := t.Context()

	email := fmt.Sprintf("e2e+%d@example.com", time.Now().UnixNano())
	sg, err := c.CreateSigner(ctx, signer.CreateRequest{FullName: "E2E Signer", Email: email})
	if err != nil {
		t.Fatalf("creating signer: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Signers.Delete(t.Context(), sg.ID); err != nil {
			t.Logf("cleanup: %v", err)
		}
	})

	page, err := c.ListSigners(ctx, email)
	if err != nil {
		t.Fatalf("listing signers: %v", err)
	}
	if len(page.Data) == 0 {
		t.Errorf("signer %s not found by search", email)
	}
}

func TestUnknownDocument(t *testing.T) {
	c := newClient(t)

	_, err := c.GetDocumentDetails(t.Context(), "00000000-0000-0000-0000-000000000000")
	if err == nil {
		t.Fatal("expected error for unknown document")
	}

	_, isTransport := errors.AsType[*client.TransportError](err)
	_, isAPI := errors.AsType[*client.APIError](err)
	if !isTransport && !isAPI {
		t.Errorf("unexpected error type %T: %v", err, err)
	}
}
