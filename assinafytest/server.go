// Package assinafytest serves an in-memory fake of the Assinafy API for
// tests. It speaks the platform's envelope format, enforces bearer
// authentication and keeps workspaces, signers and documents in memory.
//
//	srv := assinafytest.NewServer()
//	defer srv.Close()
//
//	ws := srv.AddWorkspace("Acme")
//	c, err := assinafy.NewClient(srv.Token,
//		client.WithBaseURL(srv.URL),
//		client.WithDefaultAccount(ws.ID),
//	)
package assinafytest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/adamwoolhether/assinafy/client"
	"github.com/adamwoolhether/assinafy/document"
	"github.com/adamwoolhether/assinafy/internal/web/middleware"
	"github.com/adamwoolhether/assinafy/internal/web/mux"
	"github.com/adamwoolhether/assinafy/webhook"
	"github.com/adamwoolhether/assinafy/workspace"
)

// DefaultToken is the bearer token accepted unless [WithToken] is used.
const DefaultToken = "assinafytest-token"

// EventDocumentReady is posted to the webhook once every signer signed.
const EventDocumentReady = "document_ready"

// Server is a running fake.
type Server struct {
	// URL is the API root, with a trailing slash, to pass to client.WithBaseURL.
	URL string
	// Token is the accepted bearer token.
	Token string

	srv        *httptest.Server
	app        *mux.App
	store      *store
	logger     *slog.Logger
	webhookURL string
	hc         *http.Client

	mu       sync.Mutex
	failNext *injected
}

type injected struct {
	status  int
	message string
}

// Option configures a Server.
type Option func(*Server)

// WithToken sets the accepted bearer token.
func WithToken(token string) Option {
	return func(s *Server) {
		s.Token = token
	}
}

// WithLogger receives the request log. Logging is discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithWebhook makes [Server.Complete] post a [webhook.Event] to url.
func WithWebhook(url string) Option {
	return func(s *Server) {
		s.webhookURL = url
	}
}

// NewServer starts a fake on a local httptest listener. Call Close when done.
func NewServer(opts ...Option) *Server {
	s := build(opts)
	s.srv = httptest.NewServer(s.app)
	s.URL = s.srv.URL + "/v1/"

	return s
}

// NewHandler builds a fake without a listener, for serving on a real
// address. baseURL is the address clients reach it at, e.g.
// "http://127.0.0.1:8080/"; artifact links are built from it.
func NewHandler(baseURL string, opts ...Option) *Server {
	s := build(opts)
	s.URL = strings.TrimSuffix(baseURL, "/") + "/v1/"

	return s
}

func build(opts []Option) *Server {
	s := &Server{
		Token:  DefaultToken,
		store:  newStore(),
		logger: slog.New(slog.DiscardHandler),
		hc:     &http.Client{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = mux.New(
		mux.WithLogger(s.logger),
		mux.WithMiddleware(
			middleware.Logger(s.logger),
			middleware.Errors(s.logger),
			middleware.Panics(),
			middleware.Bearer(s.Token),
			s.injectFailure,
		),
	)
	s.routes(s.app.Mount("/v1"))

	return s
}

// Handler serves the fake API under /v1.
func (s *Server) Handler() http.Handler {
	return s.app
}

// Close shuts the httptest listener down, if any.
func (s *Server) Close() {
	if s.srv != nil {
		s.srv.Close()
	}
}

// Client builds a client authenticated against the fake. opts are applied
// after the base URL and token.
func (s *Server) Client(opts ...client.Option) (*client.Client, error) {
	return client.Build(append([]client.Option{client.WithBaseURL(s.URL), client.WithToken(s.Token)}, opts...)...)
}

// AddWorkspace seeds a workspace and returns it.
func (s *Server) AddWorkspace(name string) workspace.Workspace {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	return s.store.addAccount(name, "", "")
}

// FailNext makes the next authenticated request answer HTTP 200 with a
// failure envelope carrying status and message.
func (s *Server) FailNext(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failNext = &injected{status: status, message: message}
}

// Document returns a copy of the stored state of a document. Later changes
// to the document do not show through it.
func (s *Server) Document(id string) (document.Document, bool) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	d, ok := s.store.documents[id]
	if !ok {
		return document.Document{}, false
	}
	return snapshot(d.doc), true
}

// Complete simulates every assigned signer signing the document: it becomes
// completed, the certificated artifacts become downloadable and, when
// configured, the webhook is notified.
func (s *Server) Complete(ctx context.Context, documentID string) error {
	if err := s.complete(documentID); err != nil {
		return err
	}

	if s.webhookURL == "" {
		return nil
	}

	return s.notify(ctx, webhook.Event{Event: EventDocumentReady, Data: webhook.Data{DocumentUUID: documentID}})
}

func (s *Server) complete(documentID string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	d, ok := s.store.documents[documentID]
	if !ok {
		return fmt.Errorf("document %s not found", documentID)
	}
	if d.doc.Status != document.StatusPending || d.doc.Assignment == nil {
		return fmt.Errorf("document %s is %s, not pending", documentID, d.doc.Status)
	}

	d.doc.Status = document.StatusCompleted
	d.doc.IsClosed = true
	d.doc.UpdatedAt = s.store.timestamp()

	a := d.doc.Assignment
	for i := range a.Items {
		a.Items[i].Completed = true
	}
	a.Summary = &document.Summary{SignerCount: len(a.Signers), CompletedCount: len(a.Signers)}

	d.doc.Artifacts.Certificated = s.artifactURL(documentID, document.ArtifactCertificated)
	d.doc.Artifacts.CertificatePage = s.artifactURL(documentID, document.ArtifactCertificatePage)
	d.doc.Artifacts.Bundle = s.artifactURL(documentID, document.ArtifactBundle)
	d.doc.DownloadFinalURL = d.doc.Artifacts.Certificated

	return nil
}

func (s *Server) notify(ctx context.Context, ev webhook.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding webhook event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.hc.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("posting webhook: receiver answered %d", resp.StatusCode)
	}

	return nil
}

func (s *Server) artifactURL(documentID string, artifact document.Artifact) string {
	return s.URL + client.Path("documents", documentID, "download", string(artifact))
}

func (s *Server) takeFailure() *injected {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.failNext
	s.failNext = nil
	return f
}
