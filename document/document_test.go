package document_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/assinafy/client"
	"github.com/adamwoolhether/assinafy/document"
	"github.com/adamwoolhether/assinafy/signer"
)

type noNetwork struct{ t *testing.T }

func (n noNetwork) RoundTrip(r *http.Request) (*http.Response, error) {
	n.t.Errorf("unexpected request: %s %s", r.Method, r.URL)
	return nil, errors.New("network disabled")
}

func offline(t *testing.T, opts ...client.Option) *document.Resource {
	t.Helper()

	opts = append([]client.Option{client.WithToken("tok"), client.WithTransport(noNetwork{t})}, opts...)
	c, err := client.Build(opts...)
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	return document.New(c)
}

func serve(t *testing.T, h http.HandlerFunc, opts ...client.Option) *document.Resource {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts = append([]client.Option{client.WithBaseURL(srv.URL), client.WithToken("tok")}, opts...)
	c, err := client.Build(opts...)
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	return document.New(c)
}

func TestResource_MissingIDs(t *testing.T) {
	r := offline(t, client.WithDefaultAccount("acc-1"))
	dest := filepath.Join(t.TempDir(), "out.pdf")

	testCases := map[string]struct {
		call func() error
		exp  string
	}{
		"details": {
			call: func() error { _, err := r.Details(t.Context(), ""); return err },
			exp:  "document id is required for getting details",
		},
		"download": {
			call: func() error { _, err := r.Download(t.Context(), "", document.ArtifactOriginal); return err },
			exp:  "document id is required for downloading",
		},
		"downloadFile": {
			call: func() error { return r.DownloadFile(t.Context(), "", "", dest) },
			exp:  "document id is required for downloading",
		},
		"delete": {
			call: func() error { return r.Delete(t.Context(), "") },
			exp:  "document id is required for deletion",
		},
		"createAssignment": {
			call: func() error {
				_, err := r.CreateAssignment(t.Context(), "", document.AssignmentRequest{SignerIDs: []string{"s-1"}})
				return err
			},
			exp: "document id is required for creating assignment",
		},
		"resendNoDocument": {
			call: func() error { _, err := r.ResendSignerEmail(t.Context(), "", "a-1", "s-1"); return err },
			exp:  "document id, assignment id and signer id are all required for resending email",
		},
		"resendNoAssignment": {
			call: func() error { _, err := r.ResendSignerEmail(t.Context(), "d-1", "", "s-1"); return err },
			exp:  "document id, assignment id and signer id are all required for resending email",
		},
		"resendNoSigner": {
			call: func() error { _, err := r.ResendSignerEmail(t.Context(), "d-1", "a-1", ""); return err },
			exp:  "document id, assignment id and signer id are all required for resending email",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := tc.call()
			if !errors.Is(err, client.ErrMissingID) {
				t.Fatalf("expected ErrMissingID, got: %v", err)
			}
			if err.Error() != tc.exp {
				t.Errorf("error = %q, want %q", err.Error(), tc.exp)
			}
		})
	}
}

func TestResource_ClientSideRejections(t *testing.T) {
	r := offline(t)

	testCases := map[string]struct {
		call   func() error
		expErr error
	}{
		"uploadNoAccount": {
			call: func() error {
				_, err := r.Upload(t.Context(), strings.NewReader("%PDF"), "a.pdf")
				return err
			},
			expErr: client.ErrMissingAccount,
		},
		"listNoAccount": {
			call:   func() error { _, err := r.List(t.Context(), client.ListOptions{}); return err },
			expErr: client.ErrMissingAccount,
		},
		"unknownArtifact": {
			call:   func() error { _, err := r.Download(t.Context(), "d-1", "signed"); return err },
			expErr: document.ErrUnknownArtifact,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, tc.expErr) {
				t.Errorf("exp err %v, got: %v", tc.expErr, err)
			}
		})
	}
}

func TestResource_CreateAssignment_Invalid(t *testing.T) {
	r := offline(t)

	testCases := map[string]struct {
		payload  document.AssignmentRequest
		expField string
	}{
		"noSigners":   {payload: document.AssignmentRequest{}, expField: "signerIds"},
		"blankSigner": {payload: document.AssignmentRequest{SignerIDs: []string{""}}, expField: "signerIds[0]"},
		"badMethod":   {payload: document.AssignmentRequest{Method: "collect", SignerIDs: []string{"s-1"}}, expField: "method"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := r.CreateAssignment(t.Context(), "d-1", tc.payload)

			var fe client.FieldErrors
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldErrors, got: %v", err)
			}
			if _, ok := fe.Fields()[tc.expField]; !ok {
				t.Errorf("expected %s field error, got: %v", tc.expField, fe)
			}
		})
	}
}

func TestResource_Upload(t *testing.T) {
	testCases := map[string]struct {
		body   string
		exp    document.Document
		expErr error
	}{
		"ok": {
			body: `{"status":200,"message":"","data":{"resource":"document","id":"d-1","account_id":"acc-1","template_id":null,"name":"contract.pdf","status":"uploaded","assignment":null,"artifacts":{"original":"https://files/original"},"pages":[{"id":"p-1","number":1,"height":842,"width":595,"download_url":"https://files/p1"}],"is_closed":false,"decline_reason":null,"declined_by":null}}`,
			exp: document.Document{
				Resource:  "document",
				ID:        "d-1",
				AccountID: "acc-1",
				Name:      "contract.pdf",
				Status:    document.StatusUploaded,
				Artifacts: document.Artifacts{Original: "https://files/original"},
				Pages:     []document.Page{{ID: "p-1", Number: 1, Height: 842, Width: 595, DownloadURL: "https://files/p1"}},
			},
		},
		"missingID": {
			body:   `{"status":200,"data":{"name":"contract.pdf"}}`,
			expErr: document.ErrUploadMissingID,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			r := serve(t, func(w http.ResponseWriter, req *http.Request) {
				if req.Method != http.MethodPost || req.URL.Path != "/accounts/acc-call/documents" {
					t.Errorf("request = %s %s", req.Method, req.URL.Path)
				}

				f, hdr, err := req.FormFile("file")
				if err != nil {
					t.Errorf("reading form file: %v", err)
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				defer f.Close()

				if hdr.Filename != "contract.pdf" || hdr.Header.Get("Content-Type") != "application/pdf" {
					t.Errorf("part = %s (%s)", hdr.Filename, hdr.Header.Get("Content-Type"))
				}

				w.Write([]byte(tc.body))
			}, client.WithDefaultAccount("acc-default"))

			got, err := r.Upload(t.Context(), strings.NewReader("%PDF-1.7"), "contract.pdf", client.ForAccount("acc-call"))
			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Fatalf("exp err %v, got: %v", tc.expErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tc.exp, got); diff != "" {
				t.Errorf("document mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResource_Upload_TransportError(t *testing.T) {
	r := serve(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		w.Write([]byte(`{"message":"File too large"}`))
	}, client.WithDefaultAccount("acc-1"))

	_, err := r.Upload(t.Context(), strings.NewReader("%PDF"), "big.pdf")
	if !errors.Is(err, client.ErrUnexpectedStatusCode) {
		t.Fatalf("expected ErrUnexpectedStatusCode, got: %v", err)
	}

	for _, want := range []string{"uploading document: POST ", "/accounts/acc-1/documents failed", "(HTTP 413 Request Entity Too Large)", `- Response: {"message":"File too large"}`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}

func TestResource_List(t *testing.T) {
	r := serve(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/accounts/acc-1/documents" || req.URL.RawQuery != "page=2&per-page=1" {
			t.Errorf("request = %s?%s", req.URL.Path, req.URL.RawQuery)
		}
		w.Write([]byte(`{"status":200,"data":[{"id":"d-2","name":"b.pdf","status":"pending","created_at":"2024-05-01T10:00:00Z"}],"meta":{"current_page":2,"last_page":2,"per_page":1,"total":2}}`))
	}, client.WithDefaultAccount("acc-1"))

	got, err := r.List(t.Context(), client.ListOptions{Page: 2, PerPage: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := client.Page[document.Document]{
		Data: []document.Document{{ID: "d-2", Name: "b.pdf", Status: document.StatusPending, CreatedAt: "2024-05-01T10:00:00Z"}},
		Meta: &client.Meta{CurrentPage: 2, LastPage: 2, PerPage: 1, Total: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("page mismatch (-want +got):\n%s", diff)
	}
}

func TestResource_Details(t *testing.T) {
	r := serve(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/documents/d-1" {
			t.Errorf("path = %s", req.URL.Path)
		}
		w.Write([]byte(`{"status":200,"data":{"id":"d-1","name":"c.pdf","status":"completed","is_closed":true,
			"assignment":{"id":"a-1","sender_email":"ops@example.com","expiration":"2024-06-01","method":"virtual",
				"signers":[{"id":"s-1","full_name":"Ana","email":"ana@example.com"}],
				"summary":{"signer_count":1,"completed_count":1}},
			"artifacts":{"original":"o","certificated":"c","certificate-page":"cp","bundle":"b"},
			"activities":[{"id":7,"event":"signed","message":"Ana signed","origin":"web","created_at":"2024-05-02"}]}}`))
	})

	got, err := r.Details(t.Context(), "d-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := document.Document{
		ID:       "d-1",
		Name:     "c.pdf",
		Status:   document.StatusCompleted,
		IsClosed: true,
		Assignment: &document.Assignment{
			ID:          "a-1",
			SenderEmail: "ops@example.com",
			Expiration:  "2024-06-01",
			Method:      document.MethodVirtual,
			Signers:     []signer.Signer{{ID: "s-1", FullName: "Ana", Email: "ana@example.com"}},
			Summary:     &document.Summary{SignerCount: 1, CompletedCount: 1},
		},
		Artifacts:  document.Artifacts{Original: "o", Certificated: "c", CertificatePage: "cp", Bundle: "b"},
		Activities: []document.Activity{{ID: 7, Event: "signed", Message: "Ana signed", Origin: "web", CreatedAt: "2024-05-02"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestResource_Download(t *testing.T) {
	pdf := []byte("%PDF-1.7 certificated")
	zip := []byte("PK\x03\x04 bundle")

	testCases := map[string]struct {
		artifact  document.Artifact
		expPath   string
		expAccept string
		body      []byte
	}{
		"default":         {expPath: "/documents/d-1/download/certificated", expAccept: "application/pdf", body: pdf},
		"original":        {artifact: document.ArtifactOriginal, expPath: "/documents/d-1/download/original", expAccept: "application/pdf", body: pdf},
		"certificatePage": {artifact: document.ArtifactCertificatePage, expPath: "/documents/d-1/download/certificate-page", expAccept: "application/pdf", body: pdf},
		"bundle":          {artifact: document.ArtifactBundle, expPath: "/documents/d-1/download/bundle", expAccept: "application/zip", body: zip},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			r := serve(t, func(w http.ResponseWriter, req *http.Request) {
				if req.URL.Path != tc.expPath {
					t.Errorf("path = %s, want %s", req.URL.Path, tc.expPath)
				}
				if got := req.Header.Get("Accept"); got != tc.expAccept {
					t.Errorf("accept = %q, want %q", got, tc.expAccept)
				}
				w.Header().Set("Content-Type", tc.expAccept)
				w.Write(tc.body)
			})

			got, err := r.Download(t.Context(), "d-1", tc.artifact)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tc.body) {
				t.Errorf("body = %q, want %q", got, tc.body)
			}
		})
	}
}

func TestResource_Download_EnvelopeInsteadOfPDF(t *testing.T) {
	r := serve(t, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":404,"message":"Documento não encontrado","data":null}`))
	})

	if _, err := r.Download(t.Context(), "d-1", document.ArtifactOriginal); !errors.Is(err, client.ErrMediaTypeMismatch) {
		t.Fatalf("exp ErrMediaTypeMismatch, got: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "original.pdf")
	if err := r.DownloadFile(t.Context(), "d-1", document.ArtifactOriginal, dest); !errors.Is(err, client.ErrMediaTypeMismatch) {
		t.Fatalf("exp ErrMediaTypeMismatch, got: %v", err)
	}
	if _, err := os.Stat(dest); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("destination should not exist, stat err: %v", err)
	}
}

func TestResource_DownloadFile(t *testing.T) {
	zip := append([]byte("PK\x03\x04"), bytes.Repeat([]byte("signed "), 512)...)
	r := serve(t, func(w http.ResponseWriter, req *http.Request) {
		if got := req.Header.Get("Accept"); got != "application/zip" {
			t.Errorf("accept = %q, want application/zip", got)
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Write(zip)
	})

	dest := filepath.Join(t.TempDir(), "bundle.zip")
	if err := r.DownloadFile(t.Context(), "d-1", document.ArtifactBundle, dest, client.WithProgress()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading destination: %v", err)
	}
	if !bytes.Equal(got, zip) {
		t.Errorf("wrote %d bytes, want %d", len(got), len(zip))
	}
}

func TestResource_Delete(t *testing.T) {
	var method, path string
	r := serve(t, func(w http.ResponseWriter, req *http.Request) {
		method, path = req.Method, req.URL.Path
		w.Write([]byte(`{"status":200,"message":"Documento removido","data":null}`))
	})

	if err := r.Delete(t.Context(), "d-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != http.MethodDelete || path != "/documents/d-1" {
		t.Errorf("request = %s %s", method, path)
	}
}

func TestResource_CreateAssignment(t *testing.T) {
	expires := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	r := serve(t, func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost || req.URL.Path != "/documents/d-1/assignments" {
			t.Errorf("request = %s %s", req.Method, req.URL.Path)
		}

		b, _ := io.ReadAll(req.Body)
		var got map[string]any
		if err := json.Unmarshal(b, &got); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		want := map[string]any{
			"method":     "virtual",
			"signerIds":  []any{"s-1", "s-2"},
			"message":    "Please sign",
			"expires_at": "2024-07-01T12:00:00Z",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("payload mismatch (-want +got):\n%s", diff)
		}

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status":201,"data":{"id":"a-1","expiration":"2024-07-01T12:00:00Z","method":"virtual",
			"signers":[{"id":"s-1","full_name":"Ana","email":"ana@example.com"}],
			"items":[{"id":"i-1","page":null,"signer":{"id":"s-1","full_name":"Ana","email":"ana@example.com"},"field":{"id":"f-1","name":"Signature","type":"signature"},"display_settings":[],"value":null,"completed":false}]}}`))
	})

	got, err := r.CreateAssignment(t.Context(), "d-1", document.AssignmentRequest{
		SignerIDs: []string{"s-1", "s-2"},
		Message:   "Please sign",
		ExpiresAt: expires,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ana := signer.Signer{ID: "s-1", FullName: "Ana", Email: "ana@example.com"}
	want := document.Assignment{
		ID:         "a-1",
		Expiration: "2024-07-01T12:00:00Z",
		Method:     document.MethodVirtual,
		Signers:    []signer.Signer{ana},
		Items: []document.AssignmentItem{{
			ID:              "i-1",
			Signer:          ana,
			Field:           document.Field{ID: "f-1", Name: "Signature", Type: "signature"},
			DisplaySettings: []json.RawMessage{},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("assignment mismatch (-want +got):\n%s", diff)
	}
}

func TestResource_ResendSignerEmail(t *testing.T) {
	r := serve(t, func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPut || req.URL.Path != "/documents/d-1/assignments/a-1/signers/s-1/resend" {
			t.Errorf("request = %s %s", req.Method, req.URL.Path)
		}
		w.Write([]byte(`{"status":200,"data":{"is_sent":true,"document_id":"d-1","signer_id":"s-1"}}`))
	})

	got, err := r.ResendSignerEmail(t.Context(), "d-1", "a-1", "s-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(document.ResendResult{IsSent: true, DocumentID: "d-1", SignerID: "s-1"}, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}
