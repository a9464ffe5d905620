package assinafytest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/adamwoolhether/assinafy/document"
	"github.com/adamwoolhether/assinafy/internal/web"
	"github.com/adamwoolhether/assinafy/internal/web/errs"
	"github.com/adamwoolhether/assinafy/internal/web/mux"
	"github.com/adamwoolhether/assinafy/signer"
	"github.com/adamwoolhether/assinafy/workspace"
)

const (
	defaultPerPage = 20
	maxUploadSize  = 32 << 20
)

func (s *Server) routes(app *mux.App) {
	app.Post("/accounts", s.createWorkspace)
	app.Get("/accounts", s.listWorkspaces)
	app.Get("/accounts/{account}", s.getWorkspace)
	app.Put("/accounts/{account}", s.updateWorkspace)
	app.Delete("/accounts/{account}", s.deleteWorkspace)

	app.Post("/accounts/{account}/signers", s.createSigner)
	app.Get("/accounts/{account}/signers", s.listSigners)
	app.Get("/accounts/{account}/signers/{signer}", s.getSigner)
	app.Put("/accounts/{account}/signers/{signer}", s.updateSigner)
	app.Delete("/accounts/{account}/signers/{signer}", s.deleteSigner)

	app.Post("/accounts/{account}/documents", s.uploadDocument)
	app.Get("/accounts/{account}/documents", s.listDocuments)
	app.Get("/documents/{document}", s.getDocument)
	app.Delete("/documents/{document}", s.deleteDocument)
	app.Get("/documents/{document}/download/{artifact}", s.downloadDocument)
	app.Post("/documents/{document}/assignments", s.createAssignment)
	app.Put("/documents/{document}/assignments/{assignment}/signers/{signer}/resend", s.resendEmail)
}

// injectFailure answers with the failure queued by FailNext.
func (s *Server) injectFailure(next mux.Handler) mux.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if f := s.takeFailure(); f != nil {
			return web.RespondJSON(ctx, w, http.StatusOK, web.Envelope{Status: f.status, Message: f.message})
		}

		return next(ctx, w, r)
	}
}

func pageParams(r *http.Request) (page, perPage int, err error) {
	if page, err = web.QueryInt(r, "page", 1); err != nil {
		return 0, 0, errs.New(http.StatusBadRequest, err)
	}
	if perPage, err = web.QueryInt(r, "per-page", defaultPerPage); err != nil {
		return 0, 0, errs.New(http.StatusBadRequest, err)
	}

	return page, perPage, nil
}

// lookupAccount must be called with the store locked.
func (s *Server) lookupAccount(r *http.Request) (*account, error) {
	a, ok := s.store.account(r.PathValue("account"))
	if !ok {
		return nil, errs.Newf(http.StatusNotFound, "Account not found")
	}

	return a, nil
}

// lookupDocument must be called with the store locked.
func (s *Server) lookupDocument(r *http.Request) (*storedDocument, error) {
	d, ok := s.store.documents[r.PathValue("document")]
	if !ok {
		return nil, errs.Newf(http.StatusNotFound, "Document not found")
	}

	return d, nil
}

// =============================================================================
// Workspaces

func (s *Server) createWorkspace(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var in workspace.CreateRequest
	if err := web.Decode(r, &in); err != nil {
		return decodeErr(err)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	return web.Respond(ctx, w, http.StatusOK, s.store.addAccount(in.Name, in.PrimaryColor, in.SecondaryColor))
}

func (s *Server) listWorkspaces(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	page, perPage, err := pageParams(r)
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	all := make([]workspace.Workspace, len(s.store.accounts))
	for i, a := range s.store.accounts {
		all[i] = a.ws
	}

	data, meta := paginate(all, page, perPage)
	return web.RespondPage(ctx, w, data, meta)
}

func (s *Server) getWorkspace(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	a, err := s.lookupAccount(r)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, http.StatusOK, a.ws)
}

func (s *Server) updateWorkspace(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var in map[string]*string
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return errs.New(http.StatusBadRequest, fmt.Errorf("decode: %w", err))
	}

	var fields errs.FieldErrors
	for k, v := range in {
		switch k {
		case "name":
			if v == nil || strings.TrimSpace(*v) == "" {
				fields = append(fields, errs.FieldError{Field: k, Err: "This field is required"})
			}
		case "primary_color", "secondary_color":
		default:
			fields = append(fields, errs.FieldError{Field: k, Err: "unknown field"})
		}
	}
	if len(fields) > 0 {
		return fields
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	a, err := s.lookupAccount(r)
	if err != nil {
		return err
	}

	deref := func(v *string) string {
		if v == nil {
			return ""
		}
		return *v
	}
	if v, ok := in["name"]; ok {
		a.ws.Name = *v
	}
	if v, ok := in["primary_color"]; ok {
		a.ws.PrimaryColor = deref(v)
	}
	if v, ok := in["secondary_color"]; ok {
		a.ws.SecondaryColor = deref(v)
	}

	return web.Respond(ctx, w, http.StatusOK, a.ws)
}

func (s *Server) deleteWorkspace(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	a, err := s.lookupAccount(r)
	if err != nil {
		return err
	}
	if !a.ws.IsDeleteAllowed {
		return errs.Newf(http.StatusForbidden, "This workspace cannot be deleted")
	}

	s.store.removeAccount(a.ws.ID)

	return web.Respond(ctx, w, http.StatusOK, nil)
}

// =============================================================================
// Signers

func (s *Server) createSigner(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var in signer.CreateRequest
	if err := web.Decode(r, &in); err != nil {
		return decodeErr(err)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	a, err := s.lookupAccount(r)
	if err != nil {
		return err
	}
	if a.signerByEmail(in.Email) {
		return errs.Newf(http.StatusConflict, "A signer with email %s already exists", in.Email)
	}

	sg := &signer.Signer{Resource: "signer", ID: uuid.NewString(), FullName: in.FullName, Email: in.Email}
	a.signers = append(a.signers, sg)

	return web.Respond(ctx, w, http.StatusOK, sg)
}

func (s *Server) listSigners(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	page, perPage, err := pageParams(r)
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	a, err := s.lookupAccount(r)
	if err != nil {
		return err
	}

	data, meta := paginate(a.searchSigners(r.URL.Query().Get("search")), page, perPage)
	return web.RespondPage(ctx, w, data, meta)
}

func (s *Server) getSigner(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	a, err := s.lookupAccount(r)
	if err != nil {
		return err
	}

	sg, ok := a.signer(r.PathValue("signer"))
	if !ok {
		return errs.Newf(http.StatusNotFound, "Signer not found")
	}

	return web.Respond(ctx, w, http.StatusOK, sg)
}

func (s *Server) updateSigner(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var in signer.UpdateRequest
	if err := web.Decode(r, &in); err != nil {
		return decodeErr(err)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	a, err := s.lookupAccount(r)
	if err != nil {
		return err
	}

	sg, ok := a.signer(r.PathValue("signer"))
	if !ok {
		return errs.Newf(http.StatusNotFound, "Signer not found")
	}
	if s.store.signerBusy(a, sg.ID) {
		return errs.Newf(http.StatusConflict, "Signer is bound to an active document")
	}
	if in.Email != "" && !strings.EqualFold(in.Email, sg.Email) && a.signerByEmail(in.Email) {
		return errs.Newf(http.StatusConflict, "A signer with email %s already exists", in.Email)
	}

	if in.FullName != "" {
		sg.FullName = in.FullName
	}
	if in.Email != "" {
		sg.Email = in.Email
	}

	return web.Respond(ctx, w, http.StatusOK, sg)
}

func (s *Server) deleteSigner(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	a, err := s.lookupAccount(r)
	if err != nil {
		return err
	}

	id := r.PathValue("signer")
	if _, ok := a.signer(id); !ok {
		return errs.Newf(http.StatusNotFound, "Signer not found")
	}
	if s.store.signerBusy(a, id) {
		return errs.Newf(http.StatusConflict, "Signer is bound to an active document")
	}

	a.signers = slices.DeleteFunc(a.signers, func(sg *signer.Signer) bool { return sg.ID == id })

	return web.Respond(ctx, w, http.StatusOK, nil)
}

// =============================================================================
// Documents

func (s *Server) uploadDocument(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return errs.New(http.StatusBadRequest, fmt.Errorf("parsing upload: %w", err))
	}

	f, hdr, err := r.FormFile("file")
	if err != nil {
		return errs.FieldErrors{{Field: "file", Err: "This field is required"}}
	}
	defer f.Close()

	if ct := hdr.Header.Get("Content-Type"); ct != "application/pdf" {
		return errs.FieldErrors{{Field: "file", Err: "The file must be a PDF"}}
	}

	_, span := mux.AddSpan(ctx, "assinafytest.upload", attribute.String("file.name", hdr.Filename), attribute.Int64("file.size", hdr.Size))
	content, err := io.ReadAll(f)
	span.End()
	if err != nil {
		return errs.NewInternal(err)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	a, err := s.lookupAccount(r)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	now := s.store.timestamp()
	doc := document.Document{
		Resource:  "document",
		ID:        id,
		AccountID: a.ws.ID,
		Name:      hdr.Filename,
		Status:    document.StatusUploaded,
		Artifacts: document.Artifacts{Original: s.artifactURL(id, document.ArtifactOriginal)},
		Pages: []document.Page{{
			ID:          uuid.NewString(),
			Number:      1,
			Height:      842,
			Width:       595,
			DownloadURL: s.artifactURL(id, document.ArtifactOriginal),
		}},
		CreatedAt:   now,
		UpdatedAt:   now,
		DownloadURL: s.artifactURL(id, document.ArtifactOriginal),
		Activities: []document.Activity{{
			ID:        1,
			Event:     "document_uploaded",
			Message:   fmt.Sprintf("Document %s uploaded", hdr.Filename),
			Origin:    "api",
			CreatedAt: now,
		}},
	}

	s.store.documents[id] = &storedDocument{doc: doc, content: content}
	a.documents = append(a.documents, id)

	return web.Respond(ctx, w, http.StatusOK, doc)
}

func (s *Server) listDocuments(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	page, perPage, err := pageParams(r)
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	a, err := s.lookupAccount(r)
	if err != nil {
		return err
	}

	all := make([]document.Document, len(a.documents))
	for i, id := range a.documents {
		all[i] = s.store.documents[id].doc
	}

	data, meta := paginate(all, page, perPage)
	return web.RespondPage(ctx, w, data, meta)
}

func (s *Server) getDocument(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	d, err := s.lookupDocument(r)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, http.StatusOK, d.doc)
}

func (s *Server) deleteDocument(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	d, err := s.lookupDocument(r)
	if err != nil {
		return err
	}

	id := d.doc.ID
	delete(s.store.documents, id)
	if a, ok := s.store.account(d.doc.AccountID); ok {
		a.documents = slices.DeleteFunc(a.documents, func(docID string) bool { return docID == id })
	}

	return web.Respond(ctx, w, http.StatusOK, nil)
}

func (s *Server) downloadDocument(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	d, err := s.lookupDocument(r)
	if err != nil {
		return err
	}

	artifact := document.Artifact(r.PathValue("artifact"))

	ctx, span := mux.AddSpan(ctx, "assinafytest.download", attribute.String("document.id", d.doc.ID), attribute.String("artifact", string(artifact)))
	defer span.End()

	switch artifact {
	case document.ArtifactOriginal:
		return web.RespondBytes(ctx, w, "application/pdf", d.content)
	case document.ArtifactCertificated, document.ArtifactCertificatePage, document.ArtifactBundle:
	default:
		return errs.Newf(http.StatusNotFound, "Artifact %s not found", artifact)
	}

	if d.doc.Status != document.StatusCompleted {
		return errs.Newf(http.StatusNotFound, "Artifact %s is not available until the document is completed", artifact)
	}

	switch artifact {
	case document.ArtifactCertificatePage:
		return web.RespondBytes(ctx, w, "application/pdf", []byte("%PDF-1.7\n% certificate page for "+d.doc.ID))
	case document.ArtifactBundle:
		return web.RespondBytes(ctx, w, "application/zip", append([]byte("PK\x03\x04"), d.content...))
	default:
		return web.RespondBytes(ctx, w, "application/pdf", append(slices.Clone(d.content), []byte("\n% certificated")...))
	}
}

func (s *Server) createAssignment(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var in document.AssignmentRequest
	if err := web.Decode(r, &in); err != nil {
		return decodeErr(err)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	d, err := s.lookupDocument(r)
	if err != nil {
		return err
	}
	if d.doc.Status != document.StatusUploaded {
		return errs.Newf(http.StatusConflict, "Document is %s and cannot receive a new assignment", d.doc.Status)
	}

	a, ok := s.store.account(d.doc.AccountID)
	if !ok {
		return errs.NewInternal(fmt.Errorf("document %s has no account", d.doc.ID))
	}

	asg := &document.Assignment{
		ID:          uuid.NewString(),
		SenderEmail: "no-reply@assinafy.test",
		Method:      in.Method,
		Signers:     make([]signer.Signer, 0, len(in.SignerIDs)),
		Items:       make([]document.AssignmentItem, 0, len(in.SignerIDs)),
	}
	if !in.ExpiresAt.IsZero() {
		asg.Expiration = in.ExpiresAt.UTC().Format(time.RFC3339)
	}

	for i, id := range in.SignerIDs {
		sg, ok := a.signer(id)
		if !ok {
			return errs.FieldErrors{{Field: fmt.Sprintf("signerIds[%d]", i), Err: "Signer not found"}}
		}

		asg.Signers = append(asg.Signers, *sg)
		asg.Items = append(asg.Items, document.AssignmentItem{
			ID:              uuid.NewString(),
			Signer:          *sg,
			Field:           document.Field{ID: uuid.NewString(), Name: "Signature", Type: "signature"},
			DisplaySettings: []json.RawMessage{},
		})
	}
	asg.Summary = &document.Summary{SignerCount: len(asg.Signers)}

	d.doc.Assignment = asg
	d.doc.Status = document.StatusPending
	d.doc.UpdatedAt = s.store.timestamp()

	return web.Respond(ctx, w, http.StatusOK, asg)
}

func (s *Server) resendEmail(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	d, err := s.lookupDocument(r)
	if err != nil {
		return err
	}

	asg := d.doc.Assignment
	if asg == nil || asg.ID != r.PathValue("assignment") {
		return errs.Newf(http.StatusNotFound, "Assignment not found")
	}

	signerID := r.PathValue("signer")
	if !slices.ContainsFunc(asg.Signers, func(sg signer.Signer) bool { return sg.ID == signerID }) {
		return errs.Newf(http.StatusNotFound, "Signer not found in assignment")
	}

	res := document.ResendResult{
		IsSent:     d.doc.Status == document.StatusPending,
		DocumentID: d.doc.ID,
		SignerID:   signerID,
	}

	return web.Respond(ctx, w, http.StatusOK, res)
}

// decodeErr keeps validation failures as field errors and reports anything
// else as a bad request.
func decodeErr(err error) error {
	if fe, ok := errors.AsType[errs.FieldErrors](err); ok {
		return fe
	}

	return errs.New(http.StatusBadRequest, err)
}
