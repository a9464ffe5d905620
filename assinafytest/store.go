package assinafytest

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adamwoolhether/assinafy/client"
	"github.com/adamwoolhether/assinafy/document"
	"github.com/adamwoolhether/assinafy/signer"
	"github.com/adamwoolhether/assinafy/workspace"
)

type account struct {
	ws        workspace.Workspace
	signers   []*signer.Signer
	documents []string
}

type storedDocument struct {
	doc     document.Document
	content []byte
}

// store holds the fake's state. Every method takes mu.
type store struct {
	mu        sync.Mutex
	accounts  []*account
	documents map[string]*storedDocument
	now       func() time.Time
}

func newStore() *store {
	return &store{
		documents: make(map[string]*storedDocument),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *store) timestamp() string {
	return s.now().Format(time.RFC3339)
}

func (s *store) account(id string) (*account, bool) {
	for _, a := range s.accounts {
		if a.ws.ID == id {
			return a, true
		}
	}
	return nil, false
}

func (s *store) addAccount(name, primary, secondary string) workspace.Workspace {
	ws := workspace.Workspace{
		ID:              uuid.NewString(),
		Name:            name,
		PrimaryColor:    primary,
		SecondaryColor:  secondary,
		IsDeleteAllowed: true,
		Roles:           []string{"owner"},
		CreatedAt:       s.timestamp(),
	}

	// Most recently used first.
	s.accounts = slices.Insert(s.accounts, 0, &account{ws: ws})

	return ws
}

func (s *store) removeAccount(id string) {
	a, ok := s.account(id)
	if !ok {
		return
	}
	for _, docID := range a.documents {
		delete(s.documents, docID)
	}
	s.accounts = slices.DeleteFunc(s.accounts, func(a *account) bool { return a.ws.ID == id })
}

func (a *account) signer(id string) (*signer.Signer, bool) {
	i := slices.IndexFunc(a.signers, func(s *signer.Signer) bool { return s.ID == id })
	if i < 0 {
		return nil, false
	}
	return a.signers[i], true
}

func (a *account) signerByEmail(email string) bool {
	return slices.ContainsFunc(a.signers, func(s *signer.Signer) bool { return strings.EqualFold(s.Email, email) })
}

func (a *account) searchSigners(term string) []signer.Signer {
	term = strings.ToLower(term)

	var out []signer.Signer
	for _, s := range a.signers {
		if term == "" || strings.Contains(strings.ToLower(s.FullName), term) || strings.Contains(strings.ToLower(s.Email), term) {
			out = append(out, *s)
		}
	}
	return out
}

// signerBusy reports whether signerID is bound to a pending document.
func (s *store) signerBusy(a *account, signerID string) bool {
	for _, docID := range a.documents {
		d := s.documents[docID].doc
		if d.Status != document.StatusPending || d.Assignment == nil {
			continue
		}
		if slices.ContainsFunc(d.Assignment.Signers, func(s signer.Signer) bool { return s.ID == signerID }) {
			return true
		}
	}
	return false
}

// paginate slices items to the requested page. Pages start at 1.
func paginate[T any](items []T, page, perPage int) ([]T, client.Meta) {
	total := len(items)
	lastPage := 1
	if total > 0 {
		lastPage = (total-1)/perPage + 1
	}

	// Pages past the last one are empty. Checking against lastPage first
	// keeps (page-1)*perPage below total.
	start := total
	if page-1 < lastPage {
		start = (page - 1) * perPage
	}
	end := start + min(perPage, total-start)

	out := items[start:end]
	if out == nil {
		out = []T{}
	}

	return out, client.Meta{CurrentPage: page, LastPage: lastPage, PerPage: perPage, Total: total}
}

// snapshot deep-copies a stored document for callers outside the lock.
func snapshot(d document.Document) document.Document {
	d.TemplateID = clonePtr(d.TemplateID)
	d.DeclineReason = clonePtr(d.DeclineReason)
	d.DeclinedBy = clonePtr(d.DeclinedBy)
	d.Pages = slices.Clone(d.Pages)
	d.Activities = slices.Clone(d.Activities)

	if d.Assignment != nil {
		a := *d.Assignment
		a.Signers = slices.Clone(a.Signers)
		a.Summary = clonePtr(a.Summary)
		a.Items = slices.Clone(a.Items)
		for i, item := range a.Items {
			if item.DisplaySettings == nil {
				continue
			}
			settings := make([]json.RawMessage, len(item.DisplaySettings))
			for j, raw := range item.DisplaySettings {
				settings[j] = bytes.Clone(raw)
			}
			a.Items[i].DisplaySettings = settings
		}
		d.Assignment = &a
	}

	return d
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
