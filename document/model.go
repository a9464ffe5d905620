package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adamwoolhether/assinafy/signer"
)

var (
	// ErrUnknownArtifact is returned before any request when a download names
	// an artifact the platform does not produce.
	ErrUnknownArtifact = errors.New("unknown artifact")
	// ErrUploadMissingID is returned when an upload succeeds without the
	// platform assigning a document id.
	ErrUploadMissingID = errors.New("upload response missing document id")
)

// Status is the lifecycle state the platform reports for a document.
type Status string

const (
	StatusUploaded         Status = "uploaded"
	StatusPending          Status = "pending"
	StatusCompleted        Status = "completed"
	StatusRejectedBySigner Status = "rejected_by_signer"
	StatusExpired          Status = "expired"
)

// Artifact names a downloadable rendition of a document.
type Artifact string

const (
	ArtifactOriginal        Artifact = "original"
	ArtifactCertificated    Artifact = "certificated"
	ArtifactCertificatePage Artifact = "certificate-page"
	ArtifactBundle          Artifact = "bundle"
)

// DefaultArtifact is downloaded when no artifact is named.
const DefaultArtifact = ArtifactCertificated

// resolve applies the default and rejects unknown names.
func (a Artifact) resolve() (Artifact, error) {
	switch a {
	case "":
		return DefaultArtifact, nil
	case ArtifactOriginal, ArtifactCertificated, ArtifactCertificatePage, ArtifactBundle:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownArtifact, string(a))
	}
}

// MediaType is the content type the artifact is served as. The bundle is a
// zip archive and every other artifact is a PDF.
func (a Artifact) MediaType() string {
	if a == ArtifactBundle {
		return "application/zip"
	}

	return "application/pdf"
}

// Document is a PDF uploaded to an account together with its signing state.
type Document struct {
	Resource         string      `json:"resource,omitempty"`
	ID               string      `json:"id"`
	AccountID        string      `json:"account_id,omitempty"`
	TemplateID       *string     `json:"template_id,omitempty"`
	Name             string      `json:"name"`
	Status           Status      `json:"status"`
	Assignment       *Assignment `json:"assignment,omitempty"`
	Artifacts        Artifacts   `json:"artifacts,omitzero"`
	Pages            []Page      `json:"pages,omitempty"`
	CreatedAt        string      `json:"created_at,omitempty"`
	UpdatedAt        string      `json:"updated_at,omitempty"`
	IsClosed         bool        `json:"is_closed"`
	DeclineReason    *string     `json:"decline_reason,omitempty"`
	DeclinedBy       *string     `json:"declined_by,omitempty"`
	DownloadURL      string      `json:"download_url,omitempty"`
	DownloadFinalURL string      `json:"download_final_url,omitempty"`
	Activities       []Activity  `json:"activities,omitempty"`
}

// Artifacts maps each available rendition to its download URL.
type Artifacts struct {
	Original        string `json:"original,omitempty"`
	Certificated    string `json:"certificated,omitempty"`
	CertificatePage string `json:"certificate-page,omitempty"`
	Bundle          string `json:"bundle,omitempty"`
}

// Page is a single rendered page of a document.
type Page struct {
	ID          string  `json:"id"`
	Number      int     `json:"number"`
	Height      float64 `json:"height"`
	Width       float64 `json:"width"`
	DownloadURL string  `json:"download_url"`
}

// Activity is an entry of the document's audit trail.
type Activity struct {
	ID        int64  `json:"id"`
	Event     string `json:"event"`
	Message   string `json:"message"`
	Origin    string `json:"origin"`
	CreatedAt string `json:"created_at"`
}

// Assignment binds signers to a document.
type Assignment struct {
	ID          string           `json:"id"`
	SenderEmail string           `json:"sender_email,omitempty"`
	Expiration  string           `json:"expiration,omitempty"`
	Signers     []signer.Signer  `json:"signers"`
	Method      string           `json:"method"`
	Items       []AssignmentItem `json:"items,omitempty"`
	Summary     *Summary         `json:"summary,omitempty"`
}

// AssignmentItem is a field a signer must complete.
type AssignmentItem struct {
	ID              string            `json:"id"`
	Signer          signer.Signer     `json:"signer"`
	Field           Field             `json:"field"`
	DisplaySettings []json.RawMessage `json:"display_settings,omitempty"`
	Completed       bool              `json:"completed"`
}

// Field describes the input bound to an assignment item.
type Field struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Summary counts signer progress on an assignment.
type Summary struct {
	SignerCount    int `json:"signer_count"`
	CompletedCount int `json:"completed_count"`
}

// MethodVirtual is the only assignment method the platform accepts through
// the API.
const MethodVirtual = "virtual"

// AssignmentRequest asks the listed signers to sign a document.
type AssignmentRequest struct {
	// Method defaults to MethodVirtual.
	Method        string    `json:"method" validate:"required,oneof=virtual"`
	SignerIDs     []string  `json:"signerIds" validate:"required,min=1,dive,required"`
	Message       string    `json:"message,omitempty"`
	ExpiresAt     time.Time `json:"expires_at,omitzero"`
	CopyReceivers []string  `json:"copy_receivers,omitempty" validate:"omitempty,dive,required"`
}

// ResendResult reports whether a signing reminder went out.
type ResendResult struct {
	IsSent     bool   `json:"is_sent"`
	DocumentID string `json:"document_id"`
	SignerID   string `json:"signer_id"`
}
