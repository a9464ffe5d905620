package command

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/cli"

	"github.com/adamwoolhether/assinafy"
	"github.com/adamwoolhether/assinafy/client"
	"github.com/adamwoolhether/assinafy/document"
	"github.com/adamwoolhether/assinafy/signer"
	"github.com/adamwoolhether/assinafy/workspace"
)

func commands(m *meta) map[string]cli.CommandFactory {
	leaf := func(c *command) cli.CommandFactory {
		return func() (cli.Command, error) {
			c.meta = m
			return c, nil
		}
	}
	groupOf := func(synopsis, help string) cli.CommandFactory {
		return func() (cli.Command, error) {
			return group{synopsis: synopsis, help: help}, nil
		}
	}

	return map[string]cli.CommandFactory{
		"documents":          groupOf("Manage documents", "Usage: assinafy documents <subcommand> [options] [args]\n\n  Upload, inspect, download and assign documents."),
		"documents list":     leaf(documentsList()),
		"documents upload":   leaf(documentsUpload()),
		"documents details":  leaf(documentsDetails()),
		"documents download": leaf(documentsDownload()),
		"documents delete":   leaf(documentsDelete()),
		"documents assign":   leaf(documentsAssign()),
		"documents resend":   leaf(documentsResend()),

		"signers":        groupOf("Manage signers", "Usage: assinafy signers <subcommand> [options] [args]\n\n  Register and maintain the people asked to sign."),
		"signers list":   leaf(signersList()),
		"signers create": leaf(signersCreate()),
		"signers get":    leaf(signersGet()),
		"signers update": leaf(signersUpdate()),
		"signers delete": leaf(signersDelete()),

		"workspaces":        groupOf("Manage workspaces", "Usage: assinafy workspaces <subcommand> [options] [args]\n\n  Create and maintain workspaces (accounts)."),
		"workspaces list":   leaf(workspacesList()),
		"workspaces create": leaf(workspacesCreate()),
		"workspaces get":    leaf(workspacesGet()),
		"workspaces update": leaf(workspacesUpdate()),
		"workspaces delete": leaf(workspacesDelete()),

		"serve-fake": func() (cli.Command, error) {
			return &serveFake{meta: m}, nil
		},

		"version": func() (cli.Command, error) {
			return versionCommand{ui: m.ui}, nil
		},
	}
}

type deleted struct {
	Deleted string `json:"deleted"`
}

func listFlags(lo *client.ListOptions, search bool) func(*flag.FlagSet) {
	return func(f *flag.FlagSet) {
		f.IntVar(&lo.Page, "page", 0, "Page to fetch, starting at 1.")
		f.IntVar(&lo.PerPage, "per-page", 0, "Items per page.")
		if search {
			f.StringVar(&lo.Search, "search", "", "Only list entries matching this term.")
		}
	}
}

// =============================================================================
// Documents

func documentsList() *command {
	var lo client.ListOptions
	return &command{
		synopsis: "List the account's documents",
		usage:    "documents list [options]",
		flags:    listFlags(&lo, true),
		run: func(ctx context.Context, e env) (any, error) {
			return e.client.Documents.List(ctx, lo, e.callOpts...)
		},
	}
}

func documentsUpload() *command {
	var name string
	return &command{
		synopsis: "Upload a PDF",
		usage:    "documents upload [options] <file.pdf>",
		args:     1,
		flags: func(f *flag.FlagSet) {
			f.StringVar(&name, "name", "", "Document name. Defaults to the file name.")
		},
		run: func(ctx context.Context, e env) (any, error) {
			path := e.args[0]
			fh, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("opening %s: %w", path, err)
			}
			defer fh.Close()

			if name == "" {
				name = filepath.Base(path)
			}

			return e.client.UploadDocument(ctx, fh, name, e.callOpts...)
		},
	}
}

func documentsDetails() *command {
	return &command{
		synopsis: "Show a document",
		usage:    "documents details [options] <document-id>",
		args:     1,
		run: func(ctx context.Context, e env) (any, error) {
			return e.client.GetDocumentDetails(ctx, e.args[0])
		},
	}
}

type downloaded struct {
	DocumentID string            `json:"document_id"`
	Artifact   document.Artifact `json:"artifact"`
	Path       string            `json:"path"`
}

func documentsDownload() *command {
	var (
		artifact string
		out      string
		checksum string
		skip     bool
	)
	return &command{
		synopsis: "Download a document artifact to a file",
		usage:    "documents download [options] <document-id>",
		args:     1,
		flags: func(f *flag.FlagSet) {
			f.StringVar(&artifact, "artifact", string(document.DefaultArtifact), "One of original, certificated, certificate-page or bundle.")
			f.StringVar(&out, "out", "", "(Required) Destination file.")
			f.StringVar(&checksum, "sha256", "", "Expected hex SHA-256 of the artifact.")
			f.BoolVar(&skip, "skip-existing", false, "Do nothing when the destination exists.")
		},
		run: func(ctx context.Context, e env) (any, error) {
			if out == "" {
				return nil, fmt.Errorf("%w: -out is required", errUsage)
			}

			opts := []client.DownloadOption{client.WithProgress()}
			if checksum != "" {
				opts = append(opts, client.WithChecksum(sha256.New(), checksum))
			}
			if skip {
				opts = append(opts, client.WithSkipExisting())
			}

			a := document.Artifact(artifact)
			if err := e.client.Documents.DownloadFile(ctx, e.args[0], a, out, opts...); err != nil {
				return nil, err
			}

			return downloaded{DocumentID: e.args[0], Artifact: a, Path: out}, nil
		},
	}
}

func documentsDelete() *command {
	return &command{
		synopsis: "Delete a document",
		usage:    "documents delete [options] <document-id>",
		args:     1,
		run: func(ctx context.Context, e env) (any, error) {
			if err := e.client.DeleteDocument(ctx, e.args[0]); err != nil {
				return nil, err
			}
			return deleted{Deleted: e.args[0]}, nil
		},
	}
}

func documentsAssign() *command {
	var (
		signerIDs stringsFlag
		copies    stringsFlag
		message   string
		expires   string
	)
	return &command{
		synopsis: "Ask signers to sign a document",
		usage:    "documents assign [options] -signer <id> [-signer <id>...] <document-id>",
		args:     1,
		flags: func(f *flag.FlagSet) {
			f.Var(&signerIDs, "signer", "(Required) Signer id. Repeat for several signers.")
			f.Var(&copies, "copy", "Email receiving a copy of the signed document. Repeatable.")
			f.StringVar(&message, "message", "", "Message included in the signing request.")
			f.StringVar(&expires, "expires", "", "Expiration as RFC 3339, e.g. 2030-01-31T23:59:59Z.")
		},
		run: func(ctx context.Context, e env) (any, error) {
			req := document.AssignmentRequest{
				SignerIDs:     signerIDs,
				Message:       message,
				CopyReceivers: copies,
			}
			if expires != "" {
				t, err := time.Parse(time.RFC3339, expires)
				if err != nil {
					return nil, fmt.Errorf("%w: parsing -expires: %v", errUsage, err)
				}
				req.ExpiresAt = t
			}

			return e.client.CreateAssignment(ctx, e.args[0], req)
		},
	}
}

func documentsResend() *command {
	return &command{
		synopsis: "Resend the signing email to a signer",
		usage:    "documents resend [options] <document-id> <assignment-id> <signer-id>",
		args:     3,
		run: func(ctx context.Context, e env) (any, error) {
			return e.client.ResendSignerEmail(ctx, e.args[0], e.args[1], e.args[2])
		},
	}
}

// =============================================================================
// Signers

func signersList() *command {
	var lo client.ListOptions
	return &command{
		synopsis: "List the account's signers",
		usage:    "signers list [options]",
		flags:    listFlags(&lo, true),
		run: func(ctx context.Context, e env) (any, error) {
			return e.client.Signers.List(ctx, lo, e.callOpts...)
		},
	}
}

func signersCreate() *command {
	var req signer.CreateRequest
	return &command{
		synopsis: "Register a signer",
		usage:    "signers create [options] -name <full name> -email <email>",
		flags: func(f *flag.FlagSet) {
			f.StringVar(&req.FullName, "name", "", "(Required) Full name.")
			f.StringVar(&req.Email, "email", "", "(Required) Email address.")
		},
		run: func(ctx context.Context, e env) (any, error) {
			return e.client.CreateSigner(ctx, req, e.callOpts...)
		},
	}
}

func signersGet() *command {
	return &command{
		synopsis: "Show a signer",
		usage:    "signers get [options] <signer-id>",
		args:     1,
		run: func(ctx context.Context, e env) (any, error) {
			return e.client.Signers.Get(ctx, e.args[0], e.callOpts...)
		},
	}
}

func signersUpdate() *command {
	var req signer.UpdateRequest
	return &command{
		synopsis: "Change a signer's name or email",
		usage:    "signers update [options] <signer-id>",
		args:     1,
		flags: func(f *flag.FlagSet) {
			f.StringVar(&req.FullName, "name", "", "New full name.")
			f.StringVar(&req.Email, "email", "", "New email address.")
		},
		run: func(ctx context.Context, e env) (any, error) {
			return e.client.Signers.Update(ctx, e.args[0], req, e.callOpts...)
		},
	}
}

func signersDelete() *command {
	return &command{
		synopsis: "Delete a signer",
		usage:    "signers delete [options] <signer-id>",
		args:     1,
		run: func(ctx context.Context, e env) (any, error) {
			if err := e.client.Signers.Delete(ctx, e.args[0], e.callOpts...); err != nil {
				return nil, err
			}
			return deleted{Deleted: e.args[0]}, nil
		},
	}
}

// =============================================================================
// Workspaces

func workspacesList() *command {
	var lo client.ListOptions
	return &command{
		synopsis: "List workspaces",
		usage:    "workspaces list [options]",
		flags:    listFlags(&lo, false),
		run: func(ctx context.Context, e env) (any, error) {
			return e.client.Workspaces.List(ctx, lo)
		},
	}
}

func workspacesCreate() *command {
	var req workspace.CreateRequest
	return &command{
		synopsis: "Create a workspace",
		usage:    "workspaces create [options] -name <name>",
		flags: func(f *flag.FlagSet) {
			f.StringVar(&req.Name, "name", "", "(Required) Workspace name.")
			f.StringVar(&req.PrimaryColor, "primary-color", "", "Hex color, e.g. #0055ff.")
			f.StringVar(&req.SecondaryColor, "secondary-color", "", "Hex color.")
		},
		run: func(ctx context.Context, e env) (any, error) {
			return e.client.Workspaces.Create(ctx, req)
		},
	}
}

func workspacesGet() *command {
	return &command{
		synopsis: "Show a workspace",
		usage:    "workspaces get [options] <account-id>",
		args:     1,
		run: func(ctx context.Context, e env) (any, error) {
			return e.client.Workspaces.Get(ctx, e.args[0])
		},
	}
}

func workspacesUpdate() *command {
	var (
		req                workspace.UpdateRequest
		primary, secondary string
	)
	return &command{
		synopsis: "Rename or recolor a workspace",
		usage:    "workspaces update [options] <account-id>",
		args:     1,
		flags: func(f *flag.FlagSet) {
			f.StringVar(&req.Name, "name", "", "New name.")
			f.StringVar(&primary, "primary-color", "", "New primary hex color.")
			f.StringVar(&secondary, "secondary-color", "", "New secondary hex color.")
			f.BoolVar(&req.ClearPrimaryColor, "clear-primary-color", false, "Reset the primary color.")
			f.BoolVar(&req.ClearSecondaryColor, "clear-secondary-color", false, "Reset the secondary color.")
		},
		run: func(ctx context.Context, e env) (any, error) {
			if primary != "" {
				req.PrimaryColor = &primary
			}
			if secondary != "" {
				req.SecondaryColor = &secondary
			}

			return e.client.Workspaces.Update(ctx, e.args[0], req)
		},
	}
}

func workspacesDelete() *command {
	return &command{
		synopsis: "Delete a workspace",
		usage:    "workspaces delete [options] <account-id>",
		args:     1,
		run: func(ctx context.Context, e env) (any, error) {
			if err := e.client.Workspaces.Delete(ctx, e.args[0]); err != nil {
				return nil, err
			}
			return deleted{Deleted: e.args[0]}, nil
		},
	}
}

type versionCommand struct {
	ui cli.Ui
}

func (versionCommand) Synopsis() string { return "Print the version" }
func (versionCommand) Help() string     { return "Usage: assinafy version" }

func (v versionCommand) Run(_ []string) int {
	v.ui.Output("assinafy " + assinafy.Version)
	return 0
}
