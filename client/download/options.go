package download

import (
	"errors"
	"fmt"
	"hash"
	"mime"
	"strings"
)

// Option defines optional settings for downloading artifacts.
type Option func(*options) error

type options struct {
	checksum     *digest
	mediaType    string
	progress     bool
	skipExisting bool
}

// WithChecksum verifies the written bytes against the hex-encoded expected
// digest of h, e.g. sha256.New().
func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}

		expected = strings.TrimSpace(expected)
		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}

		opts.checksum = &digest{h: h, want: expected}
		return nil
	}
}

// WithMediaType rejects a body whose Content-Type or leading bytes do not
// match mediaType, such as a JSON error envelope served in place of a PDF.
func WithMediaType(mediaType string) Option {
	return func(opts *options) error {
		mt, _, err := mime.ParseMediaType(mediaType)
		if err != nil {
			return fmt.Errorf("parsing media type %q: %w", mediaType, err)
		}

		opts.mediaType = mt
		return nil
	}
}

// WithProgress logs how much of the artifact has been written via the
// logger supplied to Handle.
func WithProgress() Option {
	return func(opts *options) error {
		opts.progress = true
		return nil
	}
}

// WithSkipExisting makes Handle return nil when destPath already exists.
func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}
