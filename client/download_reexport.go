package client

import (
	"hash"

	"github.com/adamwoolhether/assinafy/client/download"
)

// DownloadOption configures [Client.Download] and document.DownloadFile.
type DownloadOption = download.Option

// DownloadError carries the detail behind a failed artifact download.
type DownloadError = download.Error

// Download failures, matchable with errors.Is.
var (
	ErrContentLengthMismatch = download.ErrContentLengthMismatch
	ErrChecksumMismatch      = download.ErrChecksumMismatch
	ErrDownloadCancelled     = download.ErrDownloadCancelled
	ErrMediaTypeMismatch     = download.ErrMediaTypeMismatch
)

// WithChecksum verifies the artifact against expected, the hex digest
// produced by h. The file is not kept when they differ.
func WithChecksum(h hash.Hash, expected string) DownloadOption {
	return download.WithChecksum(h, expected)
}

// WithMediaType rejects an artifact whose Content-Type or file signature
// does not match mediaType.
func WithMediaType(mediaType string) DownloadOption { return download.WithMediaType(mediaType) }

// CheckSignature reports an [ErrMediaTypeMismatch] when head does not start
// with the file signature of mediaType.
func CheckSignature(mediaType string, head []byte) error {
	return download.CheckSignature(mediaType, head)
}

// WithProgress logs transfer progress through the client logger.
func WithProgress() DownloadOption { return download.WithProgress() }

// WithSkipExisting leaves an existing destination file untouched.
func WithSkipExisting() DownloadOption { return download.WithSkipExisting() }
