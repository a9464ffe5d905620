package download

import (
	"errors"
	"fmt"
)

var (
	// ErrContentLengthMismatch means the body ended before, or ran past, the
	// announced Content-Length.
	ErrContentLengthMismatch = errors.New("content length mismatch")
	// ErrChecksumMismatch means the artifact did not hash to the expected digest.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrDownloadCancelled means the context ended mid-transfer.
	ErrDownloadCancelled = errors.New("download cancelled")
	// ErrMediaTypeMismatch means the body is not the expected kind of
	// artifact, going by its Content-Type or its leading bytes.
	ErrMediaTypeMismatch = errors.New("media type mismatch")
)

// Error pairs a sentinel with what triggered it.
type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}
