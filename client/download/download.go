package download

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Source is the response an artifact is read from.
type Source struct {
	Body io.Reader
	// Length is the announced size in bytes, or -1 when unknown.
	Length int64
	// ContentType is the raw Content-Type header. It may be empty.
	ContentType string
}

// Handle writes the artifact in src to destPath. The bytes are staged in a
// hidden file next to destPath, which is renamed into place only after the
// media type, length and checksum checks passed. On any error nothing is
// left behind.
func Handle(ctx context.Context, src Source, destPath string, logger *slog.Logger, optFns ...Option) error {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return fmt.Errorf("applying option: %w", err)
		}
	}

	if opts.skipExisting {
		if _, err := os.Stat(destPath); err == nil {
			logger.Info("artifact already on disk", "path", destPath)
			return nil
		}
	}

	body := bufio.NewReader(&contextReader{ctx: ctx, r: src.Body})

	if opts.mediaType != "" {
		if err := checkContentType(src.ContentType, opts.mediaType); err != nil {
			return err
		}

		head, err := body.Peek(sniffLen)
		if err != nil && !errors.Is(err, io.EOF) {
			return readErr(err)
		}
		if err := CheckSignature(opts.mediaType, head); err != nil {
			return err
		}
	}

	st, err := stage(destPath)
	if err != nil {
		return err
	}
	defer st.discard(logger)

	var w io.Writer = st.file
	if opts.checksum != nil {
		w = io.MultiWriter(w, opts.checksum)
	}
	if opts.progress {
		w = newProgress(w, src.Length, destPath, logger)
	}

	n, err := io.Copy(w, body)
	if err != nil {
		return readErr(err)
	}

	if src.Length >= 0 && n != src.Length {
		return &Error{
			Err:    ErrContentLengthMismatch,
			Detail: fmt.Sprintf("announced %d bytes, received %d", src.Length, n),
		}
	}

	if err := opts.checksum.Verify(); err != nil {
		return err
	}

	return st.commit()
}

func readErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrDownloadCancelled, err)
	}

	return fmt.Errorf("reading artifact body: %w", err)
}
