package download

import (
	"bytes"
	"fmt"
	"mime"
)

// sniffLen is how many leading bytes are inspected for a signature.
const sniffLen = 16

// signatures holds the leading bytes of each artifact media type.
var signatures = map[string][]byte{
	"application/pdf": []byte("%PDF-"),
	"application/zip": []byte("PK\x03\x04"),
}

// CheckSignature returns an error wrapping [ErrMediaTypeMismatch] when head
// does not start with the file signature of mediaType. Media types without a
// known signature always pass.
func CheckSignature(mediaType string, head []byte) error {
	sig, ok := signatures[mediaType]
	if !ok || bytes.HasPrefix(head, sig) {
		return nil
	}

	if len(head) > sniffLen {
		head = head[:sniffLen]
	}

	return &Error{
		Err:    ErrMediaTypeMismatch,
		Detail: fmt.Sprintf("body is not %s, starts with %q", mediaType, head),
	}
}

// checkContentType compares the Content-Type header against want. An absent
// header or a generic octet-stream leaves the decision to the signature.
func checkContentType(header, want string) error {
	if header == "" {
		return nil
	}

	got, _, err := mime.ParseMediaType(header)
	if err != nil {
		return &Error{Err: ErrMediaTypeMismatch, Detail: fmt.Sprintf("unparsable content type %q", header)}
	}
	if got == want || got == "application/octet-stream" {
		return nil
	}

	return &Error{Err: ErrMediaTypeMismatch, Detail: fmt.Sprintf("content type %s, want %s", got, want)}
}
