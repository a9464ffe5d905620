package download

import (
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

// digest hashes the artifact while it is written to disk.
type digest struct {
	h    hash.Hash
	want string
}

func (d *digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// Verify compares the running digest with the expected hex, ignoring case
// and surrounding space. A nil digest always passes.
func (d *digest) Verify() error {
	if d == nil {
		return nil
	}

	got := hex.EncodeToString(d.h.Sum(nil))
	if strings.EqualFold(got, d.want) {
		return nil
	}

	return &Error{
		Err:    ErrChecksumMismatch,
		Detail: fmt.Sprintf("artifact digest %s, want %s", got, d.want),
	}
}
