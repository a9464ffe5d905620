package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/adamwoolhether/assinafy/internal/web/errs"
)

func TestNew(t *testing.T) {
	err := errs.New(http.StatusNotFound, errors.New("document not found"))

	if err.Code != http.StatusNotFound || err.Message != "document not found" {
		t.Errorf("got %d %q", err.Code, err.Message)
	}
	if err.IsInternal() {
		t.Error("New must not mark the error internal")
	}
	if !strings.Contains(err.FuncName, "TestNew") {
		t.Errorf("FuncName = %q, want caller", err.FuncName)
	}
}

func TestNewf(t *testing.T) {
	err := errs.Newf(http.StatusConflict, "signer %s is bound to %d documents", "s-1", 2)
	if err.Error() != "signer s-1 is bound to 2 documents" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestNewInternal(t *testing.T) {
	err := errs.NewInternal(errors.New("disk full"))
	if err.Code != http.StatusInternalServerError || !err.IsInternal() {
		t.Errorf("got %d internal=%v", err.Code, err.IsInternal())
	}
}

func TestGetFieldErrors(t *testing.T) {
	fe := errs.FieldErrors{{Field: "email", Err: "invalid"}}

	if got := errs.GetFieldErrors(fmt.Errorf("decode: %w", fe)); len(got) != 1 {
		t.Errorf("got %v, want wrapped field errors", got)
	}
	if got := errs.GetFieldErrors(errors.New("plain")); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
