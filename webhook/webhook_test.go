package webhook_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/assinafy/client"
	"github.com/adamwoolhether/assinafy/webhook"
)

func TestDecode(t *testing.T) {
	testCases := map[string]struct {
		body       string
		exp        webhook.Event
		expErr     error
		expInvalid bool
	}{
		"documentSigned": {
			body: `{"event":"document_ready","data":{"document_uuid":"d-1"}}`,
			exp:  webhook.Event{Event: "document_ready", Data: webhook.Data{DocumentUUID: "d-1"}},
		},
		"extraFields": {
			body: `{"event":"signer_signed_document","data":{"document_uuid":"d-1","signer_id":"s-1"}}`,
			exp: webhook.Event{Event: "signer_signed_document", Data: webhook.Data{
				DocumentUUID: "d-1",
				Extra:        map[string]json.RawMessage{"signer_id": json.RawMessage(`"s-1"`)},
			}},
		},
		"missingEvent": {
			body:   `{"data":{"document_uuid":"d-1"}}`,
			expErr: client.FieldErrors{},
		},
		"missingDocument": {
			body:   `{"event":"document_ready","data":{}}`,
			expErr: client.FieldErrors{},
		},
		"notJSON": {
			body:       `event=document_ready`,
			expInvalid: true,
		},
		"tooLarge": {
			body:   `{"event":"x","data":{"document_uuid":"` + strings.Repeat("a", 1<<20) + `"}}`,
			expErr: webhook.ErrPayloadTooLarge,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got, err := webhook.Decode(strings.NewReader(tc.body))

			switch {
			case tc.expInvalid:
				if err == nil {
					t.Fatal("expected error, got nil")
				}
			case tc.expErr != nil:
				var fe client.FieldErrors
				if _, isField := tc.expErr.(client.FieldErrors); isField {
					if !errors.As(err, &fe) {
						t.Fatalf("expected FieldErrors, got: %v", err)
					}
					return
				}
				if !errors.Is(err, tc.expErr) {
					t.Fatalf("exp err %v, got: %v", tc.expErr, err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if diff := cmp.Diff(tc.exp, got); diff != "" {
					t.Errorf("event mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestHandler(t *testing.T) {
	var received []webhook.Event
	h := webhook.Handler(func(r *http.Request, ev webhook.Event) error {
		if ev.Data.DocumentUUID == "fail" {
			return errors.New("boom")
		}
		received = append(received, ev)
		return nil
	})

	testCases := map[string]struct {
		method    string
		body      string
		expStatus int
	}{
		"accepted":  {method: http.MethodPost, body: `{"event":"document_ready","data":{"document_uuid":"d-1"}}`, expStatus: http.StatusNoContent},
		"invalid":   {method: http.MethodPost, body: `{"event":""}`, expStatus: http.StatusBadRequest},
		"wrongVerb": {method: http.MethodGet, expStatus: http.StatusMethodNotAllowed},
		"fnFailed":  {method: http.MethodPost, body: `{"event":"document_ready","data":{"document_uuid":"fail"}}`, expStatus: http.StatusInternalServerError},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tc.method, "/hooks/assinafy", strings.NewReader(tc.body)))

			if rec.Code != tc.expStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.expStatus)
			}
		})
	}

	if len(received) != 1 || received[0].Data.DocumentUUID != "d-1" {
		t.Errorf("received = %+v, want the single accepted event", received)
	}
}

func TestData_MarshalJSON(t *testing.T) {
	d := webhook.Data{DocumentUUID: "d-1", Extra: map[string]json.RawMessage{"signer_id": json.RawMessage(`"s-1"`)}}

	got, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"document_uuid":"d-1","signer_id":"s-1"}`
	if string(got) != want {
		t.Errorf("json = %s, want %s", got, want)
	}
}
