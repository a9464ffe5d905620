package mux_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/adamwoolhether/assinafy/internal/web/mux"
)

func TestApp_HTTPMethods(t *testing.T) {
	tests := map[string]struct {
		register func(*mux.App, string, mux.Handler, ...mux.Middleware)
		method   string
	}{
		"GET":    {register: (*mux.App).Get, method: http.MethodGet},
		"POST":   {register: (*mux.App).Post, method: http.MethodPost},
		"PUT":    {register: (*mux.App).Put, method: http.MethodPut},
		"DELETE": {register: (*mux.App).Delete, method: http.MethodDelete},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			app := mux.New()
			tc.register(app, "/documents/{id}", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				w.Write([]byte(tc.method + " " + r.PathValue("id")))
				return nil
			})

			srv := httptest.NewServer(app)
			defer srv.Close()

			req, _ := http.NewRequestWithContext(t.Context(), tc.method, srv.URL+"/documents/d-1", nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("%s: %v", tc.method, err)
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if want := tc.method + " d-1"; string(body) != want {
				t.Errorf("body = %q, want %q", body, want)
			}
		})
	}
}

func TestApp_MiddlewareOrder(t *testing.T) {
	var order []string
	record := func(name string) mux.Middleware {
		return func(next mux.Handler) mux.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return next(ctx, w, r)
			}
		}
	}

	app := mux.New(mux.WithMiddleware(record("first"), record("second")))
	app.Use(record("used"))
	app.Get("/x", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		order = append(order, "handler")
		return nil
	}, record("route"))

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	want := "first,second,used,route,handler"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
}

func TestApp_Mount(t *testing.T) {
	app := mux.New()
	v1 := app.Mount("/v1/")
	v1.Get("/accounts", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusTeapot)
		return nil
	})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/accounts", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("mounted status = %d, want %d", rec.Code, http.StatusTeapot)
	}

	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unmounted status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestApp_TraceID(t *testing.T) {
	var got string
	app := mux.New()
	app.Get("/x", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		got = mux.GetTraceID(ctx)
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(mux.RequestIDHeader, "req-123")
	app.ServeHTTP(httptest.NewRecorder(), req)
	if got != "req-123" {
		t.Errorf("trace id = %q, want request id", got)
	}

	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("generated trace id %q is not a uuid", got)
	}
}

func TestGetValues_OutsideRequest(t *testing.T) {
	v := mux.GetValues(context.Background())
	if v.TraceID != uuid.Nil.String() {
		t.Errorf("trace id = %q, want nil uuid", v.TraceID)
	}

	// Must not panic without request values.
	mux.SetStatusCode(context.Background(), http.StatusOK)

	ctx, span := mux.AddSpan(context.Background(), "noop")
	defer span.End()
	if ctx == nil {
		t.Fatal("nil context")
	}
}
