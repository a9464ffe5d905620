package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	srv := New(http.NewServeMux())

	if srv.srv.Addr != ":8080" {
		t.Errorf("addr = %q, want %q", srv.srv.Addr, ":8080")
	}
	if srv.srv.ReadTimeout != 5*time.Second || srv.srv.WriteTimeout != 10*time.Second || srv.srv.IdleTimeout != 120*time.Second {
		t.Errorf("timeouts = %v/%v/%v", srv.srv.ReadTimeout, srv.srv.WriteTimeout, srv.srv.IdleTimeout)
	}
	if srv.shutdownTimeout != 20*time.Second {
		t.Errorf("shutdown timeout = %v, want %v", srv.shutdownTimeout, 20*time.Second)
	}
}

func TestNew_WithOptions(t *testing.T) {
	srv := New(http.NewServeMux(),
		WithHost("127.0.0.1:9090"),
		WithTimeouts(time.Second, 0, 3*time.Second),
		WithShutdownTimeout(4*time.Second),
	)

	if srv.srv.Addr != "127.0.0.1:9090" {
		t.Errorf("addr = %q", srv.srv.Addr)
	}
	if srv.srv.ReadTimeout != time.Second || srv.srv.WriteTimeout != 10*time.Second || srv.srv.IdleTimeout != 3*time.Second {
		t.Errorf("timeouts = %v/%v/%v", srv.srv.ReadTimeout, srv.srv.WriteTimeout, srv.srv.IdleTimeout)
	}
	if srv.shutdownTimeout != 4*time.Second {
		t.Errorf("shutdown timeout = %v", srv.shutdownTimeout)
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening: %v", err)
	}

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	srv := New(h, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String())
	if err != nil {
		t.Fatalf("requesting: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening: %v", err)
	}
	defer ln.Close()

	srv := New(http.NewServeMux(), WithHost(ln.Addr().String()), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err := srv.Run(t.Context()); err == nil {
		t.Fatal("expected error on an address already in use")
	}
}
