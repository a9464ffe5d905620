package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/assinafy/client/download"
	"github.com/adamwoolhether/assinafy/client/throttle"
)

// Client wraps the std-lib *http.Client together with the Assinafy
// base URL, credentials and default account.
// The zero value is not usable; construct one with [Build].
type Client struct {
	c         *http.Client
	logger    *slog.Logger
	tracer    trace.Tracer
	baseURL   *url.URL
	accountID string
}

// Build constructs a Client. Without options it targets [DefaultBaseURL]
// with no credentials, the default transport and slog.Default.
func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		c:      &http.Client{},
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("assinafy"),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	// Timeout, redirects and transport are set on a copy so a shared
	// *http.Client never picks up the bearer token.
	if opts.client != nil {
		hc := *opts.client
		client.c = &hc
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	base := opts.baseURL
	if base == nil {
		var err error
		if base, err = url.Parse(DefaultBaseURL); err != nil {
			return nil, fmt.Errorf("parsing default base url: %w", err)
		}
	}
	client.baseURL = base
	client.accountID = opts.accountID

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.token != "" {
		transport = bearer{token: opts.token, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	return client, nil
}

// Do will fire the request and apply the envelope contract to the response.
// Any 2xx status is accepted unless [WithExpectedStatus] pins one.
func (c *Client) Do(req *http.Request, opts ...DoOption) error {
	var settings doOpts
	for _, opt := range opts {
		err := opt(&settings)
		if err != nil {
			return err
		}
	}

	doFunc := func(resp *http.Response) error {
		if settings.writer != nil {
			if _, err := io.Copy(settings.writer, resp.Body); err != nil {
				return fmt.Errorf("copying body: %w", err)
			}

			return nil
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}

		data, err := Unwrap(body)
		if err != nil {
			return err
		}

		if settings.responseBody == nil {
			return nil
		}

		if settings.keepEnvelope {
			data = body
		}

		d := json.NewDecoder(bytes.NewReader(data))
		if settings.useJSONNum {
			d.UseNumber()
		}

		if err := d.Decode(settings.responseBody); err != nil {
			return fmt.Errorf("decoding body: %w", err)
		}

		return nil
	}

	return c.exec(req, settings.expCode, doFunc)
}

// Download executes req and streams the response body to destPath through
// [download.Handle]. Nothing is written to destPath unless every check passed.
func (c *Client) Download(req *http.Request, destPath string, opts ...DownloadOption) error {
	if destPath == "" {
		return errors.New("destPath must not be empty")
	}

	dlFunc := func(resp *http.Response) error {
		src := download.Source{
			Body:        resp.Body,
			Length:      resp.ContentLength,
			ContentType: resp.Header.Get("Content-Type"),
		}
		if err := download.Handle(req.Context(), src, destPath, c.logger, opts...); err != nil {
			return fmt.Errorf("download: %w", err)
		}

		return nil
	}

	return c.exec(req, 0, dlFunc)
}

// Request instantiates an *http.Request with the provided information.
// It's just a convenience method that wraps the public Request func.
func (c *Client) Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	return Request(ctx, reqURL, method, opts...)
}

// URL resolves path, as built by [Path], against the client's base URL.
func (c *Client) URL(path string, opts ...URLOption) *url.URL {
	var settings urlOpts
	for _, opt := range opts {
		opt(&settings)
	}

	endpoint := c.baseURL.JoinPath(path)

	if settings.queryStrings != nil {
		queryParams := url.Values{}
		for k, v := range settings.queryStrings {
			if v == "" {
				continue
			}
			queryParams.Add(k, v)
		}

		endpoint.RawQuery = queryParams.Encode()
	}

	return endpoint
}

// BaseURL returns a copy of the URL that resource paths are joined onto.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// exec runs the request and injected function on success after validating the status code.
func (c *Client) exec(req *http.Request, expCode int, fn execFn) error {
	ctx, span := c.startSpan(req)
	defer span.End()

	req = req.Clone(ctx)
	injectHeaders(ctx, req)

	start := time.Now()
	resp, err := c.c.Do(req)
	if err != nil {
		if urlErr, ok := errors.AsType[*url.Error](err); ok {
			err = urlErr.Err
		}
		terr := &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
		endSpan(span, 0, terr)

		return terr
	}

	discardBody := true
	defer func() {
		if discardBody {
			if _, err = io.Copy(io.Discard, resp.Body); err != nil {
				c.logger.Error("failed to discard unused body", "error", err)
			}
		}
		if err = resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	c.logger.Debug("request completed", "method", req.Method, "path", req.URL.Path, "statusCode", resp.StatusCode, "since", time.Since(start).String())

	if !statusAccepted(resp.StatusCode, expCode) {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}

		terr := &TransportError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       string(b),
			Err:        statusErr(resp.StatusCode),
		}
		endSpan(span, resp.StatusCode, terr)

		return terr
	}

	if err := fn(resp); err != nil {
		discardBody = false
		endSpan(span, resp.StatusCode, err)
		return err
	}

	endSpan(span, resp.StatusCode, nil)

	return nil
}

func statusAccepted(code, expCode int) bool {
	if expCode != 0 {
		return code == expCode
	}

	return code >= 200 && code < 300
}

// Request instantiates an *http.Request with the provided information.
// Content-Type defaults to `application/json` if unspecified via WithContentType,
// or to the multipart boundary type when [WithMultipartFile] is used.
func Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	var settings requestOpts
	for _, opt := range opts {
		err := opt(&settings)
		if err != nil {
			return nil, err
		}
	}

	if settings.body != nil && settings.file != nil {
		return nil, errors.New("payload and multipart file are mutually exclusive")
	}

	contentType := "application/json"
	var payload bytes.Buffer
	switch {
	case settings.file != nil:
		ct, err := writeMultipart(&payload, settings.file)
		if err != nil {
			return nil, fmt.Errorf("encoding multipart payload: %w", err)
		}
		contentType = ct
	case settings.body != nil:
		if err := json.NewEncoder(&payload).Encode(settings.body); err != nil {
			return nil, fmt.Errorf("encoding request payload: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), &payload)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for _, cookie := range settings.cookies {
		req.AddCookie(cookie)
	}

	if settings.contentType != nil {
		contentType = *settings.contentType
	}

	req.Header.Set("Content-Type", contentType)
	for k, v := range settings.headers {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}

	return req, nil
}

// Path escapes each segment and joins them into a relative resource path.
func Path(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}

	return strings.Join(escaped, "/")
}

func writeMultipart(buf *bytes.Buffer, f *multipartFile) (string, error) {
	mw := multipart.NewWriter(buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
	h.Set("Content-Type", f.contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("creating part: %w", err)
	}

	if _, err := io.Copy(part, f.r); err != nil {
		return "", fmt.Errorf("copying file: %w", err)
	}

	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing writer: %w", err)
	}

	return mw.FormDataContentType(), nil
}
