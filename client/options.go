package client

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/assinafy/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	tracer            trace.Tracer
	token             string
	baseURL           *url.URL
	accountID         string
}

// WithClient uses a copy of hc in place of the default [http.Client]. hc
// itself is never modified.
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		c.throttle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// WithTracer records a span per request on tracer and propagates its
// context in the outgoing headers. A no-op tracer is used otherwise.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// WithToken sets the API token sent as a Bearer Authorization header.
func WithToken(token string) Option {
	return func(c *options) error {
		token = strings.TrimSpace(token)
		if token == "" {
			return ErrMissingToken
		}
		c.token = token
		return nil
	}
}

// WithBaseURL overrides [DefaultBaseURL]. Resource paths are joined onto it.
func WithBaseURL(rawURL string) Option {
	return func(c *options) error {
		u, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("parsing base url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("base url must use http or https scheme, got: %q", u.Scheme)
		}
		if u.Host == "" {
			return fmt.Errorf("base url %q has no host", rawURL)
		}
		c.baseURL = u
		return nil
	}
}

// WithDefaultAccount sets the account used by account-scoped calls that do
// not pass [ForAccount].
func WithDefaultAccount(accountID string) Option {
	return func(c *options) error {
		c.accountID = strings.TrimSpace(accountID)
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}

// bearer is an http.RoundTripper attaching the API token and a JSON
// Accept header unless the request already set one.
type bearer struct {
	token string
	base  http.RoundTripper
}

func (b bearer) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("Authorization", "Bearer "+b.token)
	if cpy.Header.Get("Accept") == "" {
		cpy.Header.Set("Accept", "application/json")
	}
	return b.base.RoundTrip(cpy)
}

// DoOption is a functional option for [Client.Do].
type DoOption func(options *doOpts) error

type doOpts struct {
	responseBody any
	useJSONNum   bool
	keepEnvelope bool
	writer       io.Writer
	expCode      int
}

// WithDestination unwraps the response envelope and decodes its data into
// bodyTemplate. bodyTemplate must be a pointer.
func WithDestination[T any](bodyTemplate *T) DoOption {
	return func(opts *doOpts) error {
		if bodyTemplate == nil {
			return errors.New("destination must not be nil")
		}
		opts.responseBody = bodyTemplate

		return nil
	}
}

// WithPage checks the envelope status but decodes the whole body into page,
// keeping the pagination meta that sits beside the data.
func WithPage[T any](page *Page[T]) DoOption {
	return func(opts *doOpts) error {
		if page == nil {
			return errors.New("page must not be nil")
		}
		opts.responseBody = page
		opts.keepEnvelope = true

		return nil
	}
}

// WithJSONNumb tells the JSON decoder to use [json.Decoder.UseNumber],
// preserving number precision as [json.Number] instead of float64.
func WithJSONNumb() DoOption {
	return func(opts *doOpts) error {
		opts.useJSONNum = true

		return nil
	}
}

// WithWriter copies the raw response body into w, bypassing envelope handling.
func WithWriter(w io.Writer) DoOption {
	return func(opts *doOpts) error {
		if w == nil {
			return errors.New("writer must not be nil")
		}
		opts.writer = w

		return nil
	}
}

// WithExpectedStatus pins the accepted HTTP status. Without it any 2xx is accepted.
func WithExpectedStatus(code int) DoOption {
	return func(opts *doOpts) error {
		if code < 100 || code > 599 {
			return fmt.Errorf("invalid status code: %d", code)
		}
		opts.expCode = code

		return nil
	}
}

// RequestOption is a functional option for [Request].
type RequestOption func(options *requestOpts) error

type requestOpts struct {
	body        any
	contentType *string
	cookies     []*http.Cookie
	headers     map[string][]string
	file        *multipartFile
}

type multipartFile struct {
	field       string
	filename    string
	contentType string
	r           io.Reader
}

// WithPayload sets the JSON-encoded request body.
func WithPayload(body any) RequestOption {
	return func(opts *requestOpts) error {
		opts.body = body

		return nil
	}
}

// WithMultipartFile sends r as a multipart/form-data file part named field.
// It cannot be combined with [WithPayload].
func WithMultipartFile(field, filename, contentType string, r io.Reader) RequestOption {
	return func(opts *requestOpts) error {
		if field == "" || filename == "" {
			return errors.New("multipart field and filename must not be empty")
		}
		if r == nil {
			return errors.New("multipart reader must not be nil")
		}
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		opts.file = &multipartFile{field: field, filename: filename, contentType: contentType, r: r}

		return nil
	}
}

// WithContentType overrides the default "application/json" Content-Type header.
func WithContentType(contentType string) RequestOption {
	return func(opts *requestOpts) error {
		if contentType == "" {
			return errors.New("cannot use empty content type")
		}

		opts.contentType = &contentType

		return nil
	}
}

// WithHeaders adds custom headers to the outgoing request.
func WithHeaders(headers map[string][]string) RequestOption {
	return func(opts *requestOpts) error {
		opts.headers = headers

		return nil
	}
}

// WithCookies attaches the given cookies to the outgoing request.
func WithCookies(cookies ...*http.Cookie) RequestOption {
	return func(opts *requestOpts) error {
		opts.cookies = cookies

		return nil
	}
}

// URLOption is a functional option for [Client.URL].
type URLOption func(options *urlOpts)

type urlOpts struct {
	queryStrings map[string]string
}

// WithQueryStrings appends query parameters to the URL. Empty values are skipped.
func WithQueryStrings(queryKV map[string]string) URLOption {
	return func(opts *urlOpts) {
		opts.queryStrings = queryKV
	}
}
