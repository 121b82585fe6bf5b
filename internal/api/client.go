// Package api is the HTTP client for the lost-and-found listing API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// MaxResponseBytes caps every response body read by the client.
const MaxResponseBytes = 4 << 20

const tracerName = "github.com/whereisit-project/whereisit/internal/api"

// UnauthorizedHandler runs once per credential epoch when the API answers
// 401 or 403.
type UnauthorizedHandler func(ctx context.Context)

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// RateLimit is requests per second; zero disables client-side limiting.
	RateLimit float64
	Burst     int
	// HTTPClient overrides the transport. Its Jar is replaced when nil.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the listing API. It carries the backend session cookie
// set by Login on every request.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    *slog.Logger
	tracer    trace.Tracer

	mu             sync.Mutex
	epoch          uint64
	once           *sync.Once
	onUnauthorized UnauthorizedHandler
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("invalid API base URL %q", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		hc.Jar = jar
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := max(opts.Burst, 1)
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "whereisit-cli"
	}

	return &Client{
		baseURL:   base,
		http:      hc,
		limiter:   limiter,
		userAgent: ua,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
		once:      new(sync.Once),
	}, nil
}

// OnUnauthorized registers the handler invoked on 401/403.
func (c *Client) OnUnauthorized(h UnauthorizedHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = h
}

// Epoch returns the current credential epoch.
func (c *Client) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// advanceEpoch starts a new credential epoch after a successful login.
func (c *Client) advanceEpoch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.once = new(sync.Once)
}

// unauthorized fires the handler at most once for the epoch the request
// started in. Requests from an older epoch are ignored.
func (c *Client) unauthorized(ctx context.Context, epoch uint64) {
	c.mu.Lock()
	if epoch != c.epoch || c.onUnauthorized == nil {
		c.mu.Unlock()
		return
	}
	once, handler := c.once, c.onUnauthorized
	c.mu.Unlock()

	once.Do(func() {
		c.logger.WarnContext(ctx, "session rejected by API, signing out", "epoch", epoch)
		handler(context.WithoutCancel(ctx))
	})
}

// envelope is the mutation response shape.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	out    any
	// session calls never trigger the unauthorized handler
	session bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	ctx, span := c.tracer.Start(ctx, "api."+cl.op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", cl.method),
			attribute.String("url.path", cl.path),
		),
	)
	defer span.End()

	err := c.roundTrip(ctx, span, cl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, span trace.Span, cl call) error {
	epoch := c.Epoch()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &Error{Op: cl.op, Err: err}
		}
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + cl.path
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return &Error{Op: cl.op, Err: fmt.Errorf("encoding request: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), body)
	if err != nil {
		return &Error{Op: cl.op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &Error{Op: cl.op, Err: ctxErr}
		}
		c.logger.DebugContext(ctx, "api request failed", "op", cl.op, "error", err)
		return &Error{Op: cl.op, Err: fmt.Errorf("%w: %w", domain.ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.DebugContext(ctx, "api request",
		"op", cl.op,
		"method", cl.method,
		"path", cl.path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return &Error{Op: cl.op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: reading response: %w", domain.ErrUnavailable, err)}
	}
	if len(raw) > MaxResponseBytes {
		return &Error{Op: cl.op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: response exceeds %d bytes", domain.ErrUnavailable, MaxResponseBytes)}
	}

	if resp.StatusCode >= 300 {
		apiErr := errorFromStatus(cl.op, resp.StatusCode, raw)
		if errors.Is(apiErr, domain.ErrUnauthorized) && !cl.session {
			c.unauthorized(ctx, epoch)
		}
		return apiErr
	}

	if cl.out == nil && len(raw) == 0 {
		return nil
	}

	// Mutations answer 200 with {success:false, message} on business errors
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request was not successful"
		}
		return &Error{Op: cl.op, StatusCode: resp.StatusCode, Message: msg, Err: domain.ErrRejected}
	}

	if cl.out != nil {
		if err := json.Unmarshal(raw, cl.out); err != nil {
			return &Error{Op: cl.op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: decoding response: %w", domain.ErrUnavailable, err)}
		}
	}
	return nil
}
