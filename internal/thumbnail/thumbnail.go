// Package thumbnail checks that a listing's thumbnail URL serves an image
// and renders a small text preview of it for the terminal.
package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// Defaults for Options.
const (
	DefaultMaxBytes  = 5 << 20
	DefaultCacheSize = 128
	DefaultTimeout   = 5 * time.Second
)

var (
	// ErrNotImage means the URL did not serve a decodable image.
	ErrNotImage = errors.New("thumbnail is not a supported image")
	// ErrTooLarge means the image exceeded the configured size.
	ErrTooLarge = errors.New("thumbnail is too large")
)

// Info describes a probed image.
type Info struct {
	URL    string `json:"url" yaml:"url"`
	Format string `json:"format" yaml:"format"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	Bytes  int    `json:"bytes" yaml:"bytes"`
}

// Options configures a Prober.
type Options struct {
	MaxBytes   int64
	CacheSize  int
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Prober fetches thumbnails. Concurrent requests for one URL share a fetch
// and successful probes are cached.
type Prober struct {
	http     *http.Client
	maxBytes int64
	cache    *lru.Cache[string, Info]
	group    singleflight.Group
	logger   *slog.Logger
}

// New creates a Prober.
func New(opts Options) (*Prober, error) {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	cache, err := lru.New[string, Info](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("thumbnail cache: %w", err)
	}
	return &Prober{
		http:     client,
		maxBytes: opts.MaxBytes,
		cache:    cache,
		logger:   opts.Logger,
	}, nil
}

// Probe checks that rawURL serves an image and reports its format and size.
func (p *Prober) Probe(ctx context.Context, rawURL string) (Info, error) {
	if info, ok := p.cache.Get(rawURL); ok {
		return info, nil
	}
	data, err := p.fetch(ctx, rawURL)
	if err != nil {
		return Info{}, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrNotImage, err)
	}
	info := Info{URL: rawURL, Format: format, Width: cfg.Width, Height: cfg.Height, Bytes: len(data)}
	p.cache.Add(rawURL, info)
	return info, nil
}

// Preview renders the image as text, width characters wide.
func (p *Prober) Preview(ctx context.Context, rawURL string, width int) (string, error) {
	data, err := p.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotImage, err)
	}
	b := img.Bounds()
	p.cache.Add(rawURL, Info{URL: rawURL, Format: format, Width: b.Dx(), Height: b.Dy(), Bytes: len(data)})
	return Render(img, width), nil
}

func (p *Prober) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: thumbnail must be an http or https URL", domain.ErrValidation)
	}

	v, err, shared := p.group.Do(rawURL, func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "image/*")

		resp, err := p.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: thumbnail answered HTTP %d", ErrNotImage, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
			return nil, fmt.Errorf("%w: content type %s", ErrNotImage, ct)
		}
		if resp.ContentLength > p.maxBytes {
			return nil, ErrTooLarge
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes+1))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
		}
		if int64(len(data)) > p.maxBytes {
			return nil, ErrTooLarge
		}
		return data, nil
	})
	if err != nil {
		p.logger.DebugContext(ctx, "thumbnail fetch failed", "url", rawURL, "error", err)
		return nil, err
	}
	if shared {
		p.logger.DebugContext(ctx, "thumbnail fetch shared", "url", rawURL)
	}
	return v.([]byte), nil
}

// ramp runs from dark to light.
const ramp = " .:-=+*#%@"

// Render maps img onto a grid width characters wide. Terminal cells are about
// twice as tall as wide, so rows cover two pixels of height per column pixel.
func Render(img image.Image, width int) string {
	b := img.Bounds()
	if width <= 0 || b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}
	height := max(1, b.Dy()*width/b.Dx()/2)

	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	var sb strings.Builder
	sb.Grow((width + 1) * height)
	for y := range height {
		for x := range width {
			lum := int(dst.GrayAt(x, y).Y)
			sb.WriteByte(ramp[lum*(len(ramp)-1)/255])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
