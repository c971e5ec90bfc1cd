package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/store"
)

// DefaultTimeout bounds a single document fetch.
const DefaultTimeout = 15 * time.Second

// DefaultMaxBody caps how much of a response is read.
const DefaultMaxBody = 16 << 20

// ErrTooLarge is returned for documents over the body limit.
var ErrTooLarge = errors.New("document too large")

type Client struct {
	HTTP         *http.Client
	Store        *store.RawStore // nil disables the raw cache
	UserAgent    string
	Timeout      time.Duration
	UseCache     bool
	DisableWrite bool
	Sleep        time.Duration // pause between Prefetch requests
	MaxBody      int64         // zero means DefaultMaxBody
	Logger       *zap.Logger
}

func NewClient(st *store.RawStore) *Client {
	return &Client{
		HTTP:      &http.Client{},
		Store:     st,
		UserAgent: "bundesliga-fuenfjahr/1.0",
		Timeout:   DefaultTimeout,
		UseCache:  st != nil,
		Logger:    zap.NewNop(),
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s failed: %d", e.URL, e.StatusCode)
}

// FetchRaw downloads url and, when caching is enabled, keeps it under relPath.
// Returns raw bytes (from cache or network).
func (c *Client) FetchRaw(ctx context.Context, url string, relPath string, force bool) ([]byte, error) {
	log := c.logger()
	if !force && c.UseCache && c.Store != nil && c.Store.Exists(relPath) {
		b, err := c.Store.ReadRaw(relPath)
		if err == nil {
			log.Debug("raw cache hit", zap.String("path", relPath))
			return b, nil
		}
		// unreadable entry, fall through and refetch
		log.Warn("raw cache read failed", zap.String("path", relPath), zap.Error(err))
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "text/html")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody()+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if int64(len(body)) > c.maxBody() {
		return nil, fmt.Errorf("GET %s: %w (limit %d bytes)", url, ErrTooLarge, c.maxBody())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	log.Debug("fetched document",
		zap.String("url", url),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)))

	if c.UseCache && c.Store != nil && !c.DisableWrite && relPath != "" {
		if err := c.Store.WriteRaw(relPath, body); err != nil {
			log.Warn("raw cache write failed", zap.String("path", relPath), zap.Error(err))
		}
	}
	return body, nil
}

func (c *Client) maxBody() int64 {
	if c.MaxBody <= 0 {
		return DefaultMaxBody
	}
	return c.MaxBody
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
