package pricing

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

// contains http utils to deal with remote services

// Options configures the HTTP access to a price service.
type Options struct {
	Timeout  time.Duration // per attempt
	Retries  uint64        // retries after the first attempt
	Backoff  time.Duration // initial retry interval, doubled at each retry
	Rate     float64       // max requests per second, 0 for unlimited
	CacheDir string        // disk cache for immutable responses, "" to disable

	// Transport is the underlying transport, http.DefaultTransport if nil.
	Transport http.RoundTripper
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Timeout:  5 * time.Second,
		Retries:  5,
		Backoff:  100 * time.Millisecond,
		Rate:     10,
		CacheDir: filepath.Join(os.TempDir(), "gains-cache"),
	}
}

// diskCache implements a simple disk cache for HTTP responses.
//
// It is meant for responses that never change, like historical prices: there
// is no expiry.
type diskCache struct {
	base http.RoundTripper
	dir  string
	// keep tells if a successful response can be stored, nil keeps them all.
	keep func(dump []byte) bool
}

// RoundTrip implements the http.RoundTripper interface. It checks for a cached
// response on disk first. If not found, it proceeds with the actual HTTP
// request and caches the new response if it's successful.
func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	key := fmt.Sprintf("%s %s", req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	err = c.put(key, resp)
	if err != nil {
		log.Printf("cache write err (ignored): %v\n", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(c.dir, key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if c.keep != nil && !c.keep(content) {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}

// throttled waits for the limiter before each request.
type throttled struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *throttled) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// logged logs every request that reaches the network.
type logged struct {
	base http.RoundTripper
}

func (l *logged) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := l.base.RoundTrip(req)
	if err != nil {
		log.Printf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, err)
		return nil, err
	}
	log.Printf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)
	return resp, nil
}

// fetcher performs JSON GET requests with a per-attempt timeout, retries
// with exponential backoff on transient failures, and rate limiting.
type fetcher struct {
	client  *http.Client
	timeout time.Duration
	retries uint64
	backoff time.Duration
	header  http.Header
}

// newFetcher builds the transport chain: cache (optional), rate limit, log,
// network.
func newFetcher(opts Options, cached bool, keep func([]byte) bool) *fetcher {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}
	var transport http.RoundTripper = &throttled{base: &logged{base}, limiter: rate.NewLimiter(limit, 1)}
	if cached && opts.CacheDir != "" {
		transport = &diskCache{base: transport, dir: opts.CacheDir, keep: keep}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultOptions().Timeout
	}
	return &fetcher{
		client:  &http.Client{Transport: transport},
		timeout: timeout,
		retries: opts.Retries,
		backoff: opts.Backoff,
		header:  make(http.Header),
	}
}

// StatusError is returned for a non 200 response.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string { return fmt.Sprintf("cannot http GET %s: %s", e.URL, e.Status) }

// transient reports whether a response code is worth a retry.
func transient(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// jwget performs an HTTP GET request to the given address and unmarshals the
// JSON response body into the provided data structure. Numbers decoded into
// interfaces are json.Number.
func (f *fetcher) jwget(ctx context.Context, addr string, data any) error {
	attempt := func() error {
		actx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(actx, http.MethodGet, addr, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		for k, v := range f.header {
			req.Header[k] = v
		}
		resp, err := f.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := &StatusError{URL: req.URL.Host + req.URL.Path, Status: resp.Status, Code: resp.StatusCode}
			if transient(resp.StatusCode) {
				return err
			}
			return backoff.Permanent(err)
		}
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, resp.Body); err != nil {
			return err
		}
		dec := json.NewDecoder(&buf)
		dec.UseNumber()
		if err := dec.Decode(data); err != nil {
			return backoff.Permanent(fmt.Errorf("invalid JSON response from %s: %w", req.URL.Host+req.URL.Path, err))
		}
		return nil
	}

	exp := backoff.NewExponentialBackOff()
	if f.backoff > 0 {
		exp.InitialInterval = f.backoff
	}
	exp.MaxElapsedTime = 0 // bounded by the number of retries
	err := backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(exp, f.retries), ctx))
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}
