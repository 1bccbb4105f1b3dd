// Package rdb fetches branch package lists from
// the ALT Linux repository database.
package rdb

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	v1 "github.com/djcass44/rdb-diff/pkg/api/v1"
	"github.com/djcass44/rdb-diff/pkg/downloader"
	"github.com/djcass44/rdb-diff/pkg/requestutil"
	"github.com/go-logr/logr"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/singleflight"
)

var regexpQuoted = regexp.MustCompile(`'(\w+)'`)

type Options struct {
	// BaseURL of the API. Defaults to DefaultURL.
	BaseURL string
	// Cache is optional. Only successful
	// responses are stored.
	Cache   *downloader.Cache
	Retries int
	// HTTPClient replaces the retrying client.
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	cache   *downloader.Cache
	client  *http.Client
	group   singleflight.Group
}

func NewClient(ctx context.Context, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultURL
	}
	client := opts.HTTPClient
	if client == nil {
		rc := retryablehttp.NewClient()
		rc.RetryMax = opts.Retries
		rc.RetryWaitMin = 500 * time.Millisecond
		rc.RetryWaitMax = 5 * time.Second
		rc.Logger = &leveledLogger{log: logr.FromContextOrDiscard(ctx).WithName("http")}
		// hand back the last response once retries run out
		// so that its status code ends up in the error
		rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
		client = rc.StandardClient()
	}
	return &Client{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		cache:   opts.Cache,
		client:  client,
	}
}

// BranchPackages retrieves the binary packages of a branch. If arch
// is set, only packages for that architecture are requested.
func (c *Client) BranchPackages(ctx context.Context, branch, arch string) (*v1.BranchPackages, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("branch", branch, "arch", arch)

	target, err := c.url(branch, arch)
	if err != nil {
		return nil, &TransportError{URL: c.baseURL, Err: err}
	}

	// identical requests made at the same time
	// only hit the API once
	v, err, shared := c.group.Do(target, func() (any, error) {
		return c.get(ctx, target, branch, arch)
	})
	if err != nil {
		return nil, err
	}
	log.V(3).Info("retrieved package list", "shared", shared)

	var out v1.BranchPackages
	if err := json.Unmarshal(v.([]byte), &out); err != nil {
		return nil, &TransportError{URL: target, Message: "decoding response", Err: err}
	}
	log.V(1).Info("decoded package list", "count", len(out.Packages))
	return &out, nil
}

func (c *Client) url(branch, arch string) (string, error) {
	uri, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	uri = uri.JoinPath("export", "branch_binary_packages", branch)
	if arch != "" {
		q := uri.Query()
		q.Set("arch", arch)
		uri.RawQuery = q.Encode()
	}
	return uri.String(), nil
}

func (c *Client) get(ctx context.Context, target, branch, arch string) ([]byte, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("url", target)

	if c.cache != nil {
		if data, ok := c.cache.Get(ctx, target); ok {
			log.V(1).Info("using cached response")
			return data, nil
		}
	}

	log.V(1).Info("requesting package list")
	var status int
	var buf bytes.Buffer
	err := requests.URL(target).
		Client(c.client).
		Accept("application/json").
		AddValidator(func(resp *http.Response) error {
			// status codes are checked below so that
			// we can read the error body
			status = resp.StatusCode
			return nil
		}).
		Handle(requestutil.WithDecompression(&buf)).
		Fetch(ctx)
	if err != nil {
		log.V(1).Info("request failed", "error", err.Error())
		return nil, &TransportError{URL: target, Err: err}
	}
	log.V(2).Info("request completed", "code", status, "size", buf.Len())

	switch {
	case status >= 400 && status < 500:
		return nil, c.clientError(target, status, buf.Bytes(), branch, arch)
	case status < 200 || status > 299:
		return nil, &TransportError{URL: target, StatusCode: status, Message: http.StatusText(status)}
	}

	if !json.Valid(buf.Bytes()) {
		return nil, &TransportError{URL: target, StatusCode: status, Message: "response is not valid JSON"}
	}
	if c.cache != nil {
		if err := c.cache.Put(ctx, target, buf.Bytes()); err != nil {
			log.Error(err, "failed to cache response")
		}
	}
	return buf.Bytes(), nil
}

// clientError converts a 4xx response into the
// most specific error that we can.
func (c *Client) clientError(target string, status int, body []byte, branch, arch string) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return &TransportError{URL: target, StatusCode: status, Message: "decoding error response", Err: err}
	}

	if len(apiErr.ValidationMessage) == 2 && strings.HasPrefix(apiErr.ValidationMessage[0], prefixUnknownPackageSet) {
		var available []string
		for _, m := range regexpQuoted.FindAllStringSubmatch(apiErr.ValidationMessage[1], -1) {
			available = append(available, m[1])
		}
		return &UnknownBranchError{
			Branch:    branch,
			Available: available,
		}
	}

	if archErr, ok := apiErr.Errors["arch"].(string); ok && strings.HasPrefix(archErr, prefixInvalidArch) {
		return &ArchitectureUnavailableError{
			Arch:   arch,
			Branch: branch,
		}
	}

	msg := apiErr.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &TransportError{URL: target, StatusCode: status, Message: msg}
}
