package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-cadence/internal/config"
)

// VCardFetcher retrieves raw vCard data from a remote address book so the
// importer can be tested without a network.
type VCardFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher is the production VCardFetcher, speaking plain HTTP(S) to a
// CardDAV export endpoint.
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{Timeout: config.HTTPTimeout},
	}
}

// Fetch downloads the address book behind targetURL, optionally with basic
// auth. The returned reader is capped at config.MaxHTTPResponseSize.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	safeURL, err := validateSource(targetURL)
	if err != nil {
		return nil, err
	}

	// Query strings can carry access tokens; log only the sanitized form.
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, safeURL),
	)
	log.Debug(config.MsgFetchStarted)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBuildRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchNetwork, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn(config.MsgFetchRejected,
			slog.Int(config.LogKeyStatus, resp.StatusCode),
		)
		return nil, fmt.Errorf("%s: %d %s", config.ErrFetchStatus, resp.StatusCode, resp.Status)
	}

	log.Info(config.MsgFetchReading,
		slog.Int64(config.LogKeySizeBytes, resp.ContentLength),
	)
	return &cappedBody{
		r:    io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		body: resp.Body,
	}, nil
}

// validateSource rejects anything but http(s) URLs and returns a form safe
// to log, with the query string stripped.
func validateSource(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return "", fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}
	return u.Scheme + "://" + u.Host + u.Path, nil
}

// cappedBody bounds reads from the response body while still closing the
// underlying network connection.
type cappedBody struct {
	r    io.Reader
	body io.ReadCloser
}

func (c *cappedBody) Read(p []byte) (int, error) { return c.r.Read(p) }

func (c *cappedBody) Close() error { return c.body.Close() }
