package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// VCardFetcher retrieves a remote contact file.
type VCardFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher implements VCardFetcher over net/http.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher with config.HTTPTimeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: config.HTTPTimeout}}
}

// Fetch downloads the contact file at targetURL.
// 401 and 403 map to config.ErrFetchAuth, any other non-200 status to
// config.ErrFetchStatus. The body is capped at config.MaxHTTPResponseSize.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := parseSourceURL(targetURL)
	if err != nil {
		return nil, err
	}
	log := slog.With(
		config.LogKeyComponent, config.CompFetcher,
		config.LogKeyURL, redactURL(u),
	)

	req, err := newContactRequest(ctx, u, user, pass)
	if err != nil {
		return nil, err
	}

	log.Debug(config.MsgFetchStarted)
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchNetwork, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		_ = resp.Body.Close()
		log.Warn(config.MsgFetchStatus, config.LogKeyStatus, resp.StatusCode, config.LogKeyUser, user)
		return nil, fmt.Errorf("%s: %s", config.ErrFetchAuth, resp.Status)
	default:
		_ = resp.Body.Close()
		log.Warn(config.MsgFetchStatus, config.LogKeyStatus, resp.StatusCode)
		return nil, fmt.Errorf("%s: %s", config.ErrFetchStatus, resp.Status)
	}

	return limitedBody{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}, nil
}

// parseSourceURL accepts absolute http and https URLs only.
func parseSourceURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %q", config.ErrProtocol, u.Scheme)
	}
	return u, nil
}

// newContactRequest builds the GET asking for vCard content.
func newContactRequest(ctx context.Context, u *url.URL, user, pass string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimeVCardAccept)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}
	return req, nil
}

// redactURL drops the query, fragment and userinfo, which may carry tokens.
func redactURL(u *url.URL) string {
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}).String()
}

// limitedBody caps reads while still closing the underlying connection.
type limitedBody struct {
	io.Reader
	io.Closer
}
