package spo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"
	"golang.org/x/time/rate"
)

const (
	processQueryPath = "/_vti_bin/client.svc/ProcessQuery"
	contextInfoPath  = "/_api/contextinfo"
)

// Client defines the SharePoint Online admin operations known to the CLI.
type Client interface {
	GetServicePrincipal(ctx context.Context) (*ServicePrincipal, error)
	SetServicePrincipalEnabled(ctx context.Context, enabled bool) (*ServicePrincipal, error)
	GetHideDefaultThemes(ctx context.Context) (bool, error)
	SetHideDefaultThemes(ctx context.Context, hide bool) error
	ListThemes(ctx context.Context) ([]ThemeInfo, error)
	GetTheme(ctx context.Context, name string) (*ThemeInfo, error)
	SetTheme(ctx context.Context, theme ThemeInfo) error
	RemoveTheme(ctx context.Context, name string) error
	GetTenantCdnEnabled(ctx context.Context, cdnType CdnType) (bool, error)
	SetTenantCdnEnabled(ctx context.Context, cdnType CdnType, enabled bool) error
	ListStorageEntities(ctx context.Context, appCatalogURL string) (map[string]StorageEntity, error)
	GetStorageEntity(ctx context.Context, appCatalogURL, key string) (*StorageEntity, error)
	SetStorageEntity(ctx context.Context, appCatalogURL string, entity StorageEntity) error
	RemoveStorageEntity(ctx context.Context, appCatalogURL, key string) error
	ListExternalUsers(ctx context.Context, query ExternalUserQuery) (*ExternalUserPage, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenProvider supplies a bearer token for the given resource
// (scheme://host of the target site).
type TokenProvider interface {
	AccessToken(ctx context.Context, resource string) (string, error)
}

type ClientConfig struct {
	// SiteURL is the connected site, normally the tenant admin site.
	SiteURL string
	Tokens  TokenProvider
	// RequestsPerSecond paces outgoing requests; zero or negative disables
	// pacing.
	RequestsPerSecond float64
	UserAgent         string
	HTTPClient        httpDoer
}

var _ Client = (*HTTPClient)(nil)

type HTTPClient struct {
	siteURL    string
	tokens     TokenProvider
	userAgent  string
	clientTag  string
	limiter    *rate.Limiter
	httpClient httpDoer
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	siteURL := strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/")
	if siteURL == "" {
		return nil, errors.New("site URL is required")
	}
	parsed, err := url.Parse(siteURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid site URL %q", cfg.SiteURL)
	}
	if cfg.Tokens == nil {
		return nil, errors.New("token provider is required")
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &HTTPClient{
		siteURL:    siteURL,
		tokens:     cfg.Tokens,
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		clientTag:  "office365-cli:" + uuid.NewString()[:8],
		limiter:    limiter,
		httpClient: doer,
	}, nil
}

// SiteURL returns the site this client was created for.
func (c *HTTPClient) SiteURL() string {
	return c.siteURL
}

type contextWebInformation struct {
	FormDigestValue          string `json:"FormDigestValue"`
	FormDigestTimeoutSeconds int    `json:"FormDigestTimeoutSeconds"`
	WebFullURL               string `json:"WebFullUrl"`
}

// RequestDigest fetches a fresh request digest from the given site. The
// digest is short-lived and fetched immediately before the mutating call it
// protects, never cached across commands.
func (c *HTTPClient) RequestDigest(ctx context.Context, siteURL string) (string, error) {
	body, err := c.doRequest(ctx, http.MethodPost, siteURL+contextInfoPath, "", "")
	if err != nil {
		return "", fmt.Errorf("fetch request digest: %w", err)
	}

	var info contextWebInformation
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("decode request digest response: %w", err)
	}
	if info.FormDigestValue == "" {
		return "", errors.New("request digest response contained no FormDigestValue")
	}
	return info.FormDigestValue, nil
}

// ProcessQuery posts a client.svc ProcessQuery envelope to the connected
// site and returns the parsed JSON array with the header element already
// checked for ErrorInfo.
func (c *HTTPClient) ProcessQuery(ctx context.Context, envelope string) ([]json.RawMessage, error) {
	return c.processQuery(ctx, c.siteURL, envelope, false)
}

// ProcessQueryWithDigest fetches a request digest from the target site and
// posts the envelope with it. Used by every mutating call.
func (c *HTTPClient) ProcessQueryWithDigest(ctx context.Context, siteURL, envelope string) ([]json.RawMessage, error) {
	return c.processQuery(ctx, siteURL, envelope, true)
}

func (c *HTTPClient) processQuery(ctx context.Context, siteURL, envelope string, withDigest bool) ([]json.RawMessage, error) {
	digest := ""
	if withDigest {
		var err error
		digest, err = c.RequestDigest(ctx, siteURL)
		if err != nil {
			return nil, err
		}
	}

	body, err := c.doRequest(ctx, http.MethodPost, siteURL+processQueryPath, envelope, digest)
	if err != nil {
		return nil, err
	}
	return parseProcessQueryResponse(body)
}

// GetJSON issues a REST GET against the given absolute URL and decodes the
// odata=nometadata response into out.
func (c *HTTPClient) GetJSON(ctx context.Context, requestURL string, out any) error {
	body, err := c.doRequest(ctx, http.MethodGet, requestURL, "", "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", requestURL, err)
	}
	return nil
}

func (c *HTTPClient) doRequest(ctx context.Context, method, requestURL, xmlBody, digest string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for request slot: %w", err)
		}
	}

	var bodyReader io.Reader
	if xmlBody != "" {
		bodyReader = bytes.NewReader([]byte(xmlBody))
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request %s %s: %w", method, requestURL, err)
	}

	resource, err := resourceForURL(requestURL)
	if err != nil {
		return nil, err
	}
	token, err := c.tokens.AccessToken(ctx, resource)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json;odata=nometadata")
	req.Header.Set("X-ClientService-ClientTag", c.clientTag)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if xmlBody != "" {
		req.Header.Set("Content-Type", "text/xml")
	}
	if digest != "" {
		req.Header.Set("X-RequestDigest", digest)
	}

	log.Debug().
		Str("method", method).
		Str("url", requestURL).
		Bool("digest", digest != "").
		Msg("sharepoint request")
	log.Trace().Str("body", xmlBody).Msg("sharepoint request body")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s failed: %w", method, requestURL, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s %s: %w", method, requestURL, err)
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Str("url", requestURL).
		Msg("sharepoint response")
	log.Trace().Str("body", string(responseBody)).Msg("sharepoint response body")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		preview := responseBody
		if len(preview) > 4096 {
			preview = preview[:4096]
		}
		return nil, fmt.Errorf(
			"request %s %s failed with status %d: %s",
			method,
			requestURL,
			resp.StatusCode,
			strings.TrimSpace(string(preview)),
		)
	}

	return responseBody, nil
}

func resourceForURL(requestURL string) (string, error) {
	parsed, err := url.Parse(requestURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid request URL %q", requestURL)
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}
