package tenanturl

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const adminHostSuffix = "-admin.sharepoint.com"

// Normalize validates a SharePoint Online site URL and returns it in
// scheme://host form without a trailing slash.
func Normalize(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", errors.New("site URL is required")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse site URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "https" {
		return "", fmt.Errorf("site URL %q must use https", rawURL)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid site URL %q", rawURL)
	}

	return "https://" + strings.ToLower(parsed.Host) + strings.TrimSuffix(parsed.Path, "/"), nil
}

// IsAdminSite reports whether the URL points at the tenant admin site
// (https://<tenant>-admin.sharepoint.com).
func IsAdminSite(siteURL string) bool {
	parsed, err := url.Parse(strings.TrimSpace(siteURL))
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(parsed.Hostname()), adminHostSuffix)
}

// AdminSiteFor derives the tenant admin site URL from any site URL in the
// same tenant.
func AdminSiteFor(siteURL string) (string, error) {
	normalized, err := Normalize(siteURL)
	if err != nil {
		return "", err
	}
	if IsAdminSite(normalized) {
		return Resource(normalized)
	}

	parsed, _ := url.Parse(normalized)
	host := parsed.Hostname()
	tenant, ok := strings.CutSuffix(host, ".sharepoint.com")
	if !ok {
		return "", fmt.Errorf("cannot derive admin site from %q: not a *.sharepoint.com host", siteURL)
	}
	return "https://" + tenant + adminHostSuffix, nil
}

// Resource returns the scheme://host part of a site URL, the unit access
// tokens are scoped to.
func Resource(siteURL string) (string, error) {
	normalized, err := Normalize(siteURL)
	if err != nil {
		return "", err
	}
	parsed, _ := url.Parse(normalized)
	return "https://" + parsed.Host, nil
}
