package common

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a URL for frontier dedup and document identity:
// the fragment is dropped, trailing slashes are stripped (except on the root
// path), and the host is lowercased. Scheme and query are preserved as-is.
// Normalization is idempotent.
func NormalizeURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("empty url")
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	for len(u.Path) > 1 && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String(), nil
}

// NormalizeDomain canonicalizes a bare domain: lowercased, surrounding
// whitespace and any port dropped.
func NormalizeDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	if host, _, ok := strings.Cut(d, ":"); ok {
		return host
	}
	return d
}

// URLHost returns the lowercased hostname (no port) of a URL, or "" when the
// URL cannot be parsed.
func URLHost(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// SameDomain reports whether host belongs to baseDomain: equal to it, or a
// subdomain of it (host ends with "."+baseDomain).
func SameDomain(host, baseDomain string) bool {
	h := NormalizeDomain(host)
	d := NormalizeDomain(baseDomain)
	if h == "" || d == "" {
		return false
	}
	return h == d || strings.HasSuffix(h, "."+d)
}

// ResolveLink resolves a discovered href against the page it appeared on and
// returns the normalized absolute URL. Relative paths and protocol-relative
// references are made absolute; anything that does not resolve to an HTTP or
// HTTPS URL comes back as "".
func ResolveLink(pageURL, href string) string {
	h := strings.TrimSpace(href)
	if h == "" {
		return ""
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(h)
	if err != nil {
		return ""
	}

	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}

	normalized, err := NormalizeURL(abs.String())
	if err != nil {
		return ""
	}
	return normalized
}
