// Package urlutil normalizes article URLs into the stable form used as the
// catalog's natural key.
package urlutil

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Tracking parameters stripped during canonicalization.
var trackingParams = map[string]bool{
	"fbclid":  true,
	"gclid":   true,
	"igshid":  true,
	"mc_cid":  true,
	"mc_eid":  true,
	"ref":     true,
	"ref_src": true,
	"spm":     true,
	"yclid":   true,
	"_hsenc":  true,
	"_hsmi":   true,
	"mkt_tok": true,
}

// Canonicalize normalizes raw into the lookup key form: lowercased scheme and
// host, default ports and fragments removed, tracking query parameters
// dropped, redundant path segments resolved.
func Canonicalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty url")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("url %q is not absolute", trimmed)
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""

	host := parsed.Host
	switch parsed.Scheme {
	case "http":
		host = strings.TrimSuffix(host, ":80")
	case "https":
		host = strings.TrimSuffix(host, ":443")
	}
	parsed.Host = host

	if parsed.Path != "" {
		cleaned := path.Clean(parsed.Path)
		if cleaned == "." {
			cleaned = ""
		}
		if strings.HasSuffix(parsed.Path, "/") && cleaned != "/" && cleaned != "" {
			cleaned += "/"
		}
		parsed.Path = cleaned
	}

	if parsed.RawQuery != "" {
		parsed.RawQuery = stripTracking(parsed.RawQuery)
	}
	return parsed.String(), nil
}

// stripTracking drops tracking parameters while preserving the order of the
// remaining ones.
func stripTracking(rawQuery string) string {
	parts := strings.Split(rawQuery, "&")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		name := part
		if idx := strings.IndexByte(part, '='); idx >= 0 {
			name = part[:idx]
		}
		decoded, err := url.QueryUnescape(name)
		if err != nil {
			decoded = name
		}
		decoded = strings.ToLower(decoded)
		if trackingParams[decoded] || strings.HasPrefix(decoded, "utm_") {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "&")
}

// Domain returns the URL host with one leading "www." label removed. Invalid
// or relative URLs yield "".
func Domain(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}
