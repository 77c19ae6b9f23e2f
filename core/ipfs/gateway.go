// Package ipfs rewrites IPFS content references into retrievable gateway URLs.
// Only URL rewriting lives here; the gateway itself is plain HTTP.
package ipfs

import (
	"regexp"
	"strings"
)

// DefaultGateway is the public gateway used when none is configured.
const DefaultGateway = "https://ipfs.io/ipfs/"

// DefaultPlaceholder is served for tracks without thumbnail art.
const DefaultPlaceholder = "https://via.placeholder.com/150"

// URIScheme is the IPFS URI scheme marker.
const URIScheme = "ipfs://"

// Raw content identifiers: 46 alphanumeric characters, or Qm followed by 44.
var cidPattern = regexp.MustCompile(`^(Qm[a-zA-Z0-9]{44}|[a-zA-Z0-9]{46})$`)

// IsCID reports whether s looks like a bare content identifier.
func IsCID(s string) bool {
	return cidPattern.MatchString(s)
}

// Normalize rewrites a raw media reference to an http(s) URL. Already-normalized
// URLs pass through unchanged, ipfs:// URIs have the scheme replaced with the
// gateway base, bare CIDs are prefixed with it, and anything else is returned
// as-is. Empty input stays empty. Normalize is idempotent.
func Normalize(raw, gateway string) string {
	if raw == "" {
		return ""
	}
	if gateway == "" {
		gateway = DefaultGateway
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	if strings.HasPrefix(raw, URIScheme) {
		return gateway + strings.TrimPrefix(raw, URIScheme)
	}
	if cidPattern.MatchString(raw) {
		return gateway + raw
	}
	return raw
}

// NormalizeThumbnail is Normalize with a placeholder fallback for missing art.
func NormalizeThumbnail(raw, gateway, placeholder string) string {
	if raw == "" {
		if placeholder == "" {
			return DefaultPlaceholder
		}
		return placeholder
	}
	return Normalize(raw, gateway)
}
