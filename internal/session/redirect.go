package session

import "strings"

// ResolveRedirect decides the post-login destination. Destinations already
// inside the application origin and root-relative paths pass through
// unchanged; anything else falls back to the client portal root. The origin
// check requires a path boundary after the base so a lookalike domain
// (base + ".evil.com") cannot pass.
func ResolveRedirect(rawURL, baseURL string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if rawURL != "" {
		if rawURL == base || strings.HasPrefix(rawURL, base+"/") {
			return rawURL
		}
		if strings.HasPrefix(rawURL, "/") && !strings.HasPrefix(rawURL, "//") {
			return rawURL
		}
	}
	return base + "/client"
}
