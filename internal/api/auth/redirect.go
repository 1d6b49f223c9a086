package auth

import (
	"net/http"
	"net/url"
	"strings"
)

// IsSafeRedirect reports whether target points back to the host r was sent to.
// Relative targets are resolved against the request's own URL.
func IsSafeRedirect(r *http.Request, target string) bool {
	if target == "" || strings.Contains(target, `\`) {
		return false
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	base := &url.URL{Scheme: scheme, Host: r.Host}

	u, err := base.Parse(target)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host == r.Host
}
