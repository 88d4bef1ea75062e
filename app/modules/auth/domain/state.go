package authdomain

import (
	"net/url"
	"strings"
	"time"
)

// OAuthState is the payload signed into the OAuth state parameter.
type OAuthState struct {
	Nonce     string
	ReturnTo  string
	ExpiresAt time.Time
}

// SanitizeReturnTo keeps only local absolute paths. Anything that could leave the site,
// such as "//evil.example" or "https://...", becomes "/".
func SanitizeReturnTo(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	if strings.ContainsAny(raw, "\r\n") {
		return "/"
	}
	return raw
}
