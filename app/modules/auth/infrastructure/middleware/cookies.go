package authmiddleware

import (
	"net/http"
	"time"
)

const (
	StateCookieName = "oauth_state"
	stateCookiePath = "/auth"
)

// Cookies writes the session and OAuth state cookies.
// Both are SameSite=Lax: the OAuth callback arrives as a cross-site navigation from discord.com.
type Cookies struct {
	SessionName string
	Secure      bool
}

// SetSession stores the raw session token until expires.
func (c Cookies) SetSession(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.SessionName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession expires the session cookie.
func (c Cookies) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.SessionName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionToken reads the session cookie, or "" when absent.
func (c Cookies) SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(c.SessionName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetState pins the login nonce for ttl.
func (c Cookies) SetState(w http.ResponseWriter, nonce string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    nonce,
		Path:     stateCookiePath,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearState removes the nonce cookie after the callback.
func (c Cookies) ClearState(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     stateCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// StateNonce reads the nonce cookie, or "" when absent.
func (c Cookies) StateNonce(r *http.Request) string {
	cookie, err := r.Cookie(StateCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
