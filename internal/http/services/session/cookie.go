package session

import (
	"net/http"
	"time"

	dto "github.com/dropDatabas3/orcidgate/internal/http/dto/session"
)

// BuildSessionCookie creates the session cookie carrying the opaque token.
func BuildSessionCookie(token string, config dto.CookieConfig) *http.Cookie {
	name := config.Name
	if name == "" {
		name = "sid"
	}

	ttl := config.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	sameSite := http.SameSiteLaxMode
	switch config.SameSite {
	case "Strict":
		sameSite = http.SameSiteStrictMode
	case "None":
		sameSite = http.SameSiteNoneMode
	case "Lax":
		sameSite = http.SameSiteLaxMode
	}

	return &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Domain:   config.Domain,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: sameSite,
	}
}

// BuildDeletionCookie creates the cookie that clears the session from
// the browser.
func BuildDeletionCookie(config dto.CookieConfig) *http.Cookie {
	name := config.Name
	if name == "" {
		name = "sid"
	}
	ck := BuildSessionCookie("", config)
	ck.Name = name
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0)
	return ck
}
