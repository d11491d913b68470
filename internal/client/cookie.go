package client

import (
	"log/slog"
	"net/http"
	"net/url"
	"sync"
)

// CookieJar implements http.CookieJar for storing cookies in memory.
// Cookies are kept per host and replaced by name; a cookie with a negative
// MaxAge removes the stored one.
type CookieJar struct {
	log *slog.Logger
	mu  sync.Mutex
	jar map[string]map[string]*http.Cookie
}

// NewCookieJar initializes an in-memory cookie jar.
func NewCookieJar(log *slog.Logger) *CookieJar {
	return &CookieJar{
		jar: make(map[string]map[string]*http.Cookie),
		log: log,
		mu:  sync.Mutex{},
	}
}

// SetCookies stores cookies for a given URL.
func (c *CookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, ok := c.jar[u.Host]
	if !ok {
		stored = make(map[string]*http.Cookie)
		c.jar[u.Host] = stored
	}

	for _, cookie := range cookies {
		if cookie.MaxAge < 0 {
			delete(stored, cookie.Name)
			continue
		}
		stored[cookie.Name] = cookie
	}
	c.log.Debug("Set cookies", "host", u.Host, "count", len(cookies))
}

// Cookies retrieves cookies for a given URL.
func (c *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := c.jar[u.Host]
	if len(stored) == 0 {
		return nil
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, cookie := range stored {
		cookies = append(cookies, cookie)
	}

	return cookies
}
