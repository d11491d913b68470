package client

import (
	"log/slog"
	"net/http"
	"time"
)

// CreateHTTPClient initializes an HTTP client with a custom cookie jar.
// The tasks API sets no cookies itself; the jar keeps affinity cookies of a
// load balancer in front of it. A zero timeout leaves requests unbounded.
func CreateHTTPClient(log *slog.Logger, timeout time.Duration) *http.Client {
	jar := NewCookieJar(log)

	return &http.Client{
		Jar:     jar,
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, _ []*http.Request) error {
			log.Debug("Redirected to URL", "URL", req.URL)

			return nil
		},
	}
}
