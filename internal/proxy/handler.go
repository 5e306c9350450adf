package proxy

import (
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"

	"github.com/simplyzetax/selva/internal/relay"
	"github.com/simplyzetax/selva/internal/upstream"
)

// TokenCookie is the cookie holding the browser's bearer token
const TokenCookie = "jwt"

// Forwarder relays a browser request 1:1 to an upstream path. Method, body,
// status code and content type pass through untouched; the jwt cookie is
// turned into a bearer header and the browser's other cookies are dropped.
type Forwarder struct {
	BaseURL      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Observer     upstream.Observer
}

// To returns a handler forwarding to pathTemplate. Segments of the form
// ":name" are filled from the route parameter of the same name.
func (f *Forwarder) To(pathTemplate string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := expand(pathTemplate, c)

		// Build upstream URL with path and query parameters
		upstreamURL := f.BaseURL + path
		if qs := c.Request().URI().QueryString(); len(qs) > 0 {
			upstreamURL += "?" + string(qs)
		}

		token := strings.Clone(c.Cookies(TokenCookie))
		c.Request().Header.Del(fiber.HeaderCookie)
		c.Request().Header.Del(fiber.HeaderAuthorization)
		if token != "" {
			c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}

		method := c.Method()
		start := time.Now()

		// Proxy the request to the upstream server
		if err := proxy.DoTimeout(c, upstreamURL, f.timeoutFor(method)); err != nil {
			f.observe(method, 0, time.Since(start))
			log.Warnf("Upstream %s %s failed: %v", method, path, err)
			c.Response().Reset()
			return relay.Send(c, relay.Unreachable(err))
		}

		status := c.Response().StatusCode()
		f.observe(method, status, time.Since(start))
		log.Debugf("Upstream %s %s -> %d (%s)", method, path, status, time.Since(start).Round(time.Millisecond))
		return nil
	}
}

func (f *Forwarder) timeoutFor(method string) time.Duration {
	if method == fiber.MethodGet {
		return f.ReadTimeout
	}
	return f.WriteTimeout
}

func (f *Forwarder) observe(method string, status int, elapsed time.Duration) {
	if f.Observer != nil {
		f.Observer.ObserveUpstream(method, status, elapsed)
	}
}

func expand(pathTemplate string, c *fiber.Ctx) string {
	segments := strings.Split(pathTemplate, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, ":") {
			v := c.Params(strings.TrimPrefix(s, ":"))
			// params arrive still escaped
			if unescaped, err := url.PathUnescape(v); err == nil {
				v = unescaped
			}
			segments[i] = url.PathEscape(v)
		}
	}
	return strings.Join(segments, "/")
}
