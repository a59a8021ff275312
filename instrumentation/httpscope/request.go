package httpscope

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/seancfoley/ipaddress-go/ipaddr"
)

// Request is the per-request data bound by the middleware.
type Request struct {
	URL           string
	Method        string
	Query         map[string][]string
	Headers       map[string][]string
	Cookies       map[string]string
	RemoteAddress string
	Source        string

	path    string
	ip      *ipaddr.IPAddress
	routing *chi.Context
}

// NewRequest captures r. When r is being served by a chi router, Route and
// RouteParams follow the router's matching state.
func NewRequest(r *http.Request) *Request {
	req := &Request{
		URL:     fullURL(r),
		Method:  r.Method,
		Query:   r.URL.Query(),
		Headers: headersToMap(r.Header),
		Cookies: cookiesToMap(r.Cookies()),
		Source:  "net/http",
		path:    r.URL.Path,
		routing: chi.RouteContext(r.Context()),
	}
	if req.routing != nil {
		req.Source = "chi"
	}

	req.RemoteAddress, req.ip = remoteAddress(r)
	return req
}

// Route returns the matched chi route pattern, or the URL path when there
// is no pattern (yet).
func (r *Request) Route() string {
	if r.routing != nil {
		if pattern := r.routing.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.path
}

func (r *Request) RouteParams() map[string]string {
	if r.routing == nil {
		return nil
	}

	params := make(map[string]string, len(r.routing.URLParams.Keys))
	for i, key := range r.routing.URLParams.Keys {
		if key == "*" || i >= len(r.routing.URLParams.Values) {
			continue
		}
		params[key] = r.routing.URLParams.Values[i]
	}
	return params
}

func (r *Request) GetUserAgent() string {
	if r.Headers != nil && len(r.Headers["user-agent"]) > 0 {
		return r.Headers["user-agent"][0]
	}
	return "unknown"
}

// IsLocalhost reports whether the request came from a loopback address.
func (r *Request) IsLocalhost() bool {
	return r.ip != nil && r.ip.IsLoopback()
}

func remoteAddress(r *http.Request) (string, *ipaddr.IPAddress) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return "0.0.0.0", nil
	}

	addr, addrErr := ipaddr.NewIPAddressString(host).ToAddress()
	if addrErr != nil || addr == nil {
		return "0.0.0.0", nil
	}
	return addr.ToCanonicalString(), addr
}

func headersToMap(headers http.Header) map[string][]string {
	headerInfo := make(map[string][]string)
	for key, values := range headers {
		if strings.ToLower(key) == "cookie" {
			continue // Cookies are extracted separately.
		}
		headerInfo[strings.ToLower(key)] = values
	}
	return headerInfo
}

func cookiesToMap(cookies []*http.Cookie) map[string]string {
	cookieInfo := make(map[string]string)
	for _, cookie := range cookies {
		cookieInfo[cookie.Name] = cookie.Value
	}
	return cookieInfo
}

func fullURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL.RequestURI())
}
