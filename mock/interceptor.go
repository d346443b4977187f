package mock

import (
	"net/http"
	"net/http/httptest"
	"strings"
)

// APIPrefix is the path prefix the interceptor answers for.
const APIPrefix = "/api/"

// Interceptor is an http.RoundTripper that answers API requests from an
// in-process handler and passes everything else to Fallback.
type Interceptor struct {
	Handler  http.Handler
	Prefix   string
	Fallback http.RoundTripper
}

func NewInterceptor(handler http.Handler) *Interceptor {
	return &Interceptor{Handler: handler, Prefix: APIPrefix}
}

func (i *Interceptor) matches(req *http.Request) bool {
	prefix := i.Prefix
	if prefix == "" {
		prefix = APIPrefix
	}
	return strings.HasPrefix(req.URL.Path, prefix)
}

func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	if !i.matches(req) {
		fallback := i.Fallback
		if fallback == nil {
			fallback = http.DefaultTransport
		}
		return fallback.RoundTrip(req)
	}

	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	// The handler sees a server-side request. gin routes on URL.Path; RequestURI
	// is set as a real server would set it.
	inbound := req.Clone(req.Context())
	inbound.RequestURI = req.URL.RequestURI()
	if inbound.Body == nil {
		inbound.Body = http.NoBody
	}

	rec := httptest.NewRecorder()
	i.Handler.ServeHTTP(rec, inbound)

	resp := rec.Result()
	resp.Request = req
	return resp, nil
}
