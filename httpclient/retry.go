package httpclient

import (
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

var retryStatuses = map[int]bool{
	http.StatusRequestTimeout:        true,
	http.StatusRequestEntityTooLarge: true,
	http.StatusTooManyRequests:       true,
	http.StatusInternalServerError:   true,
	http.StatusBadGateway:            true,
	http.StatusServiceUnavailable:    true,
	http.StatusGatewayTimeout:        true,
}

var retryMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPut:     true,
	http.MethodHead:    true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

// maxRetryAfter caps how long a Retry-After header may hold a request.
const maxRetryAfter = 5 * time.Second

// RetryTransport re-sends idempotent requests that failed with a transient
// status, up to Limit extra attempts. The only delay is a server-supplied
// Retry-After.
type RetryTransport struct {
	Base  http.RoundTripper
	Limit int
}

func (t *RetryTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Limit <= 0 || !retryMethods[req.Method] {
		return t.base().RoundTrip(req)
	}

	for attempt := 0; ; attempt++ {
		resp, err := t.base().RoundTrip(req)
		if err != nil || !retryStatuses[resp.StatusCode] || attempt >= t.Limit {
			return resp, err
		}

		retryReq, ok := rewind(req)
		if !ok {
			return resp, nil
		}
		wait := retryAfter(resp)
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()

		log.Printf("retrying %s %s after %d (attempt %d/%d)", req.Method, req.URL.Path, resp.StatusCode, attempt+1, t.Limit)
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-req.Context().Done():
				timer.Stop()
				return nil, req.Context().Err()
			case <-timer.C:
			}
		}
		req = retryReq
	}
}

// rewind returns a copy of req with a fresh body, or false when the body
// cannot be replayed.
func rewind(req *http.Request) (*http.Request, bool) {
	if req.Body == nil || req.Body == http.NoBody {
		return req, true
	}
	if req.GetBody == nil {
		return nil, false
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	clone := req.Clone(req.Context())
	clone.Body = body
	return clone, true
}

func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	var wait time.Duration
	if secs, err := strconv.Atoi(header); err == nil {
		wait = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(header); err == nil {
		wait = time.Until(at)
	}
	if wait < 0 {
		return 0
	}
	if wait > maxRetryAfter {
		return maxRetryAfter
	}
	return wait
}
