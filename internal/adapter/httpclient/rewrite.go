package httpclient

import "net/http"

// rewriteTransport runs between the cache layer and the wire. Failed GETs
// are marked no-store so a transient error is never cached as permanent.
type rewriteTransport struct {
	next http.RoundTripper
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 && req.Method == http.MethodGet {
		resp.Header.Set("Cache-Control", "no-store")
	}
	return resp, nil
}
