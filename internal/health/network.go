package health

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// NetResult is the outcome of the single reachability probe.
type NetResult struct {
	URL    string
	Status int // zero when no response was received
	Err    error
}

// OK is true when a response arrived with a status in [200, 400).
func (r NetResult) OK() bool {
	return r.Err == nil && r.Status >= 200 && r.Status < 400
}

// Failure describes why the probe failed. It must only be called when OK is false.
func (r NetResult) Failure() Failure {
	if r.Err != nil {
		return Classify(r.Err)
	}
	return Failure{
		Kind:    KindHTTPStatus,
		Message: fmt.Sprintf("%d %s", r.Status, http.StatusText(r.Status)),
	}
}

// Reachability probes one fixed URL with an HTTP HEAD request.
type Reachability struct {
	url    string
	client *http.Client
}

// NewReachability returns a probe for url whose request is bounded by timeout.
func NewReachability(url string, timeout time.Duration) *Reachability {
	return NewReachabilityWithClient(url, &http.Client{Timeout: timeout})
}

// NewReachabilityWithClient uses client as-is; its Timeout is the only bound
// on the request.
func NewReachabilityWithClient(url string, client *http.Client) *Reachability {
	return &Reachability{url: url, client: client}
}

// Timeout is the bound applied to the probe request.
func (p *Reachability) Timeout() time.Duration { return p.client.Timeout }

// Check sends exactly one HEAD request. There is no retry and no fallback host.
func (p *Reachability) Check(ctx context.Context) NetResult {
	res := NetResult{URL: p.url}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		res.Err = fmt.Errorf("health: building request for %s: %w", p.url, err)
		return res
	}

	resp, err := p.client.Do(req)
	if err != nil {
		res.Err = err
		return res
	}
	resp.Body.Close()

	res.Status = resp.StatusCode
	return res
}
