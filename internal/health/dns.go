package health

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrNoAddress is returned for a host whose lookup succeeded but yielded no
// IPv4 address.
var ErrNoAddress = errors.New("health: no IPv4 address")

// Resolver is the subset of *net.Resolver used by CheckDNS, so tests can
// substitute canned answers.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// HostResult is the outcome of resolving one host.
type HostResult struct {
	Host string
	Addr string // first IPv4 address; empty on failure
	Err  error
}

// OK reports whether the host resolved.
func (h HostResult) OK() bool { return h.Err == nil }

// DNSResult holds one HostResult per host, in the order they were checked.
type DNSResult struct {
	Hosts []HostResult
}

// OK is true only if every host resolved.
func (r DNSResult) OK() bool {
	for _, h := range r.Hosts {
		if !h.OK() {
			return false
		}
	}
	return true
}

// CheckDNS resolves each host to an IPv4 address. A failing host does not stop
// the remaining lookups. No per-lookup deadline is applied; the platform
// resolver's own timeout is the only bound. A nil r means net.DefaultResolver.
func CheckDNS(ctx context.Context, r Resolver, hosts []string) DNSResult {
	res := DNSResult{Hosts: make([]HostResult, 0, len(hosts))}
	for _, host := range hosts {
		res.Hosts = append(res.Hosts, ResolveHost(ctx, r, host))
	}
	return res
}

// ResolveHost looks up a single host. Callers that must record each outcome
// as soon as it is known loop over ResolveHost instead of using CheckDNS.
func ResolveHost(ctx context.Context, r Resolver, host string) HostResult {
	if r == nil {
		r = net.DefaultResolver
	}
	addr, err := lookupIPv4(ctx, r, host)
	return HostResult{Host: host, Addr: addr, Err: err}
}

func lookupIPv4(ctx context.Context, r Resolver, host string) (string, error) {
	ips, err := r.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", err
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	return "", fmt.Errorf("%w for %s", ErrNoAddress, host)
}
