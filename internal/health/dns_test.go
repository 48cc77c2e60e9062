package health_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devhealth/internal/health"
)

func TestCheckDNS_AllResolve(t *testing.T) {
	r := fakeResolver{
		answers: map[string][]net.IP{
			"github.com": {net.ParseIP("140.82.112.3")},
			"pypi.org":   {net.ParseIP("151.101.0.223")},
		},
	}

	res := health.CheckDNS(context.Background(), r, []string{"github.com", "pypi.org"})

	assert.True(t, res.OK())
	require.Len(t, res.Hosts, 2)
	assert.Equal(t, "140.82.112.3", res.Hosts[0].Addr)
	assert.Equal(t, "151.101.0.223", res.Hosts[1].Addr)
}

func TestCheckDNS_OneFailure_DoesNotShortCircuit(t *testing.T) {
	r := fakeResolver{
		answers: map[string][]net.IP{
			"github.com":         {net.ParseIP("140.82.112.3")},
			"icanhazdadjoke.com": {net.ParseIP("104.21.37.176")},
			"deckofcardsapi.com": {net.ParseIP("172.67.189.14")},
		},
		errs: map[string]error{
			"pypi.org": &net.DNSError{Err: "no such host", Name: "pypi.org", IsNotFound: true},
		},
	}
	hosts := []string{"github.com", "pypi.org", "icanhazdadjoke.com", "deckofcardsapi.com"}

	res := health.CheckDNS(context.Background(), r, hosts)

	assert.False(t, res.OK())
	require.Len(t, res.Hosts, 4, "every host must be attempted")
	for i, h := range res.Hosts {
		assert.Equal(t, hosts[i], h.Host, "results must follow host-list order")
	}
	assert.True(t, res.Hosts[0].OK())
	assert.False(t, res.Hosts[1].OK())
	assert.Empty(t, res.Hosts[1].Addr)
	assert.Equal(t, health.KindNotFound, health.Classify(res.Hosts[1].Err).Kind)
	assert.True(t, res.Hosts[2].OK())
	assert.True(t, res.Hosts[3].OK())
}

func TestCheckDNS_PrefersIPv4(t *testing.T) {
	r := fakeResolver{answers: map[string][]net.IP{
		"github.com": {net.ParseIP("2606:50c0:8000::153"), net.ParseIP("140.82.112.3")},
	}}

	res := health.CheckDNS(context.Background(), r, []string{"github.com"})

	require.True(t, res.OK())
	assert.Equal(t, "140.82.112.3", res.Hosts[0].Addr)
}

func TestCheckDNS_OnlyIPv6_Fails(t *testing.T) {
	r := fakeResolver{answers: map[string][]net.IP{
		"v6.example": {net.ParseIP("2001:db8::1")},
	}}

	res := health.CheckDNS(context.Background(), r, []string{"v6.example"})

	assert.False(t, res.OK())
	assert.True(t, errors.Is(res.Hosts[0].Err, health.ErrNoAddress))
}

func TestCheckDNS_AsksForIPv4(t *testing.T) {
	r := &recordingResolver{}
	health.CheckDNS(context.Background(), r, []string{"pypi.org"})
	assert.Equal(t, []string{"ip4"}, r.networks)
}

// ── helpers ──────────────────────────────────────────────────────────────────

type fakeResolver struct {
	answers map[string][]net.IP
	errs    map[string]error
}

func (f fakeResolver) LookupIP(_ context.Context, _, host string) ([]net.IP, error) {
	if err, ok := f.errs[host]; ok {
		return nil, err
	}
	if ips, ok := f.answers[host]; ok {
		return ips, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
}

type recordingResolver struct {
	networks []string
}

func (r *recordingResolver) LookupIP(_ context.Context, network, _ string) ([]net.IP, error) {
	r.networks = append(r.networks, network)
	return []net.IP{net.IPv4(127, 0, 0, 1)}, nil
}

func TestResolveHost_Single(t *testing.T) {
	r := fakeResolver{answers: map[string][]net.IP{"pypi.org": {net.ParseIP("151.101.0.223")}}}

	ok := health.ResolveHost(context.Background(), r, "pypi.org")
	assert.True(t, ok.OK())
	assert.Equal(t, "151.101.0.223", ok.Addr)

	bad := health.ResolveHost(context.Background(), r, "nope.invalid")
	assert.False(t, bad.OK())
	assert.Equal(t, "nope.invalid", bad.Host)
}
