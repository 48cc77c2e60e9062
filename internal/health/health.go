// Package health implements the three readiness checks run inside the lab dev
// container: DNS resolution, outbound HTTP reachability and Python package
// presence.
//
// Checks never return errors. Every failure is captured in the check's result
// type so the caller can record it and carry on with the next check.
package health

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"os/exec"
	"strings"
)

// Failure kinds reported in the "err=<kind>:<message>" field of a marker line.
const (
	KindTimeout    = "timeout"
	KindCanceled   = "canceled"
	KindNotFound   = "not_found"
	KindDNS        = "dns"
	KindTLS        = "tls"
	KindConnection = "connection"
	KindExec       = "exec"
	KindHTTPStatus = "http_status"
	KindOther      = "error"
)

// Failure is the diagnostic detail attached to a failed measurement.
type Failure struct {
	Kind    string
	Message string
}

// String renders the failure as "<kind>:<message>".
func (f Failure) String() string { return f.Kind + ":" + f.Message }

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Classify maps err to a Failure. The message is flattened to a single line.
func Classify(err error) Failure {
	return Failure{Kind: kindOf(err), Message: lineBreaks.Replace(err.Error())}
}

func kindOf(err error) string {
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return KindNotFound
		}
		return KindDNS
	}

	var (
		certErr   *tls.CertificateVerificationError
		recordErr tls.RecordHeaderError
		authErr   x509.UnknownAuthorityError
		hostErr   x509.HostnameError
	)
	if errors.As(err, &certErr) || errors.As(err, &recordErr) ||
		errors.As(err, &authErr) || errors.As(err, &hostErr) {
		return KindTLS
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) || errors.Is(err, exec.ErrNotFound) {
		return KindExec
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}
	return KindOther
}
