// Package report writes the two run artifacts: an append-only journal of
// marker lines for automated grading, and a banner file that is fully
// rewritten on every run for students to read.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"devhealth/internal/health"
)

// Marker names. Each journal line starts with "<prefix>_<marker>".
const (
	MarkerStart   = "HEALTH_START"
	MarkerDNSOK   = "DNS_OK"
	MarkerDNSFail = "DNS_FAIL"
	MarkerNetOK   = "NET_OK"
	MarkerNetFail = "NET_FAIL"
	MarkerPkgOK   = "PKG_OK"
	MarkerPkgFail = "PKG_FAIL"
	MarkerSummary = "HEALTH_SUMMARY"
	MarkerEnd     = "HEALTH_END"
)

// Summary is the aggregate of one run's three checks.
type Summary struct {
	DNS     bool
	Net     bool
	Pkg     bool
	Overall bool
}

// EnsureDir creates dir and any missing parents. An existing dir is not an error.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report: creating %s: %w", dir, err)
	}
	return nil
}

// Journal appends marker lines to a log file. The file is opened and closed
// for every line, so no handle is held between checks.
type Journal struct {
	path   string
	prefix string
}

// NewJournal returns a Journal writing to path with markers prefixed by prefix
// (e.g. "LAB4"). An empty prefix yields bare marker names.
func NewJournal(path, prefix string) *Journal {
	return &Journal{path: path, prefix: prefix}
}

// Path returns the journal file location.
func (j *Journal) Path() string { return j.path }

// Append writes line followed by a newline. Trailing whitespace is stripped.
// Existing content is never truncated.
func (j *Journal) Append(line string) error {
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("report: opening %s: %w", j.path, err)
	}
	if _, err := f.WriteString(strings.TrimRight(line, " \t\r\n") + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("report: appending to %s: %w", j.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("report: closing %s: %w", j.path, err)
	}
	return nil
}

func (j *Journal) event(marker, format string, args ...any) error {
	name := marker
	if j.prefix != "" {
		name = j.prefix + "_" + marker
	}
	return j.Append(name + " " + fmt.Sprintf(format, args...))
}

// Start records the beginning of a run.
func (j *Journal) Start(ts time.Time, deep bool) error {
	return j.event(MarkerStart, "ts=%s deep=%s", Timestamp(ts), PyBool(deep))
}

// DNS records the outcome for a single host.
func (j *Journal) DNS(h health.HostResult) error {
	if h.OK() {
		return j.event(MarkerDNSOK, "host=%s ip=%s", h.Host, h.Addr)
	}
	return j.event(MarkerDNSFail, "host=%s err=%s", h.Host, health.Classify(h.Err))
}

// Net records the reachability probe.
func (j *Journal) Net(r health.NetResult) error {
	switch {
	case r.OK():
		return j.event(MarkerNetOK, "status=%d", r.Status)
	case r.Err == nil:
		return j.event(MarkerNetFail, "status=%d err=%s", r.Status, r.Failure())
	default:
		return j.event(MarkerNetFail, "err=%s", r.Failure())
	}
}

// Package records the outcome for a single required package.
func (j *Journal) Package(p health.PackageResult) error {
	switch {
	case p.Present:
		return j.event(MarkerPkgOK, "name=%s", p.Name)
	case p.Err != nil:
		return j.event(MarkerPkgFail, "name=%s err=%s", p.Name, health.Classify(p.Err))
	default:
		return j.event(MarkerPkgFail, "name=%s", p.Name)
	}
}

// Summary records all three outcomes and their conjunction.
func (j *Journal) Summary(s Summary) error {
	return j.event(MarkerSummary, "dns=%s net=%s pkg=%s overall=%s",
		PyBool(s.DNS), PyBool(s.Net), PyBool(s.Pkg), PyBool(s.Overall))
}

// End records the end of a run.
func (j *Journal) End(ts time.Time) error {
	return j.event(MarkerEnd, "ts=%s", Timestamp(ts))
}

// Timestamp formats t in UTC as ISO-8601 with a literal "Z" suffix. Fractional
// seconds are given in microseconds and omitted when zero.
func Timestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format("2006-01-02T15:04:05Z07:00")
	}
	return t.Format("2006-01-02T15:04:05.000000Z07:00")
}

// PyBool renders b the way the grading scripts expect: "True" or "False".
func PyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
