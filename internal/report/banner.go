package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"devhealth/internal/health"
)

const (
	bannerTitle = "================= DEVCONTAINER HEALTH (Lab 4) ================="
	bannerRule  = "==============================================================="
)

// Banner is everything the status file shows.
type Banner struct {
	Time        time.Time
	DNS         bool
	Net         bool
	Overall     bool
	Packages    []health.PackageResult
	DetailsHint string // log location shown to the student
}

// RenderBanner lays out b as the lines of the status file.
func RenderBanner(b Banner) []string {
	lines := []string{
		bannerTitle,
		"Time (UTC): " + Timestamp(b.Time),
		"DNS resolution: " + passFail(b.DNS),
		"Internet reachability: " + passFail(b.Net),
		"Required Python packages:",
	}
	for _, p := range b.Packages {
		state := "MISSING"
		if p.Present {
			state = "OK"
		}
		lines = append(lines, fmt.Sprintf("  - %s: %s", p.Name, state))
	}
	status := "NOT READY ❌"
	if b.Overall {
		status = "READY ✅"
	}
	lines = append(lines,
		"Overall status: "+status,
		"Details: "+b.DetailsHint,
		bannerRule,
	)
	return lines
}

// WriteBanner truncates path and writes lines, one per line.
func WriteBanner(path string, lines []string) error {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(strings.TrimRight(l, " \t\r\n"))
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("report: writing banner %s: %w", path, err)
	}
	return nil
}

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}
