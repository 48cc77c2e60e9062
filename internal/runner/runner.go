// Package runner executes one readiness run: it performs the DNS, network and
// package checks in a fixed order, records every outcome to the journal,
// rewrites the banner and decides the process exit code.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"devhealth/internal/config"
	"devhealth/internal/health"
	"devhealth/internal/report"
)

// Option customises a Runner. The defaults talk to the real platform.
type Option func(*Runner)

// WithResolver replaces net.DefaultResolver for the DNS check.
func WithResolver(r health.Resolver) Option {
	return func(rn *Runner) { rn.resolver = r }
}

// WithHTTPClient replaces the probe client. Its Timeout is used as-is.
func WithHTTPClient(c *http.Client) Option {
	return func(rn *Runner) { rn.client = c }
}

// WithFinder replaces the Python interpreter query for the package check.
func WithFinder(f health.Finder) Option {
	return func(rn *Runner) { rn.finder = f }
}

// WithClock sets the time source for the start, end and banner timestamps.
func WithClock(now func() time.Time) Option {
	return func(rn *Runner) { rn.now = now }
}

// WithRunID fixes the run identifier written on the start marker.
func WithRunID(id string) Option {
	return func(rn *Runner) { rn.runID = id }
}

// WithLogger sets the operator logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(rn *Runner) { rn.log = l }
}

// Runner holds everything a single run needs. It is not reused across runs.
type Runner struct {
	cfg      config.Config
	resolver health.Resolver
	client   *http.Client
	probe    *health.Reachability
	finder   health.Finder
	now      func() time.Time
	runID    string
	log      *slog.Logger
}

// New builds a Runner for cfg.
func New(cfg config.Config, opts ...Option) *Runner {
	rn := &Runner{
		cfg:    cfg,
		finder: health.PythonFinder{Interpreter: cfg.Interpreter},
		now:    time.Now,
		runID:  uuid.New().String(),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(rn)
	}
	if rn.client == nil {
		rn.probe = health.NewReachability(cfg.ProbeURL, cfg.ParsedProbeTimeout())
	} else {
		rn.probe = health.NewReachabilityWithClient(cfg.ProbeURL, rn.client)
	}
	return rn
}

// Outcome is what a run measured and how the process should exit.
type Outcome struct {
	RunID    string
	DNS      health.DNSResult
	Net      health.NetResult
	Packages health.PackagesResult
	Summary  report.Summary
	ExitCode int
}

// ExitCode applies the exit policy: a failing run only exits nonzero when
// deep mode was requested.
func ExitCode(overall, deep bool) int {
	if overall || !deep {
		return 0
	}
	return 1
}

// Run performs the checks and writes both artifacts. Check failures are
// absorbed into the Outcome; only filesystem errors are returned.
func (rn *Runner) Run(ctx context.Context, deep bool) (Outcome, error) {
	if err := report.EnsureDir(rn.cfg.LogDir); err != nil {
		return Outcome{}, fmt.Errorf("runner: %w", err)
	}
	j := report.NewJournal(rn.cfg.LogPath(), rn.cfg.MarkerPrefix)

	if err := j.Start(rn.now(), deep); err != nil {
		return Outcome{}, fmt.Errorf("runner: %w", err)
	}
	rn.log.Info("health: run started", "run", rn.runID, "deep", deep, "log", j.Path())

	out := Outcome{RunID: rn.runID}
	var err error
	if out.DNS, err = rn.checkDNS(ctx, j); err != nil {
		return Outcome{}, err
	}
	if out.Net, err = rn.checkNet(ctx, j); err != nil {
		return Outcome{}, err
	}
	if out.Packages, err = rn.checkPackages(ctx, j); err != nil {
		return Outcome{}, err
	}

	out.Summary = report.Summary{
		DNS: out.DNS.OK(),
		Net: out.Net.OK(),
		Pkg: out.Packages.OK(),
	}
	out.Summary.Overall = out.Summary.DNS && out.Summary.Net && out.Summary.Pkg

	if err := j.Summary(out.Summary); err != nil {
		return Outcome{}, fmt.Errorf("runner: %w", err)
	}
	if err := j.End(rn.now()); err != nil {
		return Outcome{}, fmt.Errorf("runner: %w", err)
	}

	lines := report.RenderBanner(report.Banner{
		Time:        rn.now(),
		DNS:         out.Summary.DNS,
		Net:         out.Summary.Net,
		Overall:     out.Summary.Overall,
		Packages:    out.Packages.Packages,
		DetailsHint: rn.cfg.DetailsHint(),
	})
	if err := report.WriteBanner(rn.cfg.BannerPath(), lines); err != nil {
		return Outcome{}, fmt.Errorf("runner: %w", err)
	}

	out.ExitCode = ExitCode(out.Summary.Overall, deep)
	rn.log.Info("health: run finished",
		"run", rn.runID,
		"dns", out.Summary.DNS,
		"net", out.Summary.Net,
		"pkg", out.Summary.Pkg,
		"overall", out.Summary.Overall,
		"exit_code", out.ExitCode,
	)
	return out, nil
}

// checkDNS journals each host as soon as its lookup returns, so a run killed
// during a stalled lookup still leaves the earlier hosts on disk.
func (rn *Runner) checkDNS(ctx context.Context, j *report.Journal) (health.DNSResult, error) {
	res := health.DNSResult{Hosts: make([]health.HostResult, 0, len(rn.cfg.DNSHosts))}
	for _, host := range rn.cfg.DNSHosts {
		h := health.ResolveHost(ctx, rn.resolver, host)
		res.Hosts = append(res.Hosts, h)
		if !h.OK() {
			rn.log.Warn("health: host did not resolve", "host", h.Host, "error", h.Err)
		}
		if err := j.DNS(h); err != nil {
			return res, fmt.Errorf("runner: %w", err)
		}
	}
	return res, nil
}

func (rn *Runner) checkNet(ctx context.Context, j *report.Journal) (health.NetResult, error) {
	res := rn.probe.Check(ctx)
	if !res.OK() {
		rn.log.Warn("health: probe failed",
			"url", res.URL,
			"status", res.Status,
			"error", res.Failure().String(),
		)
	}
	if err := j.Net(res); err != nil {
		return res, fmt.Errorf("runner: %w", err)
	}
	return res, nil
}

func (rn *Runner) checkPackages(ctx context.Context, j *report.Journal) (health.PackagesResult, error) {
	res := health.PackagesResult{Packages: make([]health.PackageResult, 0, len(rn.cfg.Packages))}
	for _, name := range rn.cfg.Packages {
		p := health.FindPackage(ctx, rn.finder, name)
		res.Packages = append(res.Packages, p)
		if !p.Present {
			rn.log.Warn("health: package missing", "name", p.Name, "error", p.Err)
		}
		if err := j.Package(p); err != nil {
			return res, fmt.Errorf("runner: %w", err)
		}
	}
	return res, nil
}
