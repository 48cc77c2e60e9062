// Command healthcheck verifies that the Lab 4 dev container is ready: DNS
// resolves, the internet is reachable and the required Python packages are
// installed. Results go to /workspace/logs/devcontainer_health.log (marker
// lines for grading) and /workspace/logs/DEVCONTAINER_STATUS.txt (banner).
//
// Usage:
//
//	healthcheck [-deep]
//
// Without -deep the command always exits 0 so it never blocks container
// creation. With -deep it exits 1 when any check fails. Unrecognised
// arguments are ignored so they can never turn an advisory run into a failure.
//
// Example (in devcontainer.json):
//
//	"postCreateCommand": "healthcheck -deep"
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"slices"

	"devhealth/internal/config"
	"devhealth/internal/runner"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	deep, err := parseDeep(os.Args[1:])
	if err != nil {
		slog.Warn("ignoring unrecognised arguments", "args", os.Args[1:], "error", err, "deep", deep)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid built-in configuration", "error", err)
		os.Exit(1)
	}

	out, err := runner.New(cfg).Run(context.Background(), deep)
	if err != nil {
		// Without a writable log directory the probe has nothing to report to.
		slog.Error("health check aborted", "error", err)
		os.Exit(1)
	}

	os.Exit(out.ExitCode)
}

// parseDeep reports whether deep mode was requested. A parse error is returned
// for logging only; the mode then falls back to an exact "-deep"/"--deep"
// argument anywhere in args.
func parseDeep(args []string) (bool, error) {
	fs := flag.NewFlagSet("healthcheck", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	deep := fs.Bool("deep", false, "exit nonzero when any check fails")
	if err := fs.Parse(args); err != nil {
		return hasDeep(args), err
	}
	// Parsing stops at the first positional argument.
	return *deep || hasDeep(fs.Args()), nil
}

func hasDeep(args []string) bool {
	return slices.Contains(args, "--deep") || slices.Contains(args, "-deep")
}
