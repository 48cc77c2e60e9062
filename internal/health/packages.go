package health

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Finder reports whether a named module can be imported, without importing it.
type Finder interface {
	Find(ctx context.Context, name string) (bool, error)
}

// findSpec exits 0 when the module is locatable and 1 when it is not. A dotted
// name with a missing parent raises ModuleNotFoundError, which also exits 1.
const findSpec = "import importlib.util, sys; sys.exit(0 if importlib.util.find_spec(sys.argv[1]) else 1)"

// PythonFinder asks a Python interpreter whether a package is installed.
type PythonFinder struct {
	Interpreter string // e.g. "python3"; resolved through PATH
}

// Find runs importlib.util.find_spec for name in a child interpreter.
// A non-nil error means the question could not be answered at all.
func (f PythonFinder) Find(ctx context.Context, name string) (bool, error) {
	out, err := exec.CommandContext(ctx, f.Interpreter, "-c", findSpec, name).CombinedOutput()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return false, fmt.Errorf("health: %s find_spec %q: %w (%s)", f.Interpreter, name, err, msg)
	}
	return false, fmt.Errorf("health: %s find_spec %q: %w", f.Interpreter, name, err)
}

// PackageResult is the outcome for one required package.
type PackageResult struct {
	Name    string
	Present bool
	Err     error // set when the finder itself failed; Present is then false
}

// PackagesResult holds one PackageResult per required package, in list order.
type PackagesResult struct {
	Packages []PackageResult
}

// OK is true only if every package is present.
func (r PackagesResult) OK() bool {
	for _, p := range r.Packages {
		if !p.Present {
			return false
		}
	}
	return true
}

// CheckPackages queries f for each name. An absent package or a finder error
// marks that package missing but does not stop the remaining queries.
func CheckPackages(ctx context.Context, f Finder, names []string) PackagesResult {
	res := PackagesResult{Packages: make([]PackageResult, 0, len(names))}
	for _, name := range names {
		res.Packages = append(res.Packages, FindPackage(ctx, f, name))
	}
	return res
}

// FindPackage queries f for a single name.
func FindPackage(ctx context.Context, f Finder, name string) PackageResult {
	present, err := f.Find(ctx, name)
	return PackageResult{Name: name, Present: present && err == nil, Err: err}
}
