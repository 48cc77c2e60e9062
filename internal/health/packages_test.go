package health_test

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devhealth/internal/health"
)

func TestCheckPackages_Present(t *testing.T) {
	f := fakeFinder{present: map[string]bool{"requests": true}}

	res := health.CheckPackages(context.Background(), f, []string{"requests"})

	assert.True(t, res.OK())
	require.Len(t, res.Packages, 1)
	assert.Equal(t, "requests", res.Packages[0].Name)
	assert.True(t, res.Packages[0].Present)
}

func TestCheckPackages_MissingDoesNotShortCircuit(t *testing.T) {
	f := fakeFinder{present: map[string]bool{"rich": true}}

	res := health.CheckPackages(context.Background(), f, []string{"requests", "rich"})

	assert.False(t, res.OK())
	require.Len(t, res.Packages, 2, "every package must be checked")
	assert.False(t, res.Packages[0].Present)
	assert.NoError(t, res.Packages[0].Err)
	assert.True(t, res.Packages[1].Present)
}

func TestCheckPackages_FinderErrorCountsAsMissing(t *testing.T) {
	f := fakeFinder{err: errors.New("interpreter crashed")}

	res := health.CheckPackages(context.Background(), f, []string{"requests"})

	assert.False(t, res.OK())
	assert.False(t, res.Packages[0].Present)
	assert.Error(t, res.Packages[0].Err)
}

func TestPythonFinder(t *testing.T) {
	python, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not on PATH")
	}
	f := health.PythonFinder{Interpreter: python}

	ok, err := f.Find(context.Background(), "json")
	require.NoError(t, err)
	assert.True(t, ok, "the json stdlib module is always locatable")

	ok, err = f.Find(context.Background(), "surely_not_an_installed_module_zz")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.Find(context.Background(), "surely_not_a_parent_zz.child")
	require.NoError(t, err, "a missing parent package is an absence, not a failure")
	assert.False(t, ok)
}

func TestPythonFinder_MissingInterpreter(t *testing.T) {
	f := health.PythonFinder{Interpreter: "definitely-not-a-python-zz"}

	ok, err := f.Find(context.Background(), "requests")

	assert.False(t, ok)
	require.Error(t, err)
	assert.Equal(t, health.KindExec, health.Classify(err).Kind)
}

// ── helpers ──────────────────────────────────────────────────────────────────

type fakeFinder struct {
	present map[string]bool
	err     error
}

func (f fakeFinder) Find(_ context.Context, name string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.present[name], nil
}

func TestFindPackage_Single(t *testing.T) {
	f := fakeFinder{present: map[string]bool{"requests": true}}

	assert.True(t, health.FindPackage(context.Background(), f, "requests").Present)
	assert.False(t, health.FindPackage(context.Background(), f, "rich").Present)
}
