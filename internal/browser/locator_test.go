package browser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeExecutable(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	return path
}

func TestFindExplicitPathWins(t *testing.T) {
	path := fakeExecutable(t, "chrome")

	l := NewLocator(path)
	got, err := l.Find()
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestFindExplicitPathMissingFallsThrough(t *testing.T) {
	// Explicit path doesn't exist and PATH is empty, so with no well-known
	// install present the locator must report not found rather than
	// returning the bogus override.
	t.Setenv("PATH", t.TempDir())

	l := &Locator{ExplicitPath: "/nonexistent/chrome", goos: "testos"}
	withPlatform(t, "testos", platform{})

	_, err := l.Find()
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFindCandidatePath(t *testing.T) {
	path := fakeExecutable(t, "chromium")
	t.Setenv("PATH", "")

	l := &Locator{goos: "testos"}
	withPlatform(t, "testos", platform{candidates: []string{path}})

	got, err := l.Find()
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestFindPathLookup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-browser")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	t.Setenv("PATH", dir)

	l := &Locator{goos: "testos"}
	withPlatform(t, "testos", platform{
		candidates:  []string{"/nonexistent/a", "/nonexistent/b"},
		lookupNames: []string{"no-such-binary", "fake-browser"},
	})

	got, err := l.Find()
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestFindNothing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	l := &Locator{goos: "testos"}
	withPlatform(t, "testos", platform{
		candidates:  []string{"/nonexistent/chrome"},
		lookupNames: []string{"no-such-binary"},
	})

	_, err := l.Find()
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUnknownOSUsesDefaultTable(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	l := &Locator{goos: "plan9"}
	_, err := l.Find()
	// Default (linux) candidate table applies; on a clean test environment
	// this resolves to not-found rather than panicking on a missing table.
	if err != nil {
		assert.True(t, errors.Is(err, ErrNotFound))
	}
}

// withPlatform installs a platform spec for the given OS key for the
// duration of the test.
func withPlatform(t *testing.T, goos string, spec platform) {
	t.Helper()
	prev, had := platforms[goos]
	platforms[goos] = spec
	t.Cleanup(func() {
		if had {
			platforms[goos] = prev
		} else {
			delete(platforms, goos)
		}
	})
}
