package browser

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
)

// ErrNotFound means no usable browser executable could be located. This is a
// configuration problem for the operator, not a retryable condition.
var ErrNotFound = errors.New("no Chrome/Chromium executable found; set CHROME_PATH to your browser executable path")

// platform holds the discovery data for one OS family: well-known install
// locations and binary names to try on the lookup path.
type platform struct {
	candidates  []string
	lookupNames []string
}

var platforms = map[string]platform{
	"windows": {
		candidates: []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files\Microsoft\Edge\Application\msedge.exe`,
			`C:\Program Files\BraveSoftware\Brave-Browser\Application\brave.exe`,
		},
		lookupNames: []string{"chrome", "chrome.exe", "msedge.exe"},
	},
	"darwin": {
		candidates: []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
			"/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
		},
		lookupNames: []string{"google-chrome", "chrome", "chromium", "chromium-browser"},
	},
	// linux and everything else
	"": {
		candidates: []string{
			"/usr/bin/google-chrome-stable",
			"/usr/bin/google-chrome",
			"/usr/bin/chromium-browser",
			"/usr/bin/chromium",
			"/snap/bin/chromium",
			"/usr/bin/msedge",
		},
		lookupNames: []string{"google-chrome", "google-chrome-stable", "chromium-browser", "chromium", "chrome"},
	},
}

// Locator finds a usable browser executable on the host.
type Locator struct {
	// ExplicitPath is an operator-supplied override, used verbatim if the
	// file exists. Typically wired from CHROME_PATH.
	ExplicitPath string

	goos string // overridable in tests
}

// NewLocator returns a Locator for the current host OS.
func NewLocator(explicitPath string) *Locator {
	return &Locator{ExplicitPath: explicitPath, goos: runtime.GOOS}
}

// Find resolves a browser executable path. Resolution order: explicit
// override, per-OS candidate install locations, then a PATH lookup for
// common binary names. Lookup failures fall through to the next step;
// total failure returns ErrNotFound.
func (l *Locator) Find() (string, error) {
	if l.ExplicitPath != "" && fileExists(l.ExplicitPath) {
		return l.ExplicitPath, nil
	}

	spec, ok := platforms[l.goos]
	if !ok {
		spec = platforms[""]
	}

	for _, candidate := range spec.candidates {
		if fileExists(candidate) {
			return candidate, nil
		}
	}

	for _, name := range spec.lookupNames {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}
		if fileExists(path) {
			return path, nil
		}
	}

	return "", ErrNotFound
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
