// Package browser launches one headless Chrome session per analysis.
//
// Sessions are never reused across analyses: a failed attempt can leave the
// rating page in an arbitrary state, and a fresh process is the only reliable
// isolation boundary.
package browser

import (
	"log/slog"
	"os"
	"os/exec"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/use-agent/ratescope/config"
	"github.com/use-agent/ratescope/models"
)

// binCandidates is the ordered list of browser binaries scanned when no
// explicit path is configured. PATH lookups first, then fixed locations.
var binCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/opt/google/chrome/google-chrome",
}

// Session is one disposable browser process with a single page.
type Session struct {
	Page *rod.Page

	browser  *rod.Browser
	launcher *launcher.Launcher
}

// New launches a fresh headless browser and opens its single page.
//
// A missing binary is not fatal on its own: when the candidate scan comes up
// empty the launcher falls back to its own resolution, downloading a pinned
// Chromium build if necessary. Any launch or connect failure is returned as
// an AnalyzeError; the caller records it and treats the URL as failed.
func New(cfg config.BrowserConfig) (*Session, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	bin := cfg.BrowserBin
	if bin == "" {
		bin = findBrowserBin()
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// ── Container compatibility flags ────────────────────────────────
	l.Set(flags.Flag("disable-gpu"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-setuid-sandbox"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("window-size"), cfg.WindowSize)
	if cfg.UserAgent != "" {
		l.Set(flags.Flag("user-agent"), cfg.UserAgent)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewAnalyzeError(
			models.ErrCodeBrowserLaunch,
			"failed to launch browser",
			err,
		)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, models.NewAnalyzeError(
			models.ErrCodeBrowserLaunch,
			"failed to connect to browser",
			err,
		)
	}

	var page *rod.Page
	if cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, models.NewAnalyzeError(
			models.ErrCodeBrowserLaunch,
			"failed to open page",
			err,
		)
	}

	// Pin the page language so the rating service renders the labels the
	// field parser knows about.
	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{"Accept-Language": "en-US,en;q=0.9"}),
	}.Call(page)

	return &Session{Page: page, browser: b, launcher: l}, nil
}

// Close tears the session down: page, browser connection, then the process
// itself. Every step is best-effort; teardown failures are logged, not raised.
func (s *Session) Close() {
	if s == nil {
		return
	}
	if s.Page != nil {
		if err := s.Page.Close(); err != nil {
			slog.Warn("browser teardown: page close failed", "error", err)
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			slog.Warn("browser teardown: browser close failed", "error", err)
		}
	}
	if s.launcher != nil {
		s.launcher.Kill()
	}
}

// findBrowserBin returns the first existing, executable candidate, or ""
// when none is found (the launcher then resolves a browser itself).
func findBrowserBin() string {
	for _, name := range binCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
		if info, err := os.Stat(name); err == nil && !info.IsDir() && info.Mode()&0o111 != 0 {
			return name
		}
	}
	return ""
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
