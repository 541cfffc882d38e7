// Package analyzer drives one headless browser per URL through the rating
// service and turns the rendered report into structured fields.
package analyzer

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/go-rod/rod"

	"github.com/use-agent/ratescope/browser"
	"github.com/use-agent/ratescope/config"
)

// Analyzer runs the per-URL pipeline: fresh browser, navigate, submit,
// wait, extract. URLs within one stream are processed strictly sequentially.
type Analyzer struct {
	cfg config.AnalyzerConfig

	// Seams for tests: session construction and the whole per-URL pipeline
	// can be swapped without a real browser.
	newSession func() (*browser.Session, error)
	analyzeOne func(ctx context.Context, url string) (string, *DebugLog)
}

// New creates an Analyzer launching real browser sessions from browserCfg.
func New(browserCfg config.BrowserConfig, cfg config.AnalyzerConfig) *Analyzer {
	a := &Analyzer{cfg: cfg}
	a.newSession = func() (*browser.Session, error) {
		return browser.New(browserCfg)
	}
	a.analyzeOne = a.analyzeURL
	return a
}

// analyzeURL runs the full pipeline for one URL. It never returns an error:
// every failure mode ends as empty raw text with the reason in the debug
// log, and the browser session is torn down on every exit path. A recover
// guard keeps an unexpected panic local to this URL.
func (a *Analyzer) analyzeURL(ctx context.Context, targetURL string) (raw string, dlog *DebugLog) {
	dlog = NewDebugLog()
	defer func() {
		if r := recover(); r != nil {
			dlog.Addf("ERROR in analysis: %v", r)
			dlog.Addf("Stack: %s", debug.Stack())
			raw = ""
		}
	}()

	dlog.Add("Creating browser session...")
	sess, err := a.newSession()
	if err != nil {
		dlog.Addf("ERROR: failed to create browser session: %v", err)
		return "", dlog
	}
	defer func() {
		dlog.Add("Closing browser session...")
		sess.Close()
	}()

	page := sess.Page.Context(ctx)

	dlog.Addf("Navigating to %s", a.cfg.TargetURL)
	if err := page.Navigate(a.cfg.TargetURL); err != nil {
		dlog.Addf("ERROR: navigation failed: %v", err)
		return "", dlog
	}
	if err := page.WaitLoad(); err != nil {
		dlog.Addf("Page load wait failed: %v", err)
	}

	dlog.Add("Checking for cookie banners...")
	a.dismissCookieBanner(page, dlog)

	inputEl := a.findInput(page, dlog)
	if inputEl == nil {
		dlog.Add("ERROR: Could not locate input field!")
		logBodyPreview(page, dlog, 500)
		return "", dlog
	}

	dlog.Addf("Entering URL: %s", targetURL)
	if err := inputEl.SelectAllText(); err != nil {
		dlog.Addf("Could not clear input: %v", err)
	}
	if err := inputEl.Input(targetURL); err != nil {
		dlog.Addf("ERROR: typing URL failed: %v", err)
		return "", dlog
	}
	sleepCtx(ctx, a.cfg.TypePause)

	a.submit(page, inputEl, dlog)

	dlog.Add("Waiting for results to load...")
	a.awaitResult(page, dlog)

	dlog.Add("Extracting result text...")
	raw = collectResultText(page)
	if raw == "" {
		dlog.Add("No visible result text, trying rendered-HTML fallback...")
		if htmlStr, herr := page.HTML(); herr == nil {
			raw = textFromHTML(htmlStr, a.cfg.TargetURL)
		}
	}
	dlog.Addf("Extracted %d characters of result text", len(raw))

	if raw == "" {
		dlog.Add("No result text found! Getting page debug info...")
		logBodyPreview(page, dlog, 800)
	}
	return raw, dlog
}

// logBodyPreview records a truncated body-text snapshot for diagnosis.
func logBodyPreview(page *rod.Page, dlog *DebugLog, max int) {
	txt := bodyText(page)
	if len(txt) > max {
		txt = txt[:max]
	}
	dlog.Addf("Body text: %s", txt)
}

// sleepCtx sleeps for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
