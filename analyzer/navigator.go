package analyzer

import (
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// The rating page's markup is not under our control, so every element lookup
// is an ordered heuristic list: candidates are tried in priority order and
// the first visible match wins.

// inputXPaths locates the URL entry field.
var inputXPaths = []string{
	"//input[@type='url']",
	"//input[contains(@placeholder,'https')]",
	"//input[contains(@placeholder,'http')]",
	"//input[contains(@placeholder,'Enter') or contains(@placeholder,'enter')]",
	"//input",
	"//textarea",
}

// cookieXPaths locates consent banner dismiss buttons.
var cookieXPaths = []string{
	buttonTextXPath("accept"),
	buttonTextXPath("agree"),
	buttonTextXPath("allow"),
	buttonTextXPath("ok"),
	"//*[contains(@class,'cookie')]//button",
	"//*[@id='onetrust-accept-btn-handler']",
}

// submitXPaths locates the submit control, text heuristics first.
var submitXPaths = []string{
	buttonTextXPath("analy"),
	buttonTextXPath("rate"),
	buttonTextXPath("submit"),
	buttonTextXPath("generate"),
	buttonTextXPath("get report"),
	"//button[@type='submit']",
	"//button",
	"//div[@role='button']",
}

// buttonTextXPath matches buttons whose text contains substr, case-folded
// via XPath 1.0 translate (the DOM evaluator has no lower-case function).
func buttonTextXPath(substr string) string {
	return "//button[contains(translate(., 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'),'" + substr + "')]"
}

// findFirst scans the candidate XPaths in order and returns the first
// currently visible match, or nil. It never waits.
func findFirst(page *rod.Page, xpaths []string) *rod.Element {
	for _, xp := range xpaths {
		els, err := page.ElementsX(xp)
		if err != nil {
			continue
		}
		for _, el := range els {
			if visible, err := el.Visible(); err == nil && visible {
				return el
			}
		}
	}
	return nil
}

// clickElement clicks normally, falling back to a scripted click when the
// normal one is intercepted by an overlay.
func clickElement(el *rod.Element) error {
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		if _, jsErr := el.Eval(`() => this.click()`); jsErr != nil {
			return err
		}
	}
	return nil
}

// dismissCookieBanner tries to close a consent overlay. Not finding one, or
// failing to click it, is silently fine.
func (a *Analyzer) dismissCookieBanner(page *rod.Page, dlog *DebugLog) {
	btn := findFirst(page, cookieXPaths)
	if btn == nil {
		return
	}
	if err := clickElement(btn); err != nil {
		dlog.Addf("Cookie banner click failed: %v", err)
		return
	}
	dlog.Add("Dismissed cookie banner")
	time.Sleep(300 * time.Millisecond)
}

// findInput polls the input candidates until one becomes visible or the
// ceiling is reached.
func (a *Analyzer) findInput(page *rod.Page, dlog *DebugLog) *rod.Element {
	dlog.Add("Looking for input field...")
	deadline := time.Now().Add(a.cfg.Timeout)
	for {
		if el := findFirst(page, inputXPaths); el != nil {
			dlog.Add("Found input field")
			return el
		}
		if time.Now().After(deadline) || page.GetContext().Err() != nil {
			return nil
		}
		time.Sleep(a.cfg.PollInterval)
	}
}

// submit tries the button heuristics first and falls back to sending Enter
// into the input field. Failure only surfaces in the debug log.
func (a *Analyzer) submit(page *rod.Page, inputEl *rod.Element, dlog *DebugLog) {
	dlog.Add("Attempting to submit...")
	if a.clickBestButton(page) {
		dlog.Add("Successfully clicked submit button")
		return
	}
	dlog.Add("Button click failed, trying Enter key...")
	if err := inputEl.Type(input.Enter); err != nil {
		dlog.Addf("Enter key failed: %v", err)
		return
	}
	dlog.Add("Sent Enter key")
}

// clickBestButton reports whether an enabled, visible submit candidate was
// clicked.
func (a *Analyzer) clickBestButton(page *rod.Page) bool {
	btn := findFirst(page, submitXPaths)
	if btn == nil {
		return false
	}
	if disabled, err := btn.Property("disabled"); err == nil && disabled.Bool() {
		return false
	}
	return clickElement(btn) == nil
}
