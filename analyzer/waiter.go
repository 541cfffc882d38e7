package analyzer

import (
	"time"

	"github.com/go-rod/rod"
)

// awaitResult blocks until a recognizable result container appears, bounded
// by the configured ceiling. If the container never shows up, it falls back
// to waiting for overall page-text growth as a proxy for "content finished
// loading"; timing out there is non-fatal too. Either way a short settle
// delay lets late DOM mutations finish.
func (a *Analyzer) awaitResult(page *rod.Page, dlog *DebugLog) {
	deadline := time.Now().Add(a.cfg.Timeout)
	found := false
	for time.Now().Before(deadline) && page.GetContext().Err() == nil {
		if els, err := page.ElementsX(resultXPath); err == nil && len(els) > 0 {
			found = true
			break
		}
		time.Sleep(a.cfg.PollInterval)
	}

	if found {
		dlog.Add("Found result container")
	} else {
		dlog.Add("No result container found, waiting for content growth...")
		a.waitForContentGrowth(page, a.cfg.SettleGrowth)
		dlog.Add("Finished waiting for content growth")
	}

	time.Sleep(a.cfg.SettleDelay)
}

// waitForContentGrowth polls until the page's visible text is at least
// minGrowth characters longer than when the wait started, or the ceiling is
// reached. A non-positive minGrowth uses the configured general default.
func (a *Analyzer) waitForContentGrowth(page *rod.Page, minGrowth int) {
	if minGrowth <= 0 {
		minGrowth = a.cfg.MinGrowth
	}
	initial := len(bodyText(page))
	deadline := time.Now().Add(a.cfg.Timeout)
	for time.Now().Before(deadline) && page.GetContext().Err() == nil {
		if len(bodyText(page)) > initial+minGrowth {
			return
		}
		time.Sleep(a.cfg.PollInterval)
	}
}
