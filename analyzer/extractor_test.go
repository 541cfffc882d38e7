package analyzer

import (
	"strings"
	"testing"
)

func TestTextFromHTML_ResultContainers(t *testing.T) {
	page := `<html><body>
		<nav>site chrome</nav>
		<div class="result-card">Overall Score: 85</div>
		<section class="report">Company: Acme</section>
		<footer>footer noise</footer>
	</body></html>`

	got := textFromHTML(page, "https://www.ratemysite.xyz/")

	if !strings.Contains(got, "Overall Score: 85") {
		t.Errorf("result container text missing: %q", got)
	}
	if !strings.Contains(got, "Company: Acme") {
		t.Errorf("report container text missing: %q", got)
	}
	if strings.Contains(got, "footer noise") {
		t.Errorf("fallback leaked non-container text: %q", got)
	}
}

func TestTextFromHTML_DocumentOrderBlankLineSeparated(t *testing.T) {
	page := `<html><body>
		<div class="report">first</div>
		<div class="output">second</div>
	</body></html>`

	got := textFromHTML(page, "https://www.ratemysite.xyz/")

	if got != "first\n\nsecond" {
		t.Errorf("got %q, want blank-line separated document order", got)
	}
}

func TestTextFromHTML_RoleArticle(t *testing.T) {
	page := `<html><body><div role="article">the report text</div></body></html>`

	if got := textFromHTML(page, "https://www.ratemysite.xyz/"); got != "the report text" {
		t.Errorf("got %q, want role=article text", got)
	}
}

func TestTextFromHTML_BodyFallback(t *testing.T) {
	page := `<html><body><p>no containers here at all</p></body></html>`

	got := textFromHTML(page, "https://www.ratemysite.xyz/")
	if !strings.Contains(got, "no containers here at all") {
		t.Errorf("body fallback missing: %q", got)
	}
}

func TestTextFromHTML_Empty(t *testing.T) {
	if got := textFromHTML(`<html><body></body></html>`, "https://www.ratemysite.xyz/"); got != "" {
		t.Errorf("empty page yielded %q, want empty string", got)
	}
}
