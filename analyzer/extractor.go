package analyzer

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/go-rod/rod"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// resultXPath is the shared heuristic for "this element holds the report":
// a class mentioning result/report/output, or an article role.
const resultXPath = "//*[contains(@class,'result') or contains(@class,'report') or contains(@class,'output') or @role='article']"

// resultSelector is the CSS rendering of resultXPath, precompiled for the
// static-HTML fallback path.
var resultSelector = cascadia.MustCompile(
	`[class*="result"], [class*="report"], [class*="output"], [role="article"]`)

// collectResultText gathers the trimmed text of every visible result
// container in document order, blank-line separated. When none has text it
// falls back to the whole page body. Empty string means total failure.
func collectResultText(page *rod.Page) string {
	els, err := page.ElementsX(resultXPath)
	if err == nil {
		var parts []string
		for _, el := range els {
			if visible, verr := el.Visible(); verr != nil || !visible {
				continue
			}
			txt, terr := el.Text()
			if terr != nil {
				continue
			}
			if t := strings.TrimSpace(txt); t != "" {
				parts = append(parts, t)
			}
		}
		if len(parts) > 0 {
			return strings.TrimSpace(strings.Join(parts, "\n\n"))
		}
	}
	return bodyText(page)
}

// bodyText returns the page body's trimmed visible text, or "" on any error.
func bodyText(page *rod.Page) string {
	body, err := page.Element("body")
	if err != nil {
		return ""
	}
	txt, err := body.Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(txt)
}

// textFromHTML extracts result text from a rendered-HTML snapshot, for the
// rare case where live element reads fail (detached nodes after a rerender)
// but the DOM snapshot still holds the report. Container selector first,
// then body text, then a readability pass.
func textFromHTML(rawHTML, pageURL string) string {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	doc := goquery.NewDocumentFromNode(root)

	var parts []string
	doc.FindMatcher(resultSelector).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) > 0 {
		return strings.Join(parts, "\n\n")
	}

	if t := strings.TrimSpace(doc.Find("body").Text()); t != "" {
		return t
	}

	u, uerr := url.Parse(pageURL)
	if uerr != nil {
		return ""
	}
	article, rerr := readability.FromReader(strings.NewReader(rawHTML), u)
	if rerr != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}
