package parse

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/jobid"
	"jobsift-engine/internal/parse/util"
)

// anchorTitle pulls the most title-like text out of an anchor: a heading or
// bold descendant when present, otherwise the anchor's full text.
func anchorTitle(a *goquery.Selection) string {
	for _, sel := range []string{"h2", "h3", "strong", "b", "span"} {
		if t := util.CleanText(a.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return util.CleanText(a.Text())
}

// cardContainer walks up from an anchor to the nearest block that holds the
// whole job card. Alert emails are table soup, so table cells come first.
func cardContainer(a *goquery.Selection) *goquery.Selection {
	for _, sel := range []string{"td", "tr", "li", "div"} {
		if c := a.Closest(sel); c.Length() > 0 {
			return c
		}
	}
	return a.Parent()
}

// containerLines renders a card container as trimmed text lines, dropping
// empties and fragments too short to mean anything.
func containerLines(c *goquery.Selection) []string {
	var lines []string
	for _, l := range strings.Split(c.Text(), "\n") {
		l = util.CleanText(l)
		if len(l) > 2 {
			lines = append(lines, l)
		}
	}
	return lines
}

// excluded reports link text that is navigation boilerplate, not a job.
func excluded(text string) bool {
	return util.ContainsAnyFold(text, excludePhrases)
}

// newJob builds a canonical record from extracted fields, applying the field
// bounds, defaults and identity assignment shared by every parser. The url
// must already be cleaned.
func newJob(src domain.Source, url, title, company, location, rawText string, receivedAt time.Time) domain.Job {
	title = util.Truncate(util.CleanText(title), domain.MaxTitleLen)
	company = util.Truncate(util.CleanText(company), domain.MaxCompanyLen)
	if company == "" {
		company = "Unknown"
	}
	location = util.Truncate(util.NormalizeLocation(location), domain.MaxLocationLen)
	rawText = util.Truncate(util.CleanText(rawText), domain.MaxRawTextLen)

	return domain.Job{
		ID:         jobid.New(url, title, company),
		Title:      title,
		Company:    company,
		Location:   location,
		URL:        url,
		Source:     src,
		RawText:    rawText,
		ReceivedAt: receivedAt,
	}
}
