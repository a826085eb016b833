package parse

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/parse/util"
)

// LinkedInParser extracts jobs from LinkedIn job-alert email bodies. Cards
// are anchors into /jobs/view/ (or /comm/jobs/view/); the enclosing table
// cell carries "Title · Company · Location" style text separated by middle
// dots.
type LinkedInParser struct{}

func (p *LinkedInParser) Source() domain.Source { return domain.SourceLinkedIn }

func (p *LinkedInParser) Parse(rawContent string, receivedAt time.Time) ([]domain.Job, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawContent))
	if err != nil {
		return nil, fmt.Errorf("linkedin html: %w", err)
	}

	var jobs []domain.Job
	seen := map[string]bool{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		lh := strings.ToLower(href)
		if !strings.Contains(lh, "linkedin.com") {
			return
		}
		if !strings.Contains(lh, "/jobs/view/") && !strings.Contains(lh, "/comm/jobs/view/") {
			return
		}

		url := util.CleanURL(util.ResolveRedirect(href))
		if url == "" || seen[url] {
			return
		}

		title := anchorTitle(a)
		if len(title) < minTitleLen || excluded(title) {
			return
		}

		// One card often links the same job twice (title link + logo link);
		// mark the URL seen only once we have a usable title so the logo
		// anchor can't shadow the real one.
		seen[url] = true

		card := cardContainer(a)
		cardText := util.CleanText(card.Text())

		company, location := splitDotSeparated(cardText, title)

		jobs = append(jobs, newJob(domain.SourceLinkedIn, url, title, company, location, cardText, receivedAt))
	})

	return jobs, nil
}

// splitDotSeparated reads "Title · Company · Location · extras" card text.
// Any segment equal to the title is skipped, so the split also works when
// the card text starts with something else (a promoted badge, for example).
func splitDotSeparated(cardText, title string) (company, location string) {
	if !strings.Contains(cardText, "·") {
		return "", ""
	}

	var segs []string
	for _, s := range strings.Split(cardText, "·") {
		s = util.CleanText(s)
		if s == "" || s == util.CleanText(title) {
			continue
		}
		segs = append(segs, s)
	}

	if len(segs) >= 1 {
		company = segs[0]
	}
	if len(segs) >= 2 {
		location = segs[1]
	}
	return company, location
}
