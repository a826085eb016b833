package parse

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/parse/util"
)

// WellfoundParser extracts jobs from Wellfound (ex AngelList Talent) alert
// emails. Cards link to wellfound.com/jobs or legacy angel.co URLs; the card
// text is usually "Title at Company" with the location on a following line.
type WellfoundParser struct{}

func (p *WellfoundParser) Source() domain.Source { return domain.SourceWellfound }

func (p *WellfoundParser) Parse(rawContent string, receivedAt time.Time) ([]domain.Job, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawContent))
	if err != nil {
		return nil, fmt.Errorf("wellfound html: %w", err)
	}

	var jobs []domain.Job
	seen := map[string]bool{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		lh := strings.ToLower(strings.TrimSpace(href))

		onDomain := strings.Contains(lh, "wellfound.com") || strings.Contains(lh, "angel.co")
		if !onDomain {
			return
		}
		if !strings.Contains(lh, "/jobs") && !strings.Contains(lh, "/l/") {
			return
		}

		u := util.CleanURL(util.ResolveRedirect(href))
		if u == "" || seen[u] {
			return
		}

		title := anchorTitle(a)
		if len(title) < minTitleLen || excluded(title) {
			return
		}

		card := cardContainer(a)
		cardText := util.CleanText(card.Text())

		title, company := splitTitleAtCompany(title)
		if company == "" {
			_, company = splitTitleAtCompany(cardText)
		}
		if len(title) < minTitleLen {
			return
		}
		seen[u] = true

		location := ""
		if c, l := splitDotSeparated(cardText, title); l != "" {
			location = l
			if company == "" {
				company = c
			}
		}
		if location == "" {
			location = util.ExtractLocationFromLabeledText(card.Text())
		}

		jobs = append(jobs, newJob(domain.SourceWellfound, u, title, company, location, cardText, receivedAt))
	})

	return jobs, nil
}

// splitTitleAtCompany splits "Senior Engineer at Acme" into its halves.
// Returns the input untouched when no " at " joint is present.
func splitTitleAtCompany(s string) (title, company string) {
	s = util.CleanText(s)
	i := strings.Index(s, " at ")
	if i <= 0 {
		return s, ""
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(" at "):])
}
