package parse

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/parse/util"
)

// GreenhouseParser extracts jobs from Greenhouse ATS notification emails.
// Postings link into boards.greenhouse.io/<board>/jobs/<id>; the board slug
// doubles as the company name when the card text gives nothing better.
type GreenhouseParser struct{}

func (p *GreenhouseParser) Source() domain.Source { return domain.SourceGreenhouse }

func (p *GreenhouseParser) Parse(rawContent string, receivedAt time.Time) ([]domain.Job, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawContent))
	if err != nil {
		return nil, fmt.Errorf("greenhouse html: %w", err)
	}

	var jobs []domain.Job
	seen := map[string]bool{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		lh := strings.ToLower(strings.TrimSpace(href))
		if !strings.Contains(lh, "greenhouse.io") || !strings.Contains(lh, "/jobs/") {
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
		seen[u] = true

		card := cardContainer(a)
		cardText := util.CleanText(card.Text())

		company := greenhouseBoardName(u)
		location := ""
		if loc := util.ExtractLocationFromLabeledText(card.Text()); loc != "" {
			location = loc
		} else {
			// cards sometimes use the same middle-dot layout as LinkedIn
			if c, l := splitDotSeparated(cardText, title); l != "" {
				location = l
				if company == "" {
					company = c
				}
			}
		}

		jobs = append(jobs, newJob(domain.SourceGreenhouse, u, title, company, location, cardText, receivedAt))
	})

	return jobs, nil
}

// greenhouseBoardName recovers a display-ish company name from the board
// slug in boards.greenhouse.io/<slug>/jobs/<id> URLs.
func greenhouseBoardName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || strings.EqualFold(parts[0], "jobs") {
		return ""
	}
	slug := parts[0]

	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
