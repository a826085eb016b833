package parse

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/parse/util"
)

// IndeedParser extracts jobs from Indeed job-alert email bodies. Cards are
// anchors whose URL carries a jk= or vjk= posting key; the card text is a
// newline-separated stack of title, rating, company, location and salary
// lines in no fully reliable order.
type IndeedParser struct{}

func (p *IndeedParser) Source() domain.Source { return domain.SourceIndeed }

var (
	reIndeedJobKey = regexp.MustCompile(`indeed\.com.*(jk=|vjk=)[a-f0-9]+`)
	// rating lines look like "4.2 1,234 reviews": digits, then more digits
	reIndeedRating = regexp.MustCompile(`^\d+\.?\d*\s*\d`)
)

// usStateCodes recognizes "City, ST" location lines. Common codes only; the
// comma check catches the rest.
var usStateCodes = []string{
	"AZ", "CA", "CO", "FL", "GA", "IL", "MA", "MD", "MI", "MN",
	"NC", "NJ", "NV", "NY", "OH", "OR", "PA", "TN", "TX", "UT", "VA", "WA",
}

func (p *IndeedParser) Parse(rawContent string, receivedAt time.Time) ([]domain.Job, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawContent))
	if err != nil {
		return nil, fmt.Errorf("indeed html: %w", err)
	}

	var jobs []domain.Job
	seen := map[string]bool{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !reIndeedJobKey.MatchString(strings.ToLower(href)) {
			return
		}

		url := util.CleanURL(util.ResolveRedirect(href))
		if url == "" || seen[url] {
			return
		}

		title := util.CleanText(a.Text())
		if len(title) < minTitleLen || excluded(title) {
			return
		}
		seen[url] = true

		card := cardContainer(a)
		lines := containerLines(card)
		company, location := scanIndeedLines(lines, title)

		rawText := title
		if len(lines) > 0 {
			n := len(lines)
			if n > 6 {
				n = 6
			}
			rawText = strings.Join(lines[:n], " ")
		}

		jobs = append(jobs, newJob(domain.SourceIndeed, url, title, company, location, rawText, receivedAt))
	})

	return jobs, nil
}

// scanIndeedLines locates the company and location lines relative to the
// title line. Rating lines and anything carrying a currency sign are never
// the company; the location is recognized by a remote keyword, a comma, or a
// state code token.
func scanIndeedLines(lines []string, title string) (company, location string) {
	for i, line := range lines {
		if reIndeedRating.MatchString(line) {
			continue
		}
		if !strings.Contains(line, title) || i+1 >= len(lines) {
			continue
		}

		for j := i + 1; j < len(lines) && j < i+4; j++ {
			cand := lines[j]
			if reIndeedRating.MatchString(cand) || strings.Contains(cand, "$") {
				continue
			}
			company = cand

			for k := j + 1; k < len(lines) && k < j+3; k++ {
				if looksLikeIndeedLocation(lines[k]) {
					location = lines[k]
					break
				}
			}
			break
		}
		break
	}
	return company, location
}

func looksLikeIndeedLocation(line string) bool {
	if strings.Contains(strings.ToLower(line), "remote") {
		return true
	}
	if strings.Contains(line, ",") {
		return true
	}
	for _, st := range usStateCodes {
		if containsToken(line, st) {
			return true
		}
	}
	return false
}

// containsToken matches needle as a whole word, so "OR" can't fire inside
// "Coordinator".
func containsToken(s, needle string) bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '(' || r == ')'
	})
	for _, f := range fields {
		if f == needle {
			return true
		}
	}
	return false
}
