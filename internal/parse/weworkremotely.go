package parse

import (
	"encoding/xml"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/jobid"
	"jobsift-engine/internal/parse/util"
)

// WeWorkRemotelyParser reads the WeWorkRemotely RSS feeds. Item titles come
// as "Company: Job Title"; the location is always Remote. Items older than
// the lookback window (relative to receivedAt) are dropped.
type WeWorkRemotelyParser struct {
	Lookback time.Duration
}

func (p *WeWorkRemotelyParser) Source() domain.Source { return domain.SourceWeWorkRemotely }

type rssFeed struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

func (p *WeWorkRemotelyParser) Parse(rawContent string, receivedAt time.Time) ([]domain.Job, error) {
	var feed rssFeed
	if err := xml.Unmarshal([]byte(rawContent), &feed); err != nil {
		return nil, fmt.Errorf("weworkremotely rss: %w", err)
	}

	lookback := p.Lookback
	if lookback <= 0 {
		lookback = DefaultWWRLookback
	}
	cutoff := receivedAt.Add(-lookback)

	var jobs []domain.Job
	seen := map[string]bool{}

	for _, item := range feed.Channel.Items {
		rawTitle := util.CleanText(item.Title)
		u := util.CleanURL(strings.TrimSpace(item.Link))
		if rawTitle == "" || u == "" || seen[u] {
			continue
		}

		company, title := splitFeedTitle(rawTitle)
		if len(title) < minTitleLen {
			continue
		}

		published := receivedAt
		if item.PubDate != "" {
			if t, err := mail.ParseDate(item.PubDate); err == nil {
				if t.Before(cutoff) {
					continue
				}
				published = t
			}
		}
		seen[u] = true

		description := util.Truncate(stripHTML(item.Description), domain.MaxDescriptionLen)
		rawText := description
		if rawText == "" {
			rawText = rawTitle
		}

		title = util.Truncate(title, domain.MaxTitleLen)
		company = util.Truncate(company, domain.MaxCompanyLen)
		if company == "" {
			company = "Unknown"
		}

		jobs = append(jobs, domain.Job{
			ID:          jobid.New(u, title, company),
			Title:       title,
			Company:     company,
			Location:    "Remote",
			URL:         u,
			Source:      domain.SourceWeWorkRemotely,
			RawText:     util.Truncate(rawText, domain.MaxRawTextLen),
			Description: description,
			ReceivedAt:  published,
		})
	}

	return jobs, nil
}

// splitFeedTitle splits "Company: Job Title" on the first colon. No colon
// means the whole string is the job title and the company is unknown.
func splitFeedTitle(s string) (company, title string) {
	i := strings.Index(s, ":")
	if i < 0 {
		return "", s
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
}

// stripHTML flattens feed description markup to plain text.
func stripHTML(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return util.CleanText(s)
	}
	return util.CleanText(doc.Text())
}
