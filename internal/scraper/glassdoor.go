package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"internscout/internal/model"
)

const glassdoorBaseURL = "https://www.glassdoor.com"

// Glassdoor scrapes glassdoor.com job search results, one search per target
// role, restricted to listings posted within a day. Glassdoor rejects
// referer-less requests, so every fetch carries one.
type Glassdoor struct {
	client  *Client
	roles   []string
	baseURL string
}

// NewGlassdoor returns a scraper searching glassdoor.com for each role.
// The search is US-wide; Glassdoor's locT/locId params encode the country
// rather than a free-form location string.
func NewGlassdoor(client *Client, roles []string) *Glassdoor {
	return &Glassdoor{client: client, roles: roles, baseURL: glassdoorBaseURL}
}

func (s *Glassdoor) Name() string { return "glassdoor" }

func (s *Glassdoor) Scrape(ctx context.Context) ([]model.RawRecord, error) {
	var records []model.RawRecord
	for _, role := range s.roles {
		roleRecords, err := s.scrapeRole(ctx, role)
		if err != nil {
			return nil, err
		}
		records = append(records, roleRecords...)
	}
	return records, nil
}

func (s *Glassdoor) scrapeRole(ctx context.Context, role string) ([]model.RawRecord, error) {
	q := url.Values{}
	q.Set("sc.keyword", role)
	q.Set("locT", "N")
	q.Set("locId", "1") // United States
	q.Set("fromAge", "1")

	doc, err := s.client.GetDocumentReferer(ctx, s.baseURL+"/Job/jobs.htm?"+q.Encode(), s.baseURL+"/")
	if err != nil {
		return nil, err
	}

	cards := doc.Find("li.react-job-listing, div[data-test='jobListing']")
	if cards.Length() == 0 {
		cards = doc.Find("ul.job-list li, div.jobCard")
	}
	if cards.Length() == 0 {
		cards = doc.Find("li[data-jobid], li[data-id]")
	}

	var records []model.RawRecord
	cards.Each(func(_ int, card *goquery.Selection) {
		titleEl := card.Find("a[data-test='job-link']").First()
		if titleEl.Length() == 0 {
			titleEl = card.Find("h2, h3, a").First()
		}
		if titleEl.Length() == 0 {
			return
		}

		title := strings.TrimSpace(titleEl.Text())
		link, _ := titleEl.Attr("href")
		if link == "" {
			link, _ = card.Find("a[href]").First().Attr("href")
		}
		if title == "" || link == "" {
			return
		}
		if !strings.HasPrefix(link, "http") {
			link = s.baseURL + link
		}

		company := strings.TrimSpace(card.Find("[class*='employer'], [class*='Employer']").First().Text())
		if company == "" {
			company = strings.TrimSpace(card.Find("div[data-test='emp-name']").First().Text())
		}

		location := strings.TrimSpace(card.Find("span[data-test='emp-location']").First().Text())
		if location == "" {
			location = strings.TrimSpace(card.Find("[class*='location']").First().Text())
		}
		if location == "" {
			location = "United States"
		}

		posted := strings.TrimSpace(card.Find("[class*='date'], [data-test='job-age']").First().Text())
		if posted == "" {
			posted = strings.TrimSpace(card.Find("time").First().Text())
		}

		records = append(records, model.RawRecord{
			Source:     s.Name(),
			Title:      title,
			Company:    company,
			Location:   location,
			URL:        link,
			PostedText: posted,
		})
	})
	return records, nil
}
