package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"internscout/internal/model"
)

const indeedBaseURL = "https://www.indeed.com"

// Indeed scrapes indeed.com search results, one search per target role,
// restricted to listings posted within a day.
type Indeed struct {
	client   *Client
	roles    []string
	location string
	baseURL  string
}

// NewIndeed returns a scraper searching indeed.com for each role.
func NewIndeed(client *Client, roles []string, location string) *Indeed {
	return &Indeed{client: client, roles: roles, location: location, baseURL: indeedBaseURL}
}

func (s *Indeed) Name() string { return "indeed" }

func (s *Indeed) Scrape(ctx context.Context) ([]model.RawRecord, error) {
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

func (s *Indeed) scrapeRole(ctx context.Context, role string) ([]model.RawRecord, error) {
	q := url.Values{}
	q.Set("q", role)
	q.Set("l", s.location)
	q.Set("fromage", "1") // posted within 1 day
	q.Set("sort", "date")

	doc, err := s.client.GetDocument(ctx, s.baseURL+"/jobs?"+q.Encode())
	if err != nil {
		return nil, err
	}

	cards := doc.Find("div.job_seen_beacon, div.jobsearch-ResultsList div.result")
	if cards.Length() == 0 {
		cards = doc.Find("div[data-jk], td.resultContent")
	}
	if cards.Length() == 0 {
		cards = doc.Find("div.slider_container .slider_item")
	}

	var records []model.RawRecord
	cards.Each(func(_ int, card *goquery.Selection) {
		titleEl := card.Find("h2.jobTitle").First()
		if titleEl.Length() == 0 {
			titleEl = card.Find("h2, h3").First()
		}
		if titleEl.Length() == 0 {
			return
		}

		title := strings.TrimSpace(titleEl.Text())
		link, _ := titleEl.Find("a[href]").First().Attr("href")
		if link == "" {
			link, _ = card.Find("a[href]").First().Attr("href")
		}
		if title == "" || link == "" {
			return
		}
		if !strings.HasPrefix(link, "http") {
			link = s.baseURL + link
		}

		company := strings.TrimSpace(card.Find("span[data-testid='company-name']").First().Text())
		if company == "" {
			company = strings.TrimSpace(card.Find("[class*='company']").First().Text())
		}

		location := strings.TrimSpace(card.Find("div[data-testid='text-location']").First().Text())
		if location == "" {
			location = s.location
		}

		posted := strings.TrimSpace(card.Find("span.date").First().Text())
		if posted == "" {
			posted = strings.TrimSpace(card.Find("[class*='date']").First().Text())
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
