package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"internscout/internal/model"
)

const simplyHiredBaseURL = "https://www.simplyhired.com"

// SimplyHired scrapes simplyhired.com search results. The site's markup
// churns, so several selector generations are tried for each field.
type SimplyHired struct {
	client   *Client
	roles    []string
	location string
	baseURL  string
}

// NewSimplyHired returns a scraper searching simplyhired.com for each role.
func NewSimplyHired(client *Client, roles []string, location string) *SimplyHired {
	return &SimplyHired{client: client, roles: roles, location: location, baseURL: simplyHiredBaseURL}
}

func (s *SimplyHired) Name() string { return "simplyhired" }

func (s *SimplyHired) Scrape(ctx context.Context) ([]model.RawRecord, error) {
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

func (s *SimplyHired) scrapeRole(ctx context.Context, role string) ([]model.RawRecord, error) {
	q := url.Values{}
	q.Set("q", role)
	q.Set("l", s.location)
	q.Set("t", "internship")
	q.Set("fdb", "1") // posted within 1 day

	doc, err := s.client.GetDocument(ctx, s.baseURL+"/search?"+q.Encode())
	if err != nil {
		return nil, err
	}

	cards := doc.Find("article[data-jobkey], li.SerpJob-jobCard, div[data-testid='searchSerpJob']")
	if cards.Length() == 0 {
		cards = doc.Find("li[data-jobkey], div[data-job-id]")
	}

	var records []model.RawRecord
	cards.Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find("h2, h3, h4").First().Text())
		if title == "" {
			return
		}

		link, _ := card.Find("a[href]").First().Attr("href")
		if link == "" {
			return
		}
		if !strings.HasPrefix(link, "http") {
			link = s.baseURL + link
		}

		company := strings.TrimSpace(card.Find("span[data-testid='companyName']").First().Text())
		if company == "" {
			company = strings.TrimSpace(card.Find(".SerpJob-company, .jobposting-company").First().Text())
		}

		location := strings.TrimSpace(card.Find("span[data-testid='searchSerpJobLocation']").First().Text())
		if location == "" {
			location = s.location
		}

		posted := strings.TrimSpace(card.Find("time").First().Text())
		if posted == "" {
			posted = strings.TrimSpace(card.Find(".SerpJob-age, span[data-testid='searchSerpJobDateStamp']").First().Text())
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
