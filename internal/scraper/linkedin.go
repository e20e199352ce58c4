package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"internscout/internal/model"
)

const linkedInGuestAPI = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"

// LinkedIn scrapes the public guest jobs API (no auth required). One search
// is issued per target role; posted times come back as relative phrases or
// as the ISO datetime attribute of the <time> element.
type LinkedIn struct {
	client   *Client
	roles    []string
	location string
	baseURL  string
}

// NewLinkedIn returns a scraper searching the guest API for each role.
func NewLinkedIn(client *Client, roles []string, location string) *LinkedIn {
	return &LinkedIn{client: client, roles: roles, location: location, baseURL: linkedInGuestAPI}
}

func (s *LinkedIn) Name() string { return "linkedin" }

func (s *LinkedIn) Scrape(ctx context.Context) ([]model.RawRecord, error) {
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

func (s *LinkedIn) scrapeRole(ctx context.Context, role string) ([]model.RawRecord, error) {
	q := url.Values{}
	q.Set("keywords", role)
	q.Set("location", s.location)
	q.Set("f_TPR", "r86400") // posted within 24h
	q.Set("f_E", "1")        // entry level / internship
	q.Set("start", "0")

	doc, err := s.client.GetDocument(ctx, s.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var records []model.RawRecord
	doc.Find("li").Each(func(_ int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find("h3").First().Text())
		if title == "" {
			return
		}

		var link string
		item.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			h, _ := a.Attr("href")
			if strings.Contains(h, "linkedin.com/jobs/view") {
				link = h
				return false
			}
			return true
		})
		if link == "" {
			return
		}

		company := strings.TrimSpace(item.Find("h4").First().Text())

		location := strings.TrimSpace(item.Find(".job-search-card__location").First().Text())
		if location == "" {
			location = s.location
		}

		timeEl := item.Find("time").First()
		postedText := strings.TrimSpace(timeEl.Text())
		if postedText == "" {
			// The datetime attribute is an ISO date the recency parser
			// also understands.
			postedText, _ = timeEl.Attr("datetime")
		}

		records = append(records, model.RawRecord{
			Source:     s.Name(),
			Title:      title,
			Company:    company,
			Location:   location,
			URL:        link,
			PostedText: postedText,
		})
	})
	return records, nil
}
