package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"internscout/internal/model"
)

const wayUpBaseURL = "https://www.wayup.com"

// WayUp scrapes wayup.com internship search results. Listings rarely carry
// a posted time, so most records resolve through the unknown-recency
// policy.
type WayUp struct {
	client   *Client
	roles    []string
	location string
	baseURL  string
}

// NewWayUp returns a scraper searching wayup.com for each role.
func NewWayUp(client *Client, roles []string, location string) *WayUp {
	return &WayUp{client: client, roles: roles, location: location, baseURL: wayUpBaseURL}
}

func (s *WayUp) Name() string { return "wayup" }

func (s *WayUp) Scrape(ctx context.Context) ([]model.RawRecord, error) {
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

func (s *WayUp) scrapeRole(ctx context.Context, role string) ([]model.RawRecord, error) {
	q := url.Values{}
	q.Set("q", role)

	doc, err := s.client.GetDocument(ctx, s.baseURL+"/s/internships/?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var records []model.RawRecord
	doc.Find("a[href*='/listing/']").Each(func(_ int, a *goquery.Selection) {
		link, _ := a.Attr("href")
		if link == "" {
			return
		}
		if !strings.HasPrefix(link, "http") {
			if !strings.HasPrefix(link, "/") {
				link = "/" + link
			}
			link = s.baseURL + link
		}

		card := a.Closest("article, div")
		title := strings.TrimSpace(card.Find("h2, h3, h4").First().Text())
		if title == "" {
			title = strings.TrimSpace(a.Text())
		}
		if title == "" {
			return
		}

		company := strings.TrimSpace(card.Find("[class*='company']").First().Text())
		location := strings.TrimSpace(card.Find("[class*='location']").First().Text())
		if location == "" {
			location = s.location
		}

		records = append(records, model.RawRecord{
			Source:   s.Name(),
			Title:    title,
			Company:  company,
			Location: location,
			URL:      link,
		})
	})
	return records, nil
}
