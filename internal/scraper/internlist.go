package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"internscout/internal/model"
)

const internListBaseURL = "https://www.intern-list.com"

// internListPage maps a target role to the intern-list.com category page
// that carries it. Roles with no category are skipped; the site only
// publishes curated lists.
func internListPage(role string) string {
	r := strings.ToLower(role)
	switch {
	case strings.Contains(r, "product management"),
		strings.Contains(r, "program management"),
		strings.Contains(r, "project management"):
		return "/pm-intern-list"
	case strings.Contains(r, "data analyst"),
		strings.Contains(r, "business analyst"):
		return "/da-intern-list"
	case strings.Contains(r, "software"), strings.Contains(r, "engineer"):
		return "/swe-intern-list"
	case strings.Contains(r, "marketing"):
		return "/mkt-intern-list"
	default:
		return ""
	}
}

// InternList scrapes intern-list.com category pages. Dates there are
// absolute ("January 2, 2026").
type InternList struct {
	client  *Client
	roles   []string
	baseURL string
}

// NewInternList returns a scraper covering the category pages of the given
// roles.
func NewInternList(client *Client, roles []string) *InternList {
	return &InternList{client: client, roles: roles, baseURL: internListBaseURL}
}

func (s *InternList) Name() string { return "intern-list.com" }

// Scrape visits each distinct category page once and extracts its listings.
func (s *InternList) Scrape(ctx context.Context) ([]model.RawRecord, error) {
	var records []model.RawRecord
	visited := make(map[string]bool)
	for _, role := range s.roles {
		page := internListPage(role)
		if page == "" || visited[page] {
			continue
		}
		visited[page] = true

		pageRecords, err := s.scrapePage(ctx, page)
		if err != nil {
			return nil, err
		}
		records = append(records, pageRecords...)
	}
	return records, nil
}

func (s *InternList) scrapePage(ctx context.Context, page string) ([]model.RawRecord, error) {
	doc, err := s.client.GetDocument(ctx, s.baseURL+page)
	if err != nil {
		return nil, err
	}

	category := strings.TrimPrefix(page, "/")

	var records []model.RawRecord
	doc.Find("ul > li").Each(func(_ int, item *goquery.Selection) {
		// The item carries several links; the listing link embeds the
		// category slug.
		var href string
		item.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			h, _ := a.Attr("href")
			if h != "#" && strings.Contains(h, category) {
				href = h
				return false
			}
			return true
		})
		if href == "" {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = s.baseURL + href
		}

		paragraphs := item.Find("p")
		if paragraphs.Length() < 2 {
			return
		}
		title := strings.TrimSpace(paragraphs.Eq(0).Text())
		dateText := strings.TrimSpace(paragraphs.Eq(1).Text())
		company := ""
		if paragraphs.Length() >= 3 {
			company = strings.TrimSpace(paragraphs.Eq(2).Text())
		}
		if title == "" || title == company {
			return
		}

		records = append(records, model.RawRecord{
			Source:     s.Name(),
			Title:      title,
			Company:    company,
			URL:        href,
			PostedText: dateText,
		})
	})
	return records, nil
}
