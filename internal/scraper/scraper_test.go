package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"internscout/internal/model"
)

// roundTripFunc adapts a function into an http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// rewriteClient returns a Client whose requests are redirected to srv
// regardless of the URL a scraper builds.
func rewriteClient(srv *httptest.Server) *Client {
	httpClient := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			req.URL.Scheme = "http"
			req.URL.Host = srv.Listener.Addr().String()
			return http.DefaultTransport.RoundTrip(req)
		}),
	}
	return NewClient(httpClient, nil)
}

func TestInternList_ParsesListings(t *testing.T) {
	page := `<html><body><ul>
		<li>
			<a href="#">skip</a>
			<a href="https://www.intern-list.com/pm-intern-list/acme-pm-intern">view</a>
			<p>Product Management Intern</p>
			<p>March 12, 2026</p>
			<p>Acme Corp</p>
		</li>
		<li>
			<a href="/pm-intern-list/globex-tpm">view</a>
			<p>TPM Intern - Summer 2026</p>
			<p>March 13, 2026</p>
			<p>Globex</p>
		</li>
		<li><p>no link here</p></li>
	</ul></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	s := NewInternList(rewriteClient(srv), []string{"Product Management Intern"})
	records, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	r := records[0]
	if r.Title != "Product Management Intern" {
		t.Errorf("title = %q", r.Title)
	}
	if r.Company != "Acme Corp" {
		t.Errorf("company = %q", r.Company)
	}
	if r.PostedText != "March 12, 2026" {
		t.Errorf("posted = %q", r.PostedText)
	}
	if r.Source != "intern-list.com" {
		t.Errorf("source = %q", r.Source)
	}

	// Relative link resolved against the base URL.
	if records[1].URL != "https://www.intern-list.com/pm-intern-list/globex-tpm" {
		t.Errorf("url = %q", records[1].URL)
	}
}

func TestInternList_VisitsEachCategoryOnce(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("<html><body></body></html>"))
	}))
	defer srv.Close()

	// Both roles map to the same pm category page.
	s := NewInternList(rewriteClient(srv), []string{
		"Product Management Intern",
		"Technical Program Management Intern",
	})
	if _, err := s.Scrape(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != 1 {
		t.Errorf("category page fetched %d times, want 1", hits)
	}
}

func TestLinkedIn_ParsesListings(t *testing.T) {
	page := `<html><body><ul>
		<li>
			<h3>Data Analyst Intern</h3>
			<h4>Initech</h4>
			<a href="https://www.linkedin.com/jobs/view/12345?refId=abc">job</a>
			<span class="job-search-card__location">Austin, TX</span>
			<time datetime="2026-03-13">5 hours ago</time>
		</li>
		<li>
			<h3>No Link Item</h3>
		</li>
		<li>
			<h3>Datetime Fallback Intern</h3>
			<a href="https://www.linkedin.com/jobs/view/67890">job</a>
			<time datetime="2026-03-13"></time>
		</li>
	</ul></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("keywords"); got != "Data Analyst Intern" {
			t.Errorf("keywords = %q", got)
		}
		w.Write([]byte(page))
	}))
	defer srv.Close()

	s := NewLinkedIn(rewriteClient(srv), []string{"Data Analyst Intern"}, "United States")
	records, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	r := records[0]
	if r.Company != "Initech" {
		t.Errorf("company = %q", r.Company)
	}
	if r.Location != "Austin, TX" {
		t.Errorf("location = %q", r.Location)
	}
	if r.PostedText != "5 hours ago" {
		t.Errorf("posted = %q", r.PostedText)
	}

	// Empty <time> text falls back to the datetime attribute.
	if records[1].PostedText != "2026-03-13" {
		t.Errorf("fallback posted = %q", records[1].PostedText)
	}
}

func TestSimplyHired_ParsesListings(t *testing.T) {
	page := `<html><body>
		<article data-jobkey="k1">
			<h3>Business Analyst Intern</h3>
			<a href="/job/abc123">view</a>
			<span data-testid="companyName">Umbrella</span>
			<span data-testid="searchSerpJobLocation">Remote</span>
			<time>3 hours ago</time>
		</article>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	s := NewSimplyHired(rewriteClient(srv), []string{"Business Analyst Intern"}, "United States")
	records, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}

	r := records[0]
	if r.URL != "https://www.simplyhired.com/job/abc123" {
		t.Errorf("url = %q", r.URL)
	}
	if r.Company != "Umbrella" {
		t.Errorf("company = %q", r.Company)
	}
	if r.Location != "Remote" {
		t.Errorf("location = %q", r.Location)
	}
	if r.PostedText != "3 hours ago" {
		t.Errorf("posted = %q", r.PostedText)
	}
}

func TestWayUp_ParsesListings(t *testing.T) {
	page := `<html><body>
		<article>
			<h3>Marketing Intern</h3>
			<span class="company-name">Hooli</span>
			<a href="/listing/hooli-marketing-intern">view</a>
		</article>
		<a href="/s/internships/?page=2">next</a>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	s := NewWayUp(rewriteClient(srv), []string{"Marketing Intern"}, "United States")
	records, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].Title != "Marketing Intern" {
		t.Errorf("title = %q", records[0].Title)
	}
	if records[0].URL != "https://www.wayup.com/listing/hooli-marketing-intern" {
		t.Errorf("url = %q", records[0].URL)
	}
}

func TestIndeed_ParsesListings(t *testing.T) {
	page := `<html><body>
		<div class="job_seen_beacon">
			<h2 class="jobTitle"><a href="/rc/clk?jk=abc123">Software Engineering Intern</a></h2>
			<span data-testid="company-name">Stark Industries</span>
			<div data-testid="text-location">New York, NY</div>
			<span class="date">Posted 2 days ago</span>
		</div>
		<div class="job_seen_beacon">
			<h2 class="jobTitle"><a href="https://www.indeed.com/viewjob?jk=def456">Data Intern</a></h2>
		</div>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("fromage"); got != "1" {
			t.Errorf("fromage = %q", got)
		}
		w.Write([]byte(page))
	}))
	defer srv.Close()

	s := NewIndeed(rewriteClient(srv), []string{"Software Engineering Intern"}, "United States")
	records, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	r := records[0]
	if r.URL != "https://www.indeed.com/rc/clk?jk=abc123" {
		t.Errorf("url = %q", r.URL)
	}
	if r.Company != "Stark Industries" {
		t.Errorf("company = %q", r.Company)
	}
	if r.Location != "New York, NY" {
		t.Errorf("location = %q", r.Location)
	}
	if r.PostedText != "Posted 2 days ago" {
		t.Errorf("posted = %q", r.PostedText)
	}

	// Card without company/location falls back to the search location.
	if records[1].Location != "United States" {
		t.Errorf("fallback location = %q", records[1].Location)
	}
}

func TestGlassdoor_ParsesListings(t *testing.T) {
	page := `<html><body><ul>
		<li class="react-job-listing">
			<a data-test="job-link" href="/partner/jobListing.htm?id=111">Finance Intern</a>
			<div data-test="emp-name">Wayne Enterprises</div>
			<span data-test="emp-location">Gotham, NJ</span>
			<div data-test="job-age">1 day ago</div>
		</li>
		<li class="react-job-listing">
			<a data-test="job-link" href="https://www.glassdoor.com/job/222">Ops Intern</a>
		</li>
	</ul></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Referer"); got != "https://www.glassdoor.com/" {
			t.Errorf("referer = %q", got)
		}
		if got := r.URL.Query().Get("sc.keyword"); got != "Finance Intern" {
			t.Errorf("sc.keyword = %q", got)
		}
		w.Write([]byte(page))
	}))
	defer srv.Close()

	s := NewGlassdoor(rewriteClient(srv), []string{"Finance Intern"})
	records, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	r := records[0]
	if r.URL != "https://www.glassdoor.com/partner/jobListing.htm?id=111" {
		t.Errorf("url = %q", r.URL)
	}
	if r.Company != "Wayne Enterprises" {
		t.Errorf("company = %q", r.Company)
	}
	if r.Location != "Gotham, NJ" {
		t.Errorf("location = %q", r.Location)
	}
	if r.PostedText != "1 day ago" {
		t.Errorf("posted = %q", r.PostedText)
	}

	if records[1].Location != "United States" {
		t.Errorf("fallback location = %q", records[1].Location)
	}
}

func TestGetDocument_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), nil)
	_, err := c.GetDocument(context.Background(), srv.URL)

	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *model.HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", httpErr.StatusCode)
	}
	if httpErr.RetryAfter.Seconds() != 120 {
		t.Errorf("retry-after = %v, want 120s", httpErr.RetryAfter)
	}
}
