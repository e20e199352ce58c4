package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"internscout/internal/model"
)

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"fmtTime": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("Jan 2, 2006 15:04")
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 0; padding: 20px; background: #f5f5f5; }
  .container { max-width: 700px; margin: 0 auto; background: white; border-radius: 12px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.1); }
  .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; }
  .header h1 { margin: 0; font-size: 24px; }
  .header p { margin: 8px 0 0; opacity: 0.9; font-size: 14px; }
  .stats { display: flex; gap: 20px; padding: 20px 30px; background: #f8f9fa; border-bottom: 1px solid #eee; }
  .stat { text-align: center; }
  .stat-num { font-size: 28px; font-weight: bold; color: #667eea; }
  .stat-label { font-size: 12px; color: #666; text-transform: uppercase; }
  .role-section { padding: 10px 30px; }
  .role-title { font-size: 16px; font-weight: 600; color: #333; margin: 20px 0 12px; padding-bottom: 8px; border-bottom: 2px solid #667eea; }
  .job-card { padding: 12px 16px; margin: 8px 0; background: #f8f9fa; border-radius: 8px; border-left: 3px solid #667eea; }
  .job-title { font-size: 15px; font-weight: 600; }
  .job-title a { color: #667eea; text-decoration: none; }
  .job-meta { font-size: 13px; color: #666; margin-top: 4px; }
  .footer { padding: 20px 30px; background: #f8f9fa; text-align: center; font-size: 12px; color: #999; border-top: 1px solid #eee; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>internscout</h1>
    <p>{{.GeneratedAt}}</p>
  </div>
  <div class="stats">
    <div class="stat">
      <div class="stat-num">{{.Total}}</div>
      <div class="stat-label">New Listings</div>
    </div>
    <div class="stat">
      <div class="stat-num">{{len .Groups}}</div>
      <div class="stat-label">Roles</div>
    </div>
  </div>
{{range .Groups}}  <div class="role-section">
    <div class="role-title">{{.Role}} ({{len .Listings}})</div>
{{range .Listings}}    <div class="job-card">
      <div class="job-title"><a href="{{.URL}}">{{.Title}}</a></div>
      <div class="job-meta">{{.Meta}}</div>
    </div>
{{end}}  </div>
{{end}}  <div class="footer">Generated by internscout</div>
</div>
</body>
</html>
`))

type tmplListing struct {
	Title string
	URL   string
	Meta  string
}

type tmplGroup struct {
	Role     string
	Listings []tmplListing
}

type tmplData struct {
	GeneratedAt string
	Total       int
	Groups      []tmplGroup
}

// RenderHTML renders the role-grouped result as a standalone HTML page,
// also used as the email body.
func RenderHTML(result model.RunResult, now time.Time) (string, error) {
	data := tmplData{
		GeneratedAt: now.Format("January 2, 2006 at 3:04 PM"),
		Total:       result.Total(),
	}
	for _, g := range result.Groups {
		tg := tmplGroup{Role: g.Role}
		for _, l := range g.Listings {
			tg.Listings = append(tg.Listings, tmplListing{
				Title: l.Title,
				URL:   l.URL,
				Meta:  listingMeta(l),
			})
		}
		data.Groups = append(data.Groups, tg)
	}

	var b strings.Builder
	if err := reportTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return b.String(), nil
}

func listingMeta(l model.Listing) string {
	var parts []string
	if l.Company != "" {
		parts = append(parts, "at "+l.Company)
	}
	if l.Location != "" {
		parts = append(parts, l.Location)
	}
	if l.PostedAt != nil {
		parts = append(parts, "posted "+l.PostedAt.Format("Jan 2, 2006"))
	}
	parts = append(parts, "via "+l.Source)
	return strings.Join(parts, " · ")
}
