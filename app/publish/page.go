package publish

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dealbrew/dealbrew/app/deal"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{ .SiteTitle }} | Daily Drops</title>
    <style>
        :root { --bg: #0f172a; --card: #1e293b; --text: #e2e8f0; --accent: #38bdf8; }
        body { font-family: system-ui, sans-serif; background: var(--bg); color: var(--text); margin: 0; padding: 20px; }
        .container { max-width: 1000px; margin: 0 auto; }
        header { text-align: center; padding: 60px 0; border-bottom: 1px solid #334155; margin-bottom: 40px; }
        h1 { font-size: 3rem; margin: 0; background: linear-gradient(to right, #38bdf8, #818cf8); -webkit-background-clip: text; -webkit-text-fill-color: transparent; }
        .date { color: #94a3b8; margin-top: 10px; }
        .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(300px, 1fr)); gap: 25px; }
        .card { background: var(--card); padding: 25px; border-radius: 12px; border: 1px solid #334155; transition: transform 0.2s; }
        .card:hover { transform: translateY(-5px); border-color: var(--accent); }
        .card img { width: 100%; border-radius: 8px; margin-bottom: 15px; }
        .tag { background: #0f172a; padding: 5px 10px; border-radius: 20px; font-size: 0.8rem; color: var(--accent); text-transform: uppercase; letter-spacing: 1px; }
        .discount { float: right; color: #4ade80; font-weight: bold; }
        .headline { font-size: 1.4rem; margin: 15px 0; font-weight: 700; color: white; text-decoration: none; display: block; }
        .reason { color: #94a3b8; line-height: 1.6; font-size: 0.95rem; }
        .btn { display: inline-block; margin-top: 20px; background: var(--accent); color: #0f172a; padding: 10px 20px; text-decoration: none; border-radius: 6px; font-weight: bold; width: 100%; text-align: center; box-sizing: border-box; }
        .empty { text-align: center; color: #94a3b8; padding: 60px 0; font-size: 1.2rem; }
        footer { text-align: center; margin-top: 80px; color: #64748b; font-size: 0.9rem; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>{{ .SiteTitle }}</h1>
            <p class="date">Fresh drops for {{ .Date }}</p>
        </header>
{{ if .Deals }}
        <div class="grid">
{{ range .Deals }}
        <div class="card">
            <span class="tag">{{ .Category }}</span>{{ if .Discount }}<span class="discount">{{ .Discount }}</span>{{ end }}
{{ if .ImageURL }}            <img src="{{ .ImageURL }}" alt="{{ .Headline }}">
{{ end }}            <a href="{{ .ResolvedLink }}" class="headline" target="_blank" rel="nofollow sponsored">{{ .Headline }}</a>
            <p class="reason">{{ .Reason }}</p>
            <a href="{{ .ResolvedLink }}" class="btn" target="_blank" rel="nofollow sponsored">Check Price &rarr;</a>
        </div>
{{ end }}
        </div>
{{ else }}
        <p class="empty">No deals today. Check back tomorrow.</p>
{{ end }}
        <footer>
            <p>{{ .Footer }}</p>
        </footer>
    </div>
</body>
</html>
`

type pageData struct {
	SiteTitle string
	Date      string
	Footer    string
	Deals     []deal.Deal
}

// Page renders the static deals page. A zero-deal run still produces a
// valid page with an empty state.
type Page struct {
	tmpl      *template.Template
	siteTitle string
	footer    string
}

func NewPage(siteTitle, footer string) *Page {
	return &Page{
		tmpl:      template.Must(template.New("page").Parse(pageTemplate)),
		siteTitle: siteTitle,
		footer:    footer,
	}
}

// Run renders the page for the given deals to w.
func (p *Page) Run(w io.Writer, deals []deal.Deal, now time.Time) error {
	data := pageData{
		SiteTitle: p.siteTitle,
		Date:      now.Format("January 2, 2006"),
		Footer:    p.footer,
		Deals:     deals,
	}

	if err := p.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// WriteFile renders the page into dir/index.html.
func (p *Page) WriteFile(dir string, deals []deal.Deal, now time.Time) error {
	path := filepath.Join(dir, "index.html")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	return p.Run(f, deals, now)
}
