package publish

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"time"

	"github.com/dealbrew/dealbrew/app/deal"
)

// Feed renders the deals as an RSS 2.0 document.
type Feed struct {
	siteTitle string
	footer    string
}

func NewFeed(siteTitle, footer string) *Feed {
	return &Feed{siteTitle: siteTitle, footer: footer}
}

func (f *Feed) Run(deals []deal.Deal, now time.Time) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	f.writeElement(&buf, "title", f.siteTitle, 4)
	f.writeElement(&buf, "description", fmt.Sprintf("%s - %s", f.siteTitle, f.footer), 4)
	f.writeElement(&buf, "lastBuildDate", now.Format(time.RFC1123Z), 4)

	for _, d := range deals {
		f.writeItem(&buf, d, now)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String()
}

// WriteFile renders the feed into dir/deals.xml.
func (f *Feed) WriteFile(dir string, deals []deal.Deal, now time.Time) error {
	path := filepath.Join(dir, "deals.xml")

	if err := os.WriteFile(path, []byte(f.Run(deals, now)), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (f *Feed) writeItem(buf *bytes.Buffer, d deal.Deal, now time.Time) {
	buf.WriteString("    <item>\n")

	f.writeElement(buf, "title", d.Headline, 6)
	f.writeElement(buf, "link", d.ResolvedLink, 6)

	description := d.Reason
	if d.Discount != "" {
		description = fmt.Sprintf("%s (est. %s off)", d.Reason, d.Discount)
	}
	f.writeElement(buf, "description", description, 6)

	f.writeElement(buf, "category", d.Category, 6)
	f.writeElement(buf, "source", d.SourceName, 6)
	f.writeElement(buf, "pubDate", now.Format(time.RFC1123Z), 6)

	if d.ResolvedLink != "" {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"false\">%s</guid>\n",
			html.EscapeString(d.ResolvedLink)))
	}

	buf.WriteString("    </item>\n")
}

func (f *Feed) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
