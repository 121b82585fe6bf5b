package output

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/whereisit-project/whereisit/internal/domain"
	"github.com/whereisit-project/whereisit/internal/listing"
	"github.com/whereisit-project/whereisit/internal/thumbnail"
)

// Date layouts.
const (
	DateLayout     = "January 2, 2006"
	DateTimeLayout = "January 2, 2006 at 3:04 PM"
)

var strict = bluemonday.StrictPolicy()

// Clean strips markup and control characters from user-supplied text so it
// prints as plain text on one line.
func Clean(s string) string {
	s = html.UnescapeString(strict.Sanitize(s))
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// Truncate shortens s to n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 1 {
		return s
	}
	return string(r[:n-1]) + "…"
}

// FormatDate renders t as "January 2, 2006" in the printer's zone.
func (p *Printer) FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(p.loc).Format(DateLayout)
}

// FormatDateTime renders t with its time of day.
func (p *Printer) FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(p.loc).Format(DateTimeLayout)
}

// CategoryLabel is the display form of a category.
func CategoryLabel(c domain.Category) string {
	return cases.Title(language.English).String(string(c))
}

func statusLabel(l domain.Listing) string {
	if l.IsRecovered() {
		return "Recovered"
	}
	return "Open"
}

// Listings prints listings as a table.
func (p *Printer) Listings(posts []domain.Listing) error {
	if len(posts) == 0 {
		p.Info("No posts found")
		return nil
	}
	t := p.NewTable([]string{"ID", "Type", "Title", "Category", "Location", "Date", "Status"})
	for _, l := range posts {
		t.AddRow(
			l.ID,
			string(l.PostType),
			Truncate(Clean(l.Title), 40),
			CategoryLabel(l.Category),
			Truncate(Clean(l.Location), 30),
			p.FormatDate(l.Date),
			statusLabel(l),
		)
	}
	return t.Render()
}

// ListingDetail prints one listing with its reporter's contact.
func (p *Printer) ListingDetail(l domain.Listing) {
	if p.quiet {
		return
	}
	title := Clean(l.Title)
	badges := p.Badge(string(l.PostType))
	if l.IsRecovered() {
		badges += " " + p.Badge("Recovered")
	}
	p.Header(title)
	fmt.Fprintf(p.out, "%s\n", badges)
	if d := Clean(l.Description); d != "" {
		fmt.Fprintf(p.out, "\n%s\n", d)
	}
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "  %-11s %s\n", "Category:", CategoryLabel(l.Category))
	fmt.Fprintf(p.out, "  %-11s %s\n", "Location:", Clean(l.Location))
	fmt.Fprintf(p.out, "  %-11s %s\n", "Date:", p.FormatDate(l.Date))
	if !l.CreatedAt.IsZero() {
		fmt.Fprintf(p.out, "  %-11s %s\n", "Posted:", p.FormatDateTime(l.CreatedAt))
	}
	fmt.Fprintf(p.out, "  %-11s %s\n", "Thumbnail:", Clean(l.Thumbnail))
	fmt.Fprintf(p.out, "  %-11s %s\n", "Status:", statusLabel(l))

	p.Header("Contact")
	fmt.Fprintf(p.out, "  %-11s %s\n", "Name:", Clean(l.Name))
	fmt.Fprintf(p.out, "  %-11s %s\n", "Email:", Clean(l.Email))
}

// Recovered prints recovery records as cards ("grid") or a table.
func (p *Printer) Recovered(items []domain.RecoveryRecord, view string) error {
	if len(items) == 0 {
		p.Info("No recovered items yet")
		return nil
	}
	if view == "table" {
		t := p.NewTable([]string{"Title", "Type", "Category", "Recovered At", "Recovered On", "Recovered By"})
		for _, r := range items {
			t.AddRow(
				Truncate(Clean(r.OriginalPost.Title), 40),
				string(r.OriginalPost.PostType),
				CategoryLabel(r.OriginalPost.Category),
				Truncate(Clean(r.RecoveredLocation), 30),
				p.FormatDate(r.RecoveryDate),
				Clean(r.RecoveredBy.Name),
			)
		}
		return t.Render()
	}

	if p.quiet {
		return nil
	}
	for i, r := range items {
		if i > 0 {
			fmt.Fprintln(p.out)
		}
		fmt.Fprintf(p.out, "%s %s\n", p.Bold(Clean(r.OriginalPost.Title)), p.Badge(string(r.OriginalPost.PostType)))
		fmt.Fprintf(p.out, "  %-14s %s\n", "Category:", CategoryLabel(r.OriginalPost.Category))
		fmt.Fprintf(p.out, "  %-14s %s\n", "Recovered at:", Clean(r.RecoveredLocation))
		fmt.Fprintf(p.out, "  %-14s %s\n", "Recovered on:", p.FormatDate(r.RecoveryDate))
		fmt.Fprintf(p.out, "  %-14s %s (%s)\n", "Recovered by:", Clean(r.RecoveredBy.Name), Clean(r.RecoveredBy.Email))
	}
	return nil
}

// Pagination prints the page summary and the compact page list.
func (p *Printer) Pagination(pg domain.Pagination, window []listing.PageItem, shown int) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "\nShowing %d of %d posts. Page %d of %d\n", shown, pg.Total, pg.Page, max(pg.TotalPages, 1))
	if len(window) == 0 {
		return
	}

	parts := make([]string, 0, len(window)+2)
	prev, next := "‹ Prev", "Next ›"
	if !pg.HasPrevPage {
		prev = p.Dim(prev)
	}
	if !pg.HasNextPage {
		next = p.Dim(next)
	}
	parts = append(parts, prev)
	for _, it := range window {
		switch {
		case it.Ellipsis:
			parts = append(parts, "…")
		case it.Current:
			parts = append(parts, p.Bold("["+strconv.Itoa(it.Page)+"]"))
		default:
			parts = append(parts, strconv.Itoa(it.Page))
		}
	}
	parts = append(parts, next)
	fmt.Fprintln(p.out, strings.Join(parts, " "))
}

// Identity prints the signed-in user with their activity counts.
func (p *Printer) Identity(id domain.Identity, posts, recovered int) {
	if p.quiet {
		return
	}
	p.Header(Clean(id.DisplayName))
	fmt.Fprintf(p.out, "  %-11s %s\n", "Email:", Clean(id.Email))
	if id.PhotoURL != "" {
		fmt.Fprintf(p.out, "  %-11s %s\n", "Photo:", Clean(id.PhotoURL))
	}
	fmt.Fprintf(p.out, "  %-11s %d\n", "Posts:", posts)
	fmt.Fprintf(p.out, "  %-11s %d\n", "Recovered:", recovered)
}

// Thumbnail prints probe results and an optional text preview.
func (p *Printer) Thumbnail(info thumbnail.Info, preview string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "\nThumbnail: %s %dx%d, %d bytes\n", strings.ToUpper(info.Format), info.Width, info.Height, info.Bytes)
	if preview != "" {
		fmt.Fprint(p.out, preview)
	}
}
