package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/rasticrookie/portfolio/quote"
)

const demoNotice = "> **Demo data:** market data providers are unavailable, figures are simulated.\n\n"

// QuotesMarkdown renders quotes under title. demo adds the demo data notice.
func QuotesMarkdown(title string, quotes []quote.Quote, demo bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if demo {
		b.WriteString(demoNotice)
	}
	if len(quotes) == 0 {
		fmt.Fprintln(&b, "_No symbols._")
		return b.String()
	}
	fmt.Fprintln(&b, "| Symbol | Name | Price | Change | Change % | Volume |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|")
	for _, q := range quotes {
		fmt.Fprintf(&b, "| %s | %s | %.2f | %+.2f | %+.2f%% | %s |\n",
			q.Symbol,
			q.Name,
			q.Price,
			q.Change,
			q.ChangePercent,
			volume(q.Volume),
		)
	}
	return b.String()
}

// volume groups digits by thousands.
func volume(v int64) string {
	if v < 0 {
		return "-" + volume(-v)
	}
	s := fmt.Sprintf("%d", v)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NewsMarkdown renders articles, with their age relative to now.
func NewsMarkdown(articles []quote.Article, demo bool, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Market News\n\n")
	if demo {
		b.WriteString(demoNotice)
	}
	if len(articles) == 0 {
		fmt.Fprintln(&b, "_No news._")
		return b.String()
	}
	for _, a := range articles {
		if a.URL == "" || a.URL == "#" {
			fmt.Fprintf(&b, "### %s\n\n", a.Headline)
		} else {
			fmt.Fprintf(&b, "### [%s](%s)\n\n", a.Headline, a.URL)
		}
		fmt.Fprintf(&b, "_%s, %s_", a.Source, ago(now, a.PublishedAt))
		if len(a.Tickers) > 0 {
			fmt.Fprintf(&b, " `%s`", strings.Join(a.Tickers, "` `"))
		}
		fmt.Fprintf(&b, "\n\n%s\n\n", a.Summary)
	}
	return b.String()
}

// ago formats the age of t.
func ago(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour") + " ago"
	default:
		return t.Format("2006-01-02")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
