package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// earnings layouts seen on the Yahoo calendar page.
var earningsDateLayouts = []string{
	"Jan 2, 2006",
	"Jan 02, 2006",
	"2006-01-02",
}

// NextEarningsDate scrapes the Yahoo earnings calendar for the symbol's
// next report date. The calendar has no stable API and ETFs have no
// earnings at all, so every failure is reported as "no date" rather
// than an error.
func (c *Client) NextEarningsDate(ctx context.Context, symbol string) (time.Time, bool) {
	pageURL := fmt.Sprintf("%s?symbol=%s", c.cfg.CalendarURL, url.QueryEscape(symbol))

	resp, err := c.httpClient.Get(ctx, pageURL)
	if err != nil {
		c.logger.WithError(err).WithField("symbol", symbol).Debug("Earnings calendar fetch failed")
		return time.Time{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return time.Time{}, false
	}

	dates := parseEarningsDates(string(body))
	if len(dates) == 0 {
		return time.Time{}, false
	}

	// Rows are not guaranteed to be ordered. Pick the earliest date on
	// or after today.
	today := c.today()
	var next time.Time
	for _, d := range dates {
		if d.Before(today) {
			continue
		}
		if next.IsZero() || d.Before(next) {
			next = d
		}
	}
	if next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}

// HasEarningsSoon reports whether the symbol reports earnings within
// bufferDays of today.
func (c *Client) HasEarningsSoon(ctx context.Context, symbol string, bufferDays int) bool {
	next, ok := c.NextEarningsDate(ctx, symbol)
	if !ok {
		return false
	}
	days := int(next.Sub(c.today()).Hours() / 24)
	return days >= 0 && days <= bufferDays
}

// parseEarningsDates pulls the earnings date column out of the calendar
// results table.
func parseEarningsDates(html string) []time.Time {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var dates []time.Time
	doc.Find("table tbody tr").Each(func(i int, row *goquery.Selection) {
		cell := row.Find(`td[aria-label="Earnings Date"]`)
		if cell.Length() == 0 {
			// Layout variant without aria labels: the date is the third
			// column.
			cells := row.Find("td")
			if cells.Length() < 3 {
				return
			}
			cell = cells.Eq(2)
		}

		text := strings.TrimSpace(cell.Text())
		// Strip a trailing time component such as "Nov 5, 2026, 4 PM EST".
		if idx := strings.Index(text, ", 20"); idx > 0 && len(text) > idx+6 {
			text = text[:idx+6]
		}

		for _, layout := range earningsDateLayouts {
			if d, err := time.Parse(layout, text); err == nil {
				dates = append(dates, d.UTC())
				return
			}
		}
	})
	return dates
}
