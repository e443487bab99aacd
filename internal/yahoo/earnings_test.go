package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const earningsHTML = `
<html><body>
<table>
<thead><tr><th>Symbol</th><th>Company</th><th>Earnings Date</th></tr></thead>
<tbody>
<tr>
  <td aria-label="Symbol">AAPL</td>
  <td aria-label="Company">Apple Inc.</td>
  <td aria-label="Earnings Date">Oct 29, 2026, 4 PM EST</td>
</tr>
<tr>
  <td aria-label="Symbol">AAPL</td>
  <td aria-label="Company">Apple Inc.</td>
  <td aria-label="Earnings Date">Sep 4, 2026, 4 PM EST</td>
</tr>
</tbody>
</table>
</body></html>`

func TestParseEarningsDates(t *testing.T) {
	dates := parseEarningsDates(earningsHTML)
	require.Len(t, dates, 2)
	assert.Equal(t, time.Date(2026, 10, 29, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC), dates[1])
}

func TestParseEarningsDatesPositional(t *testing.T) {
	html := `
<table><tbody>
<tr><td>MSFT</td><td>Microsoft</td><td>Oct 27, 2026</td></tr>
</tbody></table>`

	dates := parseEarningsDates(html)
	require.Len(t, dates, 1)
	assert.Equal(t, time.Date(2026, 10, 27, 0, 0, 0, 0, time.UTC), dates[0])
}

func TestParseEarningsDatesGarbage(t *testing.T) {
	assert.Empty(t, parseEarningsDates("<html><body>nothing here</body></html>"))
	assert.Empty(t, parseEarningsDates(""))
}

func TestNextEarningsDatePicksEarliestUpcoming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		fmt.Fprint(w, earningsHTML)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL, "")
	c.cfg.CalendarURL = server.URL + "/calendar/earnings"

	next, ok := c.NextEarningsDate(context.Background(), "AAPL")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC), next)
}

func TestHasEarningsSoon(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, earningsHTML)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL, "")
	c.cfg.CalendarURL = server.URL + "/calendar/earnings"

	// Next report Sep 4, today is Sep 1.
	assert.True(t, c.HasEarningsSoon(context.Background(), "AAPL", 7))
	assert.False(t, c.HasEarningsSoon(context.Background(), "AAPL", 2))
}

func TestHasEarningsSoonNoCalendar(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL, "")
	c.cfg.CalendarURL = server.URL + "/calendar/earnings"

	// ETFs have no earnings rows; the lookup degrades to "no earnings".
	assert.False(t, c.HasEarningsSoon(context.Background(), "SPY", 7))
}
