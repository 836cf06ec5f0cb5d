package domain

import (
	"fmt"
	"net/url"
)

const chartBaseURL = "https://www.tradingview.com/chart/"

// ChartURLParams describes one chart view. All fields are required; callers
// supply fixed values, the builder does no defaulting.
type ChartURLParams struct {
	Exchange        string
	Pair            CanonicalPair
	Theme           string
	Timeframe       string
	WindowDays      int
	CollapseToolbar bool
}

// BuildChartURL renders the chart viewer URL for the given parameters.
// Purely a string transform: same input, same output.
func BuildChartURL(p ChartURLParams) string {
	toolbar := "true"
	if p.CollapseToolbar {
		toolbar = "false"
	}

	q := url.Values{}
	q.Set("theme", p.Theme)
	q.Set("interval", p.Timeframe)
	// Reserved for indicator overlays; the viewer expects the key to exist.
	q.Set("studies", "")
	q.Set("range", fmt.Sprintf("%dD", p.WindowDays))
	q.Set("symbol", p.Exchange+":"+string(p.Pair))
	q.Set("toolbar", toolbar)

	return chartBaseURL + "?" + q.Encode()
}
