package models

import (
	"time"
)

type SummaryStatus string

const (
	// SummaryOK means a best-buy/best-sell pair was computed.
	SummaryOK SummaryStatus = "ok"
	// SummaryUnavailable means every feed entry was filtered out; there is
	// no market data, which is not the same thing as zero profit.
	SummaryUnavailable SummaryStatus = "unavailable"
	// SummaryError means the fetch itself failed (transport, HTTP status,
	// malformed payload).
	SummaryError SummaryStatus = "error"
)

// PriceSummary is the derived arbitrage result for one item at one point in
// time. It is never persisted; it lives only in the session projection.
type PriceSummary struct {
	Status           SummaryStatus `json:"status"`
	BestSellLocation string        `json:"best_sell_location,omitempty"`
	BestSellPrice    float64       `json:"best_sell_price,omitempty"`
	BestBuyLocation  string        `json:"best_buy_location,omitempty"`
	BestBuyPrice     float64       `json:"best_buy_price,omitempty"`
	ProfitPercent    float64       `json:"profit_percent,omitempty"`
	Error            string        `json:"error,omitempty"`
	FetchedAt        time.Time     `json:"fetched_at"`
}

// HasSummary reports whether the row carries computed numbers that can be
// compared against other rows when sorting.
func (p *PriceSummary) HasSummary() bool {
	return p != nil && p.Status == SummaryOK
}
