package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/DorianAlbert/AlbionSearchPrice/internal/metrics"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/models"
)

const (
	defaultFeedBaseURL = "https://europe.albion-online-data.com"
	defaultFeedTimeout = 10 * time.Second

	// The feed reports the neutral hub under its display name or its
	// numeric city code, depending on endpoint version. Both forms are
	// excluded from arbitrage: goods cannot be hauled out of it.
	neutralHubName = "Black Market"
	neutralHubCode = "301"
)

// MarketClient fetches price quotes from the Albion Online Data feed and
// reduces them to per-item arbitrage summaries.
type MarketClient struct {
	client    *http.Client
	baseURL   string
	locations []string
	timeout   time.Duration
	limiter   *rate.Limiter
}

// cityName decodes the feed's city field, which is inconsistently a string
// name or a small integer code.
type cityName string

func (c *cityName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = cityName(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*c = cityName(strconv.Itoa(n))
		return nil
	}
	return fmt.Errorf("city is neither string nor number: %s", string(data))
}

// priceEntry is one raw quote row from the feed.
type priceEntry struct {
	City         cityName `json:"city"`
	SellPriceMin float64  `json:"sell_price_min"`
	BuyPriceMax  float64  `json:"buy_price_max"`
}

// MarketOption customizes a MarketClient.
type MarketOption func(*MarketClient)

func WithBaseURL(baseURL string) MarketOption {
	return func(m *MarketClient) { m.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithTimeout(timeout time.Duration) MarketOption {
	return func(m *MarketClient) {
		m.timeout = timeout
		m.client.Timeout = timeout
	}
}

// WithRateLimit throttles outbound feed requests. The feed is a free
// community service; hammering it gets clients banned.
func WithRateLimit(requestsPerSec float64) MarketOption {
	return func(m *MarketClient) {
		if requestsPerSec > 0 {
			m.limiter = rate.NewLimiter(rate.Limit(requestsPerSec), 1)
		}
	}
}

// NewMarketClient creates a feed client querying the given locations.
func NewMarketClient(locations []string, opts ...MarketOption) *MarketClient {
	m := &MarketClient{
		client:    &http.Client{Timeout: defaultFeedTimeout},
		baseURL:   defaultFeedBaseURL,
		locations: locations,
		timeout:   defaultFeedTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FetchSummary retrieves quotes for one item and reduces them to a single
// best-buy/best-sell summary. It never returns an error: transport and
// decode failures become a summary with Status error so one bad item cannot
// abort an aggregation pass.
func (m *MarketClient) FetchSummary(ctx context.Context, itemID string) *models.PriceSummary {
	start := time.Now()
	summary := m.fetchSummary(ctx, itemID)
	metrics.FeedFetchDuration.Observe(time.Since(start).Seconds())
	metrics.FeedFetchesTotal.WithLabelValues(string(summary.Status)).Inc()
	return summary
}

func (m *MarketClient) fetchSummary(ctx context.Context, itemID string) *models.PriceSummary {
	entries, err := m.fetchEntries(ctx, itemID)
	if err != nil {
		return &models.PriceSummary{
			Status:    models.SummaryError,
			Error:     err.Error(),
			FetchedAt: time.Now(),
		}
	}
	return Summarize(entries)
}

func (m *MarketClient) fetchEntries(ctx context.Context, itemID string) ([]priceEntry, error) {
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	reqURL := fmt.Sprintf("%s/api/v2/stats/prices/%s?locations=%s",
		m.baseURL,
		url.PathEscape(itemID),
		url.QueryEscape(strings.Join(m.locations, ",")))

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price feed returned status %d", resp.StatusCode)
	}

	var entries []priceEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode price feed response: %w", err)
	}
	return entries, nil
}

// Summarize filters raw quotes and reduces them to the best observed
// arbitrage. Quotes from the neutral hub and quotes with non-positive prices
// (the feed's "no data" marker) are dropped. An empty filtered set yields an
// unavailable summary, never a zero-valued one.
func Summarize(entries []priceEntry) *models.PriceSummary {
	filtered := make([]priceEntry, 0, len(entries))
	for _, e := range entries {
		if e.City == neutralHubName || e.City == neutralHubCode {
			continue
		}
		if e.SellPriceMin <= 0 || e.BuyPriceMax <= 0 {
			continue
		}
		filtered = append(filtered, e)
	}

	if len(filtered) == 0 {
		return &models.PriceSummary{
			Status:    models.SummaryUnavailable,
			FetchedAt: time.Now(),
		}
	}

	// Ties keep the first entry in feed order.
	minSell := filtered[0]
	maxBuy := filtered[0]
	for _, e := range filtered[1:] {
		if e.SellPriceMin < minSell.SellPriceMin {
			minSell = e
		}
		if e.BuyPriceMax > maxBuy.BuyPriceMax {
			maxBuy = e
		}
	}

	// The filter guarantees a positive sell price; the guard only protects
	// against division by zero if that ever changes.
	profit := 0.0
	if minSell.SellPriceMin != 0 {
		profit = (maxBuy.BuyPriceMax - minSell.SellPriceMin) / minSell.SellPriceMin * 100
	}

	return &models.PriceSummary{
		Status:           models.SummaryOK,
		BestSellLocation: string(minSell.City),
		BestSellPrice:    minSell.SellPriceMin,
		BestBuyLocation:  string(maxBuy.City),
		BestBuyPrice:     maxBuy.BuyPriceMax,
		ProfitPercent:    profit,
		FetchedAt:        time.Now(),
	}
}
