package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DorianAlbert/AlbionSearchPrice/internal/models"
)

func TestSummarizeWorkedExample(t *testing.T) {
	// One tracked item quoted in three cities; the Black Market row must be
	// excluded even though it has the widest spread.
	entries := []priceEntry{
		{City: "Caerleon", SellPriceMin: 100, BuyPriceMax: 120},
		{City: "Martlock", SellPriceMin: 90, BuyPriceMax: 95},
		{City: "Black Market", SellPriceMin: 50, BuyPriceMax: 500},
	}

	s := Summarize(entries)
	if s.Status != models.SummaryOK {
		t.Fatalf("expected ok status, got %s", s.Status)
	}
	if s.BestSellLocation != "Martlock" || s.BestSellPrice != 90 {
		t.Errorf("best sell = %s/%v, want Martlock/90", s.BestSellLocation, s.BestSellPrice)
	}
	if s.BestBuyLocation != "Caerleon" || s.BestBuyPrice != 120 {
		t.Errorf("best buy = %s/%v, want Caerleon/120", s.BestBuyLocation, s.BestBuyPrice)
	}
	want := (120.0 - 90.0) / 90.0 * 100
	if math.Abs(s.ProfitPercent-want) > 1e-9 {
		t.Errorf("profit = %v, want %v", s.ProfitPercent, want)
	}
}

func TestSummarizeFiltersInvalidEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []priceEntry
	}{
		{"zero sell price", []priceEntry{{City: "Thetford", SellPriceMin: 0, BuyPriceMax: 100}}},
		{"zero buy price", []priceEntry{{City: "Thetford", SellPriceMin: 100, BuyPriceMax: 0}}},
		{"negative prices", []priceEntry{{City: "Thetford", SellPriceMin: -5, BuyPriceMax: -1}}},
		{"hub by name", []priceEntry{{City: "Black Market", SellPriceMin: 10, BuyPriceMax: 100}}},
		{"hub by code", []priceEntry{{City: "301", SellPriceMin: 10, BuyPriceMax: 100}}},
		{"empty feed", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.entries)
			if s.Status != models.SummaryUnavailable {
				t.Errorf("expected unavailable, got %s", s.Status)
			}
			if s.BestSellPrice != 0 || s.BestBuyPrice != 0 || s.ProfitPercent != 0 {
				t.Errorf("unavailable summary must not carry numbers: %+v", s)
			}
		})
	}
}

func TestSummarizeMixedValidAndInvalid(t *testing.T) {
	entries := []priceEntry{
		{City: "301", SellPriceMin: 1, BuyPriceMax: 10000},
		{City: "Lymhurst", SellPriceMin: 0, BuyPriceMax: 300},
		{City: "Thetford", SellPriceMin: 200, BuyPriceMax: 250},
		{City: "Bridgewatch", SellPriceMin: 180, BuyPriceMax: 220},
	}

	s := Summarize(entries)
	if s.Status != models.SummaryOK {
		t.Fatalf("expected ok, got %s", s.Status)
	}
	if s.BestSellLocation != "Bridgewatch" || s.BestSellPrice != 180 {
		t.Errorf("best sell = %s/%v, want Bridgewatch/180", s.BestSellLocation, s.BestSellPrice)
	}
	// Lymhurst's 300 was filtered out; the max buy must come from a surviving row.
	if s.BestBuyLocation != "Thetford" || s.BestBuyPrice != 250 {
		t.Errorf("best buy = %s/%v, want Thetford/250", s.BestBuyLocation, s.BestBuyPrice)
	}
}

func TestSummarizeTieBreakKeepsFeedOrder(t *testing.T) {
	entries := []priceEntry{
		{City: "Martlock", SellPriceMin: 100, BuyPriceMax: 150},
		{City: "Thetford", SellPriceMin: 100, BuyPriceMax: 150},
	}

	s := Summarize(entries)
	if s.BestSellLocation != "Martlock" {
		t.Errorf("sell tie should keep first entry, got %s", s.BestSellLocation)
	}
	if s.BestBuyLocation != "Martlock" {
		t.Errorf("buy tie should keep first entry, got %s", s.BestBuyLocation)
	}
}

func TestSummarizePlantedExtrema(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cities := []string{"Thetford", "Martlock", "Lymhurst", "Caerleon", "Bridgewatch", "FortSterling"}

	for trial := 0; trial < 100; trial++ {
		n := 2 + rng.Intn(len(cities)-1)
		entries := make([]priceEntry, n)
		for i := 0; i < n; i++ {
			entries[i] = priceEntry{
				City:         cityName(cities[i]),
				SellPriceMin: 100 + float64(rng.Intn(1000)),
				BuyPriceMax:  100 + float64(rng.Intn(1000)),
			}
		}
		// Plant a strict minimum sell and maximum buy at random positions.
		sellIdx := rng.Intn(n)
		buyIdx := rng.Intn(n)
		entries[sellIdx].SellPriceMin = 50
		entries[buyIdx].BuyPriceMax = 5000

		s := Summarize(entries)
		if s.Status != models.SummaryOK {
			t.Fatalf("trial %d: expected ok, got %s", trial, s.Status)
		}
		if s.BestSellLocation != string(entries[sellIdx].City) || s.BestSellPrice != 50 {
			t.Fatalf("trial %d: best sell = %s/%v, want %s/50",
				trial, s.BestSellLocation, s.BestSellPrice, entries[sellIdx].City)
		}
		if s.BestBuyLocation != string(entries[buyIdx].City) || s.BestBuyPrice != 5000 {
			t.Fatalf("trial %d: best buy = %s/%v, want %s/5000",
				trial, s.BestBuyLocation, s.BestBuyPrice, entries[buyIdx].City)
		}
		want := (5000.0 - 50.0) / 50.0 * 100
		if math.Abs(s.ProfitPercent-want) > 1e-9 {
			t.Fatalf("trial %d: profit = %v, want %v", trial, s.ProfitPercent, want)
		}
	}
}

func TestFetchSummaryDecodesNumericCities(t *testing.T) {
	// The feed sometimes reports the city as its numeric code.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"city": "Martlock", "sell_price_min": 90, "buy_price_max": 95},
			{"city": 301, "sell_price_min": 50, "buy_price_max": 500},
			{"city": "Caerleon", "sell_price_min": 100, "buy_price_max": 120}
		]`)
	}))
	defer server.Close()

	client := NewMarketClient([]string{"Martlock", "Caerleon"}, WithBaseURL(server.URL))
	s := client.FetchSummary(context.Background(), "T4_BAG")

	if s.Status != models.SummaryOK {
		t.Fatalf("expected ok, got %s (%s)", s.Status, s.Error)
	}
	if s.BestBuyLocation != "Caerleon" || s.BestBuyPrice != 120 {
		t.Errorf("numeric hub code should be excluded; best buy = %s/%v", s.BestBuyLocation, s.BestBuyPrice)
	}
}

func TestFetchSummaryRequestPath(t *testing.T) {
	var gotPath, gotLocations string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLocations = r.URL.Query().Get("locations")
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := NewMarketClient([]string{"Thetford", "Martlock"}, WithBaseURL(server.URL))
	s := client.FetchSummary(context.Background(), "T4_BAG")

	if gotPath != "/api/v2/stats/prices/T4_BAG" {
		t.Errorf("path = %s, want /api/v2/stats/prices/T4_BAG", gotPath)
	}
	if gotLocations != "Thetford,Martlock" {
		t.Errorf("locations = %s, want Thetford,Martlock", gotLocations)
	}
	if s.Status != models.SummaryUnavailable {
		t.Errorf("empty feed should be unavailable, got %s", s.Status)
	}
}

func TestFetchSummaryTransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed payload", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"not": "an array"`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewMarketClient([]string{"Thetford"}, WithBaseURL(server.URL))
			s := client.FetchSummary(context.Background(), "T4_BAG")

			if s.Status != models.SummaryError {
				t.Errorf("expected error status, got %s", s.Status)
			}
			if s.Error == "" {
				t.Error("error summary must carry a message")
			}
		})
	}
}

func TestFetchSummaryUnreachableFeed(t *testing.T) {
	client := NewMarketClient([]string{"Thetford"}, WithBaseURL("http://127.0.0.1:1"))
	s := client.FetchSummary(context.Background(), "T4_BAG")
	if s.Status != models.SummaryError {
		t.Errorf("expected error status, got %s", s.Status)
	}
}
