package services

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/DorianAlbert/AlbionSearchPrice/internal/metrics"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/models"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/store"
)

// PriceFetcher is the slice of MarketClient the projection needs.
type PriceFetcher interface {
	FetchSummary(ctx context.Context, itemID string) *models.PriceSummary
}

// Projection maintains the in-memory view: the current watchlist plus the
// latest price summary per entry, sorted by profit on demand.
//
// Every aggregation pass carries a generation number. A reload supersedes any
// pass still in flight by bumping the generation; results arriving from a
// superseded pass are dropped at the merge point so stale data never
// overwrites fresher state.
type Projection struct {
	store   *store.Store
	fetcher PriceFetcher
	workers int

	mu         sync.RWMutex
	entries    []models.WatchlistEntry
	summaries  map[string]*models.PriceSummary // keyed by WatchlistEntry.ID
	generation uint64

	changed chan struct{}
}

func NewProjection(st *store.Store, fetcher PriceFetcher, workers int) *Projection {
	if workers <= 0 {
		workers = 4
	}
	return &Projection{
		store:     st,
		fetcher:   fetcher,
		workers:   workers,
		summaries: make(map[string]*models.PriceSummary),
		changed:   make(chan struct{}, 1),
	}
}

// Changed returns a channel that receives a (coalesced) signal whenever the
// projection content changes. It is the push half of the observer contract;
// SortedView is the pull half.
func (p *Projection) Changed() <-chan struct{} {
	return p.changed
}

func (p *Projection) notify() {
	select {
	case p.changed <- struct{}{}:
	default:
	}
}

// Reload re-reads the watchlist from the store, replaces the entry list, and
// runs a fresh aggregation pass over every entry with a bounded worker pool.
// Summaries for surviving entries stay visible until their replacement
// arrives. On a store error the in-memory state is left untouched.
func (p *Projection) Reload(ctx context.Context) error {
	entries, err := p.store.ListWatchlist()
	if err != nil {
		log.Printf("Projection: failed to list watchlist: %v", err)
		return err
	}

	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.entries = entries

	// Drop summaries for entries that no longer exist.
	live := make(map[string]bool, len(entries))
	for _, e := range entries {
		live[e.ID] = true
	}
	for id := range p.summaries {
		if !live[id] {
			delete(p.summaries, id)
		}
	}
	p.mu.Unlock()

	metrics.WatchlistSize.Set(float64(len(entries)))
	p.notify()

	p.aggregate(ctx, gen, entries)
	return nil
}

// aggregate fans fetches out over a fixed-size worker pool. Each item fails
// independently: an error summary for one item never delays or aborts the
// others.
func (p *Projection) aggregate(ctx context.Context, gen uint64, entries []models.WatchlistEntry) {
	if len(entries) == 0 {
		return
	}

	jobs := make(chan models.WatchlistEntry)
	var wg sync.WaitGroup

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range jobs {
				summary := p.fetcher.FetchSummary(ctx, entry.ItemID)
				p.merge(gen, entry.ID, summary)
			}
		}()
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- entry:
		}
	}
	close(jobs)
	wg.Wait()
}

// merge records one fetch result, unless a newer reload has superseded the
// pass it belongs to.
func (p *Projection) merge(gen uint64, entryID string, summary *models.PriceSummary) {
	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		metrics.StaleResultsDropped.Inc()
		return
	}
	p.summaries[entryID] = summary
	p.mu.Unlock()

	p.updateBestProfitMetric()
	p.notify()
}

// RefreshItem re-aggregates a single watchlist entry without touching the
// rest of the projection.
func (p *Projection) RefreshItem(ctx context.Context, entryID string) bool {
	p.mu.RLock()
	gen := p.generation
	var target *models.WatchlistEntry
	for i := range p.entries {
		if p.entries[i].ID == entryID {
			target = &p.entries[i]
			break
		}
	}
	p.mu.RUnlock()

	if target == nil {
		return false
	}

	summary := p.fetcher.FetchSummary(ctx, target.ItemID)
	p.merge(gen, entryID, summary)
	return true
}

// SortedView returns the projection rows ordered by descending profit.
// Rows without a computed summary are incomparable: they keep their relative
// position instead of being forced to the bottom.
func (p *Projection) SortedView() []models.WatchlistRow {
	p.mu.RLock()
	rows := make([]models.WatchlistRow, len(p.entries))
	for i, e := range p.entries {
		rows[i] = models.WatchlistRow{Entry: e, Summary: p.summaries[e.ID]}
	}
	p.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Summary.HasSummary() || !rows[j].Summary.HasSummary() {
			return false
		}
		return rows[i].Summary.ProfitPercent > rows[j].Summary.ProfitPercent
	})
	return rows
}

// ResetAll deletes every watchlist entry and clears all summaries.
// Favorites are not touched. On a store error nothing in memory changes.
func (p *Projection) ResetAll(ctx context.Context) error {
	if err := p.store.ResetWatchlist(); err != nil {
		log.Printf("Projection: failed to reset watchlist: %v", err)
		return err
	}

	p.mu.Lock()
	p.generation++ // kill any in-flight pass
	p.entries = nil
	p.summaries = make(map[string]*models.PriceSummary)
	p.mu.Unlock()

	metrics.WatchlistSize.Set(0)
	metrics.BestProfitPercent.Set(0)
	p.notify()
	return nil
}

func (p *Projection) updateBestProfitMetric() {
	p.mu.RLock()
	best := 0.0
	for _, s := range p.summaries {
		if s.HasSummary() && s.ProfitPercent > best {
			best = s.ProfitPercent
		}
	}
	p.mu.RUnlock()
	metrics.BestProfitPercent.Set(best)
}
