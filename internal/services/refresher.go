package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/DorianAlbert/AlbionSearchPrice/internal/metrics"
)

// Refresher drives periodic aggregation passes over the watchlist and
// services urgent single-item refresh requests in between.
type Refresher struct {
	projection      *Projection
	refreshInterval time.Duration

	mu              sync.RWMutex
	lastRefreshTime time.Time
	passesCompleted int

	// Priority queue for user-requested single-item refreshes
	urgentQueue []string
	urgentMu    sync.Mutex
	wake        chan struct{}
}

type RefresherStatus struct {
	LastRefreshTime time.Time `json:"last_refresh_time"`
	NextRefreshTime time.Time `json:"next_refresh_time"`
	PassesCompleted int       `json:"passes_completed"`
	QueueSize       int       `json:"queue_size"`
}

func NewRefresher(projection *Projection, refreshInterval time.Duration) *Refresher {
	if refreshInterval <= 0 {
		refreshInterval = 5 * time.Minute
	}
	return &Refresher{
		projection:      projection,
		refreshInterval: refreshInterval,
		wake:            make(chan struct{}, 1),
	}
}

// QueueRefresh adds a watchlist entry to the high-priority refresh queue and
// returns its position.
func (r *Refresher) QueueRefresh(entryID string) int {
	r.urgentMu.Lock()
	defer r.urgentMu.Unlock()

	for i, id := range r.urgentQueue {
		if id == entryID {
			return i + 1
		}
	}
	r.urgentQueue = append(r.urgentQueue, entryID)
	log.Printf("Refresher: queued refresh for entry %s (queue size: %d)", entryID, len(r.urgentQueue))

	select {
	case r.wake <- struct{}{}:
	default:
	}
	return len(r.urgentQueue)
}

// GetQueueSize returns the current urgent queue size.
func (r *Refresher) GetQueueSize() int {
	r.urgentMu.Lock()
	defer r.urgentMu.Unlock()
	return len(r.urgentQueue)
}

func (r *Refresher) drainUrgentQueue() []string {
	r.urgentMu.Lock()
	defer r.urgentMu.Unlock()
	ids := r.urgentQueue
	r.urgentQueue = nil
	return ids
}

// Start runs the refresher until the context is cancelled. It performs an
// initial full pass immediately, then one per interval, servicing urgent
// requests as they arrive.
func (r *Refresher) Start(ctx context.Context) {
	log.Printf("Refresher started: full pass every %v", r.refreshInterval)

	r.RefreshNow(ctx)

	ticker := time.NewTicker(r.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Refresher stopping...")
			return
		case <-ticker.C:
			r.RefreshNow(ctx)
		case <-r.wake:
			for _, id := range r.drainUrgentQueue() {
				if !r.projection.RefreshItem(ctx, id) {
					log.Printf("Refresher: entry %s no longer in watchlist, skipping", id)
				}
			}
		}
	}
}

// RefreshNow runs one full aggregation pass synchronously.
func (r *Refresher) RefreshNow(ctx context.Context) {
	start := time.Now()
	if err := r.projection.Reload(ctx); err != nil {
		log.Printf("Refresher: pass failed: %v", err)
		return
	}

	r.mu.Lock()
	r.lastRefreshTime = time.Now()
	r.passesCompleted++
	r.mu.Unlock()

	metrics.RefreshPassesTotal.Inc()
	metrics.RefreshPassDuration.Observe(time.Since(start).Seconds())
}

// GetStatus returns a snapshot of the refresher state.
func (r *Refresher) GetStatus() RefresherStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RefresherStatus{
		LastRefreshTime: r.lastRefreshTime,
		NextRefreshTime: r.lastRefreshTime.Add(r.refreshInterval),
		PassesCompleted: r.passesCompleted,
		QueueSize:       r.GetQueueSize(),
	}
}
