package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/schemer-edu/schemer-server/internal/storage"
)

// Cleaner handles periodic deletion of expired course carts
type Cleaner struct {
	repo     storage.Repository
	interval time.Duration
}

// NewCleaner creates a new cart reaper
func NewCleaner(repo storage.Repository, interval time.Duration) *Cleaner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Cleaner{
		repo:     repo,
		interval: interval,
	}
}

// Start begins the reaper in a goroutine
func (c *Cleaner) Start(ctx context.Context) {
	go c.run(ctx)
}

// run is the main loop for the reaper
func (c *Cleaner) run(ctx context.Context) {
	slog.Info("cart reaper started", "interval", c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Run immediately on start
	c.cleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("cart reaper stopped")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

// cleanup removes carts past their expiry
func (c *Cleaner) cleanup(ctx context.Context) {
	slog.Debug("running cart cleanup cycle")

	deleted, err := c.repo.DeleteExpiredCarts(ctx)
	if err != nil {
		slog.Error("failed to delete expired carts", "error", err)
		return
	}

	if deleted > 0 {
		slog.Info("expired carts deleted", "count", deleted)
	}
}
