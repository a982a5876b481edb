package checkout

import (
	"context"
	"fmt"
	"time"

	"restaurant-ordering/internal/cart"
	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/models"
)

// MenuFetcher loads the live menu
type MenuFetcher interface {
	FetchMenu(ctx context.Context) ([]models.MenuItem, error)
}

// PriceReconciler applies live prices to the cart
type PriceReconciler interface {
	ReconcilePrices(menu []models.MenuItem) (bool, error)
}

// Poller keeps the cart's prices in line with the menu.
type Poller struct {
	fetcher  MenuFetcher
	menu     *cart.LiveMenu
	cart     PriceReconciler
	interval time.Duration
	logger   *logger.Logger
}

func NewPoller(fetcher MenuFetcher, menu *cart.LiveMenu, c PriceReconciler, interval time.Duration, log *logger.Logger) *Poller {
	return &Poller{
		fetcher:  fetcher,
		menu:     menu,
		cart:     c,
		interval: interval,
		logger:   log,
	}
}

// SyncOnce fetches the menu, publishes it to the live menu and reconciles the cart.
func (p *Poller) SyncOnce(ctx context.Context) (bool, error) {
	items, err := p.fetcher.FetchMenu(ctx)
	if err != nil {
		return false, fmt.Errorf("menu sync: %w", err)
	}
	if p.menu != nil {
		p.menu.Set(items)
	}
	return p.cart.ReconcilePrices(items)
}

// Run syncs immediately and then on every tick until ctx is cancelled. Failed rounds are
// logged and retried on the next tick.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("price_sync_started", "Menu price sync started", "", map[string]interface{}{
		"interval": p.interval.String(),
	})

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.round(ctx)
		select {
		case <-ctx.Done():
			p.logger.Info("price_sync_stopped", "Menu price sync stopped", "", nil)
			return nil
		case <-ticker.C:
		}
	}
}

func (p *Poller) round(ctx context.Context) {
	changed, err := p.SyncOnce(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("price_sync_failed", "Failed to sync menu prices", "", err, nil)
		}
		return
	}
	if changed {
		p.logger.Info("prices_updated", "Cart prices updated from menu", "", nil)
	} else {
		p.logger.Debug("prices_unchanged", "Cart prices already current", "", nil)
	}
}
