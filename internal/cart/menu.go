package cart

import (
	"sync"

	"restaurant-ordering/internal/models"
)

// MenuSource supplies the live menu used for prices and quantity limits
type MenuSource interface {
	MenuItems() []models.MenuItem
}

// StaticMenu is a fixed menu
type StaticMenu []models.MenuItem

func (s StaticMenu) MenuItems() []models.MenuItem { return s }

// LiveMenu holds the most recently fetched menu. It is safe for concurrent use.
type LiveMenu struct {
	mu    sync.RWMutex
	items []models.MenuItem
}

func NewLiveMenu(items []models.MenuItem) *LiveMenu {
	l := &LiveMenu{}
	l.Set(items)
	return l
}

// Set replaces the menu.
func (l *LiveMenu) Set(items []models.MenuItem) {
	cp := append([]models.MenuItem(nil), items...)
	l.mu.Lock()
	l.items = cp
	l.mu.Unlock()
}

func (l *LiveMenu) MenuItems() []models.MenuItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.MenuItem(nil), l.items...)
}

// menuIndex maps item id to menu entry.
type menuIndex map[int64]models.MenuItem

func indexMenu(items []models.MenuItem) menuIndex {
	idx := make(menuIndex, len(items))
	for _, it := range items {
		idx[it.ID] = it
	}
	return idx
}

func (idx menuIndex) maxQty(id int64) int {
	if m, ok := idx[id]; ok {
		return m.EffectiveMaxQty()
	}
	return models.DefaultMaxQty
}
