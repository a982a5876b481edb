package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"restaurant-ordering/internal/models"
)

// StorageKey is the key the cart is persisted under.
const StorageKey = "cart"

// ErrLineIndex is returned when an index does not address a cart line.
var ErrLineIndex = errors.New("cart line index out of range")

// Line is one distinct menu item in the cart. Price is the snapshot taken when the item was
// added or last reconciled.
type Line struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
}

// Renderer receives the cart view after each change
type Renderer interface {
	Render(View)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(View)

func (f RendererFunc) Render(v View) { f(v) }

// Manager owns the in-progress order. Every operation reloads from storage, applies its
// change, persists and re-renders while holding the lock, so sequences never interleave.
type Manager struct {
	mu       sync.Mutex
	storage  Storage
	menu     MenuSource
	renderer Renderer
	lines    []Line
}

// NewManager builds a manager. menu and renderer may be nil.
func NewManager(storage Storage, menu MenuSource, renderer Renderer) *Manager {
	m := &Manager{storage: storage, menu: menu, renderer: renderer}
	m.Load()
	return m
}

// Load replaces the in-memory cart with the stored one. Missing or corrupt data yields an empty cart.
func (m *Manager) Load() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.load()
}

func (m *Manager) load() {
	m.lines = []Line{}
	data, err := m.storage.Read(StorageKey)
	if err != nil || len(data) == 0 {
		return
	}
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil || lines == nil {
		return
	}
	m.lines = lines
}

// Save persists the in-memory cart.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save()
}

func (m *Manager) save() error {
	data, err := json.Marshal(m.lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := m.storage.Write(StorageKey, data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Lines returns a copy of the in-memory cart.
func (m *Manager) Lines() []Line {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Line{}, m.lines...)
}

// AddOrIncrement adds one unit of the item. An existing line grows by one up to the item's
// max quantity; at the cap the call changes nothing.
func (m *Manager) AddOrIncrement(id int64, name string, price decimal.Decimal) error {
	return m.mutate(func(idx menuIndex) error {
		for i := range m.lines {
			if m.lines[i].ID != id {
				continue
			}
			if qty := lineQty(m.lines[i]); qty < idx.maxQty(id) {
				m.lines[i].Qty = qty + 1
			}
			return nil
		}
		m.lines = append(m.lines, Line{ID: id, Name: name, Price: price, Qty: 1})
		return nil
	})
}

// Increment raises the quantity of line index by one, capped at the item's max quantity.
func (m *Manager) Increment(index int) error {
	return m.mutate(func(idx menuIndex) error {
		if index < 0 || index >= len(m.lines) {
			return ErrLineIndex
		}
		l := &m.lines[index]
		l.Qty = min(idx.maxQty(l.ID), lineQty(*l)+1)
		return nil
	})
}

// Decrement lowers the quantity of line index by one, never below 1.
func (m *Manager) Decrement(index int) error {
	return m.mutate(func(menuIndex) error {
		if index < 0 || index >= len(m.lines) {
			return ErrLineIndex
		}
		l := &m.lines[index]
		l.Qty = max(1, lineQty(*l)-1)
		return nil
	})
}

// Remove deletes line index, keeping the order of the others.
func (m *Manager) Remove(index int) error {
	return m.mutate(func(menuIndex) error {
		if index < 0 || index >= len(m.lines) {
			return ErrLineIndex
		}
		m.lines = append(m.lines[:index], m.lines[index+1:]...)
		return nil
	})
}

// Clear empties the cart.
func (m *Manager) Clear() error {
	return m.mutate(func(menuIndex) error {
		m.lines = []Line{}
		return nil
	})
}

// ReconcilePrices overwrites snapshot prices that differ from the live menu. It persists only
// when something changed and reports whether it did.
func (m *Manager) ReconcilePrices(menu []models.MenuItem) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.load()
	idx := indexMenu(menu)
	changed := false
	for i := range m.lines {
		live, ok := idx[m.lines[i].ID]
		if ok && !live.Price.Equal(m.lines[i].Price) {
			m.lines[i].Price = live.Price
			changed = true
		}
	}
	if changed {
		if err := m.save(); err != nil {
			return false, err
		}
	}
	m.render()
	return changed, nil
}

// Render reloads the cart and returns its display form, also handing it to the renderer.
func (m *Manager) Render() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.render()
}

// Submission converts the cart into an order payload. Prices are left to the server.
func (m *Manager) Submission(table string) models.OrderSubmission {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.load()
	items := make([]models.OrderItem, 0, len(m.lines))
	for _, l := range normalize(m.lines, indexMenu(m.menuItems())) {
		items = append(items, models.OrderItem{ID: l.ID, Name: l.Name, Qty: lineQty(l)})
	}
	return models.OrderSubmission{Table: strings.TrimSpace(table), Items: items}
}

func (m *Manager) mutate(fn func(menuIndex) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.load()
	idx := indexMenu(m.menuItems())
	m.lines = normalize(m.lines, idx)
	if err := fn(idx); err != nil {
		return err
	}
	if err := m.save(); err != nil {
		return err
	}
	m.render()
	return nil
}

func (m *Manager) menuItems() []models.MenuItem {
	if m.menu == nil {
		return nil
	}
	return m.menu.MenuItems()
}

// render must be called with m.mu held.
func (m *Manager) render() View {
	m.load()
	idx := indexMenu(m.menuItems())

	if normalized := normalize(m.lines, idx); !sameLines(normalized, m.lines) {
		m.lines = normalized
		// Best effort: the view reflects the normalized cart either way.
		_ = m.save()
	}

	v := buildView(m.lines, idx)
	if m.renderer != nil {
		m.renderer.Render(v)
	}
	return v
}

// normalize drops lines with qty < 1, folds repeated ids into the first line for that id and
// clamps every quantity to the item's max.
func normalize(lines []Line, idx menuIndex) []Line {
	out := make([]Line, 0, len(lines))
	pos := make(map[int64]int, len(lines))
	for _, l := range lines {
		if l.Qty < 1 {
			continue
		}
		if i, ok := pos[l.ID]; ok {
			out[i].Qty += l.Qty
			continue
		}
		pos[l.ID] = len(out)
		out = append(out, l)
	}
	for i := range out {
		out[i].Qty = min(out[i].Qty, idx.maxQty(out[i].ID))
	}
	return out
}

func sameLines(a, b []Line) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Qty != b[i].Qty {
			return false
		}
	}
	return true
}

// lineQty treats a missing quantity as one unit.
func lineQty(l Line) int {
	if l.Qty < 1 {
		return 1
	}
	return l.Qty
}
