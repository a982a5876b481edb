package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/cart"
	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/models"
	"restaurant-ordering/internal/web"
)

func testLogger() *logger.Logger {
	return logger.NewWithWriter("test", io.Discard, "error")
}

type recordingNotifier struct {
	mu      sync.Mutex
	shown   []Notice
	states  []State
	cleared int
	// stateOf, when set, records the flow state each notice was shown in.
	stateOf func() State
}

func (r *recordingNotifier) Show(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, n)
	if r.stateOf != nil {
		r.states = append(r.states, r.stateOf())
	}
}

func (r *recordingNotifier) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared++
}

type fakeTimer struct {
	delays []time.Duration
	funcs  []func()
}

func (f *fakeTimer) after(d time.Duration, fn func()) {
	f.delays = append(f.delays, d)
	f.funcs = append(f.funcs, fn)
}

func filledCart(t *testing.T) *cart.Manager {
	t.Helper()
	m := cart.NewManager(cart.NewMemoryStorage(), nil, nil)
	require.NoError(t, m.AddOrIncrement(1, "Idli", decimal.RequireFromString("2.50")))
	require.NoError(t, m.AddOrIncrement(1, "Idli", decimal.RequireFromString("2.50")))
	require.NoError(t, m.AddOrIncrement(2, "Dosa", decimal.RequireFromString("4.00")))
	return m
}

func orderServer(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAPIClient(srv.URL, 2*time.Second)
}

func TestSubmit_Success(t *testing.T) {
	var got models.OrderSubmission
	client := orderServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = web.WriteJSON(w, http.StatusCreated, models.Order{ID: 42, TableNumber: got.Table, Items: got.Items, Status: models.StatusPending})
	})

	c := filledCart(t)
	notifier := &recordingNotifier{}
	timer := &fakeTimer{}
	s := NewSubmitter(c, client, notifier, testLogger(), WithTimer(timer.after))

	order, err := s.Submit(context.Background(), "  5 ")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, int64(42), order.ID)
	assert.Equal(t, Success, s.State())

	assert.Equal(t, "5", got.Table)
	assert.Equal(t, []models.OrderItem{{ID: 1, Name: "Idli", Qty: 2}, {ID: 2, Name: "Dosa", Qty: 1}}, got.Items)

	assert.Empty(t, c.Lines())
	require.Len(t, notifier.shown, 1)
	assert.Equal(t, Notice{Kind: NoticeSuccess, Message: "Order placed"}, notifier.shown[0])

	require.Len(t, timer.delays, 1)
	assert.Equal(t, 2000*time.Millisecond, timer.delays[0])
	assert.Equal(t, 0, notifier.cleared)
	timer.funcs[0]()
	assert.Equal(t, 1, notifier.cleared)
	assert.Equal(t, Idle, s.State())
}

func TestSubmit_NoticeTimerKeepsNewerSubmission(t *testing.T) {
	first := &blockingPoster{entered: make(chan struct{}), release: make(chan struct{})}
	close(first.release)
	timer := &fakeTimer{}
	c := filledCart(t)
	s := NewSubmitter(c, first, &recordingNotifier{}, testLogger(), WithTimer(timer.after))

	_, err := s.Submit(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, timer.funcs, 1)

	second := &blockingPoster{entered: make(chan struct{}), release: make(chan struct{})}
	s.poster = second
	require.NoError(t, c.AddOrIncrement(3, "Vada", decimal.RequireFromString("1.75")))

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), "")
		done <- err
	}()
	<-second.entered

	timer.funcs[0]()
	assert.Equal(t, Submitting, s.State())

	close(second.release)
	require.NoError(t, <-done)
}

func TestSubmit_EmptyCart(t *testing.T) {
	calls := 0
	client := orderServer(t, func(w http.ResponseWriter, r *http.Request) { calls++ })

	var alerts []string
	s := NewSubmitter(cart.NewManager(cart.NewMemoryStorage(), nil, nil), client, &recordingNotifier{}, testLogger(),
		WithAlert(func(msg string) { alerts = append(alerts, msg) }))

	_, err := s.Submit(context.Background(), "1")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, []string{"Cart is empty"}, alerts)
	assert.Equal(t, 0, calls)
	assert.Equal(t, Idle, s.State())
}

func TestSubmit_Rejected(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantDetails []string
	}{
		{
			name:        "validation details",
			status:      http.StatusBadRequest,
			body:        `{"error":"validation failed","details":["Dosa is currently unavailable","Idli exceeds max qty (1)"],"timestamp":"t"}`,
			wantMessage: "validation failed",
			wantDetails: []string{"Dosa is currently unavailable", "Idli exceeds max qty (1)"},
		},
		{
			name:        "no error field",
			status:      http.StatusInternalServerError,
			body:        `{}`,
			wantMessage: "Failed",
		},
		{
			name:        "non json body",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantMessage: "Failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := orderServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			c := filledCart(t)
			notifier := &recordingNotifier{}
			timer := &fakeTimer{}
			s := NewSubmitter(c, client, notifier, testLogger(), WithTimer(timer.after))
			notifier.stateOf = s.State

			_, err := s.Submit(context.Background(), "")
			var serr *SubmitError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.status, serr.Status)
			assert.Equal(t, tt.wantMessage, serr.Message)
			assert.Equal(t, tt.wantDetails, serr.Details)

			assert.Equal(t, Idle, s.State())
			assert.Len(t, c.Lines(), 2, "cart untouched")
			require.Len(t, notifier.shown, 1)
			assert.Equal(t, []State{Failed}, notifier.states)
			assert.Equal(t, NoticeError, notifier.shown[0].Kind)
			assert.Equal(t, tt.wantMessage, notifier.shown[0].Message)
			assert.Empty(t, timer.delays)
		})
	}
}

func TestSubmit_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := filledCart(t)
	notifier := &recordingNotifier{}
	s := NewSubmitter(c, NewAPIClient(url, time.Second), notifier, testLogger())

	_, err := s.Submit(context.Background(), "3")
	var serr *SubmitError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Failed to place order", serr.Message)
	require.Len(t, serr.Details, 1)
	assert.NotEmpty(t, serr.Details[0])
	assert.Error(t, errors.Unwrap(serr))
	assert.Equal(t, Idle, s.State())
	assert.Len(t, c.Lines(), 2)
}

func TestSubmit_UndecodableCreated(t *testing.T) {
	client := orderServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("not json"))
	})
	c := filledCart(t)
	s := NewSubmitter(c, client, &recordingNotifier{}, testLogger())

	_, err := s.Submit(context.Background(), "")
	var serr *SubmitError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Failed to place order", serr.Message)
	assert.Len(t, c.Lines(), 2)
}

type blockingPoster struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingPoster) PostOrder(ctx context.Context, sub models.OrderSubmission) (*PostResult, error) {
	close(b.entered)
	<-b.release
	return &PostResult{Status: http.StatusCreated, Order: &models.Order{ID: 1}}, nil
}

func TestSubmit_InProgress(t *testing.T) {
	poster := &blockingPoster{entered: make(chan struct{}), release: make(chan struct{})}
	timer := &fakeTimer{}
	s := NewSubmitter(filledCart(t), poster, &recordingNotifier{}, testLogger(), WithTimer(timer.after))

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), "")
		done <- err
	}()

	<-poster.entered
	assert.Equal(t, Submitting, s.State())
	_, err := s.Submit(context.Background(), "")
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(poster.release)
	require.NoError(t, <-done)
	assert.Equal(t, Success, s.State())
}

func TestFetchMenu(t *testing.T) {
	client := orderServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/menu", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"name":"Idli","price":3.25,"available":true,"max_qty":4,"category":"Breakfast"}]`))
	})

	items, err := client.FetchMenu(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("3.25")))
	assert.Equal(t, 4, items[0].MaxQty)
}

func TestFetchMenu_BadStatus(t *testing.T) {
	client := orderServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := client.FetchMenu(context.Background())
	assert.EqualError(t, err, "fetch menu: unexpected status 500")
}

func TestPoller_SyncOnce(t *testing.T) {
	client := orderServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Idli","price":3.00,"max_qty":2},{"id":2,"name":"Dosa","price":4.00}]`))
	})
	live := cart.NewLiveMenu(nil)
	c := filledCart(t)
	p := NewPoller(client, live, c, time.Minute, testLogger())

	changed, err := p.SyncOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Len(t, live.MenuItems(), 2)
	assert.True(t, c.Lines()[0].Price.Equal(decimal.RequireFromString("3.00")))

	changed, err = p.SyncOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	var mu sync.Mutex
	hits := 0
	client := orderServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		_, _ = w.Write([]byte(`[]`))
	})
	p := NewPoller(client, cart.NewLiveMenu(nil), filledCart(t), 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return hits >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestTextNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := &TextNotifier{Out: &buf}

	n.Show(Notice{Kind: NoticeSuccess, Message: "Order placed"})
	n.Show(Notice{Kind: NoticeError, Message: "validation failed", Details: []string{"item id 9 not found"}})

	assert.Equal(t, "✔ Order placed\n✖ validation failed\nIssues:\n  • item id 9 not found\n", buf.String())
}
