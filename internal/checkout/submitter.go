package checkout

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"restaurant-ordering/internal/cart"
	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/models"
)

const (
	msgEmptyCart   = "Cart is empty"
	msgPlaced      = "Order placed"
	msgFailed      = "Failed"
	msgUnreachable = "Failed to place order"

	// NoticeTTL is how long the success notice stays up.
	NoticeTTL = 2000 * time.Millisecond
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrSubmitInProgress = errors.New("order submission already in progress")
)

// State of the submission flow
type State int

const (
	Idle State = iota
	Submitting
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// SubmitError describes a rejected or undeliverable order.
type SubmitError struct {
	Status  int
	Message string
	Details []string
	Err     error
}

func (e *SubmitError) Error() string { return e.Message }

func (e *SubmitError) Unwrap() error { return e.Err }

// NoticeKind distinguishes success and failure notices
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is the message shown to the user after a submission.
type Notice struct {
	Kind    NoticeKind
	Message string
	Details []string
}

// Notifier displays submission notices
type Notifier interface {
	Show(Notice)
	Clear()
}

// OrderPoster delivers an order to the API
type OrderPoster interface {
	PostOrder(ctx context.Context, sub models.OrderSubmission) (*PostResult, error)
}

// Cart is the part of the cart manager the flow needs
type Cart interface {
	Lines() []cart.Line
	Submission(table string) models.OrderSubmission
	Clear() error
}

// Option customizes a Submitter
type Option func(*Submitter)

// WithAlert replaces the blocking alert used for the empty-cart case.
func WithAlert(alert func(string)) Option {
	return func(s *Submitter) { s.alert = alert }
}

// WithTimer replaces time.AfterFunc for scheduling the notice reset.
func WithTimer(after func(time.Duration, func())) Option {
	return func(s *Submitter) { s.after = after }
}

// Submitter turns the cart into an order and reports the outcome.
type Submitter struct {
	mu       sync.Mutex
	state    State
	cart     Cart
	poster   OrderPoster
	notifier Notifier
	alert    func(string)
	after    func(time.Duration, func())
	logger   *logger.Logger
}

func NewSubmitter(c Cart, poster OrderPoster, notifier Notifier, log *logger.Logger, opts ...Option) *Submitter {
	s := &Submitter{
		cart:     c,
		poster:   poster,
		notifier: notifier,
		logger:   log,
		after:    func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
	s.alert = func(msg string) { notifier.Show(Notice{Kind: NoticeError, Message: msg}) }
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports where the flow is.
func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit places the cart as an order for table. Failures are also shown through the notifier;
// a rejected or undeliverable order yields a *SubmitError.
func (s *Submitter) Submit(ctx context.Context, table string) (*models.Order, error) {
	requestID := logger.GenerateRequestID()

	if len(s.cart.Lines()) == 0 {
		s.alert(msgEmptyCart)
		return nil, ErrEmptyCart
	}

	s.mu.Lock()
	if s.state == Submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	s.state = Submitting
	s.mu.Unlock()

	sub := s.cart.Submission(table)
	s.logger.Info("order_submitting", "Submitting order", requestID, map[string]interface{}{
		"table": sub.Table,
		"lines": len(sub.Items),
	})

	result, err := s.poster.PostOrder(ctx, sub)
	if err != nil {
		return nil, s.fail(requestID, &SubmitError{Message: msgUnreachable, Details: []string{err.Error()}, Err: err})
	}

	if result.Status != http.StatusCreated {
		msg := result.Error
		if msg == "" {
			msg = msgFailed
		}
		return nil, s.fail(requestID, &SubmitError{Status: result.Status, Message: msg, Details: result.Details})
	}

	if err := s.cart.Clear(); err != nil {
		// The order exists server side; only the local copy is stale.
		s.logger.Error("cart_clear_failed", "Failed to clear cart after order", requestID, err, nil)
	}

	s.setState(Success)
	s.notifier.Show(Notice{Kind: NoticeSuccess, Message: msgPlaced})
	s.after(NoticeTTL, func() {
		s.notifier.Clear()
		s.resetFrom(Success)
	})

	fields := map[string]interface{}{"status": result.Status}
	if result.Order != nil {
		fields["order_id"] = result.Order.ID
	}
	s.logger.Info("order_placed", "Order placed", requestID, fields)
	return result.Order, nil
}

func (s *Submitter) fail(requestID string, serr *SubmitError) error {
	s.setState(Failed)
	s.notifier.Show(Notice{Kind: NoticeError, Message: serr.Message, Details: serr.Details})
	s.logger.Warn("order_failed", serr.Message, requestID, map[string]interface{}{
		"status":  serr.Status,
		"details": serr.Details,
	})
	s.resetFrom(Failed)
	return serr
}

func (s *Submitter) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// resetFrom returns to Idle unless another submission has started since.
func (s *Submitter) resetFrom(st State) {
	s.mu.Lock()
	if s.state == st {
		s.state = Idle
	}
	s.mu.Unlock()
}
