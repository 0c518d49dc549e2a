// Package reservation implements the ticket-inventory reservation engine:
// it serializes purchase attempts per event behind a distributed mutex,
// coordinates the external payment confirmation step and reconciles the
// remaining-ticket counter on cancellation.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"event-booking/internal/lock"
	"event-booking/internal/payment"
	"event-booking/internal/status"
	"event-booking/models"
	"event-booking/monitoring"
	"event-booking/utils"
)

// Store is the durable storage boundary. Reserve and Cancel must apply the
// ledger mutation and the booking write as one atomic unit; the engine's
// consistency invariant depends on it.
type Store interface {
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)

	// Reserve decrements the event's remaining count and inserts the
	// booking. Must be called only while the event's mutex is held.
	Reserve(ctx context.Context, booking *models.Booking) error

	// Cancel restores one ticket and marks the booking cancelled.
	Cancel(ctx context.Context, booking *models.Booking) error
}

// Notifier receives best-effort booking lifecycle events. Implementations
// must never block the transaction outcome.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b *models.Booking)
	BookingCancelled(ctx context.Context, b *models.Booking)
}

type Config struct {
	LockLease       time.Duration
	PaymentTimeout  time.Duration
	PaymentRequired bool
	Currency        string
}

type Engine struct {
	locker   lock.Locker
	store    Store
	gateway  payment.Gateway
	notifier Notifier
	cfg      Config
}

func NewEngine(locker lock.Locker, store Store, gateway payment.Gateway, notifier Notifier, cfg Config) *Engine {
	if cfg.LockLease <= 0 {
		cfg.LockLease = lock.DefaultLease
	}
	if cfg.PaymentTimeout <= 0 {
		cfg.PaymentTimeout = 5 * time.Second
	}
	if cfg.Currency == "" {
		cfg.Currency = "EUR"
	}
	return &Engine{
		locker:   locker,
		store:    store,
		gateway:  gateway,
		notifier: notifier,
		cfg:      cfg,
	}
}

func lockKey(eventID string) string {
	return "lock:event:" + eventID
}

// Reserve runs one reservation transaction:
// acquire mutex -> re-read inventory -> check availability -> validate
// identity -> optional payment -> commit decrement+booking -> release.
// The mutex is released on every exit path.
func (e *Engine) Reserve(ctx context.Context, eventID string, p models.Purchaser) (*models.Booking, error) {
	started := time.Now()

	booking, err := e.reserve(ctx, eventID, p)
	monitoring.TrackReservation(outcomeLabel(err), time.Since(started))
	return booking, err
}

func (e *Engine) reserve(ctx context.Context, eventID string, p models.Purchaser) (*models.Booking, error) {
	lockStarted := time.Now()
	handle, err := e.locker.Acquire(ctx, lockKey(eventID), e.cfg.LockLease)
	if err != nil {
		return nil, err
	}
	monitoring.TrackLockWait(time.Since(lockStarted))
	defer func() {
		// Release must survive a cancelled request context.
		if rerr := e.locker.Release(context.Background(), handle); rerr != nil {
			slog.Error("lock release failed", "key", handle.Key, "error", rerr)
		}
	}()

	// Fresh read under the lock: a previous holder may have mutated the
	// counter while we were waiting.
	event, err := e.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.SoldOut() {
		return nil, fmt.Errorf("%w: event %s", status.ErrSoldOut, eventID)
	}

	// Identity check happens before the payment call so a malformed
	// request never costs a gateway round trip.
	if p == nil {
		return nil, status.ErrInvalidRequest
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	reference, err := utils.GenerateCode(6)
	if err != nil {
		return nil, fmt.Errorf("generate booking reference: %w", err)
	}

	booking := &models.Booking{
		EventID:   eventID,
		Purchaser: p,
		Status:    models.BookingConfirmed,
		Reference: reference,
	}

	if e.cfg.PaymentRequired {
		receipt, err := e.confirmPayment(ctx, event, p, reference)
		if err != nil {
			// No write has happened yet; releasing the lock is the
			// only compensation needed.
			return nil, err
		}
		booking.Status = models.BookingPaid
		booking.PaymentRef = receipt.TransactionID
	}

	if err := e.store.Reserve(ctx, booking); err != nil {
		switch {
		case errors.Is(err, status.ErrSoldOut), errors.Is(err, status.ErrEventNotFound):
			// Only reachable when cross-process exclusion is absent
			// (degraded mode with multiple instances).
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %v", status.ErrConsistencyViolation, err)
		}
	}

	if e.notifier != nil {
		e.notifier.BookingConfirmed(ctx, booking)
	}
	return booking, nil
}

func (e *Engine) confirmPayment(ctx context.Context, event *models.Event, p models.Purchaser, reference string) (*payment.Receipt, error) {
	pctx, cancel := context.WithTimeout(ctx, e.cfg.PaymentTimeout)
	defer cancel()

	receipt, err := e.gateway.Process(pctx, &payment.Request{
		Amount:    event.Price,
		Currency:  e.cfg.Currency,
		Payer:     p.Payer(),
		Reference: reference,
	})
	monitoring.TrackPayment(err == nil)
	if err != nil {
		slog.Warn("payment declined or unavailable", "event", event.ID, "error", err)
		return nil, err
	}
	return receipt, nil
}

// Cancel reverses a confirmed booking: restores one ticket and marks the
// booking cancelled. Only the original registered purchaser may cancel;
// guest bookings are not cancellable through this path. No event mutex is
// taken because adding capacity back cannot oversell; the store applies the
// increment atomically and re-checks the booking status in the same
// transaction, so racing duplicate cancels restore at most one ticket.
func (e *Engine) Cancel(ctx context.Context, bookingID, requesterID string) error {
	booking, err := e.store.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	// Ownership is enforced before the idempotent short-circuit so a
	// non-owner probing a cancelled booking still gets Forbidden.
	if requesterID == "" || booking.UserID() != requesterID {
		return fmt.Errorf("%w: booking %s", status.ErrForbidden, bookingID)
	}
	if booking.Status == models.BookingCancelled {
		return nil
	}

	if err := e.store.Cancel(ctx, booking); err != nil {
		switch {
		case errors.Is(err, status.ErrBookingNotFound), errors.Is(err, status.ErrEventNotFound):
			return err
		default:
			return fmt.Errorf("%w: %v", status.ErrConsistencyViolation, err)
		}
	}

	booking.Status = models.BookingCancelled
	if e.notifier != nil {
		e.notifier.BookingCancelled(ctx, booking)
	}
	return nil
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, status.ErrLockUnavailable):
		return "busy"
	case errors.Is(err, status.ErrSoldOut):
		return "sold_out"
	case errors.Is(err, status.ErrEventNotFound):
		return "not_found"
	case errors.Is(err, status.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, status.ErrPaymentFailed):
		return "payment_failed"
	case errors.Is(err, status.ErrConsistencyViolation):
		return "consistency_violation"
	default:
		return "error"
	}
}
