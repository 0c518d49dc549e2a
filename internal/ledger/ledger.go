// Package ledger is the durable inventory ledger: each event's total and
// remaining ticket counts plus the booking records, stored in PocketBase
// collections. Counter mutations are conditional SQL through dbx so they
// always act on the current durable value, and the decrement (or increment)
// commits in one database transaction with the booking write.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"event-booking/internal/status"
	"event-booking/models"
)

type Ledger struct {
	app core.App
}

func New(app core.App) *Ledger {
	return &Ledger{app: app}
}

// GetEvent reads the event fresh from the database. Reservation callers must
// hold the event's mutex so the remaining count cannot be stale.
func (l *Ledger) GetEvent(_ context.Context, eventID string) (*models.Event, error) {
	record, err := l.app.FindRecordById("events", eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", status.ErrEventNotFound, eventID)
	}
	return eventFromRecord(record), nil
}

// GetRemaining returns the current remaining-ticket count.
func (l *Ledger) GetRemaining(ctx context.Context, eventID string) (int, error) {
	event, err := l.GetEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}
	return event.AvailableTickets, nil
}

func (l *Ledger) GetBooking(_ context.Context, bookingID string) (*models.Booking, error) {
	record, err := l.app.FindRecordById("bookings", bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", status.ErrBookingNotFound, bookingID)
	}
	return bookingFromRecord(record), nil
}

// Reserve applies the ledger decrement and the booking insert as a single
// transaction: either both are visible or neither is.
func (l *Ledger) Reserve(_ context.Context, booking *models.Booking) error {
	return l.app.RunInTransaction(func(txApp core.App) error {
		if err := DecrementIfPositive(txApp.DB(), booking.EventID); err != nil {
			return err
		}

		collection, err := txApp.FindCollectionByNameOrId("bookings")
		if err != nil {
			return fmt.Errorf("bookings collection: %w", err)
		}

		record := core.NewRecord(collection)
		record.Set("event", booking.EventID)
		record.Set("status", string(booking.Status))
		record.Set("reference", booking.Reference)
		record.Set("payment_ref", booking.PaymentRef)

		switch p := booking.Purchaser.(type) {
		case models.RegisteredPurchaser:
			record.Set("user", p.UserID)
		case models.GuestPurchaser:
			record.Set("guest_name", p.Name)
			record.Set("guest_email", p.Email)
		}

		if err := txApp.Save(record); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		booking.ID = record.Id
		booking.CreatedAt = record.GetDateTime("created").Time()
		return nil
	})
}

// Cancel restores one ticket and marks the booking cancelled as a single
// transaction. The status re-check under the transaction makes duplicate
// cancels of one booking restore at most one ticket, no matter how the
// callers interleave.
func (l *Ledger) Cancel(_ context.Context, booking *models.Booking) error {
	return l.app.RunInTransaction(func(txApp core.App) error {
		record, err := txApp.FindRecordById("bookings", booking.ID)
		if err != nil {
			return fmt.Errorf("%w: %s", status.ErrBookingNotFound, booking.ID)
		}
		if models.BookingStatus(record.GetString("status")) == models.BookingCancelled {
			return nil
		}

		if err := Increment(txApp.DB(), booking.EventID); err != nil {
			return err
		}

		record.Set("status", string(models.BookingCancelled))
		if err := txApp.Save(record); err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}
		return nil
	})
}

// DecrementIfPositive decrements the remaining count only while it is
// positive. Must be invoked with the event's mutex held.
func DecrementIfPositive(db dbx.Builder, eventID string) error {
	result, err := db.NewQuery(
		"UPDATE events SET available_tickets = available_tickets - 1 WHERE id = {:id} AND available_tickets > 0",
	).Bind(dbx.Params{"id": eventID}).Execute()
	if err != nil {
		return fmt.Errorf("decrement event %s: %w", eventID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement event %s: %w", eventID, err)
	}
	if rows == 0 {
		if err := eventExists(db, eventID); err != nil {
			return err
		}
		return fmt.Errorf("%w: event %s", status.ErrSoldOut, eventID)
	}
	return nil
}

// Increment restores one ticket, capped at the event's total so concurrent
// cancellations can never push the counter past it.
func Increment(db dbx.Builder, eventID string) error {
	result, err := db.NewQuery(
		"UPDATE events SET available_tickets = available_tickets + 1 WHERE id = {:id} AND available_tickets < total_tickets",
	).Bind(dbx.Params{"id": eventID}).Execute()
	if err != nil {
		return fmt.Errorf("increment event %s: %w", eventID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment event %s: %w", eventID, err)
	}
	if rows == 0 {
		// Either the event is gone or the counter is already at total;
		// the latter is a no-op, not an error.
		return eventExists(db, eventID)
	}
	return nil
}

func eventExists(db dbx.Builder, eventID string) error {
	var id string
	err := db.NewQuery("SELECT id FROM events WHERE id = {:id}").
		Bind(dbx.Params{"id": eventID}).
		Row(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", status.ErrEventNotFound, eventID)
	}
	if err != nil {
		return fmt.Errorf("lookup event %s: %w", eventID, err)
	}
	return nil
}

func eventFromRecord(record *core.Record) *models.Event {
	return &models.Event{
		ID:               record.Id,
		Name:             record.GetString("name"),
		Description:      record.GetString("description"),
		Location:         record.GetString("location"),
		Date:             record.GetDateTime("date").Time(),
		TotalTickets:     record.GetInt("total_tickets"),
		AvailableTickets: record.GetInt("available_tickets"),
		Price:            decimal.NewFromFloat(record.GetFloat("price")),
	}
}

func bookingFromRecord(record *core.Record) *models.Booking {
	booking := &models.Booking{
		ID:         record.Id,
		EventID:    record.GetString("event"),
		Status:     models.BookingStatus(record.GetString("status")),
		Reference:  record.GetString("reference"),
		PaymentRef: record.GetString("payment_ref"),
		CreatedAt:  record.GetDateTime("created").Time(),
	}

	if userID := record.GetString("user"); userID != "" {
		booking.Purchaser = models.RegisteredPurchaser{UserID: userID}
	} else {
		booking.Purchaser = models.GuestPurchaser{
			Name:  record.GetString("guest_name"),
			Email: record.GetString("guest_email"),
		}
	}
	return booking
}
