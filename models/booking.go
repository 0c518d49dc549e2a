package models

import (
	"strings"
	"time"

	"event-booking/internal/status"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingPaid      BookingStatus = "paid"
	BookingCancelled BookingStatus = "cancelled"
)

// Active reports whether the booking still holds a ticket.
func (s BookingStatus) Active() bool {
	return s == BookingConfirmed || s == BookingPaid
}

// Purchaser is the identity a booking is made under: either a registered
// user or a guest, never both and never neither. The sealed two-case shape
// keeps the invalid combinations unrepresentable.
type Purchaser interface {
	// Payer is the identity string sent to the payment gateway.
	Payer() string
	Validate() error

	purchaser()
}

type RegisteredPurchaser struct {
	UserID string `json:"user_id"`
}

func (p RegisteredPurchaser) Payer() string { return p.UserID }

func (p RegisteredPurchaser) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return status.ErrInvalidRequest
	}
	return nil
}

func (RegisteredPurchaser) purchaser() {}

type GuestPurchaser struct {
	Name  string `json:"guest_name"`
	Email string `json:"guest_email"`
}

func (p GuestPurchaser) Payer() string { return p.Email }

func (p GuestPurchaser) Validate() error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Email) == "" {
		return status.ErrInvalidRequest
	}
	return nil
}

func (GuestPurchaser) purchaser() {}

type Booking struct {
	ID        string        `json:"id"`
	EventID   string        `json:"event_id"`
	Purchaser Purchaser     `json:"-"`
	Status    BookingStatus `json:"status"`
	Reference string        `json:"reference"`
	// PaymentRef is the gateway transaction id, empty for unpaid bookings.
	PaymentRef string    `json:"payment_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserID returns the registered purchaser's id, or "" for guest bookings.
func (b *Booking) UserID() string {
	if p, ok := b.Purchaser.(RegisteredPurchaser); ok {
		return p.UserID
	}
	return ""
}
