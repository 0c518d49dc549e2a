package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-booking/internal/status"
)

func TestEvent_JSONSerialization(t *testing.T) {
	event := Event{
		ID:               "event-123",
		Name:             "Test Concert",
		Description:      "A great test concert",
		Location:         "Test Arena",
		Date:             time.Now(),
		TotalTickets:     100,
		AvailableTickets: 40,
		Price:            decimal.NewFromFloat(19.99),
	}

	jsonData, err := json.Marshal(event)
	require.NoError(t, err)

	var unmarshaled Event
	require.NoError(t, json.Unmarshal(jsonData, &unmarshaled))

	assert.Equal(t, event.ID, unmarshaled.ID)
	assert.Equal(t, event.Name, unmarshaled.Name)
	assert.Equal(t, event.TotalTickets, unmarshaled.TotalTickets)
	assert.Equal(t, event.AvailableTickets, unmarshaled.AvailableTickets)
	assert.True(t, event.Price.Equal(unmarshaled.Price))
	assert.WithinDuration(t, event.Date, unmarshaled.Date, time.Second)
}

func TestEvent_SoldOut(t *testing.T) {
	event := Event{TotalTickets: 10, AvailableTickets: 1}
	assert.False(t, event.SoldOut())

	event.AvailableTickets = 0
	assert.True(t, event.SoldOut())

	event.AvailableTickets = -1
	assert.True(t, event.SoldOut())
}

func TestBookingStatus_Active(t *testing.T) {
	assert.True(t, BookingConfirmed.Active())
	assert.True(t, BookingPaid.Active())
	assert.False(t, BookingPending.Active())
	assert.False(t, BookingCancelled.Active())
}

func TestRegisteredPurchaser_Validate(t *testing.T) {
	assert.NoError(t, RegisteredPurchaser{UserID: "user-1"}.Validate())

	err := RegisteredPurchaser{}.Validate()
	assert.True(t, errors.Is(err, status.ErrInvalidRequest))

	err = RegisteredPurchaser{UserID: "   "}.Validate()
	assert.True(t, errors.Is(err, status.ErrInvalidRequest))
}

func TestGuestPurchaser_Validate(t *testing.T) {
	assert.NoError(t, GuestPurchaser{Name: "Ada", Email: "ada@example.com"}.Validate())

	for _, p := range []GuestPurchaser{
		{},
		{Name: "Ada"},
		{Email: "ada@example.com"},
		{Name: " ", Email: "ada@example.com"},
	} {
		err := p.Validate()
		assert.True(t, errors.Is(err, status.ErrInvalidRequest), "expected invalid: %+v", p)
	}
}

func TestPurchaser_Payer(t *testing.T) {
	assert.Equal(t, "user-1", RegisteredPurchaser{UserID: "user-1"}.Payer())
	assert.Equal(t, "ada@example.com", GuestPurchaser{Name: "Ada", Email: "ada@example.com"}.Payer())
}

func TestBooking_UserID(t *testing.T) {
	registered := Booking{Purchaser: RegisteredPurchaser{UserID: "user-1"}}
	assert.Equal(t, "user-1", registered.UserID())

	guest := Booking{Purchaser: GuestPurchaser{Name: "Ada", Email: "ada@example.com"}}
	assert.Empty(t, guest.UserID())

	var none Booking
	assert.Empty(t, none.UserID())
}

func TestBooking_JSONSerialization(t *testing.T) {
	booking := Booking{
		ID:         "booking-123",
		EventID:    "event-456",
		Purchaser:  RegisteredPurchaser{UserID: "user-789"},
		Status:     BookingPaid,
		Reference:  "AB12CD34",
		PaymentRef: "txn_42",
		CreatedAt:  time.Now(),
	}

	jsonData, err := json.Marshal(booking)
	require.NoError(t, err)

	var unmarshaled Booking
	require.NoError(t, json.Unmarshal(jsonData, &unmarshaled))

	assert.Equal(t, booking.ID, unmarshaled.ID)
	assert.Equal(t, booking.EventID, unmarshaled.EventID)
	assert.Equal(t, booking.Status, unmarshaled.Status)
	assert.Equal(t, booking.Reference, unmarshaled.Reference)
	assert.Equal(t, booking.PaymentRef, unmarshaled.PaymentRef)
	// The purchaser is not part of the wire form.
	assert.Nil(t, unmarshaled.Purchaser)
}
