package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"event-booking/internal/reservation"
	"event-booking/internal/status"
	"event-booking/models"
)

type BookingHandler struct {
	app    *pocketbase.PocketBase
	engine *reservation.Engine
}

func NewBookingHandler(app *pocketbase.PocketBase, engine *reservation.Engine) *BookingHandler {
	return &BookingHandler{
		app:    app,
		engine: engine,
	}
}

// CreateBooking - Reserve one ticket for an event, as the authenticated user
// or as a guest.
func (h *BookingHandler) CreateBooking(e *core.RequestEvent) error {
	var req struct {
		EventID    string `json:"event_id"`
		GuestName  string `json:"guest_name"`
		GuestEmail string `json:"guest_email"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.EventID == "" {
		return apis.NewBadRequestError("Event ID required", nil)
	}

	// Authenticated identity wins; guest fields are only honored for
	// anonymous callers so a booking never carries both.
	var purchaser models.Purchaser
	if e.Auth != nil {
		purchaser = models.RegisteredPurchaser{UserID: e.Auth.Id}
	} else if req.GuestName != "" || req.GuestEmail != "" {
		purchaser = models.GuestPurchaser{Name: req.GuestName, Email: req.GuestEmail}
	}

	booking, err := h.engine.Reserve(e.Request.Context(), req.EventID, purchaser)
	if err != nil {
		return reservationError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"id":          booking.ID,
		"event_id":    booking.EventID,
		"status":      booking.Status,
		"reference":   booking.Reference,
		"payment_ref": booking.PaymentRef,
		"created_at":  booking.CreatedAt,
	})
}

// CancelBooking - Cancel a booking owned by the authenticated user and
// restore the ticket to the event.
func (h *BookingHandler) CancelBooking(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	bookingID := e.Request.PathValue("bookingId")
	if bookingID == "" {
		return apis.NewBadRequestError("Booking ID required", nil)
	}

	if err := h.engine.Cancel(e.Request.Context(), bookingID, e.Auth.Id); err != nil {
		return reservationError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"message": "Booking cancelled"})
}

// GetBookingHistory - Get the authenticated user's bookings.
func (h *BookingHandler) GetBookingHistory(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	bookings, err := h.app.FindRecordsByFilter(
		"bookings",
		"user = {:userId}",
		"-created",
		50,
		0,
		map[string]any{"userId": e.Auth.Id},
	)
	if err != nil {
		return apis.NewBadRequestError("Failed to get bookings", err)
	}

	result := []map[string]any{}
	for _, booking := range bookings {
		data := map[string]any{
			"id":        booking.Id,
			"event_id":  booking.GetString("event"),
			"status":    booking.GetString("status"),
			"reference": booking.GetString("reference"),
			"created":   booking.GetDateTime("created"),
		}
		if event, err := h.app.FindRecordById("events", booking.GetString("event")); err == nil {
			data["event_name"] = event.GetString("name")
		}
		result = append(result, data)
	}

	return e.JSON(http.StatusOK, result)
}

// reservationError maps the engine's error taxonomy onto HTTP statuses.
// Busy and PaymentFailed are "try again" conditions; the rest are
// definitive.
func reservationError(err error) error {
	switch {
	case errors.Is(err, status.ErrLockUnavailable):
		return apis.NewApiError(http.StatusServiceUnavailable, "Server busy, please try again", err)
	case errors.Is(err, status.ErrEventNotFound), errors.Is(err, status.ErrBookingNotFound):
		return apis.NewNotFoundError("Not found", err)
	case errors.Is(err, status.ErrSoldOut):
		return apis.NewApiError(http.StatusConflict, "Sold out", err)
	case errors.Is(err, status.ErrInvalidRequest):
		return apis.NewBadRequestError("A registered user or guest name and email are required", err)
	case errors.Is(err, status.ErrPaymentFailed):
		return apis.NewApiError(http.StatusPaymentRequired, "Payment failed, please try again", err)
	case errors.Is(err, status.ErrForbidden):
		return apis.NewForbiddenError("Only the purchaser may cancel this booking", err)
	default:
		return apis.NewApiError(http.StatusInternalServerError, "Internal error", err)
	}
}
