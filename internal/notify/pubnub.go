// Package notify publishes best-effort booking lifecycle notifications to
// registered purchasers over PubNub. Publishing never influences the
// reservation outcome.
package notify

import (
	"context"
	"log/slog"

	pubnub "github.com/pubnub/go"

	"event-booking/models"
)

type PubNubNotifier struct {
	pn *pubnub.PubNub
}

// NewPubNub wraps a PubNub client. A nil client disables publishing, which
// keeps the notifier safe to wire unconditionally.
func NewPubNub(pn *pubnub.PubNub) *PubNubNotifier {
	return &PubNubNotifier{pn: pn}
}

func (n *PubNubNotifier) BookingConfirmed(_ context.Context, b *models.Booking) {
	n.publish(b, "booking_confirmed")
}

func (n *PubNubNotifier) BookingCancelled(_ context.Context, b *models.Booking) {
	n.publish(b, "booking_cancelled")
}

func (n *PubNubNotifier) publish(b *models.Booking, kind string) {
	if n == nil || n.pn == nil {
		return
	}
	userID := b.UserID()
	if userID == "" {
		// Guest purchasers have no push channel.
		return
	}

	_, _, err := n.pn.Publish().
		Channel("user-" + userID).
		Message(map[string]any{
			"type":       kind,
			"booking_id": b.ID,
			"event_id":   b.EventID,
			"reference":  b.Reference,
			"status":     string(b.Status),
		}).
		Execute()
	if err != nil {
		slog.Warn("booking notification failed", "type", kind, "booking", b.ID, "error", err)
	}
}
