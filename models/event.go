package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Event struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Location         string          `json:"location"`
	Date             time.Time       `json:"date"`
	TotalTickets     int             `json:"total_tickets"`
	AvailableTickets int             `json:"available_tickets"`
	Price            decimal.Decimal `json:"price"`
}

// SoldOut reports whether the event has no remaining capacity.
func (e *Event) SoldOut() bool {
	return e.AvailableTickets <= 0
}
