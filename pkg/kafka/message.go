package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is a publishable event payload with routing metadata.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Header keys shared by all booking events.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
)

// Booking lifecycle event types.
const (
	EventBookingCreated    = "booking.created"
	EventBookingCancelled  = "booking.cancelled"
	EventBookingCheckedIn  = "booking.checked_in"
	EventBookingCheckedOut = "booking.checked_out"
)

// BookingEvent is the wire payload for booking lifecycle events. The room-status
// fields let downstream consumers mirror availability without a registry read.
type BookingEvent struct {
	BookingID  string    `json:"booking_id"`
	RoomID     string    `json:"room_id"`
	UserRef    string    `json:"user_ref"`
	RoomStatus string    `json:"room_status"`
	TotalPrice float64   `json:"total_price,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewBookingMessage builds a Message keyed by room id so events for one room
// stay ordered within a partition.
func NewBookingMessage(eventType string, event BookingEvent) (Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal booking event: %w", err)
	}

	return Message{
		Key:   event.RoomID,
		Value: value,
		Headers: map[string]string{
			HeaderEventID:   uuid.New().String(),
			HeaderEventType: eventType,
			HeaderSource:    "innkeep",
		},
		Timestamp: event.OccurredAt,
	}, nil
}
