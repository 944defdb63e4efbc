package model

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingBooked     BookingStatus = "Booked"
	BookingCheckedIn  BookingStatus = "Checked-In"
	BookingCheckedOut BookingStatus = "Checked-Out"
	BookingCancelled  BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingBooked, BookingCheckedIn, BookingCheckedOut, BookingCancelled:
		return true
	}
	return false
}

// Active reports whether the booking still holds its room. At most one active
// booking may exist per room at any time.
func (s BookingStatus) Active() bool {
	switch s {
	case BookingPending, BookingBooked, BookingCheckedIn:
		return true
	}
	return false
}

type UserRefKind string

const (
	RefRegistered UserRefKind = "registered"
	RefGuest      UserRefKind = "guest"
)

// UserRef is the tagged identifier a booking holds for its requester: either a
// registered user's database id or an anonymous guest token. The workflow only
// requires the id to be present; resolution happens at the HTTP boundary.
type UserRef struct {
	Kind UserRefKind `json:"kind" bson:"kind" validate:"required,oneof=registered guest"`
	ID   string      `json:"id" bson:"id" validate:"required,min=1,max=64"`
}

func (r UserRef) IsZero() bool {
	return r.ID == ""
}

// Booking is the durable booking record in the ledger.
type Booking struct {
	ID         string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomID     string        `json:"room" bson:"room_id" validate:"required,mongodb"`
	UserRef    UserRef       `json:"userRef" bson:"user_ref" validate:"required"`
	GuestName  string        `json:"name" bson:"guest_name" validate:"required,min=1,max=100"`
	CheckIn    time.Time     `json:"checkIn" bson:"check_in" validate:"required"`
	CheckOut   time.Time     `json:"checkOut" bson:"check_out" validate:"required"`
	Nights     int           `json:"nights" bson:"nights"`
	TotalPrice float64       `json:"totalPrice" bson:"total_price"`
	Status     BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending Booked Checked-In Checked-Out cancelled"`
	CreatedAt  time.Time     `json:"created_at,omitempty" bson:"created_at"`
}

// BookingWithRoom is the read shape for user-facing booking listings, with the
// referenced room populated. Room is nil when the room record no longer exists.
type BookingWithRoom struct {
	Booking `bson:",inline"`
	Room    *Room `json:"roomDetails,omitempty" bson:"room,omitempty"`
}

// Nights computes the whole-day length of a stay. Both instants are truncated to
// their UTC calendar date first so wall-clock time and timezone drift cannot
// change the count. Returns 0 when checkOut is not strictly after checkIn.
func Nights(checkIn, checkOut time.Time) int {
	in := truncateToDate(checkIn)
	out := truncateToDate(checkOut)
	days := int(out.Sub(in).Hours() / 24)
	if days < 1 {
		return 0
	}
	return days
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
