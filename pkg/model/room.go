package model

import "time"

type RoomStatus string

const (
	RoomAvailable RoomStatus = "Available"
	RoomBooked    RoomStatus = "Booked"
	RoomCheckedIn RoomStatus = "Checked-In"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomBooked, RoomCheckedIn:
		return true
	}
	return false
}

// roomTransitions is the full room state machine:
// Available -> Booked (reserve), Booked -> Checked-In (check-in),
// Checked-In -> Available (checkout), Booked -> Available (cancel).
var roomTransitions = map[RoomStatus][]RoomStatus{
	RoomAvailable: {RoomBooked},
	RoomBooked:    {RoomCheckedIn, RoomAvailable},
	RoomCheckedIn: {RoomAvailable},
}

// CanTransitionTo reports whether the state machine allows moving from s to target.
func (s RoomStatus) CanTransitionTo(target RoomStatus) bool {
	for _, next := range roomTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

type RoomCategory string

const (
	CategorySingle RoomCategory = "single"
	CategoryDouble RoomCategory = "double"
	CategorySuite  RoomCategory = "suite"
)

func (c RoomCategory) Valid() bool {
	switch c {
	case CategorySingle, CategoryDouble, CategorySuite:
		return true
	}
	return false
}

// Room is the durable room record. Status is the single source of truth for
// availability; IsAvailable is derived on every read and never persisted, so the
// two can never disagree.
type Room struct {
	ID          string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomNumber  string       `json:"roomNumber" bson:"room_number" validate:"required,min=1,max=20"`
	Category    RoomCategory `json:"category" bson:"category" validate:"required,oneof=single double suite"`
	Price       float64      `json:"price" bson:"price" validate:"required,gt=0"`
	Capacity    int          `json:"capacity" bson:"capacity" validate:"required,min=1,max=20"`
	Amenities   []string     `json:"amenities" bson:"amenities" validate:"omitempty,dive,min=1,max=50"`
	Status      RoomStatus   `json:"status" bson:"status" validate:"required,oneof=Available Booked Checked-In"`
	IsAvailable bool         `json:"isAvailable" bson:"-"`
	CreatedAt   time.Time    `json:"created_at,omitempty" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at,omitempty" bson:"updated_at"`
}

// SyncAvailability recomputes the derived availability flag from the status enum.
// Repositories call this after every decode and status write.
func (r *Room) SyncAvailability() {
	r.IsAvailable = r.Status == RoomAvailable
}
