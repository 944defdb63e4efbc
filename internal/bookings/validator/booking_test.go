package validator

import (
	"testing"
	"time"

	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

func TestValidateBooking(t *testing.T) {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	validator := NewBookingValidator(log)

	base := func() *model.Booking {
		return &model.Booking{
			RoomID:    "65a1b2c3d4e5f6a7b8c9d0e1",
			UserRef:   model.UserRef{Kind: model.RefRegistered, ID: "65a1b2c3d4e5f6a7b8c9d111"},
			GuestName: "Ada Lovelace",
			CheckIn:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			CheckOut:  time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			Status:    model.BookingPending,
		}
	}

	tests := []struct {
		name      string
		mutate    func(b *model.Booking)
		wantError bool
	}{
		{
			name:      "valid booking",
			mutate:    func(*model.Booking) {},
			wantError: false,
		},
		{
			name:      "valid guest ref",
			mutate:    func(b *model.Booking) { b.UserRef = model.UserRef{Kind: model.RefGuest, ID: "guest-token-1"} },
			wantError: false,
		},
		{
			name:      "room id not an object id",
			mutate:    func(b *model.Booking) { b.RoomID = "room-101" },
			wantError: true,
		},
		{
			name:      "missing guest name",
			mutate:    func(b *model.Booking) { b.GuestName = "" },
			wantError: true,
		},
		{
			name:      "check-out before check-in",
			mutate:    func(b *model.Booking) { b.CheckIn, b.CheckOut = b.CheckOut, b.CheckIn },
			wantError: true,
		},
		{
			name:      "check-out equals check-in",
			mutate:    func(b *model.Booking) { b.CheckOut = b.CheckIn },
			wantError: true,
		},
		{
			name:      "missing user ref",
			mutate:    func(b *model.Booking) { b.UserRef = model.UserRef{} },
			wantError: true,
		},
		{
			name:      "invalid ref kind",
			mutate:    func(b *model.Booking) { b.UserRef.Kind = "anonymous" },
			wantError: true,
		},
		{
			name:      "invalid status",
			mutate:    func(b *model.Booking) { b.Status = "waitlisted" },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := base()
			tt.mutate(booking)
			err := validator.Validate(booking)
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}
