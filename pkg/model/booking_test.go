package model

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{
			name:     "two night stay",
			checkIn:  date(2024, time.January, 1, 0),
			checkOut: date(2024, time.January, 3, 0),
			want:     2,
		},
		{
			name:     "single night",
			checkIn:  date(2024, time.January, 1, 0),
			checkOut: date(2024, time.January, 2, 0),
			want:     1,
		},
		{
			name:     "same day is rejected",
			checkIn:  date(2024, time.January, 1, 8),
			checkOut: date(2024, time.January, 1, 20),
			want:     0,
		},
		{
			name:     "checkout before checkin is rejected",
			checkIn:  date(2024, time.January, 3, 0),
			checkOut: date(2024, time.January, 1, 0),
			want:     0,
		},
		{
			name:     "wall clock hours do not shorten the stay",
			checkIn:  date(2024, time.January, 1, 23),
			checkOut: date(2024, time.January, 2, 1),
			want:     1,
		},
		{
			name:     "timezone offsets collapse to calendar dates",
			checkIn:  time.Date(2024, time.March, 1, 22, 0, 0, 0, time.FixedZone("UTC-5", -5*3600)),
			checkOut: time.Date(2024, time.March, 4, 2, 0, 0, 0, time.FixedZone("UTC-5", -5*3600)),
			want:     2,
		},
		{
			name:     "month boundary",
			checkIn:  date(2024, time.January, 31, 0),
			checkOut: date(2024, time.February, 2, 0),
			want:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Nights(tt.checkIn, tt.checkOut); got != tt.want {
				t.Errorf("Nights(%v, %v) = %d, want %d", tt.checkIn, tt.checkOut, got, tt.want)
			}
		})
	}
}

func TestBookingStatus_Active(t *testing.T) {
	active := []BookingStatus{BookingPending, BookingBooked, BookingCheckedIn}
	for _, s := range active {
		if !s.Active() {
			t.Errorf("expected %q to be active", s)
		}
	}

	inactive := []BookingStatus{BookingCheckedOut, BookingCancelled}
	for _, s := range inactive {
		if s.Active() {
			t.Errorf("expected %q to be inactive", s)
		}
	}
}
