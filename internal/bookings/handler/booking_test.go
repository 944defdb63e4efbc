package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"innkeep/internal/bookings/repository"
	"innkeep/internal/bookings/service"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	createFunc  func(ctx context.Context, booking *model.Booking) error
	cancelFunc  func(ctx context.Context, id string) (*service.CancelResult, error)
	advanceFunc func(ctx context.Context, roomID string, target model.RoomStatus) (*model.Room, error)
}

func (m *mockBookingService) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "65a1b2c3d4e5f6a7b8c9d0f2"
	return nil
}

func (m *mockBookingService) Cancel(ctx context.Context, id string) (*service.CancelResult, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id)
	}
	return &service.CancelResult{BookingID: id, RoomReset: true}, nil
}

func (m *mockBookingService) CheckIn(ctx context.Context, roomID string) (*model.Room, error) {
	return &model.Room{ID: roomID, Status: model.RoomCheckedIn}, nil
}

func (m *mockBookingService) CheckOut(ctx context.Context, roomID string) (*model.Room, error) {
	return &model.Room{ID: roomID, Status: model.RoomAvailable, IsAvailable: true}, nil
}

func (m *mockBookingService) AdvanceRoomStatus(ctx context.Context, roomID string, target model.RoomStatus) (*model.Room, error) {
	if m.advanceFunc != nil {
		return m.advanceFunc(ctx, roomID, target)
	}
	return &model.Room{ID: roomID, Status: target}, nil
}

func (m *mockBookingService) ListByUser(context.Context, string, repository.UserSort, int, int64) ([]*model.BookingWithRoom, int64, error) {
	return nil, 0, nil
}

func (m *mockBookingService) ListCheckedInRooms(context.Context) ([]*model.Room, error) {
	return []*model.Room{}, nil
}

func testHandler(svc service.BookingService) *BookingHandler {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewBookingHandler(svc, log)
}

func TestCreate_GuestIDFallback(t *testing.T) {
	var captured *model.Booking
	svc := &mockBookingService{
		createFunc: func(_ context.Context, booking *model.Booking) error {
			captured = booking
			return nil
		},
	}
	h := testHandler(svc)

	body := `{
		"room": "65a1b2c3d4e5f6a7b8c9d0e1",
		"name": "Ada Lovelace",
		"checkIn": "2024-01-01",
		"checkOut": "2024-01-03",
		"guestId": "guest-abc"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
	}
	if captured == nil {
		t.Fatal("service was not called")
	}
	if captured.UserRef.Kind != model.RefGuest || captured.UserRef.ID != "guest-abc" {
		t.Errorf("user ref = %+v, want guest guest-abc", captured.UserRef)
	}
	if captured.CheckIn.IsZero() || captured.CheckOut.IsZero() {
		t.Error("dates were not parsed")
	}
}

func TestCreate_NoUserRef(t *testing.T) {
	h := testHandler(&mockBookingService{})

	body := `{
		"room": "65a1b2c3d4e5f6a7b8c9d0e1",
		"name": "Ada Lovelace",
		"checkIn": "2024-01-01",
		"checkOut": "2024-01-03"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreate_InvalidJSON(t *testing.T) {
	h := testHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Create(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreate_InvalidDate(t *testing.T) {
	h := testHandler(&mockBookingService{})

	body := `{
		"room": "65a1b2c3d4e5f6a7b8c9d0e1",
		"name": "Ada Lovelace",
		"checkIn": "January first",
		"checkOut": "2024-01-03",
		"guestId": "guest-abc"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCancel_ReportsRoomReset(t *testing.T) {
	h := testHandler(&mockBookingService{
		cancelFunc: func(_ context.Context, id string) (*service.CancelResult, error) {
			return &service.CancelResult{BookingID: id, RoomReset: false}, nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/abc", nil)
	rec := httptest.NewRecorder()
	h.Cancel(rec, req, httprouter.Params{{Key: "id", Value: "abc"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Data service.CancelResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Data.RoomReset {
		t.Error("room_reset = true, want false")
	}
}

func TestUpdateRoomStatus_MissingStatus(t *testing.T) {
	h := testHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/rooms/status/abc", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.UpdateRoomStatus(rec, req, httprouter.Params{{Key: "id", Value: "abc"}})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
