package service

import (
	"context"
	"io"
	"testing"

	roomserrors "innkeep/internal/rooms/errors"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

type mockRoomRepo struct {
	findAllFn  func(status *model.RoomStatus, limit int, offset int64) ([]*model.Room, error)
	countFn    func(status *model.RoomStatus) (int64, error)
	findByIDFn func(id string) (*model.Room, error)
}

func (m *mockRoomRepo) FindAll(_ context.Context, status *model.RoomStatus, limit int, offset int64) ([]*model.Room, error) {
	return m.findAllFn(status, limit, offset)
}

func (m *mockRoomRepo) Count(_ context.Context, status *model.RoomStatus) (int64, error) {
	return m.countFn(status)
}

func (m *mockRoomRepo) FindByID(_ context.Context, id string) (*model.Room, error) {
	return m.findByIDFn(id)
}

func (m *mockRoomRepo) FindByIDs(context.Context, []string) ([]*model.Room, error) {
	return nil, nil
}

func (m *mockRoomRepo) TransitionStatus(context.Context, string, model.RoomStatus, model.RoomStatus) error {
	return nil
}

func (m *mockRoomRepo) ForceStatus(context.Context, string, model.RoomStatus) error {
	return nil
}

func newTestService(repo *mockRoomRepo) RoomService {
	cfg := &config.Config{Log: logger.New(logger.Config{Output: io.Discard})}
	return NewRoomService(repo, cfg)
}

func TestRoomService_List_AvailableOnly(t *testing.T) {
	var queried *model.RoomStatus
	repo := &mockRoomRepo{
		findAllFn: func(status *model.RoomStatus, limit int, offset int64) ([]*model.Room, error) {
			queried = status
			return []*model.Room{{ID: "65a1b2c3d4e5f6a7b8c9d0e1", Status: model.RoomAvailable}}, nil
		},
		countFn: func(*model.RoomStatus) (int64, error) { return 1, nil },
	}
	svc := newTestService(repo)

	rooms, total, err := svc.List(context.Background(), ListFilter{AvailableOnly: true}, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(rooms) != 1 {
		t.Fatalf("total = %d, len = %d, want 1 and 1", total, len(rooms))
	}
	if queried == nil || *queried != model.RoomAvailable {
		t.Errorf("queried status = %v, want Available", queried)
	}
}

func TestRoomService_List_InvalidStatus(t *testing.T) {
	svc := newTestService(&mockRoomRepo{})

	bogus := model.RoomStatus("Renovating")
	_, _, err := svc.List(context.Background(), ListFilter{Status: &bogus}, 20, 0)
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("code = %q, want %q", appErr.Code, apperrors.CodeInvalidInput)
	}
}

func TestRoomService_GetByID(t *testing.T) {
	repo := &mockRoomRepo{
		findByIDFn: func(id string) (*model.Room, error) {
			return &model.Room{ID: id, Status: model.RoomBooked}, nil
		},
	}
	svc := newTestService(repo)

	room, err := svc.GetByID(context.Background(), "65a1b2c3d4e5f6a7b8c9d0e1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if room.Status != model.RoomBooked {
		t.Errorf("status = %q, want Booked", room.Status)
	}
}

func TestRoomService_GetByID_NotFound(t *testing.T) {
	repo := &mockRoomRepo{
		findByIDFn: func(string) (*model.Room, error) { return nil, roomserrors.ErrNotFound },
	}
	svc := newTestService(repo)

	_, err := svc.GetByID(context.Background(), "65a1b2c3d4e5f6a7b8c9d0e1")
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("code = %q, want %q", appErr.Code, apperrors.CodeNotFound)
	}
}
