package service

import (
	"context"
	"errors"
	roomserrors "innkeep/internal/rooms/errors"
	"innkeep/internal/rooms/repository"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
	"sync"
)

type RoomService interface {
	List(ctx context.Context, filter ListFilter, limit int, offset int64) ([]*model.Room, int64, error)
	GetByID(ctx context.Context, id string) (*model.Room, error)
}

// ListFilter narrows a room listing by status enum or by the derived
// availability flag. Rooms that are Booked or Checked-In are never available.
type ListFilter struct {
	Status        *model.RoomStatus
	AvailableOnly bool
}

type roomService struct {
	repo repository.RoomRepository
	cfg  *config.Config
}

func NewRoomService(repo repository.RoomRepository, cfg *config.Config) RoomService {
	return &roomService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *roomService) List(ctx context.Context, filter ListFilter, limit int, offset int64) ([]*model.Room, int64, error) {
	status := filter.Status
	if status != nil && !status.Valid() {
		return nil, 0, apperrors.InvalidInput("status must be one of: Available, Booked, Checked-In")
	}
	if filter.AvailableOnly {
		// availableOnly is shorthand for the Available status; the flag is
		// derived from the enum, never queried separately.
		available := model.RoomAvailable
		status = &available
	}

	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, status)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count rooms", "error", errCount)
			errCount = apperrors.Internal("Failed to count rooms", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rooms, errFind = s.repo.FindAll(ctx, status, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list rooms", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve rooms", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rooms, count, nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	return room, nil
}
