package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "innkeep/internal/bookings/errors"
	"innkeep/internal/bookings/repository"
	"innkeep/internal/bookings/validator"
	roomserrors "innkeep/internal/rooms/errors"
	roomsrepo "innkeep/internal/rooms/repository"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/kafka"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// activeStatuses are the booking states that hold a room.
var activeStatuses = []model.BookingStatus{
	model.BookingPending,
	model.BookingBooked,
	model.BookingCheckedIn,
}

const loyaltyPointsPerNight = 10

// LoyaltyLedger credits stay rewards to registered accounts. Guest-token
// bookings earn nothing.
type LoyaltyLedger interface {
	AddLoyaltyPoints(ctx context.Context, id string, points int) error
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	Cancel(ctx context.Context, id string) (*CancelResult, error)
	CheckIn(ctx context.Context, roomID string) (*model.Room, error)
	CheckOut(ctx context.Context, roomID string) (*model.Room, error)
	AdvanceRoomStatus(ctx context.Context, roomID string, target model.RoomStatus) (*model.Room, error)
	ListByUser(ctx context.Context, refID string, sort repository.UserSort, limit int, offset int64) ([]*model.BookingWithRoom, int64, error)
	ListCheckedInRooms(ctx context.Context) ([]*model.Room, error)
}

// CancelResult reports a cancellation outcome. RoomReset is false when the
// booking was removed but its room no longer exists, so the availability
// reset could not be applied.
type CancelResult struct {
	BookingID string `json:"booking_id"`
	RoomReset bool   `json:"room_reset"`
}

type bookingService struct {
	repo      repository.BookingRepository
	roomRepo  roomsrepo.RoomRepository
	validator *validator.BookingValidator
	publisher kafka.Publisher
	loyalty   LoyaltyLedger
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	roomRepo roomsrepo.RoomRepository,
	bookingValidator *validator.BookingValidator,
	publisher kafka.Publisher,
	loyalty LoyaltyLedger,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		roomRepo:  roomRepo,
		validator: bookingValidator,
		publisher: publisher,
		loyalty:   loyalty,
		cfg:       cfg,
	}
}

// Create reserves a room and records the booking as one logical unit. The room
// transition Available -> Booked is a compare-and-swap, so of two concurrent
// requests for the same room exactly one wins; the other fails with a conflict
// even when its initial read saw the room Available.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	booking.GuestName = sanitizer.NormalizeGuestName(booking.GuestName)
	if booking.Status == "" {
		booking.Status = model.BookingPending
	}

	if err := s.validate(booking); err != nil {
		return err
	}

	room, err := s.resolveRoom(ctx, booking.RoomID)
	if err != nil {
		return err
	}

	// Cheap pre-check; the CAS below remains the arbiter under concurrency.
	if room.Status != model.RoomAvailable {
		return apperrors.Conflict(fmt.Sprintf("Room %s is not available", room.RoomNumber))
	}

	nights := model.Nights(booking.CheckIn, booking.CheckOut)
	if nights < 1 {
		return apperrors.InvalidInput("checkOut must be at least one calendar day after checkIn")
	}
	booking.Nights = nights
	booking.TotalPrice = room.Price * float64(nights)

	if s.cfg.UseTransactions {
		err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			if err := s.reserveRoom(sessCtx, booking.RoomID); err != nil {
				return err
			}
			if err := s.repo.Create(sessCtx, booking); err != nil {
				return apperrors.Internal("Failed to create booking", err)
			}
			return nil
		})
	} else {
		err = s.createWithCompensation(ctx, booking)
	}
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "room_id", booking.RoomID, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"user_ref", booking.UserRef.ID,
		"nights", booking.Nights,
		"total_price", booking.TotalPrice,
	)
	s.publishEvent(ctx, kafka.EventBookingCreated, booking, model.RoomBooked)
	return nil
}

// createWithCompensation is the standalone-Mongo path: reserve the room via
// CAS first, then write the booking, and revert the room when the write fails.
// The reservation goes first because a booking without its room-state change
// is the damaging order; an unreferenced Booked room merely blocks sales until
// the revert lands.
func (s *bookingService) createWithCompensation(ctx context.Context, booking *model.Booking) error {
	if err := s.reserveRoom(ctx, booking.RoomID); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if revertErr := s.roomRepo.TransitionStatus(ctx, booking.RoomID, model.RoomBooked, model.RoomAvailable); revertErr != nil {
			s.cfg.Log.Error("Booking write failed and room revert failed; room state is inconsistent",
				"room_id", booking.RoomID,
				"create_error", err,
				"revert_error", revertErr,
			)
			return apperrors.Internal("Booking was not created and the room state could not be restored; verify room availability before retrying", err)
		}
		return apperrors.Internal("Failed to create booking", err)
	}

	return nil
}

func (s *bookingService) reserveRoom(ctx context.Context, roomID string) error {
	err := s.roomRepo.TransitionStatus(ctx, roomID, model.RoomAvailable, model.RoomBooked)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, roomserrors.ErrStatusConflict):
		return apperrors.Conflict("Room is not available")
	case errors.Is(err, roomserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Room", roomID)
	case errors.Is(err, roomserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid room ID format")
	default:
		return apperrors.Internal("Failed to reserve room", err)
	}
}

// Cancel removes the booking and resets its room to Available unconditionally.
// The room reset is best-effort: a booking referencing a vanished room still
// cancels, reported through CancelResult.RoomReset.
func (s *bookingService) Cancel(ctx context.Context, id string) (*CancelResult, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapBookingLookupErr(err, id)
	}

	result := &CancelResult{BookingID: booking.ID, RoomReset: true}

	run := func(c context.Context) error {
		if err := s.repo.Delete(c, booking.ID); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to delete booking", err)
		}

		if err := s.roomRepo.ForceStatus(c, booking.RoomID, model.RoomAvailable); err != nil {
			if errors.Is(err, roomserrors.ErrNotFound) || errors.Is(err, roomserrors.ErrInvalidID) {
				result.RoomReset = false
				s.cfg.Log.Warn("Cancelled booking references a missing room; skipping availability reset",
					"booking_id", booking.ID,
					"room_id", booking.RoomID,
				)
				return nil
			}
			return apperrors.Internal("Failed to reset room after cancellation", err)
		}
		return nil
	}

	if s.cfg.UseTransactions {
		err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			return run(sessCtx)
		})
	} else {
		err = run(ctx)
	}
	if err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking cancelled", "id", booking.ID, "room_id", booking.RoomID, "room_reset", result.RoomReset)
	s.publishEvent(ctx, kafka.EventBookingCancelled, booking, model.RoomAvailable)
	return result, nil
}

func (s *bookingService) CheckIn(ctx context.Context, roomID string) (*model.Room, error) {
	return s.advance(ctx, roomID, model.RoomCheckedIn, nil)
}

func (s *bookingService) CheckOut(ctx context.Context, roomID string) (*model.Room, error) {
	from := model.RoomCheckedIn
	return s.advance(ctx, roomID, model.RoomAvailable, &from)
}

// AdvanceRoomStatus applies any transition the room state machine allows,
// correlating the active booking's historical record. The room-side write is
// the source of truth for availability.
func (s *bookingService) AdvanceRoomStatus(ctx context.Context, roomID string, target model.RoomStatus) (*model.Room, error) {
	if !target.Valid() {
		return nil, apperrors.InvalidInput("status must be one of: Available, Booked, Checked-In")
	}
	return s.advance(ctx, roomID, target, nil)
}

func (s *bookingService) advance(ctx context.Context, roomID string, target model.RoomStatus, requiredFrom *model.RoomStatus) (*model.Room, error) {
	room, err := s.resolveRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if requiredFrom != nil && room.Status != *requiredFrom {
		return nil, apperrors.Conflict(fmt.Sprintf("room %s is %s, expected %s", room.RoomNumber, room.Status, *requiredFrom))
	}
	if !room.Status.CanTransitionTo(target) {
		return nil, apperrors.Conflict(fmt.Sprintf("illegal room status transition: %s -> %s", room.Status, target))
	}

	from := room.Status
	var correlated *model.Booking

	transitionRoom := func(c context.Context) error {
		if err := s.roomRepo.TransitionStatus(c, roomID, from, target); err != nil {
			switch {
			case errors.Is(err, roomserrors.ErrStatusConflict):
				return apperrors.Conflict("room status changed concurrently, retry")
			case errors.Is(err, roomserrors.ErrNotFound):
				return apperrors.NotFoundWithID("Room", roomID)
			default:
				return apperrors.Internal("Failed to update room status", err)
			}
		}
		return nil
	}

	if s.cfg.UseTransactions {
		err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			if err := transitionRoom(sessCtx); err != nil {
				return err
			}
			booking, err := s.correlateBooking(sessCtx, roomID, from, target)
			if err != nil {
				return err
			}
			correlated = booking
			return nil
		})
	} else {
		err = s.advanceWithCompensation(ctx, roomID, from, target, transitionRoom, &correlated)
	}
	if err != nil {
		s.cfg.Log.Error("Failed to advance room status", "room_id", roomID, "target", target, "error", err)
		return nil, err
	}

	room.Status = target
	room.SyncAvailability()

	s.cfg.Log.Info("Room status advanced", "room_id", roomID, "from", from, "to", target)
	if correlated != nil {
		switch target {
		case model.RoomCheckedIn:
			s.publishEvent(ctx, kafka.EventBookingCheckedIn, correlated, target)
		case model.RoomAvailable:
			if from == model.RoomCheckedIn {
				s.publishEvent(ctx, kafka.EventBookingCheckedOut, correlated, target)
				s.awardLoyaltyPoints(ctx, correlated)
			} else {
				s.publishEvent(ctx, kafka.EventBookingCancelled, correlated, target)
			}
		}
	}

	return room, nil
}

// advanceWithCompensation runs the room transition and booking update without a
// transaction. If the booking update fails after the room transition landed,
// the room is moved back so both sides stay consistent.
func (s *bookingService) advanceWithCompensation(ctx context.Context, roomID string, from, target model.RoomStatus, transitionRoom func(context.Context) error, correlated **model.Booking) error {
	if err := transitionRoom(ctx); err != nil {
		return err
	}

	booking, err := s.correlateBooking(ctx, roomID, from, target)
	if err != nil {
		if revertErr := s.roomRepo.TransitionStatus(ctx, roomID, target, from); revertErr != nil {
			s.cfg.Log.Error("Failed to revert room status after booking update failure",
				"room_id", roomID, "from", target, "to", from, "error", revertErr)
			return apperrors.Internal("Room status was not updated consistently; verify room state before retrying", err)
		}
		s.cfg.Log.Warn("Reverted room status after booking update failure", "room_id", roomID, "restored", from)
		return err
	}
	*correlated = booking
	return nil
}

// awardLoyaltyPoints credits a completed stay. Only registered accounts
// accrue points; failures do not undo the checkout.
func (s *bookingService) awardLoyaltyPoints(ctx context.Context, booking *model.Booking) {
	if booking.UserRef.Kind != model.RefRegistered {
		return
	}
	points := booking.Nights * loyaltyPointsPerNight
	if points <= 0 {
		return
	}
	if err := s.loyalty.AddLoyaltyPoints(ctx, booking.UserRef.ID, points); err != nil {
		s.cfg.Log.Warn("Failed to award loyalty points", "user_id", booking.UserRef.ID, "points", points, "error", err)
		return
	}
	s.cfg.Log.Info("Awarded loyalty points", "user_id", booking.UserRef.ID, "points", points)
}

// correlateBooking advances the active booking's record alongside the room
// transition. A missing active booking is tolerated: the room side is
// authoritative, the booking side is history.
func (s *bookingService) correlateBooking(ctx context.Context, roomID string, from, target model.RoomStatus) (*model.Booking, error) {
	var bookingTarget model.BookingStatus
	switch {
	case target == model.RoomCheckedIn:
		bookingTarget = model.BookingCheckedIn
	case target == model.RoomAvailable && from == model.RoomCheckedIn:
		bookingTarget = model.BookingCheckedOut
	case target == model.RoomAvailable && from == model.RoomBooked:
		bookingTarget = model.BookingCancelled
	default:
		return nil, nil
	}

	booking, err := s.repo.FindActiveByRoom(ctx, roomID, activeStatuses)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNoActiveBooking) {
			s.cfg.Log.Warn("No active booking to correlate with room transition",
				"room_id", roomID,
				"from", from,
				"to", target,
			)
			return nil, nil
		}
		return nil, apperrors.Internal("Failed to look up active booking", err)
	}

	if err := s.repo.UpdateStatus(ctx, booking.ID, bookingTarget); err != nil {
		return nil, apperrors.Internal("Failed to update booking status", err)
	}
	booking.Status = bookingTarget

	return booking, nil
}

func (s *bookingService) ListByUser(ctx context.Context, refID string, sort repository.UserSort, limit int, offset int64) ([]*model.BookingWithRoom, int64, error) {
	if refID == "" {
		return nil, 0, apperrors.InvalidInput("User reference cannot be empty")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUser(ctx, refID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings by user", "user_ref", refID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByUser(ctx, refID, sort, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings by user", "user_ref", refID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	if len(bookings) == 0 {
		return nil, 0, apperrors.NotFoundWithID("Bookings for user", refID)
	}

	populated, err := s.populateRooms(ctx, bookings)
	if err != nil {
		return nil, 0, err
	}

	return populated, count, nil
}

// populateRooms stitches room records onto bookings in one $in query.
// Bookings whose room no longer exists keep a nil Room.
func (s *bookingService) populateRooms(ctx context.Context, bookings []*model.Booking) ([]*model.BookingWithRoom, error) {
	roomIDs := make([]string, 0, len(bookings))
	seen := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		if !seen[b.RoomID] {
			seen[b.RoomID] = true
			roomIDs = append(roomIDs, b.RoomID)
		}
	}

	rooms, err := s.roomRepo.FindByIDs(ctx, roomIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to load rooms for bookings", err)
	}

	byID := make(map[string]*model.Room, len(rooms))
	for _, room := range rooms {
		byID[room.ID] = room
	}

	result := make([]*model.BookingWithRoom, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, &model.BookingWithRoom{
			Booking: *b,
			Room:    byID[b.RoomID],
		})
	}
	return result, nil
}

func (s *bookingService) ListCheckedInRooms(ctx context.Context) ([]*model.Room, error) {
	status := model.RoomCheckedIn
	rooms, err := s.roomRepo.FindAll(ctx, &status, config.DefaultPaginationLimit, 0)
	if err != nil {
		s.cfg.Log.Error("Failed to list checked-in rooms", "error", err)
		return nil, apperrors.Internal("Failed to retrieve checked-in rooms", err)
	}
	return rooms, nil
}

// --- Helpers ---

func (s *bookingService) resolveRoom(ctx context.Context, roomID string) (*model.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", roomID)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}
	return room, nil
}

func (s *bookingService) mapBookingLookupErr(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal("Failed to retrieve booking", err)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) publishEvent(ctx context.Context, eventType string, booking *model.Booking, roomStatus model.RoomStatus) {
	msg, err := kafka.NewBookingMessage(eventType, kafka.BookingEvent{
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		UserRef:    booking.UserRef.ID,
		RoomStatus: string(roomStatus),
		TotalPrice: booking.TotalPrice,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to build booking event", "type", eventType, "error", err)
		return
	}

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event", "type", eventType, "booking_id", booking.ID, "error", err)
	}
}
