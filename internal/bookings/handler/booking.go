package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"innkeep/internal/bookings/repository"
	"innkeep/internal/bookings/service"
	apperrors "innkeep/pkg/errors"
	httputil "innkeep/pkg/http"
	"innkeep/pkg/logger"
	"innkeep/pkg/middleware"
	"innkeep/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

type createBookingRequest struct {
	Room     string `json:"room"`
	Name     string `json:"name"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	GuestID  string `json:"guestId,omitempty"`
}

type updateRoomStatusRequest struct {
	Status string `json:"status"`
}

// Create books a room for the caller. The user reference comes from the
// authentication middleware when present; an unauthenticated caller may
// supply a guestId instead.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	ref, ok := middleware.UserRefFromContext(r.Context())
	if !ok {
		if req.GuestID == "" {
			h.writeError(w, "Create", apperrors.InvalidInput("a user reference is required: authenticate or supply guestId"))
			return
		}
		ref = model.UserRef{Kind: model.RefGuest, ID: req.GuestID}
	}

	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("invalid checkIn date: "+req.CheckIn))
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("invalid checkOut date: "+req.CheckOut))
		return
	}

	booking := &model.Booking{
		RoomID:    req.Room,
		UserRef:   ref,
		GuestName: req.Name,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
	}

	if err := h.service.Create(r.Context(), booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write response", "handler", "Create", "error", err)
	}
}

// ListByUser returns the caller's booking history with rooms populated.
func (h *BookingHandler) ListByUser(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	userID := params.ByName("userId")

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListByUser", err)
		return
	}

	sort := repository.SortByCreated
	if r.URL.Query().Get("sort") == "checkIn" {
		sort = repository.SortByCheckIn
	}

	bookings, total, err := h.service.ListByUser(r.Context(), userID, sort, limit, offset)
	if err != nil {
		h.writeError(w, "ListByUser", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write response", "handler", "ListByUser", "error", err)
	}
}

// Cancel deletes a booking and frees its room.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	id := params.ByName("id")

	result, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write response", "handler", "Cancel", "error", err)
	}
}

// CheckIn moves a booked room to Checked-In.
func (h *BookingHandler) CheckIn(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	id := params.ByName("id")

	room, err := h.service.CheckIn(r.Context(), id)
	if err != nil {
		h.writeError(w, "CheckIn", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write response", "handler", "CheckIn", "error", err)
	}
}

// UpdateRoomStatus applies an arbitrary legal room status transition.
func (h *BookingHandler) UpdateRoomStatus(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	id := params.ByName("id")

	var req updateRoomStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "UpdateRoomStatus", apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}
	if req.Status == "" {
		h.writeError(w, "UpdateRoomStatus", apperrors.InvalidInput("status is required"))
		return
	}

	room, err := h.service.AdvanceRoomStatus(r.Context(), id, model.RoomStatus(req.Status))
	if err != nil {
		h.writeError(w, "UpdateRoomStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write response", "handler", "UpdateRoomStatus", "error", err)
	}
}

// ListCheckedIn returns the rooms currently occupied, for the checkout desk.
func (h *BookingHandler) ListCheckedIn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rooms, err := h.service.ListCheckedInRooms(r.Context())
	if err != nil {
		h.writeError(w, "ListCheckedIn", err)
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write response", "handler", "ListCheckedIn", "error", err)
	}
}

// CheckOut releases an occupied room back to Available.
func (h *BookingHandler) CheckOut(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	id := params.ByName("roomId")

	room, err := h.service.CheckOut(r.Context(), id)
	if err != nil {
		h.writeError(w, "CheckOut", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write response", "handler", "CheckOut", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/my/:userId", h.ListByUser)
	router.DELETE("/api/v1/bookings/:id", h.Cancel)
	router.PUT("/api/v1/rooms/checkin/:id", h.CheckIn)
	router.PUT("/api/v1/rooms/status/:id", h.UpdateRoomStatus)
	router.GET("/api/v1/checkout", h.ListCheckedIn)
	router.POST("/api/v1/checkout/:roomId", h.CheckOut)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

// parseDate accepts RFC 3339 timestamps or bare calendar dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
