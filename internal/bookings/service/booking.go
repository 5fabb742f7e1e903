package service

import (
	"context"
	"sync"
	"time"

	"parkslot/internal/bookings/repository"
	"parkslot/internal/bookings/validator"
	"parkslot/pkg/config"
	apperrors "parkslot/pkg/errors"
	"parkslot/pkg/events"
	"parkslot/pkg/model"
	"parkslot/pkg/sanitizer"

	"github.com/google/uuid"
)

type BookingService interface {
	// List returns the full collection in storage order. Callers that need
	// chronological order sort by date themselves.
	List(ctx context.Context) ([]model.Booking, error)

	// GetByID returns the matching booking. Absence is an expected outcome,
	// reported through the bool rather than an error.
	GetByID(ctx context.Context, id string) (*model.Booking, bool, error)

	// IsDateBooked is the pre-flight conflict check Create also runs.
	IsDateBooked(ctx context.Context, date string) (bool, error)

	Create(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error)

	// Delete removes the booking with the given id. The bool reports whether
	// anything was removed; an unknown id causes no write at all.
	Delete(ctx context.Context, id string) (bool, error)
}

type bookingService struct {
	store     repository.Store
	validator *validator.BookingValidator
	events    events.Publisher
	cfg       *config.Config

	// Serializes the read-modify-write sequence of Create and Delete within
	// this process. The store itself has no cross-process locking; separate
	// processes sharing a store remain last-write-wins.
	mu sync.Mutex
}

func NewBookingService(
	store repository.Store,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		store:     store,
		validator: bookingValidator,
		events:    publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) List(ctx context.Context) ([]model.Booking, error) {
	bookings, err := s.store.ReadAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Failed to fetch bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, bool, error) {
	if id == "" {
		return nil, false, apperrors.InvalidInput("Booking ID is required")
	}

	bookings, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, false, apperrors.Internal("Failed to fetch bookings", err)
	}

	for i := range bookings {
		if bookings[i].ID == id {
			return &bookings[i], true, nil
		}
	}
	return nil, false, nil
}

func (s *bookingService) IsDateBooked(ctx context.Context, date string) (bool, error) {
	bookings, err := s.store.ReadAll(ctx)
	if err != nil {
		return false, apperrors.Internal("Failed to fetch bookings", err)
	}
	return dateBooked(bookings, date), nil
}

func (s *bookingService) Create(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	s.sanitize(req)

	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "date", req.Date, "error", err)
		return nil, apperrors.Validation(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Always a fresh read: staleness would make the conflict check lie.
	bookings, err := s.store.ReadAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to read bookings", "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	if dateBooked(bookings, req.Date) {
		return nil, apperrors.Conflict("This date is already booked")
	}

	booking := model.Booking{
		ID:        uuid.NewString(),
		Date:      req.Date,
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	bookings = append(bookings, booking)
	if err := s.store.WriteAll(ctx, bookings); err != nil {
		s.cfg.Log.Error("Failed to persist booking", "date", booking.Date, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"date", booking.Date,
	)
	s.publish(ctx, events.TypeBookingCreated, booking)

	return &booking, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, apperrors.InvalidInput("Booking ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bookings, err := s.store.ReadAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to read bookings", "error", err)
		return false, apperrors.Internal("Failed to delete booking", err)
	}

	var removed *model.Booking
	remaining := make([]model.Booking, 0, len(bookings))
	for i := range bookings {
		if bookings[i].ID == id && removed == nil {
			removed = &bookings[i]
			continue
		}
		remaining = append(remaining, bookings[i])
	}

	// Unknown id: no write occurs, the collection stays untouched.
	if removed == nil {
		return false, nil
	}

	if err := s.store.WriteAll(ctx, remaining); err != nil {
		s.cfg.Log.Error("Failed to persist deletion", "id", id, "error", err)
		return false, apperrors.Internal("Failed to delete booking", err)
	}

	s.cfg.Log.Info("Booking deleted", "id", id, "date", removed.Date)
	s.publish(ctx, events.TypeBookingCancelled, *removed)

	return true, nil
}

func (s *bookingService) sanitize(req *model.CreateBookingRequest) {
	req.Date = sanitizer.NormalizeDate(req.Date)
	req.UserName = sanitizer.NormalizeName(req.UserName)
	req.UserEmail = sanitizer.NormalizeEmail(req.UserEmail)
}

// publish is best-effort: the booking is already persisted, so a failed
// event never fails the request.
func (s *bookingService) publish(ctx context.Context, eventType string, booking model.Booking) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func dateBooked(bookings []model.Booking, date string) bool {
	for _, b := range bookings {
		if b.Date == date {
			return true
		}
	}
	return false
}
