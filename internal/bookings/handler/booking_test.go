package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "parkslot/pkg/errors"
	"parkslot/pkg/logger"
	"parkslot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock service for testing
type mockBookingService struct {
	listFunc         func(ctx context.Context) ([]model.Booking, error)
	getByIDFunc      func(ctx context.Context, id string) (*model.Booking, bool, error)
	isDateBookedFunc func(ctx context.Context, date string) (bool, error)
	createFunc       func(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error)
	deleteFunc       func(ctx context.Context, id string) (bool, error)
}

func (m *mockBookingService) List(ctx context.Context) ([]model.Booking, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []model.Booking{}, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, bool, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, false, nil
}

func (m *mockBookingService) IsDateBooked(ctx context.Context, date string) (bool, error) {
	if m.isDateBookedFunc != nil {
		return m.isDateBookedFunc(ctx, date)
	}
	return false, nil
}

func (m *mockBookingService) Create(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockBookingService) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return false, nil
}

func newTestRouter(svc *mockBookingService) *httprouter.Router {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	router := httprouter.New()
	NewBookingHandler(svc, log).RegisterRoutes(router)
	return router
}

func sampleBooking() model.Booking {
	return model.Booking{
		ID:        "11111111-1111-1111-1111-111111111111",
		Date:      "2030-10-28",
		UserName:  "John Smith",
		UserEmail: "john@company.com",
		CreatedAt: time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestListBookings(t *testing.T) {
	booking := sampleBooking()
	router := newTestRouter(&mockBookingService{
		listFunc: func(ctx context.Context) ([]model.Booking, error) {
			return []model.Booking{booking}, nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp BookingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if len(resp.Bookings) != 1 || resp.Bookings[0].ID != booking.ID {
		t.Errorf("response = %+v, want the stored booking", resp)
	}
}

func TestListBookingsEmptyIsArray(t *testing.T) {
	router := newTestRouter(&mockBookingService{
		listFunc: func(ctx context.Context) ([]model.Booking, error) {
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"bookings":[]`) {
		t.Errorf("body = %s, want an empty JSON array, not null", rec.Body.String())
	}
}

func TestListBookingsStorageError(t *testing.T) {
	router := newTestRouter(&mockBookingService{
		listFunc: func(ctx context.Context) ([]model.Booking, error) {
			return nil, apperrors.Internal("Failed to fetch bookings", nil)
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestCreateBooking(t *testing.T) {
	booking := sampleBooking()
	router := newTestRouter(&mockBookingService{
		createFunc: func(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
			return &booking, nil
		},
	})

	body := `{"date":"2030-10-28","userName":"John Smith","userEmail":"john@company.com"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var resp BookingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Booking.ID != booking.ID {
		t.Errorf("response booking id = %q, want %q", resp.Booking.ID, booking.ID)
	}
}

func TestCreateBookingStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"validation failure", apperrors.Validation("Invalid date format. Use YYYY-MM-DD"), http.StatusBadRequest},
		{"past date", apperrors.Validation("Cannot book dates in the past"), http.StatusBadRequest},
		{"date conflict", apperrors.Conflict("This date is already booked"), http.StatusConflict},
		{"storage failure", apperrors.Internal("Failed to create booking", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockBookingService{
				createFunc: func(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
					return nil, tt.serviceErr
				},
			})

			body := `{"date":"2030-10-28","userName":"Bob","userEmail":"bob@x.com"}`
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body)))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("error response is not valid JSON: %v", err)
			}
			if _, ok := resp["error"]; !ok {
				t.Error(`error response lacks the "error" key`)
			}
		})
	}
}

func TestCreateBookingMalformedBody(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader("{not json")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestDeleteBooking(t *testing.T) {
	var gotID string
	router := newTestRouter(&mockBookingService{
		deleteFunc: func(ctx context.Context, id string) (bool, error) {
			gotID = id
			return true, nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/bookings/abc-123", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotID != "abc-123" {
		t.Errorf("service received id %q, want %q", gotID, "abc-123")
	}
	if !strings.Contains(rec.Body.String(), "Booking cancelled successfully") {
		t.Errorf("body = %s, want cancellation message", rec.Body.String())
	}
}

func TestDeleteBookingNotFound(t *testing.T) {
	router := newTestRouter(&mockBookingService{
		deleteFunc: func(ctx context.Context, id string) (bool, error) {
			return false, nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/bookings/unknown", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestDeleteBookingInvalidID(t *testing.T) {
	router := newTestRouter(&mockBookingService{
		deleteFunc: func(ctx context.Context, id string) (bool, error) {
			return false, apperrors.InvalidInput("Booking ID is required")
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/bookings/%20", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAvailability(t *testing.T) {
	router := newTestRouter(&mockBookingService{
		isDateBookedFunc: func(ctx context.Context, date string) (bool, error) {
			return date == "2030-10-28", nil
		},
	})

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantBooked bool
	}{
		{"booked date", "date=2030-10-28", http.StatusOK, true},
		{"free date", "date=2030-10-29", http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/availability?"+tt.query, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp AvailabilityResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("response is not valid JSON: %v", err)
			}
			if resp.Booked != tt.wantBooked {
				t.Errorf("booked = %v, want %v", resp.Booked, tt.wantBooked)
			}
		})
	}
}

func TestAvailabilityBadDate(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	for _, query := range []string{"", "date=invalid-date", "date=2025-02-30"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/availability?"+query, nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("query %q: status = %d, want %d", query, rec.Code, http.StatusBadRequest)
		}
	}
}
