package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"clinicbook/internal/appointments/service"
	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"
)

type mockAppointmentService struct {
	bookFunc         func(ctx context.Context, req *model.AppointmentRequest) (*model.BookedAppointment, error)
	availabilityFunc func(ctx context.Context, doctorID int64, date string) (*model.DayAvailability, error)
}

func (m *mockAppointmentService) Book(ctx context.Context, req *model.AppointmentRequest) (*model.BookedAppointment, error) {
	if m.bookFunc != nil {
		return m.bookFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockAppointmentService) Availability(ctx context.Context, doctorID int64, date string) (*model.DayAvailability, error) {
	if m.availabilityFunc != nil {
		return m.availabilityFunc(ctx, doctorID, date)
	}
	return nil, nil
}

func newTestRouter(svc service.AppointmentService) *httprouter.Router {
	log := logger.New(logger.Config{Level: "error", Service: "test"})
	router := httprouter.New()
	NewAppointmentHandler(svc, log).RegisterRoutes(router)
	return router
}

func TestCreateAppointmentSuccess(t *testing.T) {
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	svc := &mockAppointmentService{
		bookFunc: func(_ context.Context, req *model.AppointmentRequest) (*model.BookedAppointment, error) {
			if req.DoctorID != 1 || req.PatientName != "Jane Doe" {
				t.Errorf("request not forwarded intact: %+v", req)
			}
			return &model.BookedAppointment{
				ID:          "appt-1",
				DoctorID:    1,
				DoctorName:  "Dr. Jones",
				PatientName: "Jane Doe",
				StartTime:   start,
				EndTime:     start.Add(30 * time.Minute),
				Status:      model.StatusActive,
			}, nil
		},
	}

	body := `{"doctor_id": 1, "patient_name": "Jane Doe", "start": "2024-01-15 09:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var resp struct {
		Data model.BookedAppointment `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.ID != "appt-1" || resp.Data.DoctorName != "Dr. Jones" {
		t.Errorf("unexpected payload: %+v", resp.Data)
	}
}

func TestCreateAppointmentMalformedBody(t *testing.T) {
	svc := &mockAppointmentService{
		bookFunc: func(context.Context, *model.AppointmentRequest) (*model.BookedAppointment, error) {
			t.Error("service must not be called for malformed JSON")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreateAppointmentErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"validation", apperrors.Validation("Invalid slot start", nil), http.StatusUnprocessableEntity},
		{"doctor not found", apperrors.NotFoundWithID("Doctor", "7"), http.StatusNotFound},
		{"slot conflict", apperrors.Conflict(service.ConflictMessage), http.StatusConflict},
		{"storage failure", apperrors.Internal("Failed to create appointment", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAppointmentService{
				bookFunc: func(context.Context, *model.AppointmentRequest) (*model.BookedAppointment, error) {
					return nil, tt.serviceErr
				},
			}

			body := `{"doctor_id": 1, "patient_name": "Jane Doe", "start": "2024-01-15 09:00"}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
			rec := httptest.NewRecorder()

			newTestRouter(svc).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateAppointmentConflictBody(t *testing.T) {
	svc := &mockAppointmentService{
		bookFunc: func(context.Context, *model.AppointmentRequest) (*model.BookedAppointment, error) {
			return nil, apperrors.Conflict(service.ConflictMessage)
		},
	}

	body := `{"doctor_id": 1, "patient_name": "Jane Doe", "start": "2024-01-15 09:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != service.ConflictMessage {
		t.Errorf("expected %q, got %q", service.ConflictMessage, resp.Error)
	}
}

func TestAvailabilitySuccess(t *testing.T) {
	svc := &mockAppointmentService{
		availabilityFunc: func(_ context.Context, doctorID int64, date string) (*model.DayAvailability, error) {
			if doctorID != 3 || date != "2024-01-15" {
				t.Errorf("unexpected arguments: doctor=%d date=%q", doctorID, date)
			}
			return &model.DayAvailability{
				DoctorID: doctorID,
				Date:     date,
				Slots:    []string{"09:00", "09:30"},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors/3/availability?date=2024-01-15", nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data model.DayAvailability `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data.Slots) != 2 {
		t.Errorf("expected 2 slots, got %v", resp.Data.Slots)
	}
}

func TestAvailabilityInvalidDoctorID(t *testing.T) {
	for _, id := range []string{"abc", "0", "-5"} {
		svc := &mockAppointmentService{
			availabilityFunc: func(context.Context, int64, string) (*model.DayAvailability, error) {
				t.Errorf("service must not be called for doctor id %q", id)
				return nil, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors/"+id+"/availability?date=2024-01-15", nil)
		rec := httptest.NewRecorder()

		newTestRouter(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("doctor id %q: expected 400, got %d", id, rec.Code)
		}
	}
}

func TestAvailabilityMissingDate(t *testing.T) {
	svc := &mockAppointmentService{
		availabilityFunc: func(context.Context, int64, string) (*model.DayAvailability, error) {
			t.Error("service must not be called without a date")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors/1/availability", nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAvailabilityServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"bad date", apperrors.InvalidInput("invalid date, must be YYYY-MM-DD"), http.StatusBadRequest},
		{"doctor not found", apperrors.NotFoundWithID("Doctor", "9"), http.StatusNotFound},
		{"storage failure", apperrors.Internal("Failed to load appointments", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAppointmentService{
				availabilityFunc: func(context.Context, int64, string) (*model.DayAvailability, error) {
					return nil, tt.serviceErr
				},
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors/9/availability?date=bad", nil)
			rec := httptest.NewRecorder()

			newTestRouter(svc).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}
