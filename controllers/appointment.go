package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/storage"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/workflow"
)

type scheduleRequest struct {
	PropertyID string            `json:"propertyId"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	Notes      string            `json:"notes"`
	Guest      *models.GuestInfo `json:"guestInfo,omitempty"`
}

// ScheduleAppointment books a viewing. On the public route the body must
// carry guestInfo; on the authenticated route the booking is tied to the
// requester and any guestInfo in the body is rejected by the workflow.
func ScheduleAppointment(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Printf("Invalid appointment payload: %v", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		propertyID, err := primitive.ObjectIDFromHex(body.PropertyID)
		if err != nil {
			http.Error(w, "Invalid property ID", http.StatusBadRequest)
			return
		}

		req := workflow.ScheduleRequest{
			PropertyID: propertyID,
			Date:       body.Date,
			Time:       body.Time,
			Notes:      body.Notes,
			Guest:      body.Guest,
		}
		if actor, ok := actorFromContext(r); ok {
			id := actor.ID
			req.UserID = &id
		}

		appt, err := svc.ScheduleViewing(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, appt)
	}
}

// MyAppointments lists the requester's bookings.
func MyAppointments(appointments *storage.AppointmentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromContext(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		result, err := appointments.ByUser(r.Context(), actor.ID)
		if err != nil {
			log.Printf("Error fetching appointments for user %s: %v", actor.ID.Hex(), err)
			http.Error(w, "Error fetching appointments", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func CancelAppointment(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromContext(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
			return
		}

		var body struct {
			Reason string `json:"cancelReason"`
		}
		if r.Body != nil {
			// Reason is optional; an empty body cancels without one.
			_ = json.NewDecoder(r.Body).Decode(&body)
		}

		if err := svc.CancelAppointment(r.Context(), actor, id, body.Reason); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment cancelled"})
	}
}

func SubmitFeedback(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromContext(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
			return
		}

		var body struct {
			Rating  int    `json:"rating"`
			Comment string `json:"comment"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := svc.SubmitFeedback(r.Context(), actor, id, body.Rating, body.Comment); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Feedback recorded"})
	}
}
